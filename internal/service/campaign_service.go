package service

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "github.com/UjjawalSah/MailScheduler/internal/errors"
	"github.com/UjjawalSah/MailScheduler/internal/model"
	"github.com/UjjawalSah/MailScheduler/internal/repository"
	"github.com/UjjawalSah/MailScheduler/internal/scheduler"
)

// ScheduleTimeLayout is the wall-clock format campaign forms submit, e.g.
// "2026-08-31 7:30 PM". Times are interpreted in the server's local zone.
const ScheduleTimeLayout = "2006-01-02 3:04 PM"

const jobIDTimeLayout = "20060102150405"

// JobID derives the deterministic delivery job identifier from the form id
// and the parsed trigger time.
func JobID(formID string, at time.Time) string {
	return "email_" + formID + "_" + at.Format(jobIDTimeLayout)
}

// ParseScheduleTime parses the user-supplied schedule string in local time.
func ParseScheduleTime(value string) (time.Time, error) {
	return time.ParseInLocation(ScheduleTimeLayout, strings.TrimSpace(value), time.Local)
}

// CampaignService owns the submit/schedule/cancel lifecycle. It persists the
// campaign, derives the job id, registers the in-process timer and keeps the
// schedule record in step with it.
type CampaignService struct {
	CampaignRepo  repository.CampaignRepositoryInterface
	ScheduleRepo  repository.ScheduleRepositoryInterface
	Scheduler     *scheduler.Scheduler
	Worker        *DeliveryWorker
	DefaultSender string
	Log           *logrus.Logger

	// Now is swapped in tests to control the perceived current time.
	Now func() time.Time
}

func (s *CampaignService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// SubmitCampaign persists the campaign and schedules its delivery in one
// step. It returns the generated form id and the delivery job id.
func (s *CampaignService) SubmitCampaign(campaign *model.Campaign, accountEmail string) (string, string, error) {
	if err := s.CampaignRepo.Create(campaign); err != nil {
		return "", "", err
	}
	jobID, err := s.ScheduleEmail(campaign.FormID, accountEmail)
	if err != nil {
		return campaign.FormID, "", err
	}
	return campaign.FormID, jobID, nil
}

// ScheduleEmail registers delivery of a stored campaign. Calling it again
// for the same form replaces the pending timer and resets the schedule
// record, so the latest submission wins.
func (s *CampaignService) ScheduleEmail(formID, accountEmail string) (string, error) {
	if strings.TrimSpace(accountEmail) == "" {
		return "", apperrors.NewValidation("account email is required")
	}

	campaign, err := s.CampaignRepo.GetByFormID(formID)
	if err != nil {
		return "", err
	}

	if len(campaign.RecipientEmails) == 0 {
		return "", apperrors.NewValidation("campaign %s has no recipients", formID)
	}

	sender := strings.TrimSpace(campaign.SenderEmail)
	if sender == "" {
		sender = s.DefaultSender
		s.Log.WithField("form_id", formID).Warn("no sender on campaign, using default")
	}
	if sender == "" {
		return "", apperrors.NewValidation("no sender address available")
	}

	at, err := ParseScheduleTime(campaign.ScheduledDateTime)
	if err != nil {
		return "", apperrors.NewValidation("invalid schedule time %q", campaign.ScheduledDateTime)
	}
	if !at.After(s.now()) {
		return "", apperrors.NewValidation("schedule time %q is not in the future", campaign.ScheduledDateTime)
	}

	jobID := JobID(formID, at)
	if err := s.CampaignRepo.SetJobID(formID, jobID); err != nil {
		return "", err
	}

	s.Scheduler.Schedule(jobID, at, func() {
		s.Worker.Deliver(campaign, jobID, sender)
	})

	rec := &model.ScheduleRecord{
		FormID:            formID,
		AccountEmail:      accountEmail,
		JobID:             jobID,
		EmailStatus:       model.StatusScheduled,
		Sender:            sender,
		PrimaryRecipient:  campaign.RecipientEmails[0],
		ScheduledDateTime: campaign.ScheduledDateTime,
	}
	if err := s.ScheduleRepo.Upsert(rec); err != nil {
		// Without a Scheduled record the timer would deliver untracked mail.
		s.Scheduler.Cancel(jobID)
		return "", err
	}

	s.Log.WithFields(logrus.Fields{
		"job_id":  jobID,
		"form_id": formID,
		"at":      at.Format(time.RFC3339),
	}).Info("email scheduled")
	return jobID, nil
}

// CancelScheduledEmail cancels a pending delivery. It returns false with a
// nil error when there is nothing to cancel, either because the schedule is
// unknown or because the email already left.
func (s *CampaignService) CancelScheduledEmail(formID, accountEmail string) (bool, error) {
	if strings.TrimSpace(formID) == "" || strings.TrimSpace(accountEmail) == "" {
		return false, apperrors.NewValidation("form id and account email are required")
	}

	rec, err := s.ScheduleRepo.FindByForm(formID, accountEmail)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	if !s.Scheduler.Cancel(rec.JobID) {
		s.Log.WithField("job_id", rec.JobID).Warn("cancel requested but no pending timer")
		return false, nil
	}

	if err := s.ScheduleRepo.MarkStatusByForm(formID, accountEmail, model.StatusCancelled); err != nil {
		return false, err
	}
	s.Log.WithField("job_id", rec.JobID).Info("schedule cancelled")
	return true, nil
}

// RecoverPendingSchedules re-registers timers for records still marked
// Scheduled, typically after a restart. Records whose trigger time has
// already passed are marked Failed rather than delivered late. It returns
// the number of timers re-registered.
func (s *CampaignService) RecoverPendingSchedules() (int, error) {
	records, err := s.ScheduleRepo.ListScheduled()
	if err != nil {
		return 0, err
	}

	recovered := 0
	now := s.now()
	for _, rec := range records {
		at, err := ParseScheduleTime(rec.ScheduledDateTime)
		if err != nil {
			s.Log.WithFields(logrus.Fields{
				"job_id": rec.JobID,
				"value":  rec.ScheduledDateTime,
			}).Error("unparseable schedule time during recovery")
			continue
		}

		if !at.After(now) {
			if err := s.ScheduleRepo.MarkStatusByJobID(rec.JobID, model.StatusFailed, now); err != nil {
				s.Log.WithField("job_id", rec.JobID).WithError(err).Error("failed to expire missed schedule")
			} else {
				s.Log.WithField("job_id", rec.JobID).Warn("schedule missed while down, marked failed")
			}
			continue
		}

		campaign, err := s.CampaignRepo.GetByFormID(rec.FormID)
		if err != nil {
			s.Log.WithField("form_id", rec.FormID).WithError(err).Error("campaign missing during recovery")
			continue
		}

		jobID := rec.JobID
		sender := rec.Sender
		s.Scheduler.Schedule(jobID, at, func() {
			s.Worker.Deliver(campaign, jobID, sender)
		})
		recovered++
	}

	return recovered, nil
}
