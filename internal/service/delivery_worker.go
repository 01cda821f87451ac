package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/UjjawalSah/MailScheduler/internal/mailer"
	"github.com/UjjawalSah/MailScheduler/internal/model"
	"github.com/UjjawalSah/MailScheduler/internal/render"
	"github.com/UjjawalSah/MailScheduler/internal/repository"
)

// DeliveryWorker renders and sends a campaign when its timer fires, then
// records the terminal status. It runs on the scheduler's timer goroutines.
type DeliveryWorker struct {
	ScheduleRepo    repository.ScheduleRepositoryInterface
	Mailer          mailer.Sender
	TrackingBaseURL string
	Log             *logrus.Logger
}

// Deliver builds the tracked HTML body, sends the email to all recipients
// and moves the schedule record to Sent or Failed. Errors are logged, never
// returned: there is no caller on the timer path to hand them to.
func (w *DeliveryWorker) Deliver(campaign *model.Campaign, jobID, sender string) {
	body := render.Render(campaign.Content, w.TrackingBaseURL, jobID)

	subject := campaign.Title
	if subject == "" {
		subject = "No Subject"
	}

	msg := &mailer.Message{
		From:        sender,
		To:          campaign.RecipientEmails,
		Subject:     subject,
		HTMLBody:    body,
		Attachments: campaign.Attachments,
	}

	if err := w.Mailer.Send(msg); err != nil {
		w.Log.WithFields(logrus.Fields{
			"job_id":  jobID,
			"form_id": campaign.FormID,
		}).WithError(err).Error("email delivery failed")
		if err := w.ScheduleRepo.MarkStatusByJobID(jobID, model.StatusFailed, time.Now()); err != nil {
			w.Log.WithField("job_id", jobID).WithError(err).Error("failed to record failed delivery")
		}
		return
	}

	if err := w.ScheduleRepo.MarkStatusByJobID(jobID, model.StatusSent, time.Now()); err != nil {
		w.Log.WithField("job_id", jobID).WithError(err).Error("failed to record sent delivery")
		return
	}

	w.Log.WithFields(logrus.Fields{
		"job_id":     jobID,
		"form_id":    campaign.FormID,
		"recipients": len(campaign.RecipientEmails),
	}).Info("email delivered")
}
