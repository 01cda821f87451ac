package repository

import (
	"database/sql"
	"fmt"
	"time"

	apperrors "github.com/UjjawalSah/MailScheduler/internal/errors"
	"github.com/UjjawalSah/MailScheduler/internal/model"
)

// Counter names a schedule counter that may be incremented atomically.
type Counter string

const (
	CounterOpen  Counter = "open_rate"
	CounterClick Counter = "click_through_rate"
)

// ScheduleRepositoryInterface defines methods used by the service layer and
// the tracking endpoint.
type ScheduleRepositoryInterface interface {
	Upsert(rec *model.ScheduleRecord) error
	FindByJobID(jobID string) (*model.ScheduleRecord, error)
	FindByForm(formID, accountEmail string) (*model.ScheduleRecord, error)
	IncrementCounter(jobID string, counter Counter, delta int) error
	MarkStatusByJobID(jobID string, status model.EmailStatus, sentAt time.Time) error
	MarkStatusByForm(formID, accountEmail string, status model.EmailStatus) error
	ListScheduled() ([]*model.ScheduleRecord, error)
}

type ScheduleRepository struct {
	DB *sql.DB
}

// Upsert inserts or overwrites the schedule record keyed by
// (form_id, account_email). Counters restart at zero on re-schedule and the
// previous send timestamp is cleared; concurrent upserts for the same key
// serialize on the unique constraint, last writer wins.
func (r *ScheduleRepository) Upsert(rec *model.ScheduleRecord) error {
	query := `
        INSERT INTO email_schedules
            (form_id, account_email, job_id, email_status, sender, primary_recipient, open_rate, click_through_rate, scheduled_datetime)
        VALUES ($1, $2, $3, $4, $5, $6, 0, 0, $7)
        ON CONFLICT (form_id, account_email) DO UPDATE SET
            job_id = EXCLUDED.job_id,
            email_status = EXCLUDED.email_status,
            sender = EXCLUDED.sender,
            primary_recipient = EXCLUDED.primary_recipient,
            open_rate = 0,
            click_through_rate = 0,
            scheduled_datetime = EXCLUDED.scheduled_datetime,
            sent_datetime = NULL
    `
	_, err := r.DB.Exec(
		query,
		rec.FormID,
		rec.AccountEmail,
		rec.JobID,
		rec.EmailStatus,
		rec.Sender,
		rec.PrimaryRecipient,
		rec.ScheduledDateTime,
	)
	if err != nil {
		return apperrors.NewPersistence("upsert schedule", err)
	}
	return nil
}

func (r *ScheduleRepository) FindByJobID(jobID string) (*model.ScheduleRecord, error) {
	query := selectSchedule + ` WHERE job_id=$1`
	return r.findOne(query, jobID, jobID)
}

func (r *ScheduleRepository) FindByForm(formID, accountEmail string) (*model.ScheduleRecord, error) {
	query := selectSchedule + ` WHERE form_id=$1 AND account_email=$2`
	return r.findOne(query, formID, formID, accountEmail)
}

const selectSchedule = `
        SELECT id, form_id, account_email, job_id, email_status, sender, primary_recipient, open_rate, click_through_rate, scheduled_datetime, sent_datetime
        FROM email_schedules`

func (r *ScheduleRepository) findOne(query, key string, args ...interface{}) (*model.ScheduleRecord, error) {
	var rec model.ScheduleRecord
	err := r.DB.QueryRow(query, args...).Scan(
		&rec.ID,
		&rec.FormID,
		&rec.AccountEmail,
		&rec.JobID,
		&rec.EmailStatus,
		&rec.Sender,
		&rec.PrimaryRecipient,
		&rec.OpenRate,
		&rec.ClickThroughRate,
		&rec.ScheduledDateTime,
		&rec.SentDateTime,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewNotFound("schedule", key)
		}
		return nil, apperrors.NewPersistence("select schedule", err)
	}
	return &rec, nil
}

// IncrementCounter atomically adds delta to one of the engagement counters.
// The increment happens inside the UPDATE so concurrent tracking callbacks
// never lose updates. A missing record is reported as not-found; callers on
// the tracking path log and swallow it.
func (r *ScheduleRepository) IncrementCounter(jobID string, counter Counter, delta int) error {
	var col string
	switch counter {
	case CounterOpen:
		col = "open_rate"
	case CounterClick:
		col = "click_through_rate"
	default:
		return apperrors.NewValidation("unknown counter %q", string(counter))
	}

	query := fmt.Sprintf(`UPDATE email_schedules SET %s = %s + $1 WHERE job_id = $2`, col, col)
	res, err := r.DB.Exec(query, delta, jobID)
	if err != nil {
		return apperrors.NewPersistence("increment "+col, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewPersistence("increment "+col, err)
	}
	if affected == 0 {
		return apperrors.NewNotFound("schedule", jobID)
	}
	return nil
}

// MarkStatusByJobID transitions a record out of Scheduled and stamps the
// send time. Rows already in a terminal state never match the guard, so the
// transition is forward-only; not-found covers both a missing record and an
// already-terminal one.
func (r *ScheduleRepository) MarkStatusByJobID(jobID string, status model.EmailStatus, sentAt time.Time) error {
	query := `
        UPDATE email_schedules
        SET email_status=$1, sent_datetime=$2
        WHERE job_id=$3 AND email_status=$4
    `
	res, err := r.DB.Exec(query, status, sentAt, jobID, model.StatusScheduled)
	if err != nil {
		return apperrors.NewPersistence("update schedule status", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewPersistence("update schedule status", err)
	}
	if affected == 0 {
		return apperrors.NewNotFound("schedule", jobID)
	}
	return nil
}

// MarkStatusByForm is the cancellation-path variant of MarkStatusByJobID,
// keyed by the caller-visible identity and without a send timestamp.
func (r *ScheduleRepository) MarkStatusByForm(formID, accountEmail string, status model.EmailStatus) error {
	query := `
        UPDATE email_schedules
        SET email_status=$1
        WHERE form_id=$2 AND account_email=$3 AND email_status=$4
    `
	res, err := r.DB.Exec(query, status, formID, accountEmail, model.StatusScheduled)
	if err != nil {
		return apperrors.NewPersistence("update schedule status", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewPersistence("update schedule status", err)
	}
	if affected == 0 {
		return apperrors.NewNotFound("schedule", formID)
	}
	return nil
}

// ListScheduled returns every record still in Scheduled status. Used by the
// startup recovery sweep to re-register timers lost on restart.
func (r *ScheduleRepository) ListScheduled() ([]*model.ScheduleRecord, error) {
	query := selectSchedule + ` WHERE email_status=$1 ORDER BY id`
	rows, err := r.DB.Query(query, model.StatusScheduled)
	if err != nil {
		return nil, apperrors.NewPersistence("list scheduled", err)
	}
	defer rows.Close()

	records := []*model.ScheduleRecord{}
	for rows.Next() {
		rec := &model.ScheduleRecord{}
		if err := rows.Scan(
			&rec.ID,
			&rec.FormID,
			&rec.AccountEmail,
			&rec.JobID,
			&rec.EmailStatus,
			&rec.Sender,
			&rec.PrimaryRecipient,
			&rec.OpenRate,
			&rec.ClickThroughRate,
			&rec.ScheduledDateTime,
			&rec.SentDateTime,
		); err != nil {
			return nil, apperrors.NewPersistence("scan scheduled", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistence("list scheduled", err)
	}
	return records, nil
}

var _ ScheduleRepositoryInterface = (*ScheduleRepository)(nil)
