package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	apperrors "github.com/UjjawalSah/MailScheduler/internal/errors"
	"github.com/UjjawalSah/MailScheduler/internal/model"
)

// CampaignRepositoryInterface defines methods used by the service layer.
type CampaignRepositoryInterface interface {
	Create(c *model.Campaign) error
	GetByFormID(formID string) (*model.Campaign, error)
	SetJobID(formID, jobID string) error
}

type CampaignRepository struct {
	DB *sql.DB
}

// Create persists a new campaign document and fills in the generated unique
// form identifier.
func (r *CampaignRepository) Create(c *model.Campaign) error {
	if c.FormID == "" {
		c.FormID = uuid.New().String()
	}
	c.CreatedAt = time.Now()

	query := `
        INSERT INTO campaigns
            (form_id, account_email, sender_email, recipient_emails, title, content, scheduled_datetime, attachments, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `
	err := r.DB.QueryRow(
		query,
		c.FormID,
		c.AccountEmail,
		c.SenderEmail,
		pq.Array(c.RecipientEmails),
		c.Title,
		c.Content,
		c.ScheduledDateTime,
		pq.Array(c.Attachments),
		c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		return apperrors.NewPersistence("insert campaign", err)
	}
	return nil
}

func (r *CampaignRepository) GetByFormID(formID string) (*model.Campaign, error) {
	query := `
        SELECT id, form_id, account_email, sender_email, recipient_emails, title, content, scheduled_datetime, attachments, job_id, created_at
        FROM campaigns
        WHERE form_id=$1
    `
	var c model.Campaign
	err := r.DB.QueryRow(query, formID).Scan(
		&c.ID,
		&c.FormID,
		&c.AccountEmail,
		&c.SenderEmail,
		pq.Array(&c.RecipientEmails),
		&c.Title,
		&c.Content,
		&c.ScheduledDateTime,
		pq.Array(&c.Attachments),
		&c.JobID,
		&c.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NewNotFound("campaign", formID)
		}
		return nil, apperrors.NewPersistence("select campaign", err)
	}
	return &c, nil
}

// SetJobID records the derived job id once scheduling has succeeded. The
// campaign is otherwise immutable after submission.
func (r *CampaignRepository) SetJobID(formID, jobID string) error {
	query := `UPDATE campaigns SET job_id=$1 WHERE form_id=$2`
	if _, err := r.DB.Exec(query, jobID, formID); err != nil {
		return apperrors.NewPersistence("update campaign job_id", err)
	}
	return nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
