// internal/model/campaign.go
package model

import "time"

// Campaign is one user-submitted request to send an email to one or more
// recipients at a future time. It is created once at form submission and is
// immutable afterwards, except for the derived JobID which is appended once
// scheduling succeeds.
type Campaign struct {
	ID                int       `db:"id" json:"id"`
	FormID            string    `db:"form_id" json:"formId"`
	AccountEmail      string    `db:"account_email" json:"accountEmail"`
	SenderEmail       string    `db:"sender_email" json:"senderEmail,omitempty"`
	RecipientEmails   []string  `db:"recipient_emails" json:"recipientEmails"`
	Title             string    `db:"title" json:"title"`
	Content           string    `db:"content" json:"content"`
	ScheduledDateTime string    `db:"scheduled_datetime" json:"scheduledDateTime"`
	Attachments       []string  `db:"attachments" json:"attachments,omitempty"`
	JobID             string    `db:"job_id" json:"job_id,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}
