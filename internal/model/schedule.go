// internal/model/schedule.go
package model

import "time"

type EmailStatus string

const (
	StatusScheduled EmailStatus = "Scheduled"
	StatusCancelled EmailStatus = "Cancelled"
	StatusSent      EmailStatus = "Sent"
	StatusFailed    EmailStatus = "Failed"
)

// Terminal reports whether no further transition is allowed out of s. A
// record only ever moves Scheduled -> {Sent, Failed, Cancelled}.
func (s EmailStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusSent || s == StatusFailed
}

// ScheduleRecord tracks the schedule status and engagement counters of a
// campaign, keyed by (form_id, account_email) and additionally indexed by
// job_id for tracking callbacks. Counters are monotonically non-decreasing
// and independent of status.
type ScheduleRecord struct {
	ID                int         `db:"id" json:"id"`
	FormID            string      `db:"form_id" json:"formId"`
	AccountEmail      string      `db:"account_email" json:"accountEmail"`
	JobID             string      `db:"job_id" json:"job_id"`
	EmailStatus       EmailStatus `db:"email_status" json:"emailStatus"`
	Sender            string      `db:"sender" json:"sender"`
	PrimaryRecipient  string      `db:"primary_recipient" json:"primaryRecipient"`
	OpenRate          int         `db:"open_rate" json:"openRate"`
	ClickThroughRate  int         `db:"click_through_rate" json:"clickThroughRate"`
	ScheduledDateTime string      `db:"scheduled_datetime" json:"scheduledDateTime"`
	SentDateTime      *time.Time  `db:"sent_datetime" json:"sentDateTime,omitempty"`
}
