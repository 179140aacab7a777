package models

import "time"

// Notification statuses.
const (
	NotificationPending = "pending"
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
)

// Notification types.
const (
	NotifyEmail    = "email"
	NotifyWhatsApp = "whatsapp"
	NotifySMS      = "sms"
)

// Notification tracks one reminder sent (or attempted) to a member.
// Rows move pending -> sent|failed and are purged by the weekly cleanup
// job once older than the retention window.
type Notification struct {
	ID           int64      `json:"id" db:"id"`
	MemberID     int64      `json:"member_id" db:"member_id"`
	Type         string     `json:"type" db:"type"`
	Subject      *string    `json:"subject,omitempty" db:"subject"`
	Message      *string    `json:"message,omitempty" db:"message"`
	Status       string     `json:"status" db:"status"`
	SentAt       *time.Time `json:"sent_at,omitempty" db:"sent_at"`
	ErrorMessage *string    `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
