package database

import (
	"time"

	"github.com/studyhall/membership-backend/internal/models"
)

// NotificationRepository handles database operations for the notifications table
type NotificationRepository struct {
	db DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a pending notification
func (r *NotificationRepository) Create(n *models.Notification) error {
	result, err := r.db.Exec(`
		INSERT INTO notifications (member_id, type, subject, message, status)
		VALUES (?, ?, ?, ?, 'pending')
	`, n.MemberID, n.Type, n.Subject, n.Message)
	if err != nil {
		return err
	}

	n.ID, err = result.LastInsertId()
	n.Status = models.NotificationPending
	return err
}

// MarkSent records a successful delivery
func (r *NotificationRepository) MarkSent(id int64, sentAt time.Time) error {
	_, err := r.db.Exec(`
		UPDATE notifications
		SET status = 'sent', sent_at = ?, error_message = NULL
		WHERE id = ?
	`, sentAt.Format(DateTimeLayout), id)
	return err
}

// MarkFailed records a delivery failure with its error detail; the row
// stays eligible for a later retry pass
func (r *NotificationRepository) MarkFailed(id int64, errMsg string) error {
	_, err := r.db.Exec(`
		UPDATE notifications
		SET status = 'failed', error_message = ?
		WHERE id = ?
	`, errMsg, id)
	return err
}

// DeleteOlderThan purges notification history older than the cutoff date
func (r *NotificationRepository) DeleteOlderThan(cutoff string) (int64, error) {
	result, err := r.db.Exec(`
		DELETE FROM notifications
		WHERE DATE(created_at) < ?
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ListByMember retrieves a member's notification history, newest first
func (r *NotificationRepository) ListByMember(memberID int64) ([]models.Notification, error) {
	notifications := []models.Notification{}
	err := r.db.Select(&notifications, `
		SELECT id, member_id, type, subject, message, status, sent_at, error_message, created_at
		FROM notifications
		WHERE member_id = ?
		ORDER BY created_at DESC
	`, memberID)
	return notifications, err
}
