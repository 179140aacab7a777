package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/studyhall/membership-backend/internal/apperrors"
	"github.com/studyhall/membership-backend/internal/database"
	"github.com/studyhall/membership-backend/internal/models"
	"github.com/studyhall/membership-backend/pkg/notify"
)

const defaultReminderLeadDays = 10

// NotifierService sends expiry reminders to members whose membership
// window ends within the configured lead time, recording every attempt
// in the notifications table. One failing member never blocks the rest
// of the batch.
type NotifierService struct {
	members       *database.MemberRepository
	notifications *database.NotificationRepository
	settings      *database.SettingsRepository
	sender        notify.Sender
	logger        *logrus.Logger

	now func() time.Time
}

// NewNotifierService creates a new notifier service
func NewNotifierService(
	members *database.MemberRepository,
	notifications *database.NotificationRepository,
	settings *database.SettingsRepository,
	sender notify.Sender,
	logger *logrus.Logger,
) *NotifierService {
	return &NotifierService{
		members:       members,
		notifications: notifications,
		settings:      settings,
		sender:        sender,
		logger:        logger,
		now:           time.Now,
	}
}

// SetNow overrides the clock (tests only)
func (s *NotifierService) SetNow(now func() time.Time) {
	s.now = now
}

// ReminderReport summarizes one reminder run.
type ReminderReport struct {
	Candidates int `json:"candidates"`
	Sent       int `json:"sent"`
	Failed     int `json:"failed"`
}

// SendExpiryReminders finds members expiring within the lead window who
// have not been reminded this expiry cycle and sends each one a message.
// The cycle dedup lives in the candidate query: a member with a pending
// or sent notification created on or after (end_date - lead) is skipped,
// so a renewal naturally re-arms reminders by moving end_date forward.
func (s *NotifierService) SendExpiryReminders() (*ReminderReport, error) {
	leadDays, err := s.settings.GetInt(models.SettingNotificationDays, defaultReminderLeadDays)
	if err != nil {
		return nil, apperrors.Storage(err, "failed to read reminder lead setting")
	}

	today := s.now()
	from := today.Format(database.DateLayout)
	to := today.AddDate(0, 0, leadDays).Format(database.DateLayout)

	candidates, err := s.members.ExpiringWithin(from, to, leadDays)
	if err != nil {
		return nil, apperrors.Storage(err, "failed to find expiring members")
	}

	facility, _, err := s.settings.Get(models.SettingFacilityName)
	if err != nil {
		return nil, apperrors.Storage(err, "failed to read facility name setting")
	}
	if facility == "" {
		facility = "Study Hall"
	}

	report := &ReminderReport{Candidates: len(candidates)}
	for _, member := range candidates {
		if err := s.remind(member, facility); err != nil {
			report.Failed++
			s.logger.WithFields(logrus.Fields{
				"member_id": member.ID,
				"error":     err.Error(),
			}).Warn("Expiry reminder failed")
			continue
		}
		report.Sent++
	}

	s.logger.WithFields(logrus.Fields{
		"candidates": report.Candidates,
		"sent":       report.Sent,
		"failed":     report.Failed,
	}).Info("Expiry reminder run finished")
	return report, nil
}

// remind records and delivers one reminder. The notification row is
// created first so a delivery crash still leaves an audit trail.
func (s *NotifierService) remind(member models.Member, facility string) error {
	channel, recipient := s.channelFor(member)
	if recipient == "" {
		return fmt.Errorf("member has no contact details")
	}

	endDate := member.EndDate.Format(database.DateLayout)
	subject := fmt.Sprintf("%s: membership expiring soon", facility)
	message := fmt.Sprintf(
		"Dear %s, your membership ends on %s. Please renew at the front desk to keep your seat.",
		member.Name, endDate,
	)

	notification := &models.Notification{
		MemberID: member.ID,
		Type:     channel,
		Subject:  &subject,
		Message:  &message,
	}
	if err := s.notifications.Create(notification); err != nil {
		return fmt.Errorf("create notification record: %w", err)
	}

	if err := s.sender.Send(channel, recipient, subject, message); err != nil {
		if markErr := s.notifications.MarkFailed(notification.ID, err.Error()); markErr != nil {
			s.logger.WithField("notification_id", notification.ID).Error("Failed to record delivery failure")
		}
		return err
	}

	return s.notifications.MarkSent(notification.ID, s.now())
}

// channelFor picks the delivery channel: email when available, SMS to
// the phone otherwise
func (s *NotifierService) channelFor(member models.Member) (channel, recipient string) {
	if member.Email != nil && *member.Email != "" {
		return models.NotifyEmail, *member.Email
	}
	if member.Phone != nil && *member.Phone != "" {
		return models.NotifySMS, *member.Phone
	}
	return models.NotifyEmail, ""
}

// CleanupOldNotifications purges notification history older than the
// configured retention window and returns the number of rows removed.
func (s *NotifierService) CleanupOldNotifications() (int64, error) {
	retentionDays, err := s.settings.GetInt(models.SettingRetentionDays, 90)
	if err != nil {
		return 0, apperrors.Storage(err, "failed to read retention setting")
	}

	cutoff := s.now().AddDate(0, 0, -retentionDays).Format(database.DateLayout)
	removed, err := s.notifications.DeleteOlderThan(cutoff)
	if err != nil {
		return 0, apperrors.Storage(err, "failed to purge old notifications")
	}

	if removed > 0 {
		s.logger.WithFields(logrus.Fields{
			"removed": removed,
			"cutoff":  cutoff,
		}).Info("Old notifications purged")
	}
	return removed, nil
}

// History retrieves a member's notification history
func (s *NotifierService) History(memberID int64) ([]models.Notification, error) {
	notifications, err := s.notifications.ListByMember(memberID)
	if err != nil {
		return nil, apperrors.Storage(err, "failed to list notifications")
	}
	return notifications, nil
}
