package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyhall/membership-backend/internal/models"
)

// recordingSender captures deliveries and can be told to fail
type recordingSender struct {
	sent []string // recipients in delivery order
	fail bool
}

func (s *recordingSender) Send(channel, recipient, subject, message string) error {
	if s.fail {
		return errors.New("gateway unreachable")
	}
	s.sent = append(s.sent, recipient)
	return nil
}

func (s *recordingSender) GetName() string { return "recording" }

func (e *testEnv) notifierService(sender *recordingSender) *NotifierService {
	return NewNotifierService(e.members, e.notifications, e.settings, sender, e.logger)
}

func TestSendExpiryReminders_RemindsExpiringMembers(t *testing.T) {
	env := newTestEnv(t)
	members := env.membershipService()
	members.SetNow(fixedClock(2024, time.January, 1))

	expiring := enrollActiveMember(t, members, "Asha") // ends 2024-01-31
	enrollActiveMember(t, members, "Ravi")             // also ends 2024-01-31

	sender := &recordingSender{}
	notifier := env.notifierService(sender)

	// 2024-01-25 is inside the 10-day lead window before 2024-01-31
	notifier.SetNow(fixedClock(2024, time.January, 25))
	report, err := notifier.SendExpiryReminders()
	require.NoError(t, err)
	assert.Equal(t, 2, report.Candidates)
	assert.Equal(t, 2, report.Sent)
	assert.Zero(t, report.Failed)
	assert.Len(t, sender.sent, 2)

	history, err := notifier.History(expiring.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.NotificationSent, history[0].Status)
}

func TestSendExpiryReminders_OncePerCycle(t *testing.T) {
	env := newTestEnv(t)
	members := env.membershipService()
	members.SetNow(fixedClock(2024, time.January, 1))
	enrollActiveMember(t, members, "Asha")

	sender := &recordingSender{}
	notifier := env.notifierService(sender)
	notifier.SetNow(fixedClock(2024, time.January, 25))

	_, err := notifier.SendExpiryReminders()
	require.NoError(t, err)

	// The next run inside the same cycle finds no candidates
	report, err := notifier.SendExpiryReminders()
	require.NoError(t, err)
	assert.Zero(t, report.Candidates)
	assert.Len(t, sender.sent, 1)
}

func TestSendExpiryReminders_OutsideLeadWindow(t *testing.T) {
	env := newTestEnv(t)
	members := env.membershipService()
	members.SetNow(fixedClock(2024, time.January, 1))
	enrollActiveMember(t, members, "Asha") // ends 2024-01-31

	sender := &recordingSender{}
	notifier := env.notifierService(sender)

	// 2024-01-10 is more than 10 days before the end date
	notifier.SetNow(fixedClock(2024, time.January, 10))
	report, err := notifier.SendExpiryReminders()
	require.NoError(t, err)
	assert.Zero(t, report.Candidates)
	assert.Empty(t, sender.sent)
}

func TestSendExpiryReminders_DeliveryFailureRecorded(t *testing.T) {
	env := newTestEnv(t)
	members := env.membershipService()
	members.SetNow(fixedClock(2024, time.January, 1))
	member := enrollActiveMember(t, members, "Asha")

	sender := &recordingSender{fail: true}
	notifier := env.notifierService(sender)
	notifier.SetNow(fixedClock(2024, time.January, 25))

	report, err := notifier.SendExpiryReminders()
	require.NoError(t, err)
	assert.Equal(t, 1, report.Candidates)
	assert.Equal(t, 1, report.Failed)

	history, err := notifier.History(member.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.NotificationFailed, history[0].Status)
	require.NotNil(t, history[0].ErrorMessage)
	assert.Contains(t, *history[0].ErrorMessage, "gateway unreachable")
}

func TestCleanupOldNotifications(t *testing.T) {
	env := newTestEnv(t)
	members := env.membershipService()
	member := enrollActiveMember(t, members, "Asha")

	// Backdate a notification past the 90-day retention default
	subject := "old"
	n := &models.Notification{MemberID: member.ID, Type: models.NotifyEmail, Subject: &subject}
	require.NoError(t, env.notifications.Create(n))
	_, err := env.db.Exec(
		`UPDATE notifications SET created_at = '2020-01-01 09:00:00' WHERE id = ?`, n.ID,
	)
	require.NoError(t, err)

	sender := &recordingSender{}
	notifier := env.notifierService(sender)

	removed, err := notifier.CleanupOldNotifications()
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	history, err := notifier.History(member.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}
