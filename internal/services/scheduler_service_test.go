package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyhall/membership-backend/internal/config"
	"github.com/studyhall/membership-backend/internal/models"
)

func newSchedulerService(t *testing.T, env *testEnv) *SchedulerService {
	t.Helper()

	sender := &recordingSender{}
	notifier := env.notifierService(sender)
	backup, _ := newBackupService(t, env, 30)

	return NewSchedulerService(config.SchedulerConfig{
		SweepSpec:    "0 * * * *",
		ReminderSpec: "0 9 * * *",
		CleanupSpec:  "0 1 * * 0",
		BackupSpec:   "0 2 * * *",
	}, env.members, notifier, backup, env.logger)
}

func TestExpirySweep_MarksOnlyActivePastDue(t *testing.T) {
	env := newTestEnv(t)
	members := env.membershipService()
	members.SetNow(fixedClock(2024, time.January, 1))

	pastDue := enrollActiveMember(t, members, "Asha")    // ends 2024-01-31
	suspended := enrollActiveMember(t, members, "Ravi")  // ends 2024-01-31
	require.NoError(t, members.Suspend(suspended.ID))

	current, err := members.Enroll(models.EnrollMemberRequest{
		Name: "Maya", Phone: "5559999", PlanID: 4, // annual plan
	})
	require.NoError(t, err)

	scheduler := newSchedulerService(t, env)
	scheduler.now = fixedClock(2024, time.February, 10)

	expired, err := scheduler.RunExpirySweepNow()
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	got, err := members.GetMember(pastDue.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberExpired, got.Status)

	// Suspension survives the sweep
	got, err = members.GetMember(suspended.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberSuspended, got.Status)

	got, err = members.GetMember(current.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberActive, got.Status)
}

func TestExpirySweep_EndDateTodayStillActive(t *testing.T) {
	env := newTestEnv(t)
	members := env.membershipService()
	members.SetNow(fixedClock(2024, time.January, 1))
	member := enrollActiveMember(t, members, "Asha") // ends 2024-01-31

	scheduler := newSchedulerService(t, env)

	// The membership is good through its end date; expiry is strictly after
	scheduler.now = fixedClock(2024, time.January, 31)
	expired, err := scheduler.RunExpirySweepNow()
	require.NoError(t, err)
	assert.Zero(t, expired)

	scheduler.now = fixedClock(2024, time.February, 1)
	expired, err = scheduler.RunExpirySweepNow()
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	got, err := members.GetMember(member.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberExpired, got.Status)
}

func TestExpirySweep_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	members := env.membershipService()
	members.SetNow(fixedClock(2024, time.January, 1))
	enrollActiveMember(t, members, "Asha")

	scheduler := newSchedulerService(t, env)
	scheduler.now = fixedClock(2024, time.March, 1)

	expired, err := scheduler.RunExpirySweepNow()
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	expired, err = scheduler.RunExpirySweepNow()
	require.NoError(t, err)
	assert.Zero(t, expired)
}

func TestScheduler_StartStop(t *testing.T) {
	env := newTestEnv(t)
	scheduler := newSchedulerService(t, env)

	require.NoError(t, scheduler.Start())
	// A second Start is a no-op, not a double registration
	require.NoError(t, scheduler.Start())

	running, jobs := scheduler.Status()
	assert.True(t, running)
	require.Len(t, jobs, 4)
	for _, job := range jobs {
		assert.NotNil(t, job.NextRun, "job %s should have a next run", job.Name)
	}

	scheduler.Stop()
	scheduler.Stop()

	running, jobs = scheduler.Status()
	assert.False(t, running)
	assert.Len(t, jobs, 4)
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	env := newTestEnv(t)
	sender := &recordingSender{}
	notifier := env.notifierService(sender)
	backup, _ := newBackupService(t, env, 30)

	scheduler := NewSchedulerService(config.SchedulerConfig{
		SweepSpec:    "not a cron spec",
		ReminderSpec: "0 9 * * *",
		CleanupSpec:  "0 1 * * 0",
		BackupSpec:   "0 2 * * *",
	}, env.members, notifier, backup, env.logger)

	assert.Error(t, scheduler.Start())
}

func TestScheduler_ManualTriggersWithoutStart(t *testing.T) {
	env := newTestEnv(t)
	members := env.membershipService()
	members.SetNow(fixedClock(2024, time.January, 1))
	enrollActiveMember(t, members, "Asha")

	sender := &recordingSender{}
	notifier := env.notifierService(sender)
	notifier.SetNow(fixedClock(2024, time.January, 25))
	backup, _ := newBackupService(t, env, 30)

	scheduler := NewSchedulerService(config.SchedulerConfig{
		SweepSpec:    "0 * * * *",
		ReminderSpec: "0 9 * * *",
		CleanupSpec:  "0 1 * * 0",
		BackupSpec:   "0 2 * * *",
	}, env.members, notifier, backup, env.logger)
	scheduler.now = fixedClock(2024, time.January, 25)

	// Triggers work whether or not the cron loop is running
	report, err := scheduler.TriggerExpiryReminders()
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)

	result, err := scheduler.TriggerBackup()
	require.NoError(t, err)
	assert.NotNil(t, result)
}
