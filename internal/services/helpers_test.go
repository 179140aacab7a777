package services

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/studyhall/membership-backend/internal/config"
	"github.com/studyhall/membership-backend/internal/database"
	"github.com/studyhall/membership-backend/internal/models"
)

// testEnv bundles a fresh store file and the repositories the service
// tests need. Every test gets its own database under t.TempDir.
type testEnv struct {
	db            *database.SQLiteDB
	members       *database.MemberRepository
	plans         *database.PlanRepository
	payments      *database.PaymentRepository
	attendance    *database.AttendanceRepository
	notifications *database.NotificationRepository
	settings      *database.SettingsRepository
	logger        *logrus.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewConnection(config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &testEnv{
		db:            db,
		members:       database.NewMemberRepository(db),
		plans:         database.NewPlanRepository(db),
		payments:      database.NewPaymentRepository(db),
		attendance:    database.NewAttendanceRepository(db),
		notifications: database.NewNotificationRepository(db),
		settings:      database.NewSettingsRepository(db),
		logger:        logger,
	}
}

func (e *testEnv) membershipService() *MembershipService {
	return NewMembershipService(e.db, e.members, e.plans, e.payments, e.logger)
}

func (e *testEnv) attendanceService() *AttendanceService {
	return NewAttendanceService(e.attendance, e.members, e.logger)
}

// fixedClock returns a clock function pinned to the given local date
func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 10, 30, 0, 0, time.Local)
	}
}

// enrollActiveMember enrolls a member on the seeded Monthly plan (30 days)
func enrollActiveMember(t *testing.T, svc *MembershipService, name string) *models.Member {
	t.Helper()
	member, err := svc.Enroll(models.EnrollMemberRequest{
		Name:   name,
		Phone:  "5551234",
		PlanID: 1,
	})
	require.NoError(t, err)
	return member
}
