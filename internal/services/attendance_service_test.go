package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyhall/membership-backend/internal/apperrors"
	"github.com/studyhall/membership-backend/internal/models"
)

func TestCheckIn_OpensSession(t *testing.T) {
	env := newTestEnv(t)
	members := env.membershipService()
	attendance := env.attendanceService()

	member := enrollActiveMember(t, members, "Asha")

	session, err := attendance.CheckIn(member.ID, models.SourceManual)
	require.NoError(t, err)
	assert.NotZero(t, session.ID)
	assert.Equal(t, member.ID, session.MemberID)
	assert.Equal(t, models.SourceManual, session.Source)
}

func TestCheckIn_DoubleCheckInConflicts(t *testing.T) {
	env := newTestEnv(t)
	members := env.membershipService()
	attendance := env.attendanceService()

	member := enrollActiveMember(t, members, "Asha")

	_, err := attendance.CheckIn(member.ID, models.SourceManual)
	require.NoError(t, err)

	_, err = attendance.CheckIn(member.ID, models.SourceBiometric)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestCheckOut_ClosesSession(t *testing.T) {
	env := newTestEnv(t)
	members := env.membershipService()
	attendance := env.attendanceService()

	member := enrollActiveMember(t, members, "Asha")
	_, err := attendance.CheckIn(member.ID, models.SourceManual)
	require.NoError(t, err)

	require.NoError(t, attendance.CheckOut(member.ID))

	sessions, err := attendance.Today()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.NotNil(t, sessions[0].CheckOut)
}

func TestCheckOut_NoOpenSession(t *testing.T) {
	env := newTestEnv(t)
	members := env.membershipService()
	attendance := env.attendanceService()

	member := enrollActiveMember(t, members, "Asha")

	err := attendance.CheckOut(member.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestCheckIn_AgainAfterCheckOut(t *testing.T) {
	env := newTestEnv(t)
	members := env.membershipService()
	attendance := env.attendanceService()

	member := enrollActiveMember(t, members, "Asha")

	// The rule is one OPEN session per day; a closed session does not
	// block a later visit the same day
	_, err := attendance.CheckIn(member.ID, models.SourceManual)
	require.NoError(t, err)
	require.NoError(t, attendance.CheckOut(member.ID))

	_, err = attendance.CheckIn(member.ID, models.SourceManual)
	assert.NoError(t, err)

	sessions, err := attendance.Today()
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestCheckIn_OnlyActiveMembers(t *testing.T) {
	env := newTestEnv(t)
	members := env.membershipService()
	attendance := env.attendanceService()

	member := enrollActiveMember(t, members, "Asha")
	require.NoError(t, members.Suspend(member.ID))

	_, err := attendance.CheckIn(member.ID, models.SourceManual)
	assert.True(t, apperrors.IsKind(err, apperrors.KindState))
}

func TestCheckIn_UnknownMemberAndSource(t *testing.T) {
	env := newTestEnv(t)
	members := env.membershipService()
	attendance := env.attendanceService()

	_, err := attendance.CheckIn(999, models.SourceManual)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	member := enrollActiveMember(t, members, "Asha")
	_, err = attendance.CheckIn(member.ID, "carrier-pigeon")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestList_ByDateRange(t *testing.T) {
	env := newTestEnv(t)
	members := env.membershipService()
	attendance := env.attendanceService()

	member := enrollActiveMember(t, members, "Asha")

	attendance.SetNow(fixedClock(2024, time.March, 10))
	_, err := attendance.CheckIn(member.ID, models.SourceManual)
	require.NoError(t, err)

	rows, err := attendance.List(models.AttendanceFilter{
		DateFrom: "2024-03-01",
		DateTo:   "2024-03-31",
	})
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = attendance.List(models.AttendanceFilter{
		DateFrom: "2024-04-01",
		DateTo:   "2024-04-30",
	})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
