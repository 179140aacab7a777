package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyhall/membership-backend/internal/apperrors"
	"github.com/studyhall/membership-backend/internal/database"
	"github.com/studyhall/membership-backend/internal/models"
)

func TestEnroll_EndDateFromPlanDuration(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipService()
	svc.SetNow(fixedClock(2024, time.January, 1))

	member := enrollActiveMember(t, svc, "Asha")

	assert.Equal(t, models.MemberActive, member.Status)
	assert.Equal(t, "2024-01-01", member.JoinDate.Format(database.DateLayout))
	assert.Equal(t, "2024-01-31", member.EndDate.Format(database.DateLayout))
}

func TestEnroll_RequiresNameAndContact(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipService()

	_, err := svc.Enroll(models.EnrollMemberRequest{Phone: "5551234", PlanID: 1})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.Enroll(models.EnrollMemberRequest{Name: "Asha", PlanID: 1})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestEnroll_UnknownPlanRejected(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipService()

	_, err := svc.Enroll(models.EnrollMemberRequest{Name: "Asha", Phone: "5551234", PlanID: 999})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestEnroll_SeatConflict(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipService()

	_, err := svc.Enroll(models.EnrollMemberRequest{
		Name: "Asha", Phone: "5551234", PlanID: 1, SeatNo: "A1",
	})
	require.NoError(t, err)

	_, err = svc.Enroll(models.EnrollMemberRequest{
		Name: "Ravi", Phone: "5555678", PlanID: 1, SeatNo: "A1",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestEnroll_SeatFreedBySuspension(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipService()

	first, err := svc.Enroll(models.EnrollMemberRequest{
		Name: "Asha", Phone: "5551234", PlanID: 1, SeatNo: "A1",
	})
	require.NoError(t, err)
	require.NoError(t, svc.Suspend(first.ID))

	// The seat only binds active members
	_, err = svc.Enroll(models.EnrollMemberRequest{
		Name: "Ravi", Phone: "5555678", PlanID: 1, SeatNo: "A1",
	})
	assert.NoError(t, err)
}

func TestRenew_BeforeExpiryExtendsFromEndDate(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipService()
	svc.SetNow(fixedClock(2024, time.January, 1))

	member := enrollActiveMember(t, svc, "Asha") // ends 2024-01-31

	// Renewing early extends from the paid-up end date, not from today
	svc.SetNow(fixedClock(2024, time.January, 20))
	result, err := svc.Renew(member.ID, 1, models.RenewMemberRequest{PlanID: 1, Mode: models.PayCash}, nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", result.NewEndDate)
	assert.Contains(t, result.ReceiptNumber, "RCP-")

	// The ledger entry landed in the same transaction
	payments, err := svc.ListPayments(models.PaymentFilter{MemberID: member.ID})
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, 1000.0, payments[0].Amount)
	assert.Equal(t, models.PayCash, payments[0].Mode)
}

func TestRenew_AfterExpiryExtendsFromToday(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipService()
	svc.SetNow(fixedClock(2024, time.January, 1))

	member := enrollActiveMember(t, svc, "Asha") // ends 2024-01-31

	// Expire the member, then renew two weeks later
	_, err := env.members.MarkExpired("2024-02-01")
	require.NoError(t, err)

	svc.SetNow(fixedClock(2024, time.February, 15))
	result, err := svc.Renew(member.ID, 1, models.RenewMemberRequest{PlanID: 1, Mode: models.PayUPI}, nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-16", result.NewEndDate)

	// Renewal reactivates an expired membership
	renewed, err := svc.GetMember(member.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberActive, renewed.Status)
}

func TestRenew_SuspendedMemberRejected(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipService()

	member := enrollActiveMember(t, svc, "Asha")
	require.NoError(t, svc.Suspend(member.ID))

	_, err := svc.Renew(member.ID, 1, models.RenewMemberRequest{PlanID: 1, Mode: models.PayCash}, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindState))

	// No ledger entry for the rejected renewal
	payments, err := svc.ListPayments(models.PaymentFilter{MemberID: member.ID})
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestRenew_UnknownMemberOrPlan(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipService()

	_, err := svc.Renew(999, 1, models.RenewMemberRequest{PlanID: 1, Mode: models.PayCash}, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	member := enrollActiveMember(t, svc, "Asha")
	_, err = svc.Renew(member.ID, 999, models.RenewMemberRequest{PlanID: 999, Mode: models.PayCash}, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestSuspendAndReactivate(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipService()

	member := enrollActiveMember(t, svc, "Asha")

	require.NoError(t, svc.Suspend(member.ID))
	// Suspending again is a no-op
	require.NoError(t, svc.Suspend(member.ID))

	suspended, err := svc.GetMember(member.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberSuspended, suspended.Status)

	require.NoError(t, svc.Reactivate(member.ID))
	active, err := svc.GetMember(member.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberActive, active.Status)
}

func TestReactivate_ExpiredMemberRejected(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipService()
	svc.SetNow(fixedClock(2024, time.January, 1))

	member := enrollActiveMember(t, svc, "Asha")
	_, err := env.members.MarkExpired("2024-02-01")
	require.NoError(t, err)

	err = svc.Reactivate(member.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindState))
}

func TestRecordPayment_AdHocEntry(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipService()

	member := enrollActiveMember(t, svc, "Asha")
	before, err := svc.GetMember(member.ID)
	require.NoError(t, err)

	payment, err := svc.RecordPayment(models.RecordPaymentRequest{
		MemberID: member.ID,
		Amount:   250,
		Mode:     models.PayCard,
		Note:     "Locker deposit",
	}, nil)
	require.NoError(t, err)
	assert.NotZero(t, payment.ID)
	assert.NotEmpty(t, payment.ReceiptNumber)

	// Ad-hoc payments never move the membership window
	after, err := svc.GetMember(member.ID)
	require.NoError(t, err)
	assert.Equal(t, before.EndDate, after.EndDate)
	assert.Equal(t, before.Status, after.Status)
}

func TestRecordPayment_Validation(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipService()
	member := enrollActiveMember(t, svc, "Asha")

	_, err := svc.RecordPayment(models.RecordPaymentRequest{
		MemberID: member.ID, Amount: 100, Mode: "barter",
	}, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.RecordPayment(models.RecordPaymentRequest{
		MemberID: member.ID, Amount: -5, Mode: models.PayCash,
	}, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.RecordPayment(models.RecordPaymentRequest{
		MemberID: 999, Amount: 100, Mode: models.PayCash,
	}, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestListMembers_StatusFilter(t *testing.T) {
	env := newTestEnv(t)
	svc := env.membershipService()

	a := enrollActiveMember(t, svc, "Asha")
	enrollActiveMember(t, svc, "Ravi")
	require.NoError(t, svc.Suspend(a.ID))

	active, err := svc.ListMembers(models.MemberFilter{Status: models.MemberActive})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Ravi", active[0].Name)

	all, err := svc.ListMembers(models.MemberFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
