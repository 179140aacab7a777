package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/studyhall/membership-backend/internal/apperrors"
	"github.com/studyhall/membership-backend/internal/database"
	"github.com/studyhall/membership-backend/internal/models"
)

// MembershipService owns every mutation of member and payment rows.
// Renewals run as one store transaction so the membership window and the
// ledger entry always move together.
type MembershipService struct {
	db       database.DB
	members  *database.MemberRepository
	plans    *database.PlanRepository
	payments *database.PaymentRepository
	logger   *logrus.Logger

	// now is injectable so date arithmetic is deterministic in tests
	now func() time.Time
}

// NewMembershipService creates a new membership service
func NewMembershipService(
	db database.DB,
	members *database.MemberRepository,
	plans *database.PlanRepository,
	payments *database.PaymentRepository,
	logger *logrus.Logger,
) *MembershipService {
	return &MembershipService{
		db:       db,
		members:  members,
		plans:    plans,
		payments: payments,
		logger:   logger,
		now:      time.Now,
	}
}

// SetNow overrides the clock (tests only)
func (s *MembershipService) SetNow(now func() time.Time) {
	s.now = now
}

// today returns the current civil date at local midnight. All day-level
// arithmetic normalizes through this value, so a renewal exactly at
// midnight lands on whichever day time.Now() reports, evaluated once.
func (s *MembershipService) today() time.Time {
	t := s.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RenewalResult reports the outcome of a renewal.
type RenewalResult struct {
	MemberID      int64  `json:"member_id"`
	PaymentID     int64  `json:"payment_id"`
	ReceiptNumber string `json:"receipt_number"`
	NewEndDate    string `json:"new_end_date"`
}

// Enroll validates and creates a new member with status active
func (s *MembershipService) Enroll(req models.EnrollMemberRequest) (*models.Member, error) {
	if req.Name == "" {
		return nil, apperrors.Validation("member name is required")
	}
	if req.Email == "" && req.Phone == "" {
		return nil, apperrors.Validation("at least one contact field (email or phone) is required")
	}

	plan, err := s.plans.GetByID(req.PlanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Validation("plan %d not found", req.PlanID)
		}
		return nil, apperrors.Storage(err, "failed to load plan")
	}

	joinDate := s.today()
	if req.JoinDate != "" {
		joinDate, err = time.Parse(database.DateLayout, req.JoinDate)
		if err != nil {
			return nil, apperrors.Validation("invalid join_date %q, expected yyyy-mm-dd", req.JoinDate)
		}
	}

	if req.SeatNo != "" {
		taken, err := s.members.SeatTaken(req.SeatNo, 0)
		if err != nil {
			return nil, apperrors.Storage(err, "failed to check seat availability")
		}
		if taken {
			return nil, apperrors.Conflict("seat %s is already assigned to an active member", req.SeatNo)
		}
	}

	qrCode := fmt.Sprintf("SHM-%d", s.now().UnixMilli())
	member := &models.Member{
		Name:      req.Name,
		Email:     optional(req.Email),
		Phone:     optional(req.Phone),
		BirthDate: optional(req.BirthDate),
		City:      optional(req.City),
		Address:   optional(req.Address),
		SeatNo:    optional(req.SeatNo),
		PlanID:    &plan.ID,
		JoinDate:  joinDate,
		EndDate:   joinDate.AddDate(0, 0, plan.DurationDays),
		Status:    models.MemberActive,
		QRCode:    &qrCode,
	}

	if err := s.members.Create(member); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("seat %s is already assigned to an active member", req.SeatNo)
		}
		return nil, apperrors.Storage(err, "failed to create member")
	}

	s.logger.WithFields(logrus.Fields{
		"member_id": member.ID,
		"plan_id":   plan.ID,
		"end_date":  member.EndDate.Format(database.DateLayout),
	}).Info("Member enrolled")

	return member, nil
}

// Renew extends a membership and appends the payment in one transaction.
// The new end date is plan.duration days after the later of today and the
// current end date, so renewing early never costs paid time. Renewal
// reactivates an expired membership but never clears a suspension.
func (s *MembershipService) Renew(memberID, planID int64, req models.RenewMemberRequest, actorID *int64) (*RenewalResult, error) {
	if !models.ValidPaymentMode(req.Mode) {
		return nil, apperrors.Validation("invalid payment mode %q", req.Mode)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, apperrors.Storage(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	member, err := s.members.GetByIDTx(tx, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("member %d not found", memberID)
		}
		return nil, apperrors.Storage(err, "failed to load member")
	}

	plan, err := s.plans.GetByIDTx(tx, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("plan %d not found", planID)
		}
		return nil, apperrors.Storage(err, "failed to load plan")
	}

	if member.Status == models.MemberSuspended {
		return nil, apperrors.State("member %d is suspended; reactivate before renewing", memberID)
	}

	// Extend from whichever is later: today, or the paid-up end date.
	base := s.today()
	endDate := dateOnly(member.EndDate)
	if endDate.After(base) {
		base = endDate
	}
	newEndDate := base.AddDate(0, 0, plan.DurationDays)

	if err := s.members.RenewTx(tx, memberID, planID, newEndDate); err != nil {
		return nil, apperrors.Storage(err, "failed to update membership")
	}

	note := req.Note
	if note == "" {
		note = "Membership renewal"
	}
	payment := &models.Payment{
		MemberID:      memberID,
		Amount:        plan.Price,
		Mode:          req.Mode,
		PlanID:        &plan.ID,
		Note:          &note,
		ReceiptNumber: s.generateReceiptNumber(),
		CreatedBy:     actorID,
	}
	if err := s.payments.CreateTx(tx, payment); err != nil {
		return nil, apperrors.Storage(err, "failed to record renewal payment")
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Storage(err, "failed to commit renewal")
	}

	s.logger.WithFields(logrus.Fields{
		"member_id":    memberID,
		"plan_id":      planID,
		"new_end_date": newEndDate.Format(database.DateLayout),
		"receipt":      payment.ReceiptNumber,
	}).Info("Membership renewed")

	return &RenewalResult{
		MemberID:      memberID,
		PaymentID:     payment.ID,
		ReceiptNumber: payment.ReceiptNumber,
		NewEndDate:    newEndDate.Format(database.DateLayout),
	}, nil
}

// Suspend sets a member's status to suspended. Suspension is a terminal
// override: only Reactivate clears it, never the expiry sweep or a
// renewal. Suspending an already-suspended member is a no-op.
func (s *MembershipService) Suspend(memberID int64) error {
	return s.setStatus(memberID, models.MemberSuspended)
}

// Reactivate lifts a suspension. Reactivating an active member is a
// no-op; an expired member must renew instead.
func (s *MembershipService) Reactivate(memberID int64) error {
	member, err := s.GetMember(memberID)
	if err != nil {
		return err
	}
	if member.Status == models.MemberExpired {
		return apperrors.State("member %d is expired; renew the membership instead", memberID)
	}
	return s.setStatus(memberID, models.MemberActive)
}

func (s *MembershipService) setStatus(memberID int64, status string) error {
	member, err := s.GetMember(memberID)
	if err != nil {
		return err
	}
	if member.Status == status {
		return nil
	}

	if _, err := s.members.UpdateStatus(memberID, status); err != nil {
		return apperrors.Storage(err, "failed to update member status")
	}

	s.logger.WithFields(logrus.Fields{
		"member_id": memberID,
		"status":    status,
	}).Info("Member status changed")
	return nil
}

// RecordPayment appends an ad-hoc ledger entry (deposit, fee). It never
// touches the member's end date or status.
func (s *MembershipService) RecordPayment(req models.RecordPaymentRequest, actorID *int64) (*models.Payment, error) {
	if !models.ValidPaymentMode(req.Mode) {
		return nil, apperrors.Validation("invalid payment mode %q", req.Mode)
	}
	if req.Amount <= 0 {
		return nil, apperrors.Validation("payment amount must be positive")
	}

	if _, err := s.GetMember(req.MemberID); err != nil {
		return nil, err
	}

	receipt := req.ReceiptNumber
	if receipt == "" {
		receipt = s.generateReceiptNumber()
	}
	payment := &models.Payment{
		MemberID:      req.MemberID,
		Amount:        req.Amount,
		Mode:          req.Mode,
		Note:          optional(req.Note),
		ReceiptNumber: receipt,
		CreatedBy:     actorID,
	}

	if err := s.payments.Create(payment); err != nil {
		return nil, apperrors.Storage(err, "failed to record payment")
	}

	s.logger.WithFields(logrus.Fields{
		"member_id": req.MemberID,
		"amount":    req.Amount,
		"receipt":   receipt,
	}).Info("Payment recorded")
	return payment, nil
}

// GetMember retrieves a member with plan display fields
func (s *MembershipService) GetMember(memberID int64) (*models.Member, error) {
	member, err := s.members.GetByID(memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("member %d not found", memberID)
		}
		return nil, apperrors.Storage(err, "failed to load member")
	}
	return member, nil
}

// ListMembers retrieves members matching the filter
func (s *MembershipService) ListMembers(filter models.MemberFilter) ([]models.Member, error) {
	members, err := s.members.List(filter)
	if err != nil {
		return nil, apperrors.Storage(err, "failed to list members")
	}
	return members, nil
}

// UpdateMember edits a member's contact fields
func (s *MembershipService) UpdateMember(memberID int64, req models.UpdateMemberRequest) error {
	if _, err := s.GetMember(memberID); err != nil {
		return err
	}

	if req.SeatNo != nil && *req.SeatNo != "" {
		taken, err := s.members.SeatTaken(*req.SeatNo, memberID)
		if err != nil {
			return apperrors.Storage(err, "failed to check seat availability")
		}
		if taken {
			return apperrors.Conflict("seat %s is already assigned to an active member", *req.SeatNo)
		}
	}

	if err := s.members.Update(memberID, req); err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.Conflict("seat is already assigned to an active member")
		}
		return apperrors.Storage(err, "failed to update member")
	}
	return nil
}

// ListPayments retrieves ledger entries matching the filter
func (s *MembershipService) ListPayments(filter models.PaymentFilter) ([]models.Payment, error) {
	payments, err := s.payments.List(filter)
	if err != nil {
		return nil, apperrors.Storage(err, "failed to list payments")
	}
	return payments, nil
}

// ListPlans retrieves all plans
func (s *MembershipService) ListPlans() ([]models.Plan, error) {
	plans, err := s.plans.List()
	if err != nil {
		return nil, apperrors.Storage(err, "failed to list plans")
	}
	return plans, nil
}

// CreatePlan adds a new membership plan
func (s *MembershipService) CreatePlan(req models.CreatePlanRequest) (*models.Plan, error) {
	if req.DurationDays <= 0 {
		return nil, apperrors.Validation("plan duration must be positive")
	}
	if req.Price < 0 {
		return nil, apperrors.Validation("plan price cannot be negative")
	}

	plan := &models.Plan{
		Name:         req.Name,
		DurationDays: req.DurationDays,
		Price:        req.Price,
		Description:  optional(req.Description),
	}
	if err := s.plans.Create(plan); err != nil {
		return nil, apperrors.Storage(err, "failed to create plan")
	}
	return plan, nil
}

// SetFingerprintTemplate stores the enrolled template reference on the member
func (s *MembershipService) SetFingerprintTemplate(memberID int64, template string) error {
	if _, err := s.GetMember(memberID); err != nil {
		return err
	}
	if err := s.members.SetFingerprintTemplate(memberID, template); err != nil {
		return apperrors.Storage(err, "failed to store fingerprint template")
	}
	return nil
}

func (s *MembershipService) generateReceiptNumber() string {
	return fmt.Sprintf("RCP-%d", s.now().UnixMilli())
}

// dateOnly strips the time-of-day from a stored date value
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// optional converts an empty string to a NULL column value
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
