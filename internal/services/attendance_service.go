package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/studyhall/membership-backend/internal/apperrors"
	"github.com/studyhall/membership-backend/internal/database"
	"github.com/studyhall/membership-backend/internal/models"
)

// AttendanceService enforces the one-open-session-per-member-per-day
// rule above the attendance table. The partial unique index on open
// sessions backs the same rule at the store, so concurrent duplicates
// lose either way.
type AttendanceService struct {
	attendance *database.AttendanceRepository
	members    *database.MemberRepository
	logger     *logrus.Logger

	now func() time.Time
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(
	attendance *database.AttendanceRepository,
	members *database.MemberRepository,
	logger *logrus.Logger,
) *AttendanceService {
	return &AttendanceService{
		attendance: attendance,
		members:    members,
		logger:     logger,
		now:        time.Now,
	}
}

// SetNow overrides the clock (tests only)
func (s *AttendanceService) SetNow(now func() time.Time) {
	s.now = now
}

// CheckIn opens a session for the member. Source records who initiated
// it (desk operator or the biometric bridge).
func (s *AttendanceService) CheckIn(memberID int64, source string) (*models.Attendance, error) {
	if !models.ValidAttendanceSource(source) {
		return nil, apperrors.Validation("invalid attendance source %q", source)
	}

	member, err := s.members.GetByID(memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("member %d not found", memberID)
		}
		return nil, apperrors.Storage(err, "failed to load member")
	}
	if member.Status != models.MemberActive {
		return nil, apperrors.State("member %d is %s; only active members may check in", memberID, member.Status)
	}

	now := s.now()
	today := now.Format(database.DateLayout)

	open, err := s.attendance.GetOpenSession(memberID, today)
	if err != nil {
		return nil, apperrors.Storage(err, "failed to check for open session")
	}
	if open != nil {
		return nil, apperrors.Conflict("member %d already has an open session today", memberID)
	}

	session, err := s.attendance.CheckIn(memberID, source, now)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("member %d already has an open session today", memberID)
		}
		return nil, apperrors.Storage(err, "failed to open session")
	}

	s.logger.WithFields(logrus.Fields{
		"member_id": memberID,
		"source":    source,
	}).Info("Member checked in")
	return session, nil
}

// CheckOut closes today's open session for the member.
func (s *AttendanceService) CheckOut(memberID int64) error {
	now := s.now()
	today := now.Format(database.DateLayout)

	closed, err := s.attendance.CheckOut(memberID, today, now)
	if err != nil {
		return apperrors.Storage(err, "failed to close session")
	}
	if !closed {
		return apperrors.NotFound("member %d has no open session today", memberID)
	}

	s.logger.WithField("member_id", memberID).Info("Member checked out")
	return nil
}

// Today lists all sessions opened today, newest first
func (s *AttendanceService) Today() ([]models.Attendance, error) {
	return s.List(models.AttendanceFilter{Date: s.now().Format(database.DateLayout)})
}

// List retrieves sessions matching the filter
func (s *AttendanceService) List(filter models.AttendanceFilter) ([]models.Attendance, error) {
	sessions, err := s.attendance.List(filter)
	if err != nil {
		return nil, apperrors.Storage(err, "failed to list attendance")
	}
	return sessions, nil
}
