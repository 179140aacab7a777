package database

import (
	"time"

	"github.com/studyhall/membership-backend/internal/models"
)

// AttendanceRepository handles database operations for the attendance table
type AttendanceRepository struct {
	db DB
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// GetOpenSession returns the open session for a member on the given day,
// or nil when none exists
func (r *AttendanceRepository) GetOpenSession(memberID int64, date string) (*models.Attendance, error) {
	sessions := []models.Attendance{}
	err := r.db.Select(&sessions, `
		SELECT id, member_id, check_in, check_out, source, created_at
		FROM attendance
		WHERE member_id = ? AND DATE(check_in) = ? AND check_out IS NULL
		ORDER BY check_in DESC
		LIMIT 1
	`, memberID, date)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return &sessions[0], nil
}

// CheckIn opens a new session. The partial unique index on open sessions
// turns a concurrent duplicate into a constraint error.
func (r *AttendanceRepository) CheckIn(memberID int64, source string, checkIn time.Time) (*models.Attendance, error) {
	result, err := r.db.Exec(`
		INSERT INTO attendance (member_id, check_in, source)
		VALUES (?, ?, ?)
	`, memberID, checkIn.Format(DateTimeLayout), source)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Attendance{ID: id, MemberID: memberID, CheckIn: checkIn, Source: source}, nil
}

// CheckOut closes the open session for the member on the given day and
// reports whether one existed
func (r *AttendanceRepository) CheckOut(memberID int64, date string, checkOut time.Time) (bool, error) {
	result, err := r.db.Exec(`
		UPDATE attendance
		SET check_out = ?
		WHERE member_id = ? AND DATE(check_in) = ? AND check_out IS NULL
	`, checkOut.Format(DateTimeLayout), memberID, date)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

// List retrieves attendance rows matching the filter, newest first
func (r *AttendanceRepository) List(filter models.AttendanceFilter) ([]models.Attendance, error) {
	query := `
		SELECT a.id, a.member_id, a.check_in, a.check_out, a.source, a.created_at,
			   m.name AS member_name, m.phone
		FROM attendance a
		JOIN members m ON a.member_id = m.id
		WHERE 1=1`
	args := []interface{}{}

	if filter.Date != "" {
		query += " AND DATE(a.check_in) = ?"
		args = append(args, filter.Date)
	}
	if filter.MemberID > 0 {
		query += " AND a.member_id = ?"
		args = append(args, filter.MemberID)
	}
	if filter.DateFrom != "" && filter.DateTo != "" {
		query += " AND DATE(a.check_in) BETWEEN ? AND ?"
		args = append(args, filter.DateFrom, filter.DateTo)
	}

	query += " ORDER BY a.check_in DESC"

	sessions := []models.Attendance{}
	err := r.db.Select(&sessions, query, args...)
	return sessions, err
}
