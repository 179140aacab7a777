package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/studyhall/membership-backend/internal/models"
)

// Storage layouts for civil dates and naive local timestamps. All date
// arithmetic happens in Go in the process-local timezone; SQL only ever
// compares preformatted strings, never DATE('now').
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

const memberColumns = `
	m.id, m.name, m.email, m.phone, m.birth_date, m.city, m.address,
	m.seat_no, m.plan_id, m.join_date, m.end_date, m.status,
	m.fingerprint_template, m.qr_code, m.created_at, m.updated_at,
	mp.name AS plan_name, mp.price AS plan_price`

// MemberRepository handles database operations for the members table
type MemberRepository struct {
	db DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Create inserts a new member
func (r *MemberRepository) Create(member *models.Member) error {
	result, err := r.db.Exec(`
		INSERT INTO members (name, email, phone, birth_date, city, address,
			seat_no, plan_id, join_date, end_date, status, qr_code)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		member.Name, member.Email, member.Phone, member.BirthDate,
		member.City, member.Address, member.SeatNo, member.PlanID,
		member.JoinDate.Format(DateLayout), member.EndDate.Format(DateLayout),
		member.Status, member.QRCode,
	)
	if err != nil {
		return err
	}

	member.ID, err = result.LastInsertId()
	return err
}

// GetByID retrieves a member by ID with plan display fields
func (r *MemberRepository) GetByID(id int64) (*models.Member, error) {
	var member models.Member
	err := r.db.Get(&member, `
		SELECT `+memberColumns+`
		FROM members m
		LEFT JOIN membership_plans mp ON m.plan_id = mp.id
		WHERE m.id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByIDTx retrieves a member inside an open transaction, without the
// plan join. Used by the renewal path so the read and the write see the
// same snapshot.
func (r *MemberRepository) GetByIDTx(tx *sqlx.Tx, id int64) (*models.Member, error) {
	var member models.Member
	err := tx.Get(&member, `
		SELECT id, name, email, phone, birth_date, city, address,
			   seat_no, plan_id, join_date, end_date, status,
			   fingerprint_template, qr_code, created_at, updated_at
		FROM members
		WHERE id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// List retrieves members matching the filter, newest first
func (r *MemberRepository) List(filter models.MemberFilter) ([]models.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members m
		LEFT JOIN membership_plans mp ON m.plan_id = mp.id
		WHERE 1=1`
	args := []interface{}{}

	if filter.Status != "" {
		query += " AND m.status = ?"
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		query += " AND (m.name LIKE ? OR m.email LIKE ? OR m.phone LIKE ?)"
		term := "%" + filter.Search + "%"
		args = append(args, term, term, term)
	}

	query += " ORDER BY m.created_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	members := []models.Member{}
	err := r.db.Select(&members, query, args...)
	return members, err
}

// Update applies the non-nil contact fields of req to the member
func (r *MemberRepository) Update(id int64, req models.UpdateMemberRequest) error {
	sets := []string{}
	args := []interface{}{}

	appendSet := func(column string, value *string) {
		if value != nil {
			sets = append(sets, column+" = ?")
			args = append(args, *value)
		}
	}
	appendSet("name", req.Name)
	appendSet("email", req.Email)
	appendSet("phone", req.Phone)
	appendSet("birth_date", req.BirthDate)
	appendSet("city", req.City)
	appendSet("address", req.Address)
	appendSet("seat_no", req.SeatNo)

	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE members SET %s WHERE id = ?", strings.Join(sets, ", "))
	_, err := r.db.Exec(query, args...)
	return err
}

// UpdateStatus sets the member's status and reports whether a row changed
func (r *MemberRepository) UpdateStatus(id int64, status string) (bool, error) {
	result, err := r.db.Exec(`
		UPDATE members
		SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status != ?
	`, status, id, status)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

// SeatTaken reports whether a seat is already held by another active member
func (r *MemberRepository) SeatTaken(seatNo string, excludeMemberID int64) (bool, error) {
	var count int
	err := r.db.Get(&count, `
		SELECT COUNT(*) FROM members
		WHERE seat_no = ? AND status = 'active' AND id != ?
	`, seatNo, excludeMemberID)
	return count > 0, err
}

// RenewTx updates the membership window inside the renewal transaction.
// Status goes back to active; the suspended guard lives in the service.
func (r *MemberRepository) RenewTx(tx *sqlx.Tx, memberID, planID int64, endDate time.Time) error {
	_, err := tx.Exec(`
		UPDATE members
		SET plan_id = ?, end_date = ?, status = 'active', updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, planID, endDate.Format(DateLayout), memberID)
	return err
}

// MarkExpired flips active memberships whose end_date fell before today.
// The WHERE clause is the whole suspension guarantee: suspended rows never
// match, even when a suspend lands concurrently with the sweep.
func (r *MemberRepository) MarkExpired(today string) (int64, error) {
	result, err := r.db.Exec(`
		UPDATE members
		SET status = 'expired', updated_at = CURRENT_TIMESTAMP
		WHERE status = 'active' AND DATE(end_date) < ?
	`, today)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ExpiringWithin lists active members whose membership ends inside
// [from, to] and who have no pending or sent reminder for this cycle.
// A cycle opens leadDays before the member's end_date.
func (r *MemberRepository) ExpiringWithin(from, to string, leadDays int) ([]models.Member, error) {
	members := []models.Member{}
	err := r.db.Select(&members, `
		SELECT `+memberColumns+`
		FROM members m
		LEFT JOIN membership_plans mp ON m.plan_id = mp.id
		WHERE m.status = 'active'
		  AND DATE(m.end_date) BETWEEN ? AND ?
		  AND NOT EXISTS (
			SELECT 1 FROM notifications n
			WHERE n.member_id = m.id
			  AND n.status IN ('pending', 'sent')
			  AND DATE(n.created_at) >= DATE(m.end_date, '-' || ? || ' days')
		  )
		ORDER BY m.end_date
	`, from, to, leadDays)
	return members, err
}

// SetFingerprintTemplate stores the enrolled template reference
func (r *MemberRepository) SetFingerprintTemplate(memberID int64, template string) error {
	_, err := r.db.Exec(`
		UPDATE members
		SET fingerprint_template = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, template, memberID)
	return err
}
