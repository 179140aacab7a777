package database

import (
	"github.com/jmoiron/sqlx"
	"github.com/studyhall/membership-backend/internal/models"
)

// PaymentRepository handles database operations for the payments table.
// Payments are an append-only ledger; corrections are recorded as new
// rows, so there is no update or delete here.
type PaymentRepository struct {
	db DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create appends a payment row
func (r *PaymentRepository) Create(payment *models.Payment) error {
	result, err := r.db.Exec(`
		INSERT INTO payments (member_id, amount, mode, plan_id, note, receipt_number, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		payment.MemberID, payment.Amount, payment.Mode, payment.PlanID,
		payment.Note, payment.ReceiptNumber, payment.CreatedBy,
	)
	if err != nil {
		return err
	}

	payment.ID, err = result.LastInsertId()
	return err
}

// CreateTx appends a payment row inside the renewal transaction
func (r *PaymentRepository) CreateTx(tx *sqlx.Tx, payment *models.Payment) error {
	result, err := tx.Exec(`
		INSERT INTO payments (member_id, amount, mode, plan_id, note, receipt_number, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		payment.MemberID, payment.Amount, payment.Mode, payment.PlanID,
		payment.Note, payment.ReceiptNumber, payment.CreatedBy,
	)
	if err != nil {
		return err
	}

	payment.ID, err = result.LastInsertId()
	return err
}

// List retrieves payments matching the filter, newest first
func (r *PaymentRepository) List(filter models.PaymentFilter) ([]models.Payment, error) {
	query := `
		SELECT p.id, p.member_id, p.amount, p.mode, p.plan_id, p.note,
			   p.receipt_number, p.paid_at, p.created_by,
			   m.name AS member_name, mp.name AS plan_name
		FROM payments p
		JOIN members m ON p.member_id = m.id
		LEFT JOIN membership_plans mp ON p.plan_id = mp.id
		WHERE 1=1`
	args := []interface{}{}

	if filter.MemberID > 0 {
		query += " AND p.member_id = ?"
		args = append(args, filter.MemberID)
	}
	if filter.Mode != "" {
		query += " AND p.mode = ?"
		args = append(args, filter.Mode)
	}
	if filter.PlanID > 0 {
		query += " AND p.plan_id = ?"
		args = append(args, filter.PlanID)
	}
	if filter.Search != "" {
		query += " AND (m.name LIKE ? OR m.email LIKE ? OR m.phone LIKE ? OR p.receipt_number LIKE ?)"
		term := "%" + filter.Search + "%"
		args = append(args, term, term, term, term)
	}
	if filter.DateFrom != "" {
		query += " AND DATE(p.paid_at) >= ?"
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		query += " AND DATE(p.paid_at) <= ?"
		args = append(args, filter.DateTo)
	}

	query += " ORDER BY p.paid_at DESC"

	payments := []models.Payment{}
	err := r.db.Select(&payments, query, args...)
	return payments, err
}

// CountByMember returns the number of ledger rows for a member
func (r *PaymentRepository) CountByMember(memberID int64) (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM payments WHERE member_id = ?`, memberID)
	return count, err
}
