package models

import "time"

// Payment modes accepted at the desk.
const (
	PayCash         = "cash"
	PayCard         = "card"
	PayUPI          = "upi"
	PayBankTransfer = "bank_transfer"
)

// ValidPaymentMode reports whether mode is one of the accepted modes.
func ValidPaymentMode(mode string) bool {
	switch mode {
	case PayCash, PayCard, PayUPI, PayBankTransfer:
		return true
	}
	return false
}

// Payment is one row of the append-only payment ledger. Rows are never
// updated or deleted; corrections are recorded as new payments.
type Payment struct {
	ID            int64     `json:"id" db:"id"`
	MemberID      int64     `json:"member_id" db:"member_id"`
	Amount        float64   `json:"amount" db:"amount"`
	Mode          string    `json:"mode" db:"mode"`
	PlanID        *int64    `json:"plan_id,omitempty" db:"plan_id"`
	Note          *string   `json:"note,omitempty" db:"note"`
	ReceiptNumber string    `json:"receipt_number" db:"receipt_number"`
	PaidAt        time.Time `json:"paid_at" db:"paid_at"`
	CreatedBy     *int64    `json:"created_by,omitempty" db:"created_by"`

	// Joined display fields
	MemberName *string `json:"member_name,omitempty" db:"member_name"`
	PlanName   *string `json:"plan_name,omitempty" db:"plan_name"`
}

// RecordPaymentRequest is the payload for an ad-hoc payment not tied to
// a renewal (deposit, fee, correction).
type RecordPaymentRequest struct {
	MemberID      int64   `json:"member_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Mode          string  `json:"mode" binding:"required"`
	Note          string  `json:"note"`
	ReceiptNumber string  `json:"receipt_number"`
}

// RenewMemberRequest is the payload for a renewal.
type RenewMemberRequest struct {
	PlanID int64  `json:"plan_id" binding:"required"`
	Mode   string `json:"mode" binding:"required"`
	Note   string `json:"note"`
}

// PaymentFilter narrows payment list queries.
type PaymentFilter struct {
	MemberID int64
	Mode     string
	PlanID   int64
	Search   string // member name/email/phone or receipt number
	DateFrom string // yyyy-mm-dd, inclusive
	DateTo   string // yyyy-mm-dd, inclusive
}
