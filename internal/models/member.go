package models

import "time"

// Member status values. The scheduler's expiry sweep only ever moves
// active -> expired; suspended is an explicit operator action and is
// never entered or left automatically.
const (
	MemberActive    = "active"
	MemberExpired   = "expired"
	MemberSuspended = "suspended"
)

// Member represents a study hall member and their current membership window.
type Member struct {
	ID                  int64      `json:"id" db:"id"`
	Name                string     `json:"name" db:"name"`
	Email               *string    `json:"email,omitempty" db:"email"`
	Phone               *string    `json:"phone,omitempty" db:"phone"`
	BirthDate           *string    `json:"birth_date,omitempty" db:"birth_date"`
	City                *string    `json:"city,omitempty" db:"city"`
	Address             *string    `json:"address,omitempty" db:"address"`
	SeatNo              *string    `json:"seat_no,omitempty" db:"seat_no"`
	PlanID              *int64     `json:"plan_id,omitempty" db:"plan_id"`
	JoinDate            time.Time  `json:"join_date" db:"join_date"`
	EndDate             time.Time  `json:"end_date" db:"end_date"`
	Status              string     `json:"status" db:"status"`
	FingerprintTemplate *string    `json:"-" db:"fingerprint_template"`
	QRCode              *string    `json:"qr_code,omitempty" db:"qr_code"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`

	// Joined display fields (member list/detail projections)
	PlanName  *string  `json:"plan_name,omitempty" db:"plan_name"`
	PlanPrice *float64 `json:"plan_price,omitempty" db:"plan_price"`
}

// EnrollMemberRequest is the payload for enrolling a new member.
type EnrollMemberRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birth_date"`
	City      string `json:"city"`
	Address   string `json:"address"`
	SeatNo    string `json:"seat_no"`
	PlanID    int64  `json:"plan_id" binding:"required"`
	JoinDate  string `json:"join_date"` // yyyy-mm-dd, defaults to today
}

// UpdateMemberRequest is the payload for editing member contact fields.
// Lifecycle fields (status, end_date, plan) are not editable here; they
// change only through enroll/renew/suspend/reactivate and the sweep.
type UpdateMemberRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	BirthDate *string `json:"birth_date"`
	City      *string `json:"city"`
	Address   *string `json:"address"`
	SeatNo    *string `json:"seat_no"`
}

// MemberFilter narrows member list queries. All fields are optional and
// translate to parameterized WHERE clauses, never string concatenation.
type MemberFilter struct {
	Status string
	Search string // matches name, email or phone
	Limit  int
}
