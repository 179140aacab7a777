package models

import "time"

// Attendance sources.
const (
	SourceBiometric = "biometric"
	SourceManual    = "manual"
	SourceCard      = "card"
	SourceQR        = "qr"
)

// ValidAttendanceSource reports whether source is a known check-in source.
func ValidAttendanceSource(source string) bool {
	switch source {
	case SourceBiometric, SourceManual, SourceCard, SourceQR:
		return true
	}
	return false
}

// Attendance is one check-in session. CheckOut is nil while the session
// is open; at most one open session may exist per member per day.
type Attendance struct {
	ID        int64      `json:"id" db:"id"`
	MemberID  int64      `json:"member_id" db:"member_id"`
	CheckIn   time.Time  `json:"check_in" db:"check_in"`
	CheckOut  *time.Time `json:"check_out,omitempty" db:"check_out"`
	Source    string     `json:"source" db:"source"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`

	// Joined display fields
	MemberName *string `json:"member_name,omitempty" db:"member_name"`
	Phone      *string `json:"phone,omitempty" db:"phone"`
}

// AttendanceFilter narrows attendance list queries.
type AttendanceFilter struct {
	Date     string // yyyy-mm-dd
	MemberID int64
	DateFrom string
	DateTo   string
}
