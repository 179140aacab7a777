package database

// DashboardStats is the snapshot shown on the front desk dashboard.
type DashboardStats struct {
	TotalMembers    int     `json:"total_members" db:"total_members"`
	TodayAttendance int     `json:"today_attendance" db:"today_attendance"`
	TodayIncome     float64 `json:"today_income" db:"today_income"`
	MonthlyIncome   float64 `json:"monthly_income" db:"monthly_income"`
	ExpiringMembers int     `json:"expiring_members" db:"expiring_members"`
}

// AttendanceReportRow aggregates visits per member over a date range.
type AttendanceReportRow struct {
	MemberName string  `json:"member_name" db:"member_name"`
	Phone      *string `json:"phone,omitempty" db:"phone"`
	VisitCount int     `json:"visit_count" db:"visit_count"`
	FirstVisit *string `json:"first_visit,omitempty" db:"first_visit"`
	LastVisit  *string `json:"last_visit,omitempty" db:"last_visit"`
}

// PaymentReportRow aggregates collections per day and payment mode.
type PaymentReportRow struct {
	PaymentDate      string  `json:"payment_date" db:"payment_date"`
	TransactionCount int     `json:"transaction_count" db:"transaction_count"`
	TotalAmount      float64 `json:"total_amount" db:"total_amount"`
	Mode             string  `json:"mode" db:"mode"`
}

// ReportRepository serves the read-only dashboard and report projections.
// Nothing here mutates state; export formatting stays outside the engine.
type ReportRepository struct {
	db DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// DashboardStats gathers the dashboard counters for the given day.
// today and month are preformatted (yyyy-mm-dd and yyyy-mm); expiringTo
// bounds the "expiring soon" window.
func (r *ReportRepository) DashboardStats(today, month, expiringTo string) (*DashboardStats, error) {
	var stats DashboardStats
	err := r.db.Get(&stats, `
		SELECT
			(SELECT COUNT(*) FROM members WHERE status = 'active') AS total_members,
			(SELECT COUNT(*) FROM attendance WHERE DATE(check_in) = ?) AS today_attendance,
			(SELECT COALESCE(SUM(amount), 0) FROM payments WHERE DATE(paid_at) = ?) AS today_income,
			(SELECT COALESCE(SUM(amount), 0) FROM payments WHERE strftime('%Y-%m', paid_at) = ?) AS monthly_income,
			(SELECT COUNT(*) FROM members WHERE status = 'active' AND DATE(end_date) <= ?) AS expiring_members
	`, today, today, month, expiringTo)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// AttendanceReport aggregates visit counts per active member in [from, to]
func (r *ReportRepository) AttendanceReport(from, to string) ([]AttendanceReportRow, error) {
	rows := []AttendanceReportRow{}
	err := r.db.Select(&rows, `
		SELECT
			m.name AS member_name,
			m.phone,
			COUNT(a.id) AS visit_count,
			MIN(a.check_in) AS first_visit,
			MAX(a.check_in) AS last_visit
		FROM members m
		LEFT JOIN attendance a ON m.id = a.member_id
			AND DATE(a.check_in) BETWEEN ? AND ?
		WHERE m.status = 'active'
		GROUP BY m.id, m.name, m.phone
		ORDER BY visit_count DESC, m.name
	`, from, to)
	return rows, err
}

// PaymentReport aggregates collections per day and mode in [from, to]
func (r *ReportRepository) PaymentReport(from, to string) ([]PaymentReportRow, error) {
	rows := []PaymentReportRow{}
	err := r.db.Select(&rows, `
		SELECT
			DATE(p.paid_at) AS payment_date,
			COUNT(p.id) AS transaction_count,
			SUM(p.amount) AS total_amount,
			p.mode
		FROM payments p
		WHERE DATE(p.paid_at) BETWEEN ? AND ?
		GROUP BY DATE(p.paid_at), p.mode
		ORDER BY p.paid_at DESC
	`, from, to)
	return rows, err
}
