package database

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Table definitions for the membership store. Statements are idempotent
// so opening an existing store file is a no-op.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS membership_plans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		duration_days INTEGER NOT NULL,
		price REAL NOT NULL,
		description TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS members (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		birth_date TEXT,
		city TEXT,
		address TEXT,
		seat_no TEXT,
		plan_id INTEGER,
		join_date DATE NOT NULL,
		end_date DATE NOT NULL,
		status TEXT DEFAULT 'active' CHECK(status IN ('active', 'expired', 'suspended')),
		fingerprint_template TEXT,
		qr_code TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (plan_id) REFERENCES membership_plans (id)
	)`,

	// A seat may only be held by one active membership at a time.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_members_seat
		ON members(seat_no) WHERE seat_no IS NOT NULL AND status = 'active'`,

	`CREATE TABLE IF NOT EXISTS payments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		member_id INTEGER NOT NULL,
		amount REAL NOT NULL,
		mode TEXT DEFAULT 'cash' CHECK(mode IN ('cash', 'card', 'upi', 'bank_transfer')),
		plan_id INTEGER,
		note TEXT,
		receipt_number TEXT,
		paid_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		created_by INTEGER,
		FOREIGN KEY (member_id) REFERENCES members (id) ON DELETE CASCADE,
		FOREIGN KEY (plan_id) REFERENCES membership_plans (id),
		FOREIGN KEY (created_by) REFERENCES users (id)
	)`,

	`CREATE TABLE IF NOT EXISTS attendance (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		member_id INTEGER NOT NULL,
		check_in DATETIME DEFAULT CURRENT_TIMESTAMP,
		check_out DATETIME,
		source TEXT DEFAULT 'manual' CHECK(source IN ('biometric', 'manual', 'card', 'qr')),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (member_id) REFERENCES members (id) ON DELETE CASCADE
	)`,

	// One open session per member per calendar day, enforced in the store
	// so a concurrent double check-in cannot slip past the service check.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_open
		ON attendance(member_id, DATE(check_in)) WHERE check_out IS NULL`,

	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT DEFAULT 'receptionist' CHECK(role IN ('admin', 'receptionist')),
		full_name TEXT,
		email TEXT,
		is_active INTEGER DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_login DATETIME
	)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		member_id INTEGER NOT NULL,
		type TEXT NOT NULL CHECK(type IN ('email', 'whatsapp', 'sms')),
		subject TEXT,
		message TEXT,
		status TEXT DEFAULT 'pending' CHECK(status IN ('pending', 'sent', 'failed')),
		sent_at DATETIME,
		error_message TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (member_id) REFERENCES members (id) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		key TEXT UNIQUE NOT NULL,
		value TEXT,
		description TEXT,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

// initSchema creates all tables and seeds defaults on a fresh store.
func (db *SQLiteDB) initSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return db.seedDefaults()
}

// seedDefaults inserts the default plans, settings and admin account when
// the corresponding tables are empty.
func (db *SQLiteDB) seedDefaults() error {
	var planCount int
	if err := db.Get(&planCount, `SELECT COUNT(*) FROM membership_plans`); err != nil {
		return err
	}
	if planCount == 0 {
		defaultPlans := []struct {
			name        string
			days        int
			price       float64
			description string
		}{
			{"Monthly", 30, 1000, "Monthly membership plan"},
			{"Quarterly", 90, 2700, "Quarterly membership plan with 10% discount"},
			{"Half Yearly", 180, 5000, "Half yearly plan with 17% discount"},
			{"Annual", 365, 9000, "Annual plan with 25% discount"},
		}
		for _, p := range defaultPlans {
			if _, err := db.Exec(
				`INSERT INTO membership_plans (name, duration_days, price, description) VALUES (?, ?, ?, ?)`,
				p.name, p.days, p.price, p.description,
			); err != nil {
				return err
			}
		}
	}

	var settingCount int
	if err := db.Get(&settingCount, `SELECT COUNT(*) FROM settings`); err != nil {
		return err
	}
	if settingCount == 0 {
		defaultSettings := []struct {
			key, value, description string
		}{
			{"facility_name", "Study Hall", "Name of the facility"},
			{"facility_address", "Main Street, City", "Facility address"},
			{"facility_phone", "+1234567890", "Facility contact number"},
			{"notification_days", "10", "Days before expiry to send reminders"},
			{"notification_retention_days", "90", "Days to keep notification history"},
			{"auto_backup", "1", "Enable automatic database backup"},
		}
		for _, s := range defaultSettings {
			if _, err := db.Exec(
				`INSERT INTO settings (key, value, description) VALUES (?, ?, ?)`,
				s.key, s.value, s.description,
			); err != nil {
				return err
			}
		}
	}

	var userCount int
	if err := db.Get(&userCount, `SELECT COUNT(*) FROM users`); err != nil {
		return err
	}
	if userCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		if _, err := db.Exec(
			`INSERT INTO users (username, password_hash, role, full_name) VALUES (?, ?, 'admin', 'System Administrator')`,
			"admin", string(hash),
		); err != nil {
			return err
		}
	}

	return nil
}
