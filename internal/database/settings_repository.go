package database

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/studyhall/membership-backend/internal/models"
)

// SettingsRepository handles database operations for the settings table
type SettingsRepository struct {
	db DB
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetAll retrieves all settings as a key/value map
func (r *SettingsRepository) GetAll() (map[string]string, error) {
	settings := []models.Setting{}
	err := r.db.Select(&settings, `
		SELECT id, key, value, description, updated_at
		FROM settings
		ORDER BY key
	`)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(settings))
	for _, s := range settings {
		values[s.Key] = s.Value
	}
	return values, nil
}

// Get retrieves a single setting value; ok is false when the key is absent
func (r *SettingsRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.Get(&value, `SELECT value FROM settings WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// GetInt retrieves an integer setting, falling back to defaultValue when
// the key is absent or not a number
func (r *SettingsRepository) GetInt(key string, defaultValue int) (int, error) {
	value, ok, err := r.Get(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return defaultValue, nil
	}
	n, convErr := strconv.Atoi(value)
	if convErr != nil {
		return defaultValue, nil
	}
	return n, nil
}

// Set upserts a setting value
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// SetAll upserts a batch of settings in one transaction
func (r *SettingsRepository) SetAll(values map[string]string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}

	for key, value := range values {
		if _, err := tx.Exec(`
			INSERT INTO settings (key, value, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
		`, key, value); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}
