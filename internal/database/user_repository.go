package database

import (
	"github.com/studyhall/membership-backend/internal/models"
)

// UserRepository handles database operations for the users table
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetActiveByUsername retrieves an active staff account by username
func (r *UserRepository) GetActiveByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Get(&user, `
		SELECT id, username, password_hash, role, full_name, email, is_active, created_at, last_login
		FROM users
		WHERE username = ? AND is_active = 1
	`, username)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// TouchLastLogin records a successful login
func (r *UserRepository) TouchLastLogin(id int64) error {
	_, err := r.db.Exec(`UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}
