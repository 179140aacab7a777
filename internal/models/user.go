package models

import "time"

// User roles.
const (
	RoleAdmin        = "admin"
	RoleReceptionist = "receptionist"
)

// User is a staff account (admin or receptionist). The engine only ever
// needs the authenticated actor id; credential handling stays at the
// login boundary.
type User struct {
	ID           int64      `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         string     `json:"role" db:"role"`
	FullName     *string    `json:"full_name,omitempty" db:"full_name"`
	Email        *string    `json:"email,omitempty" db:"email"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`
}

// LoginRequest is the payload for staff login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
