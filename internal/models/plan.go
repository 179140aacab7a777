package models

import "time"

// Plan represents a membership plan (duration sold at a price).
// Plans referenced by payments are never deleted; the schema has no
// cascade from membership_plans.
type Plan struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	DurationDays int       `json:"duration_days" db:"duration_days"`
	Price        float64   `json:"price" db:"price"`
	Description  *string   `json:"description,omitempty" db:"description"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// CreatePlanRequest is the payload for adding a plan.
type CreatePlanRequest struct {
	Name         string  `json:"name" binding:"required"`
	DurationDays int     `json:"duration_days" binding:"required,gt=0"`
	Price        float64 `json:"price" binding:"required,gte=0"`
	Description  string  `json:"description"`
}
