package database

import (
	"github.com/jmoiron/sqlx"
	"github.com/studyhall/membership-backend/internal/models"
)

// PlanRepository handles database operations for the membership_plans table
type PlanRepository struct {
	db DB
}

// NewPlanRepository creates a new PlanRepository
func NewPlanRepository(db DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Create inserts a new plan
func (r *PlanRepository) Create(plan *models.Plan) error {
	result, err := r.db.Exec(`
		INSERT INTO membership_plans (name, duration_days, price, description)
		VALUES (?, ?, ?, ?)
	`, plan.Name, plan.DurationDays, plan.Price, plan.Description)
	if err != nil {
		return err
	}

	plan.ID, err = result.LastInsertId()
	return err
}

// GetByID retrieves a plan by ID
func (r *PlanRepository) GetByID(id int64) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.Get(&plan, `
		SELECT id, name, duration_days, price, description, created_at
		FROM membership_plans
		WHERE id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetByIDTx retrieves a plan inside an open transaction
func (r *PlanRepository) GetByIDTx(tx *sqlx.Tx, id int64) (*models.Plan, error) {
	var plan models.Plan
	err := tx.Get(&plan, `
		SELECT id, name, duration_days, price, description, created_at
		FROM membership_plans
		WHERE id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// List retrieves all plans ordered by duration
func (r *PlanRepository) List() ([]models.Plan, error) {
	plans := []models.Plan{}
	err := r.db.Select(&plans, `
		SELECT id, name, duration_days, price, description, created_at
		FROM membership_plans
		ORDER BY duration_days
	`)
	return plans, err
}
