package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/studyhall/membership-backend/internal/models"
	"github.com/studyhall/membership-backend/internal/services"
)

type PlanHandler struct {
	membership *services.MembershipService
}

func NewPlanHandler(membership *services.MembershipService) *PlanHandler {
	return &PlanHandler{membership: membership}
}

// ListPlans retrieves all membership plans
// GET /api/v1/plans
func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.membership.ListPlans()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, plans)
}

// CreatePlan adds a new membership plan (admin only)
// POST /api/v1/plans
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req models.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	plan, err := h.membership.CreatePlan(req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, plan)
}
