package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/studyhall/membership-backend/internal/middleware"
	"github.com/studyhall/membership-backend/internal/models"
	"github.com/studyhall/membership-backend/internal/services"
)

type MemberHandler struct {
	membership *services.MembershipService
}

func NewMemberHandler(membership *services.MembershipService) *MemberHandler {
	return &MemberHandler{membership: membership}
}

// parseID reads the :id path parameter. A non-numeric id gets a 400 and
// the handler returns false.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

// actorID returns the authenticated staff id, or nil on unauthenticated
// routes
func actorID(c *gin.Context) *int64 {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		return nil
	}
	return &userCtx.UserID
}

// ListMembers retrieves members, optionally filtered by status or search
// GET /api/v1/members
func (h *MemberHandler) ListMembers(c *gin.Context) {
	filter := models.MemberFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}
	if limit := c.Query("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			filter.Limit = n
		}
	}

	members, err := h.membership.ListMembers(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, members)
}

// GetMember retrieves one member with plan details
// GET /api/v1/members/:id
func (h *MemberHandler) GetMember(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	member, err := h.membership.GetMember(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, member)
}

// EnrollMember creates a new active member
// POST /api/v1/members
func (h *MemberHandler) EnrollMember(c *gin.Context) {
	var req models.EnrollMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	member, err := h.membership.Enroll(req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, member)
}

// UpdateMember edits a member's contact fields
// PUT /api/v1/members/:id
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.membership.UpdateMember(id, req); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Member updated")
}

// RenewMember extends a membership and records the payment
// POST /api/v1/members/:id/renew
func (h *MemberHandler) RenewMember(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.RenewMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Plan and payment mode are required")
		return
	}

	result, err := h.membership.Renew(id, req.PlanID, req, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

// SuspendMember suspends a member
// POST /api/v1/members/:id/suspend
func (h *MemberHandler) SuspendMember(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.membership.Suspend(id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Member suspended")
}

// ReactivateMember lifts a suspension
// POST /api/v1/members/:id/reactivate
func (h *MemberHandler) ReactivateMember(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.membership.Reactivate(id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Member reactivated")
}

// DeleteMember suspends a member. Rows are never hard-deleted because
// payments and attendance reference them.
// DELETE /api/v1/members/:id
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.membership.Suspend(id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Member suspended")
}
