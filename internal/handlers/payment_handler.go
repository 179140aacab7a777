package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/studyhall/membership-backend/internal/models"
	"github.com/studyhall/membership-backend/internal/services"
)

type PaymentHandler struct {
	membership *services.MembershipService
}

func NewPaymentHandler(membership *services.MembershipService) *PaymentHandler {
	return &PaymentHandler{membership: membership}
}

// ListPayments retrieves ledger entries, newest first
// GET /api/v1/payments
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	filter := models.PaymentFilter{
		Mode:     c.Query("mode"),
		Search:   c.Query("search"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	}
	if memberID := c.Query("member_id"); memberID != "" {
		if id, err := strconv.ParseInt(memberID, 10, 64); err == nil {
			filter.MemberID = id
		}
	}
	if planID := c.Query("plan_id"); planID != "" {
		if id, err := strconv.ParseInt(planID, 10, 64); err == nil {
			filter.PlanID = id
		}
	}

	payments, err := h.membership.ListPayments(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, payments)
}

// RecordPayment appends an ad-hoc ledger entry
// POST /api/v1/payments
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	var req models.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Member, amount and payment mode are required")
		return
	}

	payment, err := h.membership.RecordPayment(req, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, payment)
}
