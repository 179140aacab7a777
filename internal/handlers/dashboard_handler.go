package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studyhall/membership-backend/internal/apperrors"
	"github.com/studyhall/membership-backend/internal/database"
	"github.com/studyhall/membership-backend/internal/services"
)

type DashboardHandler struct {
	reports  *database.ReportRepository
	notifier *services.NotifierService
}

func NewDashboardHandler(reports *database.ReportRepository, notifier *services.NotifierService) *DashboardHandler {
	return &DashboardHandler{reports: reports, notifier: notifier}
}

// GetStats retrieves the dashboard snapshot
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	now := time.Now()
	stats, err := h.reports.DashboardStats(
		now.Format(database.DateLayout),
		now.Format("2006-01"),
		now.AddDate(0, 0, 7).Format(database.DateLayout),
	)
	if err != nil {
		respondError(c, apperrors.Storage(err, "failed to load dashboard stats"))
		return
	}
	respondOK(c, stats)
}

// dateRange reads the from/to query parameters, defaulting to the last
// 30 days
func dateRange(c *gin.Context) (string, string) {
	now := time.Now()
	from := c.Query("from")
	to := c.Query("to")
	if from == "" {
		from = now.AddDate(0, 0, -30).Format(database.DateLayout)
	}
	if to == "" {
		to = now.Format(database.DateLayout)
	}
	return from, to
}

// GetAttendanceReport aggregates visits per member over a date range
// GET /api/v1/reports/attendance
func (h *DashboardHandler) GetAttendanceReport(c *gin.Context) {
	from, to := dateRange(c)
	rows, err := h.reports.AttendanceReport(from, to)
	if err != nil {
		respondError(c, apperrors.Storage(err, "failed to build attendance report"))
		return
	}
	respondOK(c, rows)
}

// GetPaymentReport aggregates collections per day and mode
// GET /api/v1/reports/payments
func (h *DashboardHandler) GetPaymentReport(c *gin.Context) {
	from, to := dateRange(c)
	rows, err := h.reports.PaymentReport(from, to)
	if err != nil {
		respondError(c, apperrors.Storage(err, "failed to build payment report"))
		return
	}
	respondOK(c, rows)
}

// GetNotificationHistory retrieves a member's reminder history
// GET /api/v1/members/:id/notifications
func (h *DashboardHandler) GetNotificationHistory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	history, err := h.notifier.History(id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, history)
}
