package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/studyhall/membership-backend/internal/models"
	"github.com/studyhall/membership-backend/internal/services"
)

type AttendanceHandler struct {
	attendance *services.AttendanceService
}

func NewAttendanceHandler(attendance *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// ListAttendance retrieves sessions filtered by date or member
// GET /api/v1/attendance
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	filter := models.AttendanceFilter{
		Date:     c.Query("date"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	}
	if memberID := c.Query("member_id"); memberID != "" {
		if id, err := strconv.ParseInt(memberID, 10, 64); err == nil {
			filter.MemberID = id
		}
	}

	sessions, err := h.attendance.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, sessions)
}

// TodayAttendance retrieves today's sessions
// GET /api/v1/attendance/today
func (h *AttendanceHandler) TodayAttendance(c *gin.Context) {
	sessions, err := h.attendance.Today()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, sessions)
}

// CheckIn opens a session from the front desk
// POST /api/v1/attendance/:id/check-in
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	session, err := h.attendance.CheckIn(id, models.SourceManual)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, session)
}

// CheckOut closes today's open session
// POST /api/v1/attendance/:id/check-out
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.attendance.CheckOut(id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Checked out")
}
