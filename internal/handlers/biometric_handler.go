package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/studyhall/membership-backend/internal/apperrors"
	"github.com/studyhall/membership-backend/internal/models"
	"github.com/studyhall/membership-backend/internal/services"
)

// BiometricHandler receives scan events from the external device-helper
// process over a shared-token channel separate from staff JWT auth.
type BiometricHandler struct {
	membership  *services.MembershipService
	attendance  *services.AttendanceService
	sharedToken string
	logger      *logrus.Logger
}

func NewBiometricHandler(
	membership *services.MembershipService,
	attendance *services.AttendanceService,
	sharedToken string,
	logger *logrus.Logger,
) *BiometricHandler {
	return &BiometricHandler{
		membership:  membership,
		attendance:  attendance,
		sharedToken: sharedToken,
		logger:      logger,
	}
}

// authorized checks the helper's bearer token. Nothing is read from the
// body before this check passes.
func (h *BiometricHandler) authorized(c *gin.Context) bool {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if header == token || subtle.ConstantTimeCompare([]byte(token), []byte(h.sharedToken)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return false
	}
	return true
}

// HandleEvent ingests one scan event from the device helper
// POST /biometric-event
func (h *BiometricHandler) HandleEvent(c *gin.Context) {
	if !h.authorized(c) {
		return
	}

	var event models.BiometricEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"event_type": event.EventType,
		"device_id":  event.DeviceID,
		"success":    event.Success,
	}).Debug("Biometric event received")

	switch event.EventType {
	case models.BiometricVerification:
		h.handleVerification(c, event)
	case models.BiometricEnrollment:
		h.handleEnrollment(c, event)
	default:
		respondBadRequest(c, "Unknown event type")
	}
}

// handleVerification records a successful scan as a check-in. A repeat
// scan while a session is already open is acknowledged without opening
// another one, so the helper can retry freely.
func (h *BiometricHandler) handleVerification(c *gin.Context, event models.BiometricEvent) {
	if !event.Success {
		// Failed scans are logged by the helper; nothing to record here
		respondMessage(c, "Event ignored")
		return
	}
	if event.MemberID == nil {
		respondBadRequest(c, "memberId is required for verification events")
		return
	}

	session, err := h.attendance.CheckIn(*event.MemberID, models.SourceBiometric)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindConflict) {
			respondMessage(c, "Session already open")
			return
		}
		respondError(c, err)
		return
	}
	respondCreated(c, session)
}

func (h *BiometricHandler) handleEnrollment(c *gin.Context, event models.BiometricEvent) {
	if event.MemberID == nil {
		respondBadRequest(c, "memberId is required for enrollment events")
		return
	}
	if event.FingerprintTemplate == "" {
		respondBadRequest(c, "fingerprintTemplate is required for enrollment events")
		return
	}

	if err := h.membership.SetFingerprintTemplate(*event.MemberID, event.FingerprintTemplate); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "Template stored")
}
