package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/studyhall/membership-backend/internal/apperrors"
	"github.com/studyhall/membership-backend/internal/database"
)

type SettingsHandler struct {
	settings *database.SettingsRepository
}

func NewSettingsHandler(settings *database.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSettings retrieves all settings as a key/value map
// GET /api/v1/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	values, err := h.settings.GetAll()
	if err != nil {
		respondError(c, apperrors.Storage(err, "failed to load settings"))
		return
	}
	respondOK(c, values)
}

// UpdateSettings upserts a batch of settings (admin only)
// PUT /api/v1/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		respondBadRequest(c, "Expected a JSON object of setting keys to values")
		return
	}
	if len(values) == 0 {
		respondBadRequest(c, "No settings provided")
		return
	}

	if err := h.settings.SetAll(values); err != nil {
		respondError(c, apperrors.Storage(err, "failed to save settings"))
		return
	}
	respondMessage(c, "Settings updated")
}
