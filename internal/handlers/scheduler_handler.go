package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/studyhall/membership-backend/internal/services"
)

type SchedulerHandler struct {
	scheduler *services.SchedulerService
	backup    *services.BackupService
}

func NewSchedulerHandler(scheduler *services.SchedulerService, backup *services.BackupService) *SchedulerHandler {
	return &SchedulerHandler{scheduler: scheduler, backup: backup}
}

// GetStatus reports the scheduler state and per-job runs (admin only)
// GET /api/v1/scheduler/status
func (h *SchedulerHandler) GetStatus(c *gin.Context) {
	running, jobs := h.scheduler.Status()
	respondOK(c, gin.H{"running": running, "jobs": jobs})
}

// TriggerExpirySweep runs the expiry sweep immediately (admin only)
// POST /api/v1/scheduler/sweep
func (h *SchedulerHandler) TriggerExpirySweep(c *gin.Context) {
	expired, err := h.scheduler.RunExpirySweepNow()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"expired": expired})
}

// TriggerReminders runs the expiry reminder job immediately (admin only)
// POST /api/v1/scheduler/reminders
func (h *SchedulerHandler) TriggerReminders(c *gin.Context) {
	report, err := h.scheduler.TriggerExpiryReminders()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, report)
}

// TriggerBackup runs a backup immediately (admin only)
// POST /api/v1/scheduler/backup
func (h *SchedulerHandler) TriggerBackup(c *gin.Context) {
	result, err := h.scheduler.TriggerBackup()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

// ListBackups retrieves existing backup files, newest first (admin only)
// GET /api/v1/backups
func (h *SchedulerHandler) ListBackups(c *gin.Context) {
	backups, err := h.backup.List()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, backups)
}
