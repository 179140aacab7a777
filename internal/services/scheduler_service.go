package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/studyhall/membership-backend/internal/apperrors"
	"github.com/studyhall/membership-backend/internal/config"
	"github.com/studyhall/membership-backend/internal/database"
)

// SchedulerService manages the scheduled maintenance jobs: the hourly
// expiry sweep, daily reminders, the nightly backup and the weekly
// notification cleanup. Jobs run on the cron goroutine one at a time
// per job; manual triggers run inline on the caller and work whether or
// not the scheduler is started.
type SchedulerService struct {
	cron     *cron.Cron
	members  *database.MemberRepository
	notifier *NotifierService
	backup   *BackupService
	logger   *logrus.Logger

	mu      sync.Mutex
	running bool
	jobs    []schedulerJob

	now func() time.Time
}

type schedulerJob struct {
	name        string
	spec        string
	description string
	action      func()
	entryID     cron.EntryID
}

// NewSchedulerService creates a new scheduler service with jobs wired
// from the configured cron specs
func NewSchedulerService(
	cfg config.SchedulerConfig,
	members *database.MemberRepository,
	notifier *NotifierService,
	backup *BackupService,
	logger *logrus.Logger,
) *SchedulerService {
	s := &SchedulerService{
		cron:     cron.New(),
		members:  members,
		notifier: notifier,
		backup:   backup,
		logger:   logger,
		now:      time.Now,
	}

	s.jobs = []schedulerJob{
		{
			name:        "expiry-sweep",
			spec:        cfg.SweepSpec,
			description: "Mark active members past their end date as expired",
			action:      s.expirySweepJob,
		},
		{
			name:        "expiry-reminders",
			spec:        cfg.ReminderSpec,
			description: "Send reminders to members expiring soon",
			action:      s.reminderJob,
		},
		{
			name:        "notification-cleanup",
			spec:        cfg.CleanupSpec,
			description: "Purge notification history past retention",
			action:      s.cleanupJob,
		},
		{
			name:        "database-backup",
			spec:        cfg.BackupSpec,
			description: "Copy the database file to the backup directory",
			action:      s.backupJob,
		},
	}

	return s
}

// Start registers and starts all jobs. Calling Start on a running
// scheduler is a no-op.
func (s *SchedulerService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	for i := range s.jobs {
		job := &s.jobs[i]
		entryID, err := s.cron.AddFunc(job.spec, job.action)
		if err != nil {
			return fmt.Errorf("failed to schedule %s (%q): %w", job.name, job.spec, err)
		}
		job.entryID = entryID
		s.logger.WithFields(logrus.Fields{
			"job":  job.name,
			"spec": job.spec,
		}).Info("Scheduled job registered")
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for any running job to finish
func (s *SchedulerService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
	s.logger.Info("Scheduler stopped")
}

// JobStatus describes one registered job for the admin API.
type JobStatus struct {
	Name        string     `json:"name"`
	Spec        string     `json:"spec"`
	Description string     `json:"description"`
	NextRun     *time.Time `json:"next_run,omitempty"`
	PrevRun     *time.Time `json:"prev_run,omitempty"`
}

// Status reports the scheduler state and per-job next/previous runs
func (s *SchedulerService) Status() (bool, []JobStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]JobStatus, 0, len(s.jobs))
	for _, job := range s.jobs {
		status := JobStatus{
			Name:        job.name,
			Spec:        job.spec,
			Description: job.description,
		}
		if s.running {
			entry := s.cron.Entry(job.entryID)
			if !entry.Next.IsZero() {
				next := entry.Next
				status.NextRun = &next
			}
			if !entry.Prev.IsZero() {
				prev := entry.Prev
				status.PrevRun = &prev
			}
		}
		statuses = append(statuses, status)
	}
	return s.running, statuses
}

// RunExpirySweepNow runs the expiry sweep immediately and returns the
// number of members marked expired
func (s *SchedulerService) RunExpirySweepNow() (int64, error) {
	today := s.now().Format(database.DateLayout)
	expired, err := s.members.MarkExpired(today)
	if err != nil {
		return 0, apperrors.Storage(err, "failed to run expiry sweep")
	}
	if expired > 0 {
		s.logger.WithField("expired", expired).Info("Expiry sweep marked members expired")
	}
	return expired, nil
}

// TriggerExpiryReminders runs the reminder job immediately
func (s *SchedulerService) TriggerExpiryReminders() (*ReminderReport, error) {
	return s.notifier.SendExpiryReminders()
}

// TriggerBackup runs a backup immediately, ignoring the auto_backup setting
func (s *SchedulerService) TriggerBackup() (*BackupResult, error) {
	return s.backup.Run()
}

func (s *SchedulerService) expirySweepJob() {
	start := s.now()
	expired, err := s.RunExpirySweepNow()
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("Expiry sweep job failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"expired":  expired,
		"duration": time.Since(start).String(),
	}).Debug("Expiry sweep job finished")
}

func (s *SchedulerService) reminderJob() {
	// Sweep first so the reminder query never sees stale active rows
	if _, err := s.RunExpirySweepNow(); err != nil {
		s.logger.WithField("error", err.Error()).Error("Pre-reminder sweep failed")
	}
	if _, err := s.notifier.SendExpiryReminders(); err != nil {
		s.logger.WithField("error", err.Error()).Error("Reminder job failed")
	}
}

func (s *SchedulerService) cleanupJob() {
	if _, err := s.notifier.CleanupOldNotifications(); err != nil {
		s.logger.WithField("error", err.Error()).Error("Notification cleanup job failed")
	}
}

func (s *SchedulerService) backupJob() {
	if _, err := s.backup.RunScheduled(); err != nil {
		s.logger.WithField("error", err.Error()).Error("Backup job failed")
	}
}
