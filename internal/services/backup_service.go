package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/studyhall/membership-backend/internal/apperrors"
	"github.com/studyhall/membership-backend/internal/database"
	"github.com/studyhall/membership-backend/internal/models"
)

const backupPrefix = "membership-backup-"

// BackupService copies the database file into the backup directory and
// prunes old copies down to the retention count. The store runs with a
// single write connection, so a WAL checkpoint right before the copy is
// enough to make the file self-contained.
type BackupService struct {
	db        database.DB
	dbPath    string
	backupDir string
	retention int
	settings  *database.SettingsRepository
	logger    *logrus.Logger

	now func() time.Time
}

// NewBackupService creates a new backup service
func NewBackupService(
	db database.DB,
	dbPath string,
	backupDir string,
	retention int,
	settings *database.SettingsRepository,
	logger *logrus.Logger,
) *BackupService {
	return &BackupService{
		db:        db,
		dbPath:    dbPath,
		backupDir: backupDir,
		retention: retention,
		settings:  settings,
		logger:    logger,
		now:       time.Now,
	}
}

// SetNow overrides the clock (tests only)
func (s *BackupService) SetNow(now func() time.Time) {
	s.now = now
}

// BackupResult reports the outcome of one backup run.
type BackupResult struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	Pruned    int    `json:"pruned"`
}

// Run creates a timestamped backup copy and prunes old ones. A prune
// failure is logged and does not fail the run; the fresh backup already
// exists at that point.
func (s *BackupService) Run() (*BackupResult, error) {
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return nil, apperrors.IO(err, "failed to create backup directory")
	}

	// Fold the WAL into the main file so the copy is complete on its own.
	if _, err := s.db.Exec(`PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return nil, apperrors.Storage(err, "failed to checkpoint database")
	}

	name := fmt.Sprintf("%s%s.db", backupPrefix, s.now().Format("20060102-150405"))
	dest := filepath.Join(s.backupDir, name)

	size, err := copyFile(s.dbPath, dest)
	if err != nil {
		return nil, apperrors.IO(err, "failed to copy database file")
	}

	pruned, err := s.prune()
	if err != nil {
		s.logger.WithField("error", err.Error()).Warn("Backup prune failed")
		pruned = 0
	}

	s.logger.WithFields(logrus.Fields{
		"path":   dest,
		"size":   size,
		"pruned": pruned,
	}).Info("Backup created")

	return &BackupResult{Path: dest, SizeBytes: size, Pruned: pruned}, nil
}

// RunScheduled is Run gated on the auto_backup setting, used by the
// scheduler. Manual runs through the API bypass the gate.
func (s *BackupService) RunScheduled() (*BackupResult, error) {
	enabled, ok, err := s.settings.Get(models.SettingAutoBackup)
	if err != nil {
		return nil, apperrors.Storage(err, "failed to read auto backup setting")
	}
	if ok && enabled != "true" && enabled != "1" {
		s.logger.Debug("Automatic backup disabled, skipping")
		return nil, nil
	}
	return s.Run()
}

// prune keeps the newest retention backups by modification time and
// removes the rest, returning how many were deleted
func (s *BackupService) prune() (int, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		return 0, err
	}

	type backup struct {
		path    string
		modTime time.Time
	}
	backups := []backup{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), backupPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, backup{
			path:    filepath.Join(s.backupDir, entry.Name()),
			modTime: info.ModTime(),
		})
	}

	if len(backups) <= s.retention {
		return 0, nil
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].modTime.After(backups[j].modTime)
	})

	pruned := 0
	for _, old := range backups[s.retention:] {
		if err := os.Remove(old.path); err != nil {
			s.logger.WithFields(logrus.Fields{
				"path":  old.path,
				"error": err.Error(),
			}).Warn("Failed to remove old backup")
			continue
		}
		pruned++
	}
	return pruned, nil
}

// BackupInfo describes one existing backup file.
type BackupInfo struct {
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// List returns existing backups, newest first
func (s *BackupService) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.backupDir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, apperrors.IO(err, "failed to read backup directory")
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), backupPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Name:      entry.Name(),
			SizeBytes: info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

func copyFile(src, dest string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return 0, err
	}

	size, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		os.Remove(dest)
		return 0, err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return 0, err
	}
	return size, nil
}
