package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyhall/membership-backend/internal/models"
)

func newBackupService(t *testing.T, env *testEnv, retention int) (*BackupService, string) {
	t.Helper()
	backupDir := filepath.Join(t.TempDir(), "backups")
	svc := NewBackupService(env.db, env.db.Path, backupDir, retention, env.settings, env.logger)
	return svc, backupDir
}

func TestBackupRun_CreatesTimestampedCopy(t *testing.T) {
	env := newTestEnv(t)
	svc, backupDir := newBackupService(t, env, 30)

	result, err := svc.Run()
	require.NoError(t, err)
	assert.Positive(t, result.SizeBytes)

	info, err := os.Stat(result.Path)
	require.NoError(t, err)
	assert.Equal(t, result.SizeBytes, info.Size())
	assert.Equal(t, backupDir, filepath.Dir(result.Path))

	// The copy is a readable database file, not an empty shell
	src, err := os.Stat(env.db.Path)
	require.NoError(t, err)
	assert.Equal(t, src.Size(), info.Size())
}

func TestBackupRun_PrunesToRetention(t *testing.T) {
	env := newTestEnv(t)
	svc, backupDir := newBackupService(t, env, 2)
	require.NoError(t, os.MkdirAll(backupDir, 0o755))

	// Plant three stale backups with ascending mtimes
	base := time.Now().Add(-24 * time.Hour)
	stale := []string{"20240101-020000", "20240102-020000", "20240103-020000"}
	for i, ts := range stale {
		name := filepath.Join(backupDir, backupPrefix+ts+".db")
		require.NoError(t, os.WriteFile(name, []byte("stale"), 0o644))
		mtime := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(name, mtime, mtime))
	}

	result, err := svc.Run()
	require.NoError(t, err)
	// 4 files existed after the copy; retention 2 keeps the newest two
	assert.Equal(t, 2, result.Pruned)

	backups, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, backups, 2)
	// The fresh copy survives the prune
	assert.Equal(t, filepath.Base(result.Path), backups[0].Name)
}

func TestBackupRun_IgnoresForeignFiles(t *testing.T) {
	env := newTestEnv(t)
	svc, backupDir := newBackupService(t, env, 1)
	require.NoError(t, os.MkdirAll(backupDir, 0o755))

	foreign := filepath.Join(backupDir, "notes.txt")
	require.NoError(t, os.WriteFile(foreign, []byte("keep me"), 0o644))

	_, err := svc.Run()
	require.NoError(t, err)

	// Prune only touches files with the backup prefix
	_, err = os.Stat(foreign)
	assert.NoError(t, err)
}

func TestRunScheduled_HonorsAutoBackupSetting(t *testing.T) {
	env := newTestEnv(t)
	svc, _ := newBackupService(t, env, 30)

	require.NoError(t, env.settings.Set(models.SettingAutoBackup, "0"))
	result, err := svc.RunScheduled()
	require.NoError(t, err)
	assert.Nil(t, result)

	require.NoError(t, env.settings.Set(models.SettingAutoBackup, "1"))
	result, err = svc.RunScheduled()
	require.NoError(t, err)
	require.NotNil(t, result)

	backups, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestBackupList_EmptyDirectory(t *testing.T) {
	env := newTestEnv(t)
	svc, _ := newBackupService(t, env, 30)

	backups, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, backups)
}
