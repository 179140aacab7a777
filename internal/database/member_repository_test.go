package database

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyhall/membership-backend/internal/models"
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func TestMarkExpired_OnlyActiveRows(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMemberRepository(db)

	mock.ExpectExec(`UPDATE members`).
		WithArgs("2024-02-01").
		WillReturnResult(sqlmock.NewResult(0, 3))

	expired, err := repo.MarkExpired("2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, int64(3), expired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkExpired_PropagatesStoreError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMemberRepository(db)

	mock.ExpectExec(`UPDATE members`).
		WithArgs("2024-02-01").
		WillReturnError(errors.New("disk I/O error"))

	_, err := repo.MarkExpired("2024-02-01")
	assert.EqualError(t, err, "disk I/O error")
}

func TestUpdateStatus_ReportsNoChange(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMemberRepository(db)

	mock.ExpectExec(`UPDATE members`).
		WithArgs("suspended", int64(7), "suspended").
		WillReturnResult(sqlmock.NewResult(0, 0))

	changed, err := repo.UpdateStatus(7, "suspended")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestSeatTaken_ExcludesSelf(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMemberRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM members`).
		WithArgs("A1", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	taken, err := repo.SeatTaken("A1", 7)
	require.NoError(t, err)
	assert.False(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NoFieldsIsNoOp(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMemberRepository(db)

	// No expectations registered: an empty update must not hit the store
	err := repo.Update(7, models.UpdateMemberRequest{})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
