package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/studyhall/membership-backend/internal/config"
)

// DB interface defines database operations
type DB interface {
	Get(dest interface{}, query string, args ...interface{}) error
	Select(dest interface{}, query string, args ...interface{}) error
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
	Beginx() (*sqlx.Tx, error)
	Ping() error
	Close() error
}

// SQLiteDB implements the DB interface using sqlx
type SQLiteDB struct {
	*sqlx.DB

	// Path is the location of the store file; the backup manager copies it.
	Path string
}

// NewConnection opens (and creates if absent) the SQLite store file
func NewConnection(cfg config.DatabaseConfig) (*SQLiteDB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	// Ensure the data directory exists
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Foreign keys are opt-in per connection in SQLite; WAL keeps readers
	// from blocking the writer, and the busy timeout covers writer contention
	// between the API, the scheduler jobs and the event bridge.
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", cfg.Path)
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; one pooled connection avoids
	// SQLITE_BUSY churn across the concurrent surfaces.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sq := &SQLiteDB{DB: db, Path: cfg.Path}
	if err := sq.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return sq, nil
}

// Get wraps sqlx.Get
func (db *SQLiteDB) Get(dest interface{}, query string, args ...interface{}) error {
	return db.DB.Get(dest, query, args...)
}

// Select wraps sqlx.Select
func (db *SQLiteDB) Select(dest interface{}, query string, args ...interface{}) error {
	return db.DB.Select(dest, query, args...)
}

// Exec wraps sqlx.Exec
func (db *SQLiteDB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.DB.Exec(query, args...)
}

// QueryRow wraps sqlx.QueryRow
func (db *SQLiteDB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.DB.QueryRow(query, args...)
}

// Query wraps sqlx.Query
func (db *SQLiteDB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.DB.Query(query, args...)
}

// Beginx wraps sqlx.Beginx
func (db *SQLiteDB) Beginx() (*sqlx.Tx, error) {
	return db.DB.Beginx()
}

// Ping wraps sqlx.Ping
func (db *SQLiteDB) Ping() error {
	return db.DB.Ping()
}

// Close wraps sqlx.Close
func (db *SQLiteDB) Close() error {
	return db.DB.Close()
}
