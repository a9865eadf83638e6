package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"crm-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ErrNotFound is returned when a referenced row does not exist.
// Callers map it to a 404 at the transport boundary.
var ErrNotFound = errors.New("record not found")

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// AddSystemLog appends an entry to the admin audit log
func (s *Store) AddSystemLog(ctx context.Context, level, message string, userID *int64, ipAddress string) error {
	var ip *string
	if ipAddress != "" {
		ip = &ipAddress
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO system_logs (level, message, user_id, ip_address) VALUES ($1, $2, $3, $4)",
		level, message, userID, ip)
	return err
}

// GetSystemLogs retrieves audit log entries, newest first
func (s *Store) GetSystemLogs(ctx context.Context, limit int) ([]models.SystemLog, error) {
	logs := []models.SystemLog{}
	err := s.db.SelectContext(ctx, &logs,
		"SELECT * FROM system_logs ORDER BY created_at DESC LIMIT $1", limit)
	return logs, err
}

// ClearSystemLogs removes all audit log entries
func (s *Store) ClearSystemLogs(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM system_logs")
	return err
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
