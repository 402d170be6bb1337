package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/josegonz115/flair-ai/internal/domain"
)

// PostgresStore handles all relational database operations: search history
// and request audit logs.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and returns a store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// --- Search history ---

// InsertSearch records one completed similarity search.
func (s *PostgresStore) InsertSearch(ctx context.Context, rec *domain.SearchRecord) error {
	query := `INSERT INTO searches (id, query_count, library_location, library_size, best_path, best_score, duration_ms)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.QueryCount, rec.LibraryLocation, rec.LibrarySize,
		rec.BestPath, rec.BestScore, rec.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("insert search: %w", err)
	}
	return nil
}

// ListSearches returns the most recent search records, newest first.
func (s *PostgresStore) ListSearches(ctx context.Context, limit int) ([]domain.SearchRecord, error) {
	query := `SELECT id, query_count, library_location, library_size, best_path, best_score, duration_ms, created_at
	          FROM searches ORDER BY created_at DESC LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}
	defer rows.Close()

	var records []domain.SearchRecord
	for rows.Next() {
		var r domain.SearchRecord
		if err := rows.Scan(
			&r.ID, &r.QueryCount, &r.LibraryLocation, &r.LibrarySize,
			&r.BestPath, &r.BestScore, &r.DurationMs, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan search: %w", err)
		}
		records = append(records, r)
	}
	return records, nil
}

// --- Audit logs ---

// WriteAudit persists one audit record.
func (s *PostgresStore) WriteAudit(action, resource, details, ip, userAgent string) error {
	query := `INSERT INTO audit_logs (action, resource, details, ip, user_agent)
	          VALUES ($1, $2, $3::jsonb, $4, $5)`
	_, err := s.db.ExecContext(context.Background(), query,
		action, resource, details, ip, userAgent,
	)
	return err
}

// ListAuditLogs returns recent audit logs with an optional action filter.
func (s *PostgresStore) ListAuditLogs(ctx context.Context, limit int, action string) ([]domain.AuditLog, error) {
	query := `SELECT id, action, resource, details, ip, user_agent, created_at
	          FROM audit_logs`
	args := []interface{}{}
	argIdx := 1

	if action != "" {
		query += fmt.Sprintf(" WHERE action = $%d", argIdx)
		args = append(args, action)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.AuditLog
	for rows.Next() {
		var l domain.AuditLog
		if err := rows.Scan(
			&l.ID, &l.Action, &l.Resource, &l.Details, &l.IP, &l.UserAgent, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, nil
}
