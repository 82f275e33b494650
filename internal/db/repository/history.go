package repository

import (
	"context"
	"database/sql"

	"countystats/internal/domain"
)

var _ domain.QueryHistoryRepository = (*QueryHistoryRepo)(nil)

// QueryHistoryRepo implements domain.QueryHistoryRepository using SQLite.
type QueryHistoryRepo struct {
	db *sql.DB
}

// NewQueryHistoryRepo creates a new QueryHistoryRepo.
func NewQueryHistoryRepo(db *sql.DB) *QueryHistoryRepo {
	return &QueryHistoryRepo{db: db}
}

// Insert records one executed (or rejected) statement.
func (r *QueryHistoryRepo) Insert(ctx context.Context, e *domain.QueryHistoryEntry) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO query_history (username, sql_text, source, statement, status, error, row_count, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Username, e.SQL, e.Source, e.Statement, e.Status, e.Error, e.RowCount, e.DurationMs)
	if err != nil {
		return err
	}
	e.ID, err = res.LastInsertId()
	return err
}

// List returns recent entries, newest first. When username is non-empty,
// only that user's entries.
func (r *QueryHistoryRepo) List(ctx context.Context, username string, limit int) ([]domain.QueryHistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, username, sql_text, source, statement, status, error, row_count, duration_ms, created_at FROM query_history`
	args := []interface{}{}
	if username != "" {
		query += ` WHERE username = ?`
		args = append(args, username)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.QueryHistoryEntry
	for rows.Next() {
		var e domain.QueryHistoryEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.SQL, &e.Source, &e.Statement, &e.Status, &e.Error, &e.RowCount, &e.DurationMs, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
