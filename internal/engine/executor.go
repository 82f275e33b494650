package engine

import (
	"context"
	"database/sql"
	"log/slog"

	"countystats/internal/domain"
)

// Executor runs raw SQL against the store and normalizes every outcome,
// success or failure, into an ExecutionResult. It never returns an error to
// the caller; failures are reported in the result's Error field so the API
// can answer with a regular payload.
type Executor struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewExecutor creates an Executor bound to the given pool.
func NewExecutor(db *sql.DB, logger *slog.Logger) *Executor {
	return &Executor{db: db, logger: logger}
}

// Execute runs the statement on a single pinned connection. Statements that
// produce a result set are fully materialized; statements that do not (such
// as INSERT or UPDATE) yield a synthetic one-cell result and the affected
// row count read from the same connection.
func (e *Executor) Execute(ctx context.Context, query string) *domain.ExecutionResult {
	conn, err := e.db.Conn(ctx)
	if err != nil {
		return &domain.ExecutionResult{Error: err.Error()}
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, query)
	if err != nil {
		e.logger.Warn("sql execution failed", "error", err)
		return &domain.ExecutionResult{Error: err.Error()}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return &domain.ExecutionResult{Error: err.Error()}
	}

	if len(cols) == 0 {
		// No result set: a write statement. The driver only steps the
		// statement when the cursor advances, so drain it before
		// changes() is consulted.
		for rows.Next() {
		}
		if err := rows.Err(); err != nil {
			return &domain.ExecutionResult{Error: err.Error()}
		}
		rows.Close()

		var changed int
		if err := conn.QueryRowContext(ctx, `SELECT changes()`).Scan(&changed); err != nil {
			return &domain.ExecutionResult{Error: err.Error()}
		}
		return &domain.ExecutionResult{
			Columns:  []string{"Result"},
			Rows:     [][]interface{}{{"SQL executed successfully"}},
			RowCount: changed,
		}
	}

	out, err := scanRows(rows, len(cols))
	if err != nil {
		return &domain.ExecutionResult{Error: err.Error()}
	}
	return &domain.ExecutionResult{
		Columns:  cols,
		Rows:     out,
		RowCount: len(out),
	}
}

func scanRows(rows *sql.Rows, width int) ([][]interface{}, error) {
	var out [][]interface{}
	for rows.Next() {
		values := make([]interface{}, width)
		ptrs := make([]interface{}, width)
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, values)
	}
	return out, rows.Err()
}
