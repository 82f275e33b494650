package repository

import (
	"context"
	"database/sql"
	"errors"

	"countystats/internal/domain"
)

var _ domain.OverrideRepository = (*OverrideRepo)(nil)

// OverrideRepo implements domain.OverrideRepository using SQLite.
type OverrideRepo struct {
	db *sql.DB
}

// NewOverrideRepo creates a new OverrideRepo.
func NewOverrideRepo(db *sql.DB) *OverrideRepo {
	return &OverrideRepo{db: db}
}

// Get returns the override for (user, table), or a NotFoundError when none
// exists.
func (r *OverrideRepo) Get(ctx context.Context, userID int64, table domain.TableKey) (*domain.TableOverride, error) {
	var o domain.TableOverride
	var view, edit int
	var key string
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, table_key, can_view, can_edit, updated_at FROM table_overrides WHERE user_id = ? AND table_key = ?`,
		userID, string(table)).
		Scan(&o.UserID, &key, &view, &edit, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("no override for user %d on table %s", userID, table)
	}
	if err != nil {
		return nil, err
	}
	o.Table = domain.TableKey(key)
	o.CanView = view != 0
	o.CanEdit = edit != 0
	return &o, nil
}

// Upsert creates or replaces the override for (user, table).
func (r *OverrideRepo) Upsert(ctx context.Context, o *domain.TableOverride) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO table_overrides (user_id, table_key, can_view, can_edit, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, table_key) DO UPDATE SET
		   can_view = excluded.can_view,
		   can_edit = excluded.can_edit,
		   updated_at = CURRENT_TIMESTAMP`,
		o.UserID, string(o.Table), boolToInt(o.CanView), boolToInt(o.CanEdit))
	return err
}

// ListForUser returns all overrides for the user.
func (r *OverrideRepo) ListForUser(ctx context.Context, userID int64) ([]domain.TableOverride, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, table_key, can_view, can_edit, updated_at FROM table_overrides WHERE user_id = ? ORDER BY table_key`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TableOverride
	for rows.Next() {
		var o domain.TableOverride
		var view, edit int
		var key string
		if err := rows.Scan(&o.UserID, &key, &view, &edit, &o.UpdatedAt); err != nil {
			return nil, err
		}
		o.Table = domain.TableKey(key)
		o.CanView = view != 0
		o.CanEdit = edit != 0
		out = append(out, o)
	}
	return out, rows.Err()
}
