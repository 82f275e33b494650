// Package repository implements the domain repository interfaces over SQLite.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"countystats/internal/domain"

	"github.com/mattn/go-sqlite3"
)

var _ domain.UserRepository = (*UserRepo)(nil)

// UserRepo implements domain.UserRepository using SQLite.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new user and returns it with its assigned ID.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, is_superuser) VALUES (?, ?, ?, ?)`,
		u.Username, u.Email, u.PasswordHash, boolToInt(u.IsSuperuser))
	if err != nil {
		return nil, mapDBError(err, "user %q already exists", u.Username)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByID returns the user with the given ID, including role memberships.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, `SELECT id, username, email, password_hash, is_superuser, created_at FROM users WHERE id = ?`, id)
}

// GetByUsername returns the user with the given username, including role
// memberships.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT id, username, email, password_hash, is_superuser, created_at FROM users WHERE username = ?`, username)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var u domain.User
	var super int
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &super, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	u.IsSuperuser = super != 0
	u.Roles, err = r.rolesFor(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns all users ordered by username. When search is non-empty, only
// users whose username or email contains it.
func (r *UserRepo) List(ctx context.Context, search string) ([]domain.User, error) {
	query := `SELECT id, username, email, password_hash, is_superuser, created_at FROM users`
	args := []interface{}{}
	if search != "" {
		query += ` WHERE username LIKE ? OR email LIKE ?`
		pattern := "%" + strings.TrimSpace(search) + "%"
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY username`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		var super int
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &super, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.IsSuperuser = super != 0
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range users {
		users[i].Roles, err = r.rolesFor(ctx, users[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (r *UserRepo) rolesFor(ctx context.Context, userID int64) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT role FROM user_roles WHERE user_id = ? ORDER BY role`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		roles = append(roles, domain.Role(role))
	}
	return roles, rows.Err()
}

// SetRole replaces the user's role memberships with the single given role.
func (r *UserRepo) SetRole(ctx context.Context, userID int64, role domain.Role) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = ?`, userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO user_roles (user_id, role) VALUES (?, ?)`, userID, string(role)); err != nil {
		return err
	}
	return tx.Commit()
}

// ClearRoles removes all role memberships for the user.
func (r *UserRepo) ClearRoles(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = ?`, userID)
	return err
}

// SetSuperuser updates the user's superuser flag.
func (r *UserRepo) SetSuperuser(ctx context.Context, userID int64, isSuperuser bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET is_superuser = ? WHERE id = ?`, boolToInt(isSuperuser), userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res, "user %d not found", userID)
}

// Delete removes the user. Role memberships and overrides cascade.
func (r *UserRepo) Delete(ctx context.Context, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res, "user %d not found", userID)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func requireRowAffected(res sql.Result, format string, args ...interface{}) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound(format, args...)
	}
	return nil
}

// mapDBError converts sqlite constraint violations into domain conflicts.
func mapDBError(err error, format string, args ...interface{}) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return domain.ErrConflict(format, args...)
	}
	return fmt.Errorf("db: %w", err)
}
