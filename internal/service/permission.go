package service

import (
	"context"
	"errors"

	"countystats/internal/domain"
	"countystats/internal/engine"
)

// PermissionService resolves effective table permissions. Precedence, most
// specific first: anonymous users get nothing, superusers get everything,
// an explicit override wins verbatim (it can restrict as well as grant),
// otherwise role defaults apply.
type PermissionService struct {
	overrides domain.OverrideRepository
}

func NewPermissionService(overrides domain.OverrideRepository) *PermissionService {
	return &PermissionService{overrides: overrides}
}

// TablePermission resolves one user's effective permission on one table.
// A nil user is anonymous and gets neither view nor edit.
func (s *PermissionService) TablePermission(ctx context.Context, user *domain.User, table domain.TableKey) (*domain.TablePermission, error) {
	if !table.Valid() {
		return nil, domain.ErrValidation("unknown table key %q", table)
	}
	perm := &domain.TablePermission{Table: table, Name: table.DisplayName(), Source: domain.SourceRole}
	if user == nil {
		return perm, nil
	}
	if user.IsSuperuser {
		perm.View = true
		perm.Edit = true
		return perm, nil
	}

	override, err := s.overrides.Get(ctx, user.ID, table)
	if err == nil {
		perm.View = override.CanView
		perm.Edit = override.CanEdit
		perm.Source = domain.SourceCustom
		return perm, nil
	}
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) {
		return nil, err
	}

	perm.View = true
	perm.Edit = user.HasRole(domain.RoleDataEntry)
	return perm, nil
}

// UserPermissions resolves the user's effective permission on every business
// table, in the canonical table order.
func (s *PermissionService) UserPermissions(ctx context.Context, user *domain.User) ([]domain.TablePermission, error) {
	tables := domain.AllTables()
	out := make([]domain.TablePermission, 0, len(tables))
	for _, table := range tables {
		perm, err := s.TablePermission(ctx, user, table)
		if err != nil {
			return nil, err
		}
		out = append(out, *perm)
	}
	return out, nil
}

// CanView reports whether the user may read the table.
func (s *PermissionService) CanView(ctx context.Context, user *domain.User, table domain.TableKey) (bool, error) {
	perm, err := s.TablePermission(ctx, user, table)
	if err != nil {
		return false, err
	}
	return perm.View, nil
}

// CanEdit reports whether the user may write the table.
func (s *PermissionService) CanEdit(ctx context.Context, user *domain.User, table domain.TableKey) (bool, error) {
	perm, err := s.TablePermission(ctx, user, table)
	if err != nil {
		return false, err
	}
	return perm.Edit, nil
}

// CanExecuteSQL decides whether the user may run the statement. Reads are
// open to any authenticated user; writes require superuser or edit access on
// at least one business table. The write gate is deliberately coarse: edit
// on any table permits mutating statements against any of them.
func (s *PermissionService) CanExecuteSQL(ctx context.Context, user *domain.User, query string) (bool, error) {
	if user == nil {
		return false, nil
	}
	if !engine.IsMutating(query) {
		return true, nil
	}
	if user.IsSuperuser {
		return true, nil
	}
	for _, table := range domain.AllTables() {
		perm, err := s.TablePermission(ctx, user, table)
		if err != nil {
			return false, err
		}
		if perm.Edit {
			return true, nil
		}
	}
	return false, nil
}
