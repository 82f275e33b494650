package service

import (
	"context"
	"fmt"

	"countystats/internal/domain"
)

// UserService covers the admin user-management surface and self-service
// profile operations.
type UserService struct {
	users       domain.UserRepository
	overrides   domain.OverrideRepository
	permissions *PermissionService
	audit       domain.AuditRepository
}

func NewUserService(users domain.UserRepository, overrides domain.OverrideRepository, permissions *PermissionService, audit domain.AuditRepository) *UserService {
	return &UserService{users: users, overrides: overrides, permissions: permissions, audit: audit}
}

// UserWithPermissions pairs an account with its effective table permissions.
type UserWithPermissions struct {
	User        domain.User
	Permissions []domain.TablePermission
}

// List returns all users matching the search, each with resolved
// permissions. Admin only.
func (s *UserService) List(ctx context.Context, actor *domain.User, search string) ([]UserWithPermissions, error) {
	if err := requireSuperuser(actor); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, search)
	if err != nil {
		return nil, err
	}
	out := make([]UserWithPermissions, 0, len(users))
	for i := range users {
		perms, err := s.permissions.UserPermissions(ctx, &users[i])
		if err != nil {
			return nil, err
		}
		out = append(out, UserWithPermissions{User: users[i], Permissions: perms})
	}
	return out, nil
}

// SetRole replaces the target user's role with the given one. An empty role
// clears all memberships. Admin only.
func (s *UserService) SetRole(ctx context.Context, actor *domain.User, targetID int64, role string) error {
	if err := requireSuperuser(actor); err != nil {
		return err
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if role == "" {
		if err := s.users.ClearRoles(ctx, targetID); err != nil {
			return err
		}
	} else {
		if !domain.ValidRole(role) {
			return domain.ErrValidation("unknown role %q", role)
		}
		if err := s.users.SetRole(ctx, targetID, domain.Role(role)); err != nil {
			return err
		}
	}
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		Username: actor.Username,
		Action:   "SET_ROLE",
		Detail:   fmt.Sprintf("user=%s role=%s", target.Username, role),
		Status:   "OK",
	})
	return nil
}

// ToggleSuperuser flips the target's superuser flag. Admins cannot demote
// themselves. Admin only.
func (s *UserService) ToggleSuperuser(ctx context.Context, actor *domain.User, targetID int64) (*domain.User, error) {
	if err := requireSuperuser(actor); err != nil {
		return nil, err
	}
	if actor.ID == targetID {
		return nil, domain.ErrValidation("cannot change your own superuser flag")
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetSuperuser(ctx, targetID, !target.IsSuperuser); err != nil {
		return nil, err
	}
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		Username: actor.Username,
		Action:   "TOGGLE_SUPERUSER",
		Detail:   fmt.Sprintf("user=%s superuser=%t", target.Username, !target.IsSuperuser),
		Status:   "OK",
	})
	return s.users.GetByID(ctx, targetID)
}

// Delete removes the target account. Admins cannot delete themselves.
// Admin only.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, targetID int64) error {
	if err := requireSuperuser(actor); err != nil {
		return err
	}
	if actor.ID == targetID {
		return domain.ErrValidation("cannot delete your own account")
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		Username: actor.Username,
		Action:   "DELETE_USER",
		Detail:   "user=" + target.Username,
		Status:   "OK",
	})
	return nil
}

// SetOverride creates or replaces a per-table permission override for the
// target user. Admin only.
func (s *UserService) SetOverride(ctx context.Context, actor *domain.User, o *domain.TableOverride) error {
	if err := requireSuperuser(actor); err != nil {
		return err
	}
	if err := o.Validate(); err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, o.UserID); err != nil {
		return err
	}
	if err := s.overrides.Upsert(ctx, o); err != nil {
		return err
	}
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		Username: actor.Username,
		Action:   "SET_OVERRIDE",
		Detail:   fmt.Sprintf("user_id=%d table=%s view=%t edit=%t", o.UserID, o.Table, o.CanView, o.CanEdit),
		Status:   "OK",
	})
	return nil
}

// Profile returns the actor's account together with resolved permissions and
// the assignable role set.
func (s *UserService) Profile(ctx context.Context, actor *domain.User) (*UserWithPermissions, error) {
	if actor == nil {
		return nil, domain.ErrAccessDenied("authentication required")
	}
	perms, err := s.permissions.UserPermissions(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &UserWithPermissions{User: *actor, Permissions: perms}, nil
}

// ChangeOwnRole lets a user switch their own role within the closed set.
func (s *UserService) ChangeOwnRole(ctx context.Context, actor *domain.User, role string) error {
	if actor == nil {
		return domain.ErrAccessDenied("authentication required")
	}
	if !domain.ValidRole(role) {
		return domain.ErrValidation("unknown role %q", role)
	}
	if err := s.users.SetRole(ctx, actor.ID, domain.Role(role)); err != nil {
		return err
	}
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		Username: actor.Username,
		Action:   "CHANGE_OWN_ROLE",
		Detail:   "role=" + role,
		Status:   "OK",
	})
	return nil
}

func requireSuperuser(actor *domain.User) error {
	if actor == nil {
		return domain.ErrAccessDenied("authentication required")
	}
	if !actor.IsSuperuser {
		return domain.ErrAccessDenied("administrator access required")
	}
	return nil
}
