package domain

import (
	"strings"
	"time"
)

// Role names a portal role. The role set is closed and known at compile time.
type Role string

const (
	// RoleDataEntry grants edit access to the business tables by default.
	RoleDataEntry Role = "data_entry"
	// RoleAnalyst grants read-only access to the business tables by default.
	RoleAnalyst Role = "analyst"
)

// AllRoles returns the closed set of assignable roles.
func AllRoles() []Role {
	return []Role{RoleDataEntry, RoleAnalyst}
}

// ValidRole reports whether name is one of the closed role set.
func ValidRole(name string) bool {
	switch Role(name) {
	case RoleDataEntry, RoleAnalyst:
		return true
	}
	return false
}

// User represents a portal account.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsSuperuser  bool
	Roles        []Role
	CreatedAt    time.Time
}

// HasRole reports whether the user belongs to the given role.
func (u *User) HasRole(r Role) bool {
	for _, have := range u.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// RegisterRequest holds parameters for creating a new account.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// Validate checks that the request is well-formed.
func (r *RegisterRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	if r.Username == "" {
		return ErrValidation("username is required")
	}
	if len(r.Password) < 8 {
		return ErrValidation("password must be at least 8 characters")
	}
	return nil
}
