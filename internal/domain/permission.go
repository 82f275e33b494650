package domain

import "time"

// Permission provenance values reported by UserPermissions.
const (
	SourceCustom = "custom" // an explicit per-user override was applied
	SourceRole   = "role"   // the role-derived default was applied
)

// TableOverride is an explicit per-user, per-table permission record. It
// takes precedence over role-derived defaults, including for view, so an
// override can restrict access a role would otherwise grant. At most one
// override exists per (user, table); updates are last-write-wins.
type TableOverride struct {
	UserID    int64
	Table     TableKey
	CanView   bool
	CanEdit   bool
	UpdatedAt time.Time
}

// Validate checks that the override is well-formed.
func (o *TableOverride) Validate() error {
	if o.UserID == 0 {
		return ErrValidation("user id is required")
	}
	if !o.Table.Valid() {
		return ErrValidation("unknown table key %q", o.Table)
	}
	return nil
}

// TablePermission is the effective permission on one table for one user,
// including where the decision came from.
type TablePermission struct {
	Table  TableKey
	Name   string // display name
	View   bool
	Edit   bool
	Source string // SourceCustom or SourceRole
}
