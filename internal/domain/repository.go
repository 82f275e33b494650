package domain

import "context"

// UserRepository persists portal accounts and role memberships.
type UserRepository interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	// List returns all users; when search is non-empty, only users whose
	// username or email contains it.
	List(ctx context.Context, search string) ([]User, error)
	// SetRole replaces the user's role memberships with the single given role.
	SetRole(ctx context.Context, userID int64, role Role) error
	// ClearRoles removes all role memberships.
	ClearRoles(ctx context.Context, userID int64) error
	SetSuperuser(ctx context.Context, userID int64, isSuperuser bool) error
	Delete(ctx context.Context, userID int64) error
}

// OverrideRepository persists per-user per-table permission overrides.
type OverrideRepository interface {
	// Get returns the override for (user, table), or a NotFoundError when
	// none exists; absence means "fall back to role defaults".
	Get(ctx context.Context, userID int64, table TableKey) (*TableOverride, error)
	// Upsert creates or replaces the override (last-write-wins).
	Upsert(ctx context.Context, o *TableOverride) error
	ListForUser(ctx context.Context, userID int64) ([]TableOverride, error)
}

// PromptConfigRepository persists the singleton text-to-SQL prompt config.
type PromptConfigRepository interface {
	// Get returns the config, lazily creating the built-in defaults if no
	// record exists yet.
	Get(ctx context.Context) (*PromptConfig, error)
	Update(ctx context.Context, c *PromptConfig) error
}

// AuditRepository persists audit log entries.
type AuditRepository interface {
	Insert(ctx context.Context, e *AuditEntry) error
	List(ctx context.Context, limit int) ([]AuditEntry, error)
}

// QueryHistoryRepository persists query console and smart-query history.
type QueryHistoryRepository interface {
	Insert(ctx context.Context, e *QueryHistoryEntry) error
	// List returns recent entries, newest first. When username is non-empty,
	// only that user's entries.
	List(ctx context.Context, username string, limit int) ([]QueryHistoryEntry, error)
}

// CompletionProvider is the external text-completion collaborator used by
// the SQL generator. Implementations make exactly one attempt per call.
type CompletionProvider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// CountyRepository persists county master records.
type CountyRepository interface {
	List(ctx context.Context) ([]County, error)
	Get(ctx context.Context, id int64) (*County, error)
	Create(ctx context.Context, c *County) (*County, error)
	Update(ctx context.Context, c *County) error
	// Upsert inserts or updates by county_id (CSV bulk load).
	Upsert(ctx context.Context, c *County) error
}

// InfrastructureRepository persists infrastructure coverage records.
type InfrastructureRepository interface {
	List(ctx context.Context) ([]Infrastructure, error)
	Get(ctx context.Context, id int64) (*Infrastructure, error)
	Create(ctx context.Context, r *Infrastructure) (*Infrastructure, error)
	Update(ctx context.Context, r *Infrastructure) error
	// Upsert inserts or updates by (county_id, year).
	Upsert(ctx context.Context, r *Infrastructure) error
}

// AgricultureSaleRepository persists agriculture sales records.
type AgricultureSaleRepository interface {
	List(ctx context.Context) ([]AgricultureSale, error)
	Get(ctx context.Context, id int64) (*AgricultureSale, error)
	Create(ctx context.Context, r *AgricultureSale) (*AgricultureSale, error)
	Update(ctx context.Context, r *AgricultureSale) error
	// Upsert inserts or updates by (county_id, year, product_type).
	Upsert(ctx context.Context, r *AgricultureSale) error
}

// CountyEconomyRepository persists county economy records.
type CountyEconomyRepository interface {
	List(ctx context.Context) ([]CountyEconomy, error)
	Get(ctx context.Context, id int64) (*CountyEconomy, error)
	Create(ctx context.Context, r *CountyEconomy) (*CountyEconomy, error)
	Update(ctx context.Context, r *CountyEconomy) error
	// Upsert inserts or updates by (county_id, year).
	Upsert(ctx context.Context, r *CountyEconomy) error
}

// CountyDemographicsRepository persists county demographics records.
type CountyDemographicsRepository interface {
	List(ctx context.Context) ([]CountyDemographics, error)
	Get(ctx context.Context, id int64) (*CountyDemographics, error)
	Create(ctx context.Context, r *CountyDemographics) (*CountyDemographics, error)
	Update(ctx context.Context, r *CountyDemographics) error
	// Upsert inserts or updates by (county_id, year).
	Upsert(ctx context.Context, r *CountyDemographics) error
}

// StatsRepository computes dashboard aggregates over the business tables.
type StatsRepository interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
}
