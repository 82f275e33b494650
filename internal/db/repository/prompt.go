package repository

import (
	"context"
	"database/sql"
	"errors"

	"countystats/internal/domain"
)

var _ domain.PromptConfigRepository = (*PromptConfigRepo)(nil)

// PromptConfigRepo implements domain.PromptConfigRepository using SQLite.
// The config is a singleton row with id=1.
type PromptConfigRepo struct {
	db *sql.DB
}

// NewPromptConfigRepo creates a new PromptConfigRepo.
func NewPromptConfigRepo(db *sql.DB) *PromptConfigRepo {
	return &PromptConfigRepo{db: db}
}

// Get returns the prompt config, lazily creating the built-in defaults when
// no record exists yet. Creation is an idempotent upsert, so concurrent
// first access cannot produce duplicate singletons.
func (r *PromptConfigRepo) Get(ctx context.Context) (*domain.PromptConfig, error) {
	cfg, err := r.read(ctx)
	if err == nil {
		return cfg, nil
	}
	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}

	def := domain.DefaultPromptConfig()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO ai_prompt_config (id, table_schema, system_prompt, user_prompt_template)
		 VALUES (1, ?, ?, ?)
		 ON CONFLICT (id) DO NOTHING`,
		def.TableSchema, def.SystemPrompt, def.UserPromptTemplate); err != nil {
		return nil, err
	}
	return r.read(ctx)
}

func (r *PromptConfigRepo) read(ctx context.Context) (*domain.PromptConfig, error) {
	var cfg domain.PromptConfig
	err := r.db.QueryRowContext(ctx,
		`SELECT table_schema, system_prompt, user_prompt_template, updated_at, updated_by FROM ai_prompt_config WHERE id = 1`).
		Scan(&cfg.TableSchema, &cfg.SystemPrompt, &cfg.UserPromptTemplate, &cfg.UpdatedAt, &cfg.UpdatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound("prompt config not found")
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Update replaces the singleton config.
func (r *PromptConfigRepo) Update(ctx context.Context, c *domain.PromptConfig) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ai_prompt_config (id, table_schema, system_prompt, user_prompt_template, updated_at, updated_by)
		 VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   table_schema = excluded.table_schema,
		   system_prompt = excluded.system_prompt,
		   user_prompt_template = excluded.user_prompt_template,
		   updated_at = CURRENT_TIMESTAMP,
		   updated_by = excluded.updated_by`,
		c.TableSchema, c.SystemPrompt, c.UserPromptTemplate, c.UpdatedBy)
	return err
}
