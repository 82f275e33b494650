package service

import (
	"context"

	"countystats/internal/ai"
	"countystats/internal/domain"
)

// PromptService manages the text-to-SQL prompt configuration.
type PromptService struct {
	prompts   domain.PromptConfigRepository
	generator *ai.Generator
	audit     domain.AuditRepository
}

func NewPromptService(prompts domain.PromptConfigRepository, generator *ai.Generator, audit domain.AuditRepository) *PromptService {
	return &PromptService{prompts: prompts, generator: generator, audit: audit}
}

// Get returns the current prompt configuration. Admin only.
func (s *PromptService) Get(ctx context.Context, actor *domain.User) (*domain.PromptConfig, error) {
	if err := requireSuperuser(actor); err != nil {
		return nil, err
	}
	return s.prompts.Get(ctx)
}

// Update replaces the prompt configuration. Admin only.
func (s *PromptService) Update(ctx context.Context, actor *domain.User, cfg *domain.PromptConfig) error {
	if err := requireSuperuser(actor); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.UpdatedBy = actor.Username
	if err := s.prompts.Update(ctx, cfg); err != nil {
		return err
	}
	_ = s.audit.Insert(ctx, &domain.AuditEntry{
		Username: actor.Username,
		Action:   "UPDATE_PROMPT",
		Status:   "OK",
	})
	return nil
}

// Preview renders the full user prompt that would be sent for the question.
// Admin only.
func (s *PromptService) Preview(ctx context.Context, actor *domain.User, question string) (string, error) {
	if err := requireSuperuser(actor); err != nil {
		return "", err
	}
	return s.generator.FullPrompt(ctx, question)
}
