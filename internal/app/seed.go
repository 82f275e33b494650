package app

import (
	"context"
	"errors"

	"countystats/internal/db/repository"
	"countystats/internal/domain"
)

// seed performs idempotent startup initialization: the default prompt config
// is materialized if absent, and the bootstrap admin account (when named) is
// promoted to superuser.
func seed(ctx context.Context, deps Deps, prompts *repository.PromptConfigRepo, users *repository.UserRepo) error {
	if _, err := prompts.Get(ctx); err != nil {
		return err
	}

	if deps.Cfg.BootstrapAdmin == "" {
		return nil
	}
	user, err := users.GetByUsername(ctx, deps.Cfg.BootstrapAdmin)
	if err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			deps.Logger.Warn("bootstrap admin not found, register the account then restart", "username", deps.Cfg.BootstrapAdmin)
			return nil
		}
		return err
	}
	if user.IsSuperuser {
		return nil
	}
	if err := users.SetSuperuser(ctx, user.ID, true); err != nil {
		return err
	}
	deps.Logger.Info("bootstrap admin promoted", "username", user.Username)
	return nil
}
