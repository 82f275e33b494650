// Package app wires repositories, services, and the HTTP handler.
package app

import (
	"context"
	"database/sql"
	"log/slog"

	"countystats/internal/ai"
	"countystats/internal/api"
	"countystats/internal/config"
	"countystats/internal/db/repository"
	"countystats/internal/engine"
	"countystats/internal/service"
)

// Deps holds the external dependencies that main() must provide: config,
// database pools, and the logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups the service pointers the HTTP handler needs.
type Services struct {
	Auth    *service.AuthService
	Query   *service.QueryService
	Users   *service.UserService
	Prompt  *service.PromptService
	Records *service.RecordService
	Info    *service.InfoService
}

// App is the fully wired application.
type App struct {
	Services Services
	Handler  *api.Handler
	UserRepo *repository.UserRepo
}

// New wires all repositories and services from the provided deps and runs
// startup seeding.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg

	// Repositories on the write pool.
	userRepo := repository.NewUserRepo(deps.WriteDB)
	overrideRepo := repository.NewOverrideRepo(deps.WriteDB)
	promptRepo := repository.NewPromptConfigRepo(deps.WriteDB)
	auditRepo := repository.NewAuditRepo(deps.WriteDB)
	historyRepo := repository.NewQueryHistoryRepo(deps.WriteDB)
	countyRepo := repository.NewCountyRepo(deps.WriteDB)
	infraRepo := repository.NewInfrastructureRepo(deps.WriteDB)
	agriRepo := repository.NewAgricultureSaleRepo(deps.WriteDB)
	economyRepo := repository.NewCountyEconomyRepo(deps.WriteDB)
	demoRepo := repository.NewCountyDemographicsRepo(deps.WriteDB)

	// Read-only aggregates on the read pool.
	statsRepo := repository.NewStatsRepo(deps.ReadDB)

	// Free-form SQL can mutate, so the executor uses the write pool.
	executor := engine.NewExecutor(deps.WriteDB, deps.Logger.With("component", "executor"))

	provider := ai.NewChatProvider(cfg.AI)
	generator := ai.NewGenerator(provider, promptRepo, cfg.AI.Configured(), deps.Logger.With("component", "generator"))

	permissionSvc := service.NewPermissionService(overrideRepo)
	authSvc := service.NewAuthService(userRepo, auditRepo, []byte(cfg.JWTSecret))
	querySvc := service.NewQueryService(executor, generator, permissionSvc, historyRepo, auditRepo, deps.Logger.With("component", "query"))
	userSvc := service.NewUserService(userRepo, overrideRepo, permissionSvc, auditRepo)
	promptSvc := service.NewPromptService(promptRepo, generator, auditRepo)
	recordSvc := service.NewRecordService(countyRepo, infraRepo, agriRepo, economyRepo, demoRepo, permissionSvc)
	infoSvc := service.NewInfoService(statsRepo, historyRepo, auditRepo)

	a := &App{
		Services: Services{
			Auth:    authSvc,
			Query:   querySvc,
			Users:   userSvc,
			Prompt:  promptSvc,
			Records: recordSvc,
			Info:    infoSvc,
		},
		Handler:  api.NewHandler(authSvc, querySvc, userSvc, promptSvc, recordSvc, infoSvc, deps.Logger.With("component", "api")),
		UserRepo: userRepo,
	}

	if err := seed(ctx, deps, promptRepo, userRepo); err != nil {
		return nil, err
	}
	return a, nil
}
