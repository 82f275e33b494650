// Command countystats is the operator CLI: it serves the HTTP API, bulk-loads
// CSV data, and creates accounts.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"countystats/internal/app"
	"countystats/internal/config"
	internaldb "countystats/internal/db"
	"countystats/internal/db/repository"
	"countystats/internal/domain"
	"countystats/internal/ingest"
	"countystats/internal/service"
)

func main() {
	root := &cobra.Command{
		Use:           "countystats",
		Short:         "County socioeconomic statistics portal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), loadCSVCmd(), createUserCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads config, opens the database pair, and runs migrations.
func setup() (*config.Config, *sql.DB, *sql.DB, *slog.Logger, func(), error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, nil, nil, nil, nil, err
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	for _, warning := range cfg.Warnings {
		logger.Warn(warning)
	}

	writeDB, readDB, err := internaldb.OpenSQLitePair(cfg.DBPath, 0)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	cleanup := func() {
		_ = writeDB.Close()
		_ = readDB.Close()
	}
	if err := internaldb.RunMigrations(writeDB); err != nil {
		cleanup()
		return nil, nil, nil, nil, nil, err
	}
	return cfg, writeDB, readDB, logger, cleanup, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, writeDB, readDB, logger, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			deps := app.Deps{Cfg: cfg, WriteDB: writeDB, ReadDB: readDB, Logger: logger}
			a, err := app.New(ctx, deps)
			if err != nil {
				return err
			}
			return a.Serve(ctx, deps)
		},
	}
}

func loadCSVCmd() *cobra.Command {
	var table, file string
	cmd := &cobra.Command{
		Use:   "load-csv",
		Short: "Bulk-load a CSV file into a business table (update-or-create)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, writeDB, _, logger, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()

			loader := ingest.NewLoader(
				repository.NewCountyRepo(writeDB),
				repository.NewInfrastructureRepo(writeDB),
				repository.NewAgricultureSaleRepo(writeDB),
				repository.NewCountyEconomyRepo(writeDB),
				repository.NewCountyDemographicsRepo(writeDB),
				logger,
			)
			count, err := loader.LoadFile(cmd.Context(), domain.TableKey(table), file)
			if err != nil {
				return err
			}
			fmt.Printf("loaded %d rows into %s\n", count, table)
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "table key: county, infra, agri, economy, demo")
	cmd.Flags().StringVar(&file, "file", "", "path to the CSV file")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func createUserCmd() *cobra.Command {
	var username, email, password, role string
	var superuser bool
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a portal account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, writeDB, _, _, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()
			ctx := cmd.Context()

			userRepo := repository.NewUserRepo(writeDB)
			auditRepo := repository.NewAuditRepo(writeDB)
			authSvc := service.NewAuthService(userRepo, auditRepo, []byte(cfg.JWTSecret))

			user, err := authSvc.Register(ctx, &domain.RegisterRequest{
				Username: username,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}
			if role != "" {
				if !domain.ValidRole(role) {
					return domain.ErrValidation("unknown role %q", role)
				}
				if err := userRepo.SetRole(ctx, user.ID, domain.Role(role)); err != nil {
					return err
				}
			}
			if superuser {
				if err := userRepo.SetSuperuser(ctx, user.ID, true); err != nil {
					return err
				}
			}
			fmt.Printf("created user %s (id=%d)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "account username")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (min 8 characters)")
	cmd.Flags().StringVar(&role, "role", "", "initial role: data_entry or analyst")
	cmd.Flags().BoolVar(&superuser, "superuser", false, "grant superuser")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
