package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/cobranzahq/cobranza/cmd/cobranza/modules"
	migrations "github.com/cobranzahq/cobranza/db"
	"github.com/cobranzahq/cobranza/internal/config"
	"github.com/cobranzahq/cobranza/internal/db"
	"github.com/cobranzahq/cobranza/internal/logger"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:          "cobranza",
		Short:        "Cobranza multi-tenant collections API",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "path to config.toml")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				fx.Supply(modules.ConfigPath(configPath)),
				modules.InfraModule,
				modules.DomainModule,
				modules.HandlersModule,
				modules.ServerModule,
			)
			app.Run()
			return nil
		},
	}

	migrate := &cobra.Command{
		Use:   "migrate [up|down|version|force N]",
		Short: "Apply database migrations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger.Init(cfg.Log.Level, cfg.Log.Format)

			migrationsFS, err := fs.Sub(migrations.MigrationsFS, "migrations")
			if err != nil {
				return fmt.Errorf("migrations fs: %w", err)
			}
			return db.RunMigrate(logger.L, cfg.Postgres, migrationsFS, args[0], args[1:])
		},
	}

	root.AddCommand(serve, migrate)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
