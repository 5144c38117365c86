package modules

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"

	"github.com/cobranzahq/cobranza/internal/auth"
	"github.com/cobranzahq/cobranza/internal/config"
	"github.com/cobranzahq/cobranza/internal/db"
	"github.com/cobranzahq/cobranza/internal/logger"
)

// ConfigPath is the --config flag value supplied into the fx graph.
type ConfigPath string

// InfraModule provides config, logging, the database pool, and the token
// verifier.
var InfraModule = fx.Module(
	"infra",
	fx.Provide(
		provideConfig,
		provideLogger,
		provideDBConn,
		provideVerifier,
	),
)

func provideConfig(path ConfigPath) (config.Config, error) {
	cfg, err := config.Load(string(path))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideDBConn(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	conn, err := db.Open(context.Background(), cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			conn.Close()
			return nil
		},
	})
	return conn, nil
}

func provideVerifier(cfg config.Config) (auth.Verifier, error) {
	return auth.NewJWTVerifier(cfg.Auth.JWTSecret)
}
