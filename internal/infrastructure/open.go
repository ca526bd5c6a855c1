// Package infrastructure selects and opens the configured storage gateway.
package infrastructure

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/event-registration/config"
	"github.com/oksasatya/event-registration/internal/domain/repository"
	"github.com/oksasatya/event-registration/internal/infrastructure/migrations"
	"github.com/oksasatya/event-registration/internal/infrastructure/postgres"
	"github.com/oksasatya/event-registration/internal/infrastructure/sqlite"
)

// OpenGateway migrates and opens the gateway named by cfg.DBDriver.
func OpenGateway(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (repository.Gateway, error) {
	switch cfg.DBDriver {
	case "postgres":
		if err := migrations.UpPostgres(cfg.PostgresDSN(), logger); err != nil {
			return nil, fmt.Errorf("postgres migrations: %w", err)
		}
		pool, err := postgres.NewPool(ctx, cfg.PostgresDSN(), postgres.PoolOptions{
			MaxConns:         cfg.DBMaxConns,
			MinConns:         cfg.DBMinConns,
			MaxConnLifetime:  cfg.DBMaxConnLife,
			ApplicationName:  cfg.AppName,
			StatementTimeout: cfg.DBQueryTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return postgres.NewGateway(pool, cfg.DBQueryTimeout), nil
	case "sqlite":
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		return sqlite.Open(cfg.SQLitePath, cfg.DBQueryTimeout, logger)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
