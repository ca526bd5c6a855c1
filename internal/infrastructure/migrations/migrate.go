// Package migrations embeds the schema for both supported stores and applies
// it with golang-migrate.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
)

//go:embed postgres/*.sql
var postgresFS embed.FS

//go:embed sqlite/*.sql
var sqliteFS embed.FS

// UpPostgres applies pending Postgres migrations. It opens its own
// database/sql handle through the pgx stdlib driver and closes it on return.
func UpPostgres(dsn string, logger *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		_ = db.Close()
		return err
	}
	src, err := iofs.New(postgresFS, "postgres")
	if err != nil {
		_ = db.Close()
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() { _, _ = m.Close() }()
	return up(m, logger)
}

// UpSQLite applies pending SQLite migrations on db. The handle stays open;
// the caller owns it.
func UpSQLite(db *sql.DB, logger *logrus.Logger) error {
	driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		return err
	}
	src, err := iofs.New(sqliteFS, "sqlite")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return err
	}
	// m.Close would close db through the driver.
	defer func() { _ = src.Close() }()
	return up(m, logger)
}

func up(m *migrate.Migrate, logger *logrus.Logger) error {
	if logger != nil {
		logger.Info("running migrations...")
	}
	err := m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		if logger != nil {
			logger.Info("no migrations to run")
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
