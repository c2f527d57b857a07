package db

import (
	"database/sql"
	"embed"
	"errors"
	"log/slog"

	"pos-catalog/internal/pkg/config"
	"pos-catalog/internal/pkg/errs"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies all pending schema migrations. Already-current
// schemas are a no-op.
func RunMigrations(cfg config.DBConfig) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return errs.Wrap(err, "failed to load embedded migrations")
	}

	sqlDB, err := sql.Open("pgx", cfg.BuildDSN())
	if err != nil {
		return errs.Wrap(err, "failed to open migration connection")
	}
	defer sqlDB.Close()

	driver, err := pgxmigrate.WithInstance(sqlDB, &pgxmigrate.Config{})
	if err != nil {
		return errs.Wrap(err, "failed to init migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return errs.Wrap(err, "failed to init migrator")
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Info("schema already up to date")
			return nil
		}
		return errs.Wrap(err, "failed to apply migrations")
	}

	version, dirty, err := m.Version()
	if err != nil {
		return errs.Wrap(err, "failed to read schema version")
	}
	slog.Info("schema migrated", "version", version, "dirty", dirty)
	return nil
}
