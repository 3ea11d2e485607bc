package migration

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed sql/*.sql
var migrations embed.FS

const migrationsDir = "sql"

// gooseLogger routes goose's printf-style output into zerolog.
type gooseLogger struct {
	l zerolog.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.l.Debug().Msgf(format, v...)
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.l.Fatal().Msgf(format, v...)
}

// EnsureMigrated applies every pending embedded migration against db.
// It is safe to call on every start; goose tracks applied versions in goose_db_version.
func EnsureMigrated(ctx context.Context, db *sql.DB, log zerolog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With().Str("component", "database").Str("db_host", dbHost).Logger()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{l: log})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	before, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		log.Error().
			Str("event", "db_migration_failed").
			Err(err).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("failed to read schema version")
		return fmt.Errorf("read schema version: %w", err)
	}

	log.Info().
		Str("event", "db_migration_start").
		Int64("from_version", before).
		Msg("applying migrations")

	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		log.Error().
			Str("event", "db_migration_failed").
			Err(err).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("migration failed")
		return fmt.Errorf("apply migrations: %w", err)
	}

	after, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	log.Info().
		Str("event", "db_migration_success").
		Int64("from_version", before).
		Int64("to_version", after).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("schema up to date")

	return nil
}
