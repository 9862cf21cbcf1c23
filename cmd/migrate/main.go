package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"os"

	_ "github.com/lib/pq"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/migrations"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "PostgreSQL connection string (defaults to DATABASE_URL)")
	flag.Parse()

	logging.Init(logging.Config{Level: os.Getenv("LOG_LEVEL"), Format: "console"})

	if *dsn == "" {
		logging.Fatal().Msg("DATABASE_URL environment variable is not set")
	}

	db, err := sql.Open("postgres", *dsn)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}

	all, err := migrations.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load migrations")
	}
	migrator := migrations.NewMigrator(db, all)

	if *rollback {
		name, err := migrator.Rollback(ctx)
		if errors.Is(err, migrations.ErrNothingToRollback) {
			logging.Info().Msg("no migrations to rollback")
			return
		}
		if err != nil {
			logging.Fatal().Err(err).Msg("rollback failed")
		}
		logging.Info().Str("migration", name).Msg("rolled back migration")
		return
	}

	applied, err := migrator.Up(ctx)
	for _, name := range applied {
		logging.Info().Str("migration", name).Msg("applied migration")
	}
	if err != nil {
		logging.Fatal().Err(err).Msg("migration failed")
	}
	if len(applied) == 0 {
		logging.Info().Msg("database is up to date")
	}
}
