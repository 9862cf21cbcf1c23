package main

import (
	"context"
	"flag"
	"os"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/seed"
)

func main() {
	email := flag.String("email", os.Getenv("SUPERUSER_EMAIL"), "Superuser email (skipped when empty)")
	username := flag.String("username", os.Getenv("SUPERUSER_USERNAME"), "Superuser username (defaults to the email's local part)")
	password := flag.String("password", os.Getenv("SUPERUSER_PASSWORD"), "Superuser password")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.AutoMigrate(db); err != nil {
		logging.Fatal().Err(err).Msg("failed to migrate database")
	}

	result, err := seed.New(db).Run(context.Background(), seed.Superuser{
		Email:    *email,
		Username: *username,
		Password: *password,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("seeding failed")
	}

	logging.Info().
		Bool("superuser_created", result.SuperuserCreated).
		Int("tags_created", result.TagsCreated).
		Msg("seed complete")
}
