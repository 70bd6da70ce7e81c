package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"pintperfect/pkg/logger"
	"pintperfect/pub-service/internal/app/pubs/config"
	"pintperfect/pub-service/internal/app/pubs/repository"
	"pintperfect/pub-service/internal/app/pubs/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var (
		app = kingpin.New("pub-seed", "Fill the PintPerfect database with demo users, pubs and ratings.")

		password = app.Flag(
			"password", "password for the demo users").Default(cfg.Seed.Password).String()

		skipIfPresent = app.Flag(
			"skip-if-present", "do nothing when users already exist").Bool()

		migrate = app.Flag(
			"migrate", "run schema migration before seeding").Default("true").Bool()

		timeout = app.Flag(
			"timeout", "overall timeout").Default("1m").Duration()

		logLevel = app.Flag(
			"log-level", "log level").Default(cfg.Log.Level).String()
	)
	kingpin.MustParse(app.Parse(os.Args[1:]))

	logger.Init("pub-seed", *logLevel)

	db, err := repository.ConnectPostgres(cfg.Database.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer repository.CloseDB(db)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *migrate {
		if err := repository.AutoMigrate(ctx, db); err != nil {
			logger.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	seedService := service.NewSeedService(
		repository.NewUserRepository(db),
		repository.NewPubRepository(db),
		repository.NewRatingRepository(db),
		*password,
	)

	start := time.Now()
	result, err := seedService.Seed(ctx, *skipIfPresent)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			logger.Fatal().Msg("Database already seeded, use --skip-if-present to ignore")
		}
		logger.Fatal().Err(err).Msg("Failed to seed database")
	}

	if result.Skipped {
		logger.Info().Msg("Users already exist, seed skipped")
		return
	}

	logger.Info().
		Int("users", result.Users).
		Int("pubs", result.Pubs).
		Int("ratings", result.Ratings).
		Dur("duration", time.Since(start)).
		Msg("Seed data created")
}
