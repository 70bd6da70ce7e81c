package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"pintperfect/pkg/logger"
	"pintperfect/pub-service/internal/app/pubs/config"
	"pintperfect/pub-service/internal/app/pubs/handler"
	"pintperfect/pub-service/internal/app/pubs/infrastructure/messaging"
	"pintperfect/pub-service/internal/app/pubs/infrastructure/storage"
	"pintperfect/pub-service/internal/app/pubs/processor"
	"pintperfect/pub-service/internal/app/pubs/repository"
	"pintperfect/pub-service/internal/app/pubs/service"
	"pintperfect/pub-service/internal/app/pubs/util"
)

const serviceName = "pub-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.Log.Level)

	if cfg.Log.LogstashAddr != "" {
		if err := logger.InitLogstash(cfg.Log.LogstashAddr, serviceName, cfg.Log.Level); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", cfg.Log.LogstashAddr).Msg("Connected to Logstash")
		}
	}

	db, err := repository.ConnectPostgres(cfg.Database.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().
		Str("host", cfg.Database.Host).
		Str("database", cfg.Database.DBName).
		Msg("Connected to PostgreSQL")

	if err := repository.AutoMigrate(context.Background(), db); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate database")
	}

	redisClient := connectRedis(cfg.Redis)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		pingCancel()
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	pingCancel()
	logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")

	kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Msg("Initialized Kafka producer")

	fileStorage, err := storage.NewLocalStorage(cfg.Uploads.Dir, cfg.Uploads.PublicBaseURL, cfg.Uploads.MaxSizeBytes)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize upload storage")
	}

	userRepo := repository.NewUserRepository(db)
	pubRepo := repository.NewPubRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	blacklist := repository.NewRedisTokenBlacklist(redisClient)

	// Без кэша в сервисы уходит nil интерфейс, а не nil указатель
	var ratingCache repository.RatingCache
	if cfg.RatingCache.Enabled {
		ratingCache = repository.NewRedisRatingCache(redisClient, cfg.RatingCache.TTL)
		logger.Info().Dur("ttl", cfg.RatingCache.TTL).Msg("Rating cache enabled")
	}

	jwtManager := util.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)
	timeout := cfg.Database.QueryTimeout

	userService := service.NewUserService(userRepo, ratingRepo, blacklist, ratingCache, jwtManager, timeout)
	pubService := service.NewPubService(pubRepo, ratingRepo, photoRepo, ratingCache, kafkaProducer, timeout)
	ratingService := service.NewRatingService(ratingRepo, pubRepo, userRepo, ratingCache, kafkaProducer, timeout)
	photoService := service.NewPhotoService(photoRepo, pubRepo, ratingRepo, fileStorage, kafkaProducer, timeout)

	handlers := handler.Handlers{
		Auth:   handler.NewAuthHandler(userService),
		Pub:    handler.NewPubHandler(pubService),
		Rating: handler.NewRatingHandler(ratingService),
		Photo:  handler.NewPhotoHandler(photoService),
	}
	if cfg.Seed.Enabled {
		seedService := service.NewSeedService(userRepo, pubRepo, ratingRepo, cfg.Seed.Password)
		handlers.Seed = handler.NewSeedHandler(seedService)
		logger.Warn().Msg("Seed endpoint enabled")
	}

	router := handler.SetupRoutes(handlers, handler.NewAuthMiddleware(userService), handler.RouterConfig{
		UploadDir:       cfg.Uploads.Dir,
		UploadPublicURL: cfg.Uploads.PublicBaseURL,
		MaxBodyBytes:    cfg.Uploads.MaxRequestBytes(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cronScheduler := processor.NewCronScheduler(photoService, cfg.Uploads.CleanupGrace)
	if err := cronScheduler.Start(ctx, cfg.Uploads.CleanupSchedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start cron scheduler")
	}

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Pub Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Pub Service...")

	cancel()
	cronScheduler.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	if err := kafkaProducer.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close Kafka producer")
	}
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close Redis client")
	}
	if err := repository.CloseDB(db); err != nil {
		logger.Error().Err(err).Msg("Failed to close database")
	}

	logger.Info().Msg("Pub Service stopped gracefully")
}

func connectRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})
}
