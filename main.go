package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"ms-schedule/internal/auth"
	"ms-schedule/internal/config"
	"ms-schedule/internal/database/migrations"
	"ms-schedule/internal/kafka"
	"ms-schedule/internal/logger"
	"ms-schedule/internal/schedule"
	"ms-schedule/internal/schedule/db"
	rediswrap "ms-schedule/internal/schedule/redis"
	"ms-schedule/internal/schedule/schedule_api"
	"ms-schedule/internal/sse"
)

func verifyConnections(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*bun.DB, *redis.Client) {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		logger.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			logger.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		logger.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	logger.Info("DATABASE", "✅ PostgreSQL connection successful")

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}

	logger.Info("DATABASE", fmt.Sprintf("✅ Redis connection successful to %s (DB: %d)", cfg.Redis.Addr, redisClient.Options().DB))
	return bunDB, redisClient
}

func main() {
	logger := logger.NewLogger()
	defer logger.Close()

	logger.Info("APP", "Starting Schedule Service initialization")

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	logger.Info("APP", "Verifying database connections")
	bunDB, redisClient := verifyConnections(ctx, cfg, logger)
	defer bunDB.Close()
	defer redisClient.Close()

	logger.Info("DATABASE", "Running database migrations")
	migrationRunner := migrations.NewRunner(bunDB, migrations.DefaultOptions())
	if err := migrationRunner.RunMigrations(); err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Migration failed: %v", err))
	}
	logger.Info("DATABASE", "✅ Migrations applied")

	logger.Info("KAFKA", fmt.Sprintf("Using Kafka brokers: %v", cfg.Kafka.Brokers))
	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer kafkaProducer.Close()
	logger.Info("KAFKA", "Kafka producer initialized successfully")

	requiredTopics := []string{
		cfg.Kafka.Topics.SchedulePublished,
		cfg.Kafka.Topics.EventChanged,
	}
	if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, requiredTopics); err != nil {
		logger.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	} else {
		logger.Info("KAFKA", "Required topics ensured successfully")
	}

	snapshotEmitter := sse.NewScheduleEventEmitter()

	scheduleService := schedule.NewScheduleService(
		&db.DB{Bun: bunDB},
		rediswrap.NewCache(redisClient),
		kafkaProducer,
		snapshotEmitter,
	)

	handler := schedule_api.NewHandler(scheduleService, logger)
	sseHandler := schedule_api.NewSSEHandler(logger, snapshotEmitter)

	logger.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	// --- Public Routes ---
	r.Route("/api/schedule", func(r chi.Router) {
		r.Get("/latest", handler.GetLatestSchedule)
		r.Get("/history", handler.ListSchedules)
		r.Get("/stream", sseHandler.HandleScheduleStream)
		r.Get("/times", handler.ListTimes)
		r.Get("/time", handler.GetTime)
		r.Get("/locations", handler.ListLocations)
		r.Get("/days", handler.ListDays)
		r.Get("/events/custom", handler.ListCustomEvents)
		r.Get("/events/custom/{eventId}", handler.GetCustomEvent)
		r.Get("/events/keynotes", handler.ListKeynoteEvents)
		r.Get("/events/keynotes/{slug}", handler.GetKeynoteEvent)
		r.Get("/events/sponsored", handler.ListSponsoredEvents)
		r.Get("/events/sponsored/{slug}", handler.GetSponsoredEvent)
		r.Get("/events/talks", handler.ListTalkEvents)
		r.Get("/events/talks/{eventId}", handler.GetTalkEvent)
	})
	logger.Info("ROUTER", "Public read endpoints registered under /api/schedule")

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware())
		logger.Info("AUTH", "OIDC middleware applied to protected API routes")

		r.Route("/api/schedule", func(r chi.Router) {
			r.Post("/publish", handler.PublishSchedule)

			r.Route("/events/custom", func(r chi.Router) {
				r.Post("/", handler.CreateCustomEvent)
				r.Put("/{eventId}", handler.UpdateCustomEvent)
				r.Delete("/{eventId}", handler.DeleteCustomEvent)
			})

			r.Route("/events/keynotes", func(r chi.Router) {
				r.Post("/", handler.CreateKeynoteEvent)
				r.Put("/{eventId}", handler.UpdateKeynoteEvent)
				r.Delete("/{eventId}", handler.DeleteKeynoteEvent)
			})

			r.Route("/events/sponsored", func(r chi.Router) {
				r.Post("/", handler.CreateSponsoredEvent)
				r.Put("/{eventId}", handler.UpdateSponsoredEvent)
				r.Delete("/{eventId}", handler.DeleteSponsoredEvent)
			})

			r.Route("/events/talks", func(r chi.Router) {
				r.Post("/", handler.CreateTalkEvent)
				r.Put("/{eventId}", handler.UpdateTalkEvent)
				r.Delete("/{eventId}", handler.DeleteTalkEvent)
			})
		})
		logger.Info("ROUTER", "Protected write endpoints registered under /api/schedule")
	})

	// No WriteTimeout: the SSE stream endpoint holds its response open.
	server := &http.Server{
		Addr:        cfg.Server.Port,
		Handler:     r,
		ReadTimeout: cfg.Server.ReadTimeout,
		IdleTimeout: cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("🚀 Schedule Service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		logger.Info("HTTP", "✅ Schedule Service shutdown complete")
	}
}
