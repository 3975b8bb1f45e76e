package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/backend"
	"taskboard/internal/backend/supabase"
	"taskboard/internal/config"
	"taskboard/internal/controller"
	"taskboard/internal/database"
	"taskboard/internal/flash"
	"taskboard/internal/middleware"
	"taskboard/internal/queue"
	"taskboard/internal/repository"
	"taskboard/internal/routes"
	"taskboard/internal/session"
	"taskboard/internal/tasklist"
	"taskboard/internal/worker"
	"taskboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Existing environment wins over .env.
	_ = godotenv.Load(".env")

	cfg := config.Get()
	logger.Init(os.Stdout, cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := supabase.New(supabase.Options{
		BaseURL: cfg.BackendURL,
		AnonKey: cfg.BackendAnonKey,
		Timeout: cfg.BackendTimeout,
	})
	if err != nil {
		logger.Error(ctx, "Backend not configured; exiting", "error", err)
		os.Exit(1)
	}
	be := backend.Backend{Auth: client, Tasks: client}
	checks := []controller.Check{{Name: "backend", Pinger: client}}

	if cfg.TaskStore == config.StorePostgres {
		if cfg.EnforceOwnership && cfg.BackendJWTSecret == "" {
			logger.Error(ctx, "BACKEND_JWT_SECRET is required for the postgres task store")
			os.Exit(1)
		}
		db, err := database.Open(ctx, cfg.DatabaseURL, cfg.DBPoolSize)
		if err != nil {
			logger.Error(ctx, "Database not available; exiting", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := database.MigrateOrCreateSchema(ctx, db); err != nil {
			os.Exit(1)
		}
		store := repository.NewStore(db, cfg.BackendJWTSecret, cfg.EnforceOwnership)
		be.Tasks = store
		checks = append(checks, controller.Check{Name: "database", Pinger: store})
	}

	var fl flash.Store = flash.NewMemoryStore(time.Duration(cfg.FlashTTL) * time.Second)
	if cfg.RedisURL != "" {
		rs, err := flash.NewRedisStore(ctx, cfg.RedisURL, cfg.RedisPoolSize, time.Duration(cfg.FlashTTL)*time.Second)
		if err != nil {
			logger.Error(ctx, "Redis not available; exiting", "error", err)
			os.Exit(1)
		}
		defer rs.Close()
		fl = rs
		checks = append(checks, controller.Check{Name: "redis", Pinger: rs})
	}

	// Activity stream is optional.
	var events queue.EventPublisher = queue.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		queue.EnsureTopic(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaPartitions)
		events = queue.NewPublisher(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
		go worker.Run(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
	}
	defer events.Close()

	cookies := session.Cookies{Name: cfg.SessionCookie, Secure: cfg.CookieSecure}
	h := controller.New(controller.Deps{
		Tasks: tasklist.New(be.Tasks, be.Auth, tasklist.Options{
			EnforceOwnership: cfg.EnforceOwnership,
			Events:           events,
		}),
		Gate:    session.NewGate(be.Auth),
		Cookies: cookies,
		Flash:   fl,
		Events:  events,
		Checks:  checks,
	})

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      routes.Router(h, middleware.Verifier{Secret: cfg.BackendJWTSecret, Auth: be.Auth}, cookies),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		logger.Info(ctx, "HTTP server listening", "port", cfg.HTTPPort, "task_store", cfg.TaskStore, "enforce_ownership", cfg.EnforceOwnership)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "Server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info(context.Background(), "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "Server shutdown error", "error", err)
	}
	logger.Info(shutdownCtx, "Server stopped")
}
