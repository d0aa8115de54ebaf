package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"sentiment-chat-demo/backend/internal/models"
	"sentiment-chat-demo/backend/pkg/config"
	"sentiment-chat-demo/backend/pkg/di"
	"sentiment-chat-demo/backend/pkg/logger"
	"sentiment-chat-demo/backend/pkg/router"
	"sentiment-chat-demo/backend/shared/observability"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdlog.Println("No .env file found")
	}

	cfg := config.New()

	logConfig := logger.DefaultConfig()
	logConfig.Level = cfg.Logging.Level
	logConfig.JSON = cfg.Logging.Format != "text"

	log := logger.New(logConfig)
	logger.SetGlobal(log)

	log.Info("Starting application", "env", cfg.Server.Env)

	db, err := config.NewDB()
	if err != nil {
		log.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}

	// Auto-migrate the schema
	if err := db.AutoMigrate(&models.User{}, &models.Message{}); err != nil {
		log.LogError(err, "Failed to migrate database")
		os.Exit(1)
	}

	// Case-insensitive nickname uniqueness lives in the database, not in
	// application code: concurrent creations of the same nickname collapse
	// onto one row here.
	if err := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_users_nickname_lower ON users (LOWER(nickname))").Error; err != nil {
		log.LogError(err, "Failed to create user index", "index", "idx_users_nickname_lower")
		os.Exit(1)
	}
	// Watermark queries order and filter on (created_at, id)
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_messages_created_at_id ON messages (created_at, id)").Error; err != nil {
		log.LogError(err, "Failed to create message index", "index", "idx_messages_created_at_id")
	}

	container, err := di.New(db, logConfig)
	if err != nil {
		log.LogError(err, "Failed to initialize dependency container")
		os.Exit(1)
	}

	container.Health.Start()

	shutdownTracing := observability.SetupTracing("sentiment-chat-backend", log)
	defer shutdownTracing()
	observability.SetupPrometheusMetrics(":2112", log)

	r := router.New(container)
	r.SetupRoutes()

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r.Engine,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogError(err, "Server failed to start")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.LogError(err, "Server forced to shutdown")
	}

	log.Info("Server exited")
}
