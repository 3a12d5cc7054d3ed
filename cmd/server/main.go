package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Rsgr172026/KanbanMate/internal/cache"
	"github.com/Rsgr172026/KanbanMate/internal/config"
	"github.com/Rsgr172026/KanbanMate/internal/events"
	"github.com/Rsgr172026/KanbanMate/internal/handler"
	"github.com/Rsgr172026/KanbanMate/internal/httpserver"
	"github.com/Rsgr172026/KanbanMate/internal/repository"
	"github.com/Rsgr172026/KanbanMate/internal/service"
	"github.com/Rsgr172026/KanbanMate/pkg/db"
	"github.com/Rsgr172026/KanbanMate/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting kanbanmate...",
		zap.String("env", cfg.Env),
		zap.String("db_host", cfg.DB.Host),
		zap.Int("db_port", cfg.DB.Port),
		zap.String("port", cfg.Server.Port),
	)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer migrateCancel()
	if err := repository.Migrate(migrateCtx, dbConn, log); err != nil {
		log.Fatal("Failed to migrate schema", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(dbConn, log)
	taskRepo := repository.NewTaskRepository(dbConn, log)

	// Redis task-list cache (optional)
	var taskCache *cache.TaskCache
	if cfg.Redis.Addr != "" {
		log.Info("Initializing Redis task cache...", zap.String("addr", cfg.Redis.Addr))
		taskCache = cache.NewTaskCache(cache.NewRedisClient(cfg.Redis), log)
	} else {
		log.Info("Redis addr not configured, task cache disabled")
	}

	// Task event publisher (optional)
	var publisher *events.Publisher
	if cfg.MQ.URL != "" {
		log.Info("Initializing MQ event publisher...", zap.String("exchange", events.ExchangeName))
		publisher, err = events.NewPublisher(cfg.MQ.URL, log)
		if err != nil {
			log.Fatal("Failed to init event publisher", zap.Error(err))
		}
		defer publisher.Close()
	} else {
		log.Info("MQ url not configured, task events disabled")
	}

	authService := service.NewAuthService(userRepo, log)
	taskService := service.NewTaskService(taskRepo, taskCache, publisher, log)

	authHandler := handler.NewAuthHandler(authService, cfg.JWT.Secret, cfg.SecureCookies(), log)
	taskHandler := handler.NewTaskHandler(taskService, log)
	guard := httpserver.AuthMiddleware(userRepo, cfg.JWT.Secret, log)

	router := httpserver.NewRouter(authHandler, taskHandler, guard, log, dbConn, cfg.Server.CORSOrigin)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	log.Info("kanbanmate is fully initialized and running",
		zap.String("http_port", cfg.Server.Port),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down kanbanmate gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	log.Info("kanbanmate shutdown complete")
}
