package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker-api/internal/apperror"
	"github.com/BuzzLyutic/task-tracker-api/internal/auth"
	"github.com/BuzzLyutic/task-tracker-api/internal/config"
	"github.com/BuzzLyutic/task-tracker-api/internal/handler"
	"github.com/BuzzLyutic/task-tracker-api/internal/repo"
	"github.com/BuzzLyutic/task-tracker-api/internal/service"
	"github.com/BuzzLyutic/task-tracker-api/internal/worker"
	"github.com/BuzzLyutic/task-tracker-api/migrations"
)

func newLogger(mode apperror.Mode) *zap.Logger {
	if mode == apperror.ModeDev {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("Failed to load config", zap.Error(err))
	}
	mode := apperror.ParseMode(cfg.Mode)

	// Подключаем логгер
	logger := newLogger(mode)
	defer logger.Sync()

	// Подключаем БД
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to Database", zap.Error(err)) // Fatal потому что дальнейшая работа теряет смысл
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		logger.Fatal("Failed to ping the Database", zap.Error(err))
	}
	logger.Info("Successfully connected to the Database!")

	if err := migrations.Up(context.Background(), pool, logger); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Реестр ошибок собирается один раз и дальше только читается
	dispatcher := apperror.NewDispatcher(apperror.DefaultRegistry(), mode, logger)

	taskRepo := repo.NewTaskRepo(pool)
	taskService := service.NewTaskService(taskRepo, logger)
	taskHandler := handler.NewTaskHandler(taskService, dispatcher, logger)

	var authenticate func(http.Handler) http.Handler
	if cfg.AuthEnabled {
		authenticate = auth.NewMiddleware(cfg.JWTSecret, dispatcher, logger).Authenticate
	}

	srv := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(taskHandler, dispatcher, authenticate, logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	janitor := worker.NewJanitor(taskRepo, logger, cfg.JanitorInterval, cfg.IdempotencyTTL)
	janitor.Start(context.Background())

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started", zap.String("addr", srv.Addr), zap.String("mode", string(mode)))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Shutdown error", zap.Error(err))
	}
	janitor.Stop()
	logger.Info("Server stopped successfully!")
}
