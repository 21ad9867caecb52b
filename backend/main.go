package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"teamshub/backend/internal/api"
	"teamshub/backend/internal/api/middleware"
	"teamshub/backend/internal/config"
	"teamshub/backend/internal/services"
	"teamshub/backend/internal/storage"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	// Инициализация логгера
	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting TeamsHub recruitment backend...")

	// Инициализация базы данных
	db, err := storage.NewDatabase(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(context.Background()); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	// Инициализация Redis
	redisClient, err := storage.NewRedisClient(
		cfg.RedisAddress,
		cfg.RedisPassword,
		cfg.RedisDB,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := services.NewMetrics(registry)

	// Инициализация сервисов
	events := services.NewEventService(redisClient, logger)
	jobService := services.NewJobPostingService(
		db,
		redisClient,
		services.ViewLimitConfig{Limit: cfg.ViewRateLimit, Window: cfg.ViewRateWindow},
		events,
		metrics,
		logger,
	)
	candidateService := services.NewCandidateService(db, events, metrics, logger)
	pipelineService := services.NewPipelineService(db, candidateService, logger)
	interviewService := services.NewInterviewService(db, events, cfg.InterviewBaseURL, logger)
	statsService := services.NewStatsService(db, logger)

	// Закрытие просроченных вакансий
	sweeper := services.NewExpirySweeper(jobService, logger)
	if err := sweeper.Start(cfg.ExpirySweepSchedule); err != nil {
		logger.Fatal("Failed to start expiry sweeper", zap.Error(err))
	}
	defer sweeper.Stop()

	router := api.NewRouter(
		api.Services{
			Jobs:       jobService,
			Candidates: candidateService,
			Stages:     pipelineService,
			Pipelines:  pipelineService,
			Interviews: interviewService,
			Stats:      statsService,
			Activity:   events,
		},
		api.RouterConfig{
			Auth: middleware.NewAuthenticator(cfg.JWTSecret, cfg.JWTTokenTTL),
			Health: map[string]api.HealthChecker{
				"database": db,
				"redis":    redisClient,
			},
			PublicLimiter:  redisClient,
			PublicLimit:    cfg.PublicRateLimit,
			PublicWindow:   cfg.PublicRateWindow,
			Gatherer:       registry,
			RequestTimeout: 30 * time.Second,
		},
		logger,
	)

	// Создание HTTP сервера
	server := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запуск сервера в горутине
	go func() {
		logger.Info("Server starting",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment))

		var err error
		if cfg.IsDevelopment() {
			err = server.ListenAndServe()
		} else {
			err = server.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
		}

		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
