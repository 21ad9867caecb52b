package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"teamshub/backend/internal/api/handlers"
	"teamshub/backend/internal/api/middleware"
	"teamshub/backend/pkg/utils"
)

// HealthChecker зависимость, проверяемая в /health
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Services сервисы, которые обслуживает HTTP API
type Services struct {
	Jobs       handlers.JobPostingService
	Candidates handlers.CandidateService
	Stages     handlers.StageMover
	Pipelines  handlers.PipelineService
	Interviews handlers.InterviewService
	Stats      handlers.StatsService
	Activity   handlers.ActivityFeed
}

// RouterConfig параметры роутера
type RouterConfig struct {
	Auth   *middleware.Authenticator
	Health map[string]HealthChecker

	// Лимит публичного API по IP, limiter nil отключает проверку
	PublicLimiter middleware.RateLimiter
	PublicLimit   int
	PublicWindow  time.Duration

	Gatherer       prometheus.Gatherer
	RequestTimeout time.Duration
}

// NewRouter собирает все маршруты API
func NewRouter(svc Services, cfg RouterConfig, logger *zap.Logger) chi.Router {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORSMiddleware)
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	r.Use(chimiddleware.Compress(5))

	r.Get("/health", healthHandler(cfg.Health))
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	// Публичная страница вакансий
	r.Route("/api/public", func(r chi.Router) {
		if cfg.PublicLimiter != nil {
			r.Use(middleware.RateLimitMiddleware(cfg.PublicLimiter, "recruitment:public", cfg.PublicLimit, cfg.PublicWindow, logger))
		}
		r.Mount("/", handlers.NewCareersHandler(svc.Jobs, logger).Routes())
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(cfg.Auth.Middleware)
		r.Use(middleware.WorkspaceRequired)

		r.Mount("/jobs", handlers.NewJobPostingHandler(svc.Jobs, logger).Routes())
		r.Mount("/candidates", handlers.NewCandidateHandler(svc.Candidates, svc.Stages, logger).Routes())
		r.Mount("/pipelines", handlers.NewPipelineHandler(svc.Pipelines, logger).Routes())
		r.Mount("/interviews", handlers.NewInterviewHandler(svc.Interviews, logger).Routes())
		r.Mount("/stats", handlers.NewStatsHandler(svc.Stats, svc.Activity, logger).Routes())
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusNotFound, "Endpoint not found")
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

func healthHandler(checks map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ok"
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check.HealthCheck(ctx); err != nil {
				results[name] = "unhealthy: " + err.Error()
				status = "degraded"
				continue
			}
			results[name] = "healthy"
		}

		utils.WriteHealthCheck(w, status, results)
	}
}
