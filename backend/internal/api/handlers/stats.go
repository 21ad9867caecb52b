package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamshub/backend/internal/api/middleware"
	"teamshub/backend/internal/models"
	"teamshub/backend/internal/services"
	"teamshub/backend/pkg/utils"
)

// StatsService статистика найма
type StatsService interface {
	Compute(ctx context.Context, workspaceID uuid.UUID) (models.RecruitmentStats, error)
}

// ActivityFeed последние события workspace
type ActivityFeed interface {
	Recent(ctx context.Context, workspaceID uuid.UUID, limit int) ([]services.Event, error)
}

type StatsHandler struct {
	stats    StatsService
	activity ActivityFeed
	logger   *zap.Logger
}

func NewStatsHandler(stats StatsService, activity ActivityFeed, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		stats:    stats,
		activity: activity,
		logger:   logger,
	}
}

// GetStats статистика найма workspace
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	workspaceID := middleware.GetWorkspaceIDFromContext(r.Context())

	result, err := h.stats.Compute(r.Context(), workspaceID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, result)
}

// GetActivity лента последних событий
func (h *StatsHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	workspaceID := middleware.GetWorkspaceIDFromContext(r.Context())
	limit := utils.GetQueryInt(r, "limit", 20)

	events, err := h.activity.Recent(r.Context(), workspaceID, limit)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, events)
}

// Routes настройка маршрутов
func (h *StatsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetStats)
	r.Get("/activity", h.GetActivity)

	return r
}
