package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"teamshub/backend/internal/api/middleware"
	"teamshub/backend/internal/services"
	"teamshub/backend/pkg/utils"
)

// CareersHandler публичная страница вакансий, без авторизации
type CareersHandler struct {
	jobs   JobPostingService
	logger *zap.Logger
}

func NewCareersHandler(jobs JobPostingService, logger *zap.Logger) *CareersHandler {
	return &CareersHandler{
		jobs:   jobs,
		logger: logger,
	}
}

// ListJobs активные вакансии всех workspace
func (h *CareersHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.ListPublic(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, jobs)
}

// RecordView просмотр вакансии посетителем
func (h *CareersHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	counted, err := h.jobs.RecordPublicView(r.Context(), id, middleware.ClientIP(r))
	if err != nil {
		if errors.Is(err, services.ErrJobPostingNotFound) {
			utils.WriteNotFound(w, "Job posting")
			return
		}
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, map[string]bool{"counted": counted})
}

// Routes настройка маршрутов
func (h *CareersHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/jobs", h.ListJobs)
	r.Post("/jobs/{id}/view", h.RecordView)

	return r
}
