package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamshub/backend/internal/api/middleware"
	"teamshub/backend/internal/models"
	"teamshub/backend/internal/pipeline"
	"teamshub/backend/pkg/utils"
)

// PipelineService операции с воронками
type PipelineService interface {
	CreatePipeline(ctx context.Context, workspaceID uuid.UUID, name string, stages models.PipelineStages, isDefault bool) (*models.HiringPipeline, error)
	GetPipeline(ctx context.Context, id uuid.UUID) (*models.HiringPipeline, error)
	ListPipelines(ctx context.Context, workspaceID uuid.UUID) ([]models.HiringPipeline, error)
	UpdatePipeline(ctx context.Context, id uuid.UUID, update models.PipelineUpdate) (*models.HiringPipeline, error)
	DeletePipeline(ctx context.Context, id uuid.UUID) error
	ActivePipeline(ctx context.Context, workspaceID uuid.UUID) (*models.HiringPipeline, error)
	Board(ctx context.Context, workspaceID, jobPostingID uuid.UUID) (*models.HiringPipeline, pipeline.Grouping, error)
}

type PipelineHandler struct {
	pipelines PipelineService
	logger    *zap.Logger
}

func NewPipelineHandler(pipelines PipelineService, logger *zap.Logger) *PipelineHandler {
	return &PipelineHandler{
		pipelines: pipelines,
		logger:    logger,
	}
}

// CreatePipelineRequest без этапов создается воронка со стандартными этапами
type CreatePipelineRequest struct {
	Name      string                 `json:"name" validate:"required"`
	Stages    []models.PipelineStage `json:"stages" validate:"omitempty,dive"`
	IsDefault bool                   `json:"is_default"`
}

// BoardResponse доска кандидатов по этапам
type BoardResponse struct {
	Pipeline *models.HiringPipeline `json:"pipeline"`
	pipeline.Grouping
}

// ListPipelines воронки workspace
func (h *PipelineHandler) ListPipelines(w http.ResponseWriter, r *http.Request) {
	workspaceID := middleware.GetWorkspaceIDFromContext(r.Context())

	pipelines, err := h.pipelines.ListPipelines(r.Context(), workspaceID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, pipelines)
}

// CreatePipeline создание воронки
func (h *PipelineHandler) CreatePipeline(w http.ResponseWriter, r *http.Request) {
	workspaceID := middleware.GetWorkspaceIDFromContext(r.Context())

	var req CreatePipelineRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	p, err := h.pipelines.CreatePipeline(r.Context(), workspaceID, req.Name, req.Stages, req.IsDefault)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteCreated(w, p)
}

// GetActivePipeline воронка, по которой работает workspace
func (h *PipelineHandler) GetActivePipeline(w http.ResponseWriter, r *http.Request) {
	workspaceID := middleware.GetWorkspaceIDFromContext(r.Context())

	p, err := h.pipelines.ActivePipeline(r.Context(), workspaceID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, p)
}

// GetBoard кандидаты по колонкам этапов
func (h *PipelineHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	workspaceID := middleware.GetWorkspaceIDFromContext(r.Context())

	jobPostingID, err := utils.GetQueryUUID(r, "job_posting_id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid job_posting_id")
		return
	}

	p, grouping, err := h.pipelines.Board(r.Context(), workspaceID, jobPostingID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, BoardResponse{Pipeline: p, Grouping: grouping})
}

// GetPipeline воронка по ID
func (h *PipelineHandler) GetPipeline(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	utils.WriteSuccess(w, p)
}

// UpdatePipeline переименование, этапы, флаг по умолчанию
func (h *PipelineHandler) UpdatePipeline(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var req models.PipelineUpdate
	if !decodeRequest(w, r, &req) {
		return
	}

	updated, err := h.pipelines.UpdatePipeline(r.Context(), p.ID, req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, updated)
}

// DeletePipeline удаление воронки
func (h *PipelineHandler) DeletePipeline(w http.ResponseWriter, r *http.Request) {
	p, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	if err := h.pipelines.DeletePipeline(r.Context(), p.ID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteMessage(w, "Pipeline deleted")
}

func (h *PipelineHandler) loadOwned(w http.ResponseWriter, r *http.Request) (*models.HiringPipeline, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return nil, false
	}

	p, err := h.pipelines.GetPipeline(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return nil, false
	}

	if p == nil || p.WorkspaceID != middleware.GetWorkspaceIDFromContext(r.Context()) {
		utils.WriteNotFound(w, "Pipeline")
		return nil, false
	}

	return p, true
}

// Routes настройка маршрутов
func (h *PipelineHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListPipelines)
	r.Post("/", h.CreatePipeline)
	r.Get("/active", h.GetActivePipeline)
	r.Get("/board", h.GetBoard)
	r.Get("/{id}", h.GetPipeline)
	r.Patch("/{id}", h.UpdatePipeline)
	r.Delete("/{id}", h.DeletePipeline)

	return r
}
