package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamshub/backend/internal/api/middleware"
	"teamshub/backend/internal/models"
	"teamshub/backend/pkg/utils"
)

// CandidateService операции учета кандидатов
type CandidateService interface {
	Create(ctx context.Context, candidate *models.Candidate) (*models.Candidate, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Candidate, error)
	Update(ctx context.Context, id uuid.UUID, update models.CandidateUpdate) (*models.Candidate, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, workspaceID uuid.UUID, filter models.CandidateFilter) ([]models.Candidate, error)
	History(ctx context.Context, candidateID uuid.UUID) ([]models.StageChange, error)
}

// StageMover движение кандидатов по воронке
type StageMover interface {
	AdvanceCandidate(ctx context.Context, candidateID uuid.UUID) (*models.Candidate, bool, error)
	TransitionCandidate(ctx context.Context, candidateID uuid.UUID, target models.CandidateStatus) (*models.Candidate, error)
	BulkTransition(ctx context.Context, workspaceID uuid.UUID, ids []uuid.UUID, target models.CandidateStatus) ([]models.Candidate, error)
}

type CandidateHandler struct {
	candidates CandidateService
	stages     StageMover
	logger     *zap.Logger
}

func NewCandidateHandler(candidates CandidateService, stages StageMover, logger *zap.Logger) *CandidateHandler {
	return &CandidateHandler{
		candidates: candidates,
		stages:     stages,
		logger:     logger,
	}
}

// CreateCandidateRequest тело запроса на добавление кандидата
type CreateCandidateRequest struct {
	JobPostingID    uuid.UUID              `json:"job_posting_id" validate:"required"`
	Name            string                 `json:"name" validate:"required"`
	Email           string                 `json:"email" validate:"required,email"`
	Phone           string                 `json:"phone"`
	ExperienceYears int                    `json:"experience_years" validate:"min=0"`
	Education       string                 `json:"education"`
	Location        string                 `json:"location"`
	ResumeURL       *string                `json:"resume_url" validate:"omitempty,url"`
	CoverLetter     *string                `json:"cover_letter"`
	PortfolioURL    *string                `json:"portfolio_url" validate:"omitempty,url"`
	LinkedinURL     *string                `json:"linkedin_url" validate:"omitempty,url"`
	Status          models.CandidateStatus `json:"status"`
	Score           *float64               `json:"score" validate:"omitempty,min=0,max=10"`
	Notes           string                 `json:"notes"`
	Tags            []string               `json:"tags"`
	AppliedDate     *time.Time             `json:"applied_date"`
}

// TransitionRequest перевод на этап
type TransitionRequest struct {
	Status models.CandidateStatus `json:"status" validate:"required"`
}

// BulkStatusRequest массовый перевод
type BulkStatusRequest struct {
	CandidateIDs []uuid.UUID           `json:"candidate_ids" validate:"required,min=1"`
	Status       models.CandidateStatus `json:"status" validate:"required"`
}

// ListCandidates кандидаты workspace
func (h *CandidateHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	workspaceID := middleware.GetWorkspaceIDFromContext(r.Context())

	jobPostingID, err := utils.GetQueryUUID(r, "job_posting_id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid job_posting_id")
		return
	}

	candidates, err := h.candidates.List(r.Context(), workspaceID, models.CandidateFilter{
		Status:       models.CandidateStatus(utils.GetQueryParam(r, "status", "")),
		JobPostingID: jobPostingID,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, candidates)
}

// CreateCandidate добавление кандидата
func (h *CandidateHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	workspaceID := middleware.GetWorkspaceIDFromContext(r.Context())

	var req CreateCandidateRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	candidate := &models.Candidate{
		WorkspaceID:     workspaceID,
		JobPostingID:    req.JobPostingID,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		ExperienceYears: req.ExperienceYears,
		Education:       req.Education,
		Location:        req.Location,
		ResumeURL:       req.ResumeURL,
		CoverLetter:     req.CoverLetter,
		PortfolioURL:    req.PortfolioURL,
		LinkedinURL:     req.LinkedinURL,
		Status:          req.Status,
		Score:           req.Score,
		Notes:           req.Notes,
		Tags:            req.Tags,
	}
	if req.AppliedDate != nil {
		candidate.AppliedDate = *req.AppliedDate
	}

	created, err := h.candidates.Create(r.Context(), candidate)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteCreated(w, created)
}

// GetCandidate кандидат по ID
func (h *CandidateHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	candidate, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	utils.WriteSuccess(w, candidate)
}

// UpdateCandidate профиль, заметки, оценка, теги
func (h *CandidateHandler) UpdateCandidate(w http.ResponseWriter, r *http.Request) {
	candidate, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var req models.CandidateUpdate
	if !decodeRequest(w, r, &req) {
		return
	}

	updated, err := h.candidates.Update(r.Context(), candidate.ID, req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, updated)
}

// DeleteCandidate удаление кандидата
func (h *CandidateHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	candidate, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	if err := h.candidates.Delete(r.Context(), candidate.ID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Candidate deleted",
		zap.String("candidate_id", candidate.ID.String()),
		zap.String("user_id", middleware.GetUserIDFromContext(r.Context()).String()))

	utils.WriteMessage(w, "Candidate deleted")
}

// GetHistory история переходов
func (h *CandidateHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	candidate, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	history, err := h.candidates.History(r.Context(), candidate.ID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, history)
}

// Advance следующий этап воронки
func (h *CandidateHandler) Advance(w http.ResponseWriter, r *http.Request) {
	candidate, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	updated, advanced, err := h.stages.AdvanceCandidate(r.Context(), candidate.ID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, map[string]interface{}{
		"candidate": updated,
		"advanced":  advanced,
	})
}

// Transition перевод на произвольный этап воронки
func (h *CandidateHandler) Transition(w http.ResponseWriter, r *http.Request) {
	candidate, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var req TransitionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	updated, err := h.stages.TransitionCandidate(r.Context(), candidate.ID, req.Status)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, updated)
}

// BulkStatus массовый перевод, все или ничего
func (h *CandidateHandler) BulkStatus(w http.ResponseWriter, r *http.Request) {
	workspaceID := middleware.GetWorkspaceIDFromContext(r.Context())

	var req BulkStatusRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	updated, err := h.stages.BulkTransition(r.Context(), workspaceID, req.CandidateIDs, req.Status)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, updated)
}

func (h *CandidateHandler) loadOwned(w http.ResponseWriter, r *http.Request) (*models.Candidate, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return nil, false
	}

	candidate, err := h.candidates.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return nil, false
	}

	if candidate == nil || candidate.WorkspaceID != middleware.GetWorkspaceIDFromContext(r.Context()) {
		utils.WriteNotFound(w, "Candidate")
		return nil, false
	}

	return candidate, true
}

// Routes настройка маршрутов
func (h *CandidateHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListCandidates)
	r.Post("/", h.CreateCandidate)
	r.Post("/bulk-status", h.BulkStatus)
	r.Get("/{id}", h.GetCandidate)
	r.Patch("/{id}", h.UpdateCandidate)
	r.Delete("/{id}", h.DeleteCandidate)
	r.Get("/{id}/history", h.GetHistory)
	r.Post("/{id}/advance", h.Advance)
	r.Post("/{id}/transition", h.Transition)

	return r
}
