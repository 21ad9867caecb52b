package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamshub/backend/internal/api/middleware"
	"teamshub/backend/internal/models"
	"teamshub/backend/pkg/utils"
)

// JobPostingService операции реестра вакансий, нужные обработчику
type JobPostingService interface {
	Create(ctx context.Context, job *models.JobPosting) (*models.JobPosting, error)
	Get(ctx context.Context, id uuid.UUID) (*models.JobPosting, error)
	Update(ctx context.Context, id uuid.UUID, update models.JobPostingUpdate) (*models.JobPosting, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, workspaceID uuid.UUID, filter models.JobPostingFilter) ([]models.JobPosting, error)
	ListPublic(ctx context.Context) ([]models.JobPosting, error)
	RecordPublicView(ctx context.Context, id uuid.UUID, visitorKey string) (bool, error)
}

type JobPostingHandler struct {
	jobs   JobPostingService
	logger *zap.Logger
}

func NewJobPostingHandler(jobs JobPostingService, logger *zap.Logger) *JobPostingHandler {
	return &JobPostingHandler{
		jobs:   jobs,
		logger: logger,
	}
}

// CreateJobPostingRequest тело запроса на создание вакансии
type CreateJobPostingRequest struct {
	PipelineID       *uuid.UUID            `json:"pipeline_id"`
	Title            string                `json:"title" validate:"required"`
	Department       string                `json:"department" validate:"required"`
	Location         string                `json:"location" validate:"required"`
	Type             models.EmploymentType `json:"type" validate:"required,oneof=full-time part-time contract internship remote hybrid"`
	Salary           models.SalaryRange    `json:"salary_range"`
	Description      string                `json:"description" validate:"required"`
	Requirements     []string              `json:"requirements"`
	Responsibilities []string              `json:"responsibilities"`
	Benefits         []string              `json:"benefits"`
	Status           models.JobStatus      `json:"status" validate:"omitempty,oneof=draft active paused closed expired"`
	ExpiryDate       *time.Time            `json:"expiry_date"`
}

// validateJobPostingRequest вилка зарплаты обязательна: хотя бы одна граница или валюта
func validateJobPostingRequest(sl validator.StructLevel) {
	req := sl.Current().Interface().(CreateJobPostingRequest)
	if req.Salary.IsZero() {
		sl.ReportError(req.Salary, "salary_range", "Salary", "required", "")
	}
}

// ListJobPostings вакансии workspace
func (h *JobPostingHandler) ListJobPostings(w http.ResponseWriter, r *http.Request) {
	workspaceID := middleware.GetWorkspaceIDFromContext(r.Context())

	filter := models.JobPostingFilter{
		Status:     models.JobStatus(utils.GetQueryParam(r, "status", "")),
		Department: utils.GetQueryParam(r, "department", ""),
		Type:       models.EmploymentType(utils.GetQueryParam(r, "type", "")),
	}

	jobs, err := h.jobs.List(r.Context(), workspaceID, filter)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, jobs)
}

// CreateJobPosting создание вакансии
func (h *JobPostingHandler) CreateJobPosting(w http.ResponseWriter, r *http.Request) {
	workspaceID := middleware.GetWorkspaceIDFromContext(r.Context())

	var req CreateJobPostingRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	job, err := h.jobs.Create(r.Context(), &models.JobPosting{
		WorkspaceID:      workspaceID,
		PipelineID:       req.PipelineID,
		Title:            req.Title,
		Department:       req.Department,
		Location:         req.Location,
		Type:             req.Type,
		Salary:           req.Salary,
		Description:      req.Description,
		Requirements:     req.Requirements,
		Responsibilities: req.Responsibilities,
		Benefits:         req.Benefits,
		Status:           req.Status,
		ExpiryDate:       req.ExpiryDate,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteCreated(w, job)
}

// GetJobPosting вакансия по ID
func (h *JobPostingHandler) GetJobPosting(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	utils.WriteSuccess(w, job)
}

// UpdateJobPosting частичное обновление вакансии
func (h *JobPostingHandler) UpdateJobPosting(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var req models.JobPostingUpdate
	if !decodeRequest(w, r, &req) {
		return
	}

	updated, err := h.jobs.Update(r.Context(), job.ID, req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, updated)
}

// DeleteJobPosting удаление вакансии. Кандидаты остаются.
func (h *JobPostingHandler) DeleteJobPosting(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	if err := h.jobs.Delete(r.Context(), job.ID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Job posting deleted",
		zap.String("job_posting_id", job.ID.String()),
		zap.String("user_id", middleware.GetUserIDFromContext(r.Context()).String()))

	utils.WriteMessage(w, "Job posting deleted")
}

// loadOwned вакансия из пути, если она принадлежит workspace запроса
func (h *JobPostingHandler) loadOwned(w http.ResponseWriter, r *http.Request) (*models.JobPosting, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return nil, false
	}

	job, err := h.jobs.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return nil, false
	}

	if job == nil || job.WorkspaceID != middleware.GetWorkspaceIDFromContext(r.Context()) {
		utils.WriteNotFound(w, "Job posting")
		return nil, false
	}

	return job, true
}

// Routes настройка маршрутов
func (h *JobPostingHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListJobPostings)
	r.Post("/", h.CreateJobPosting)
	r.Get("/{id}", h.GetJobPosting)
	r.Patch("/{id}", h.UpdateJobPosting)
	r.Delete("/{id}", h.DeleteJobPosting)

	return r
}
