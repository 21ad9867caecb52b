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

// InterviewService операции планирования собеседований
type InterviewService interface {
	Create(ctx context.Context, interview *models.Interview) (*models.Interview, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Interview, error)
	Update(ctx context.Context, id uuid.UUID, update models.InterviewUpdate) (*models.Interview, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, workspaceID uuid.UUID, filter models.InterviewFilter) ([]models.Interview, error)
	AttachMeetingLink(ctx context.Context, id uuid.UUID) (*models.Interview, error)
}

type InterviewHandler struct {
	interviews InterviewService
	logger     *zap.Logger
}

func NewInterviewHandler(interviews InterviewService, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		interviews: interviews,
		logger:     logger,
	}
}

// CreateInterviewRequest тело запроса на собеседование
type CreateInterviewRequest struct {
	CandidateID     uuid.UUID            `json:"candidate_id" validate:"required"`
	JobPostingID    uuid.UUID            `json:"job_posting_id" validate:"required"`
	Type            models.InterviewType `json:"type" validate:"required,oneof=phone video onsite technical panel"`
	ScheduledAt     time.Time            `json:"scheduled_at"`
	DurationMinutes int                  `json:"duration_minutes" validate:"min=0"`
	Interviewers    []string             `json:"interviewers"`
	Location        string               `json:"location"`
	MeetingLink     string               `json:"meeting_link" validate:"omitempty,url"`
}

// ListInterviews собеседования workspace
func (h *InterviewHandler) ListInterviews(w http.ResponseWriter, r *http.Request) {
	workspaceID := middleware.GetWorkspaceIDFromContext(r.Context())

	candidateID, err := utils.GetQueryUUID(r, "candidate_id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid candidate_id")
		return
	}
	jobPostingID, err := utils.GetQueryUUID(r, "job_posting_id")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid job_posting_id")
		return
	}

	interviews, err := h.interviews.List(r.Context(), workspaceID, models.InterviewFilter{
		Status:       models.InterviewStatus(utils.GetQueryParam(r, "status", "")),
		CandidateID:  candidateID,
		JobPostingID: jobPostingID,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, interviews)
}

// CreateInterview планирование собеседования
func (h *InterviewHandler) CreateInterview(w http.ResponseWriter, r *http.Request) {
	workspaceID := middleware.GetWorkspaceIDFromContext(r.Context())

	var req CreateInterviewRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.ScheduledAt.IsZero() {
		utils.WriteValidationError(w, map[string]string{"scheduled_at": "failed on 'required'"})
		return
	}

	interview, err := h.interviews.Create(r.Context(), &models.Interview{
		WorkspaceID:     workspaceID,
		CandidateID:     req.CandidateID,
		JobPostingID:    req.JobPostingID,
		Type:            req.Type,
		ScheduledAt:     req.ScheduledAt,
		DurationMinutes: req.DurationMinutes,
		Interviewers:    req.Interviewers,
		Location:        req.Location,
		MeetingLink:     req.MeetingLink,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteCreated(w, interview)
}

// GetInterview собеседование по ID
func (h *InterviewHandler) GetInterview(w http.ResponseWriter, r *http.Request) {
	interview, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	utils.WriteSuccess(w, interview)
}

// UpdateInterview перенос, статус, отзыв и оценки
func (h *InterviewHandler) UpdateInterview(w http.ResponseWriter, r *http.Request) {
	interview, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var req models.InterviewUpdate
	if !decodeRequest(w, r, &req) {
		return
	}

	updated, err := h.interviews.Update(r.Context(), interview.ID, req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, updated)
}

// DeleteInterview удаление собеседования
func (h *InterviewHandler) DeleteInterview(w http.ResponseWriter, r *http.Request) {
	interview, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	if err := h.interviews.Delete(r.Context(), interview.ID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteMessage(w, "Interview deleted")
}

// AttachLink генерирует и сохраняет ссылку на встречу
func (h *InterviewHandler) AttachLink(w http.ResponseWriter, r *http.Request) {
	interview, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	updated, err := h.interviews.AttachMeetingLink(r.Context(), interview.ID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	utils.WriteSuccess(w, updated)
}

func (h *InterviewHandler) loadOwned(w http.ResponseWriter, r *http.Request) (*models.Interview, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return nil, false
	}

	interview, err := h.interviews.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return nil, false
	}

	if interview == nil || interview.WorkspaceID != middleware.GetWorkspaceIDFromContext(r.Context()) {
		utils.WriteNotFound(w, "Interview")
		return nil, false
	}

	return interview, true
}

// Routes настройка маршрутов
func (h *InterviewHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListInterviews)
	r.Post("/", h.CreateInterview)
	r.Get("/{id}", h.GetInterview)
	r.Patch("/{id}", h.UpdateInterview)
	r.Delete("/{id}", h.DeleteInterview)
	r.Post("/{id}/link", h.AttachLink)

	return r
}
