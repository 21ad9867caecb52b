package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamshub/backend/internal/models"
	"teamshub/backend/internal/storage"
)

const defaultInterviewDuration = 60

// InterviewService планирование собеседований
type InterviewService struct {
	store   storage.Store
	events  EventPublisher
	logger  *zap.Logger
	clock   Clock
	baseURL string
}

// NewInterviewService создает сервис собеседований. baseURL используется для ссылок на встречу.
func NewInterviewService(store storage.Store, events EventPublisher, baseURL string, logger *zap.Logger) *InterviewService {
	return &InterviewService{
		store:   store,
		events:  publisherOrNop(events),
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Create планирует собеседование. Кандидат и вакансия не проверяются.
func (s *InterviewService) Create(ctx context.Context, interview *models.Interview) (*models.Interview, error) {
	now := s.clock.now()

	interview.ID = uuid.New()
	if interview.Status == "" {
		interview.Status = models.InterviewScheduled
	}
	if interview.DurationMinutes <= 0 {
		interview.DurationMinutes = defaultInterviewDuration
	}
	interview.CreatedAt = now
	interview.UpdatedAt = now

	if err := s.store.CreateInterview(ctx, interview); err != nil {
		s.logger.Error("Failed to create interview",
			zap.String("candidate_id", interview.CandidateID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}

	s.events.Publish(ctx, interviewScheduledEvent(interview))

	s.logger.Info("Interview scheduled",
		zap.String("interview_id", interview.ID.String()),
		zap.String("candidate_id", interview.CandidateID.String()),
		zap.Time("scheduled_at", interview.ScheduledAt))

	return interview, nil
}

// Get получает собеседование, nil если его нет
func (s *InterviewService) Get(ctx context.Context, id uuid.UUID) (*models.Interview, error) {
	interview, err := s.store.GetInterview(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get interview",
			zap.String("interview_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return interview, nil
}

// Update частичное обновление, оценки не сверяются между собой
func (s *InterviewService) Update(ctx context.Context, id uuid.UUID, update models.InterviewUpdate) (*models.Interview, error) {
	interview, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if interview == nil {
		return nil, ErrInterviewNotFound
	}

	update.Apply(interview)
	interview.UpdatedAt = s.clock.now()

	if err := s.store.UpdateInterview(ctx, interview); err != nil {
		s.logger.Error("Failed to update interview",
			zap.String("interview_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to update interview: %w", err)
	}

	return interview, nil
}

// Delete удаляет собеседование
func (s *InterviewService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteInterview(ctx, id); err != nil {
		s.logger.Error("Failed to delete interview",
			zap.String("interview_id", id.String()),
			zap.Error(err))
		return fmt.Errorf("failed to delete interview: %w", err)
	}
	return nil
}

// List собеседования workspace, поздние по дате первыми
func (s *InterviewService) List(ctx context.Context, workspaceID uuid.UUID, filter models.InterviewFilter) ([]models.Interview, error) {
	interviews, err := s.store.ListInterviews(ctx, workspaceID, filter)
	if err != nil {
		s.logger.Error("Failed to list interviews",
			zap.String("workspace_id", workspaceID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return interviews, nil
}

// MeetingLink ссылка на встречу, детерминированная по ID собеседования
func (s *InterviewService) MeetingLink(interview *models.Interview) string {
	return fmt.Sprintf("%s/interview/%s", s.baseURL, interview.ID.String())
}

// AttachMeetingLink сохраняет ссылку на встречу в собеседовании
func (s *InterviewService) AttachMeetingLink(ctx context.Context, id uuid.UUID) (*models.Interview, error) {
	interview, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if interview == nil {
		return nil, ErrInterviewNotFound
	}

	interview.MeetingLink = s.MeetingLink(interview)
	interview.UpdatedAt = s.clock.now()

	if err := s.store.UpdateInterview(ctx, interview); err != nil {
		s.logger.Error("Failed to update interview",
			zap.String("interview_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to update interview: %w", err)
	}

	return interview, nil
}
