package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamshub/backend/internal/models"
	"teamshub/backend/internal/storage"
)

// DeletePolicy что происходит с кандидатами и собеседованиями при удалении вакансии
type DeletePolicy string

// DeletePolicyOrphan записи остаются со ссылкой на удаленную вакансию
const DeletePolicyOrphan DeletePolicy = "orphan"

// RateLimiter ограничитель частоты по ключу
type RateLimiter interface {
	RateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error)
}

// ViewLimitConfig сколько просмотров одного посетителя засчитывать за окно
type ViewLimitConfig struct {
	Limit  int
	Window time.Duration
}

// JobPostingService реестр вакансий
type JobPostingService struct {
	store   storage.Store
	limiter RateLimiter
	views   ViewLimitConfig
	events  EventPublisher
	metrics *Metrics
	logger  *zap.Logger
	clock   Clock

	DeletePolicy DeletePolicy
}

// NewJobPostingService создает сервис вакансий. limiter может быть nil,
// тогда засчитывается каждый просмотр.
func NewJobPostingService(
	store storage.Store,
	limiter RateLimiter,
	views ViewLimitConfig,
	events EventPublisher,
	metrics *Metrics,
	logger *zap.Logger,
) *JobPostingService {
	if views.Limit <= 0 {
		views.Limit = 1
	}
	if views.Window <= 0 {
		views.Window = 30 * time.Minute
	}

	return &JobPostingService{
		store:        store,
		limiter:      limiter,
		views:        views,
		events:       publisherOrNop(events),
		metrics:      metrics,
		logger:       logger,
		DeletePolicy: DeletePolicyOrphan,
	}
}

// Create создает вакансию. pipeline_id должен ссылаться на воронку того же workspace.
func (s *JobPostingService) Create(ctx context.Context, job *models.JobPosting) (*models.JobPosting, error) {
	if err := s.checkPipeline(ctx, job.WorkspaceID, job.PipelineID); err != nil {
		return nil, err
	}

	now := s.clock.now()

	job.ID = uuid.New()
	if job.Status == "" {
		job.Status = models.JobStatusDraft
	}
	if job.PostedDate.IsZero() {
		job.PostedDate = now
	}
	job.CreatedAt = now
	job.UpdatedAt = now

	if err := s.store.CreateJobPosting(ctx, job); err != nil {
		s.logger.Error("Failed to create job posting",
			zap.String("workspace_id", job.WorkspaceID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create job posting: %w", err)
	}

	s.logger.Info("Job posting created",
		zap.String("job_posting_id", job.ID.String()),
		zap.String("workspace_id", job.WorkspaceID.String()),
		zap.String("status", string(job.Status)))

	return job, nil
}

// Get получает вакансию, nil если ее нет
func (s *JobPostingService) Get(ctx context.Context, id uuid.UUID) (*models.JobPosting, error) {
	job, err := s.store.GetJobPosting(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get job posting",
			zap.String("job_posting_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return job, nil
}

// Update частичное обновление. Любой статус можно сменить на любой.
func (s *JobPostingService) Update(ctx context.Context, id uuid.UUID, update models.JobPostingUpdate) (*models.JobPosting, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobPostingNotFound
	}
	if err := s.checkPipeline(ctx, job.WorkspaceID, update.PipelineID); err != nil {
		return nil, err
	}

	update.Apply(job)
	job.UpdatedAt = s.clock.now()

	if err := s.store.UpdateJobPosting(ctx, job); err != nil {
		s.logger.Error("Failed to update job posting",
			zap.String("job_posting_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to update job posting: %w", err)
	}

	return job, nil
}

// Delete удаляет вакансию без проверки существования
func (s *JobPostingService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteJobPosting(ctx, id); err != nil {
		s.logger.Error("Failed to delete job posting",
			zap.String("job_posting_id", id.String()),
			zap.Error(err))
		return fmt.Errorf("failed to delete job posting: %w", err)
	}

	s.logger.Info("Job posting deleted",
		zap.String("job_posting_id", id.String()),
		zap.String("policy", string(s.DeletePolicy)))

	return nil
}

// List вакансии workspace, новые первыми
func (s *JobPostingService) List(ctx context.Context, workspaceID uuid.UUID, filter models.JobPostingFilter) ([]models.JobPosting, error) {
	jobs, err := s.store.ListJobPostings(ctx, workspaceID, filter)
	if err != nil {
		s.logger.Error("Failed to list job postings",
			zap.String("workspace_id", workspaceID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}
	return jobs, nil
}

// ListPublic активные вакансии для страницы карьеры
func (s *JobPostingService) ListPublic(ctx context.Context) ([]models.JobPosting, error) {
	jobs, err := s.store.ListPublicJobPostings(ctx)
	if err != nil {
		s.logger.Error("Failed to list public job postings", zap.Error(err))
		return nil, fmt.Errorf("failed to list public job postings: %w", err)
	}
	return jobs, nil
}

// IncrementViews +1 к просмотрам
func (s *JobPostingService) IncrementViews(ctx context.Context, id uuid.UUID) error {
	if err := s.store.IncrementJobPostingCounter(ctx, id, storage.CounterViews, 1); err != nil {
		s.logger.Error("Failed to increment views",
			zap.String("job_posting_id", id.String()),
			zap.Error(err))
		return fmt.Errorf("failed to increment views: %w", err)
	}
	s.metrics.jobViewed()
	return nil
}

// IncrementApplications +1 к откликам
func (s *JobPostingService) IncrementApplications(ctx context.Context, id uuid.UUID) error {
	if err := s.store.IncrementJobPostingCounter(ctx, id, storage.CounterApplications, 1); err != nil {
		s.logger.Error("Failed to increment applications",
			zap.String("job_posting_id", id.String()),
			zap.Error(err))
		return fmt.Errorf("failed to increment applications: %w", err)
	}
	return nil
}

// RecordPublicView засчитывает просмотр публичной вакансии с учетом лимита на посетителя.
// Возвращает false, если просмотр не засчитан.
func (s *JobPostingService) RecordPublicView(ctx context.Context, id uuid.UUID, visitorKey string) (bool, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if job == nil || job.Status != models.JobStatusActive {
		return false, ErrJobPostingNotFound
	}

	if s.limiter != nil && visitorKey != "" {
		key := fmt.Sprintf("recruitment:views:%s:%s", id.String(), visitorKey)
		allowed, _, err := s.limiter.RateLimit(ctx, key, s.views.Limit, s.views.Window)
		if err != nil {
			// Redis недоступен, просмотр все равно считаем
			s.logger.Warn("View rate limit check failed",
				zap.String("job_posting_id", id.String()),
				zap.Error(err))
		} else if !allowed {
			return false, nil
		}
	}

	if err := s.IncrementViews(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

// ExpireOverdue переводит активные вакансии с прошедшим expiry_date в expired
func (s *JobPostingService) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.store.ExpireJobPostings(ctx, now)
	if err != nil {
		s.logger.Error("Failed to expire job postings", zap.Error(err))
		return 0, fmt.Errorf("failed to expire job postings: %w", err)
	}

	for i := range expired {
		s.events.Publish(ctx, jobExpiredEvent(&expired[i]))
	}
	s.metrics.postingExpired(len(expired))

	if len(expired) > 0 {
		s.logger.Info("Job postings expired", zap.Int("count", len(expired)))
	}

	return len(expired), nil
}

// checkPipeline воронка из pipeline_id существует и принадлежит workspace
func (s *JobPostingService) checkPipeline(ctx context.Context, workspaceID uuid.UUID, pipelineID *uuid.UUID) error {
	if pipelineID == nil {
		return nil
	}

	p, err := s.store.GetPipeline(ctx, *pipelineID)
	if err != nil {
		s.logger.Error("Failed to get pipeline",
			zap.String("pipeline_id", pipelineID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to get pipeline: %w", err)
	}
	if p == nil || p.WorkspaceID != workspaceID {
		return fmt.Errorf("%w: %s", ErrPipelineNotFound, pipelineID.String())
	}
	return nil
}
