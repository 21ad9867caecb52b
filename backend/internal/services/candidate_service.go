package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamshub/backend/internal/models"
	"teamshub/backend/internal/pipeline"
	"teamshub/backend/internal/storage"
)

// CandidateService учет кандидатов. Статус меняется только через PipelineService
// или массовым переводом.
type CandidateService struct {
	store   storage.Store
	events  EventPublisher
	metrics *Metrics
	logger  *zap.Logger
	clock   Clock
}

// NewCandidateService создает сервис кандидатов
func NewCandidateService(store storage.Store, events EventPublisher, metrics *Metrics, logger *zap.Logger) *CandidateService {
	return &CandidateService{
		store:   store,
		events:  publisherOrNop(events),
		metrics: metrics,
		logger:  logger,
	}
}

// Create сохраняет кандидата и увеличивает счетчик откликов вакансии в одной транзакции.
// Начальный статус должен быть этапом воронки, которая управляет вакансией.
// Вакансия другого workspace считается отсутствующей.
func (s *CandidateService) Create(ctx context.Context, candidate *models.Candidate) (*models.Candidate, error) {
	now := s.clock.now()

	if candidate.Status == "" {
		candidate.Status = models.CandidateApplied
	}
	if !candidate.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, candidate.Status)
	}

	candidate.ID = uuid.New()
	if candidate.AppliedDate.IsZero() {
		candidate.AppliedDate = now
	}
	candidate.CreatedAt = now
	candidate.UpdatedAt = now
	candidate.HiredAt = nil
	markHired(candidate, now)

	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		job, err := tx.GetJobPosting(ctx, candidate.JobPostingID)
		if err != nil {
			return fmt.Errorf("failed to get job posting: %w", err)
		}
		if job != nil && job.WorkspaceID != candidate.WorkspaceID {
			return fmt.Errorf("%w: %s", ErrJobPostingNotFound, candidate.JobPostingID)
		}

		p, err := jobPipeline(ctx, tx, candidate.WorkspaceID, job)
		if err != nil {
			return err
		}
		if err := pipeline.CheckTarget(candidate.Status, p.Stages); err != nil {
			return err
		}

		if err := tx.CreateCandidate(ctx, candidate); err != nil {
			return fmt.Errorf("failed to create candidate: %w", err)
		}
		if err := tx.IncrementJobPostingCounter(ctx, candidate.JobPostingID, storage.CounterApplications, 1); err != nil {
			return fmt.Errorf("failed to increment applications: %w", err)
		}
		if err := tx.RecordStageChange(ctx, newStageChange(candidate, "", now)); err != nil {
			return fmt.Errorf("failed to record stage change: %w", err)
		}
		return nil
	})
	if err != nil {
		logStorageFailure(s.logger, "Failed to create candidate", err,
			zap.String("job_posting_id", candidate.JobPostingID.String()))
		return nil, err
	}

	s.metrics.candidateCreated()
	s.events.Publish(ctx, candidateCreatedEvent(candidate))

	s.logger.Info("Candidate created",
		zap.String("candidate_id", candidate.ID.String()),
		zap.String("job_posting_id", candidate.JobPostingID.String()),
		zap.String("status", candidate.Status.String()))

	return candidate, nil
}

// Get получает кандидата, nil если его нет
func (s *CandidateService) Get(ctx context.Context, id uuid.UUID) (*models.Candidate, error) {
	candidate, err := s.store.GetCandidate(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get candidate",
			zap.String("candidate_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return candidate, nil
}

// Update меняет профиль, заметки, оценку и теги. Статус не трогает.
func (s *CandidateService) Update(ctx context.Context, id uuid.UUID, update models.CandidateUpdate) (*models.Candidate, error) {
	candidate, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, ErrCandidateNotFound
	}

	update.Apply(candidate)
	candidate.UpdatedAt = s.clock.now()

	if err := s.store.UpdateCandidate(ctx, candidate); err != nil {
		s.logger.Error("Failed to update candidate",
			zap.String("candidate_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to update candidate: %w", err)
	}

	return candidate, nil
}

// Delete удаляет кандидата, счетчик откликов вакансии не уменьшается
func (s *CandidateService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteCandidate(ctx, id); err != nil {
		s.logger.Error("Failed to delete candidate",
			zap.String("candidate_id", id.String()),
			zap.Error(err))
		return fmt.Errorf("failed to delete candidate: %w", err)
	}
	return nil
}

// List кандидаты workspace, последние отклики первыми
func (s *CandidateService) List(ctx context.Context, workspaceID uuid.UUID, filter models.CandidateFilter) ([]models.Candidate, error) {
	candidates, err := s.store.ListCandidates(ctx, workspaceID, filter)
	if err != nil {
		s.logger.Error("Failed to list candidates",
			zap.String("workspace_id", workspaceID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, nil
}

// History история переходов кандидата, старые первыми
func (s *CandidateService) History(ctx context.Context, candidateID uuid.UUID) ([]models.StageChange, error) {
	changes, err := s.store.ListStageChanges(ctx, candidateID)
	if err != nil {
		s.logger.Error("Failed to list stage changes",
			zap.String("candidate_id", candidateID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list stage changes: %w", err)
	}
	return changes, nil
}

// BulkUpdateStatus переводит всех кандидатов в один статус. Если хотя бы один
// кандидат не найден или не принадлежит workspace, ничего не меняется.
func (s *CandidateService) BulkUpdateStatus(ctx context.Context, workspaceID uuid.UUID, ids []uuid.UUID, status models.CandidateStatus) ([]models.Candidate, error) {
	return s.bulkSetStatus(ctx, workspaceID, ids, status, nil)
}

func (s *CandidateService) bulkSetStatus(
	ctx context.Context,
	workspaceID uuid.UUID,
	ids []uuid.UUID,
	status models.CandidateStatus,
	check func(tx storage.Store, c *models.Candidate) error,
) ([]models.Candidate, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	now := s.clock.now()
	updated := make([]models.Candidate, 0, len(ids))
	previous := make([]models.CandidateStatus, 0, len(ids))

	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		for _, id := range ids {
			candidate, err := tx.GetCandidate(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get candidate %s: %w", id, err)
			}
			if candidate == nil || candidate.WorkspaceID != workspaceID {
				return fmt.Errorf("%w: %s", ErrCandidateNotFound, id)
			}
			if check != nil {
				if err := check(tx, candidate); err != nil {
					return err
				}
			}

			from := candidate.Status
			if from != status {
				if err := s.writeStatus(ctx, tx, candidate, status, now); err != nil {
					return err
				}
			}

			updated = append(updated, *candidate)
			previous = append(previous, from)
		}
		return nil
	})
	if err != nil {
		logStorageFailure(s.logger, "Failed to move candidates", err,
			zap.String("workspace_id", workspaceID.String()),
			zap.Int("count", len(ids)))
		return nil, err
	}

	moved := make([]uuid.UUID, 0, len(updated))
	for i := range updated {
		if previous[i] != status {
			s.metrics.stageTransition(previous[i], status)
		}
		moved = append(moved, updated[i].ID)
	}
	if len(moved) > 0 {
		s.events.Publish(ctx, bulkMovedEvent(workspaceID, moved, status, now))
	}

	s.logger.Info("Candidates moved",
		zap.String("workspace_id", workspaceID.String()),
		zap.Int("count", len(updated)),
		zap.String("status", status.String()))

	return updated, nil
}

// moveStatus меняет статус кандидата с записью в историю. decide выбирает новый статус
// по кандидату, прочитанному в той же транзакции, и отвечает за проверку перехода.
// Если decide вернул текущий статус, ничего не пишется.
func (s *CandidateService) moveStatus(
	ctx context.Context,
	id uuid.UUID,
	decide func(tx storage.Store, c *models.Candidate) (models.CandidateStatus, error),
) (*models.Candidate, error) {
	now := s.clock.now()
	var candidate *models.Candidate
	var from, to models.CandidateStatus

	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		var err error
		candidate, err = tx.GetCandidate(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get candidate: %w", err)
		}
		if candidate == nil {
			return ErrCandidateNotFound
		}

		from = candidate.Status
		to, err = decide(tx, candidate)
		if err != nil {
			return err
		}
		if !to.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
		}
		if from == to {
			return nil
		}
		return s.writeStatus(ctx, tx, candidate, to, now)
	})
	if err != nil {
		logStorageFailure(s.logger, "Failed to change candidate stage", err,
			zap.String("candidate_id", id.String()))
		return nil, err
	}

	if from != to {
		s.metrics.stageTransition(from, to)
		s.events.Publish(ctx, stageChangedEvent(candidate, from))

		s.logger.Info("Candidate stage changed",
			zap.String("candidate_id", candidate.ID.String()),
			zap.String("from", from.String()),
			zap.String("to", to.String()))
	}

	return candidate, nil
}

func (s *CandidateService) writeStatus(ctx context.Context, tx storage.Store, c *models.Candidate, status models.CandidateStatus, now time.Time) error {
	from := c.Status
	c.Status = status
	c.UpdatedAt = now
	markHired(c, now)

	if err := tx.UpdateCandidate(ctx, c); err != nil {
		return fmt.Errorf("failed to update candidate %s: %w", c.ID, err)
	}
	if err := tx.RecordStageChange(ctx, newStageChange(c, from, now)); err != nil {
		return fmt.Errorf("failed to record stage change: %w", err)
	}
	return nil
}

// markHired фиксирует момент найма один раз
func markHired(c *models.Candidate, now time.Time) {
	if c.Status == models.CandidateHired && c.HiredAt == nil {
		hiredAt := now
		c.HiredAt = &hiredAt
	}
}

func newStageChange(c *models.Candidate, from models.CandidateStatus, at time.Time) *models.StageChange {
	return &models.StageChange{
		ID:          uuid.New(),
		WorkspaceID: c.WorkspaceID,
		CandidateID: c.ID,
		FromStatus:  from,
		ToStatus:    c.Status,
		ChangedAt:   at,
	}
}
