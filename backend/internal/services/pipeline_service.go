package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamshub/backend/internal/models"
	"teamshub/backend/internal/pipeline"
	"teamshub/backend/internal/storage"
)

// PipelineService воронки найма и движение кандидатов по ним
type PipelineService struct {
	store      storage.Store
	candidates *CandidateService
	logger     *zap.Logger
	clock      Clock
}

// NewPipelineService создает сервис воронок
func NewPipelineService(store storage.Store, candidates *CandidateService, logger *zap.Logger) *PipelineService {
	return &PipelineService{
		store:      store,
		candidates: candidates,
		logger:     logger,
	}
}

// CreatePipeline создает воронку. Без этапов используются стандартные.
// Новая воронка по умолчанию снимает флаг с предыдущей.
func (s *PipelineService) CreatePipeline(ctx context.Context, workspaceID uuid.UUID, name string, stages models.PipelineStages, isDefault bool) (*models.HiringPipeline, error) {
	if len(stages) == 0 {
		stages = pipeline.DefaultStages()
	}
	if err := pipeline.ValidateStages(stages); err != nil {
		return nil, err
	}

	now := s.clock.now()
	p := &models.HiringPipeline{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Name:        name,
		Stages:      stages,
		IsDefault:   isDefault,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		if isDefault {
			if err := tx.ClearDefaultPipeline(ctx, workspaceID); err != nil {
				return fmt.Errorf("failed to clear default pipeline: %w", err)
			}
		}
		if err := tx.CreatePipeline(ctx, p); err != nil {
			return fmt.Errorf("failed to create pipeline: %w", err)
		}
		return nil
	})
	if err != nil {
		logStorageFailure(s.logger, "Failed to create pipeline", err,
			zap.String("workspace_id", workspaceID.String()))
		return nil, err
	}

	s.logger.Info("Pipeline created",
		zap.String("pipeline_id", p.ID.String()),
		zap.String("workspace_id", workspaceID.String()),
		zap.Int("stages", len(stages)),
		zap.Bool("default", isDefault))

	return p, nil
}

// GetPipeline получает воронку, nil если ее нет
func (s *PipelineService) GetPipeline(ctx context.Context, id uuid.UUID) (*models.HiringPipeline, error) {
	p, err := s.store.GetPipeline(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get pipeline",
			zap.String("pipeline_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get pipeline: %w", err)
	}
	return p, nil
}

// ListPipelines воронки workspace, новые первыми
func (s *PipelineService) ListPipelines(ctx context.Context, workspaceID uuid.UUID) ([]models.HiringPipeline, error) {
	pipelines, err := s.store.ListPipelines(ctx, workspaceID)
	if err != nil {
		s.logger.Error("Failed to list pipelines",
			zap.String("workspace_id", workspaceID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list pipelines: %w", err)
	}
	return pipelines, nil
}

// UpdatePipeline переименование, замена этапов, назначение по умолчанию
func (s *PipelineService) UpdatePipeline(ctx context.Context, id uuid.UUID, update models.PipelineUpdate) (*models.HiringPipeline, error) {
	if update.Stages != nil {
		if err := pipeline.ValidateStages(update.Stages); err != nil {
			return nil, err
		}
	}

	var p *models.HiringPipeline
	err := s.store.WithTx(ctx, func(tx storage.Store) error {
		var err error
		p, err = tx.GetPipeline(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get pipeline: %w", err)
		}
		if p == nil {
			return ErrPipelineNotFound
		}

		if update.Name != nil {
			p.Name = *update.Name
		}
		if update.Stages != nil {
			p.Stages = update.Stages
		}
		if update.IsDefault != nil {
			if *update.IsDefault && !p.IsDefault {
				if err := tx.ClearDefaultPipeline(ctx, p.WorkspaceID); err != nil {
					return fmt.Errorf("failed to clear default pipeline: %w", err)
				}
			}
			p.IsDefault = *update.IsDefault
		}
		p.UpdatedAt = s.clock.now()

		if err := tx.UpdatePipeline(ctx, p); err != nil {
			return fmt.Errorf("failed to update pipeline: %w", err)
		}
		return nil
	})
	if err != nil {
		logStorageFailure(s.logger, "Failed to update pipeline", err,
			zap.String("pipeline_id", id.String()))
		return nil, err
	}

	return p, nil
}

// DeletePipeline удаляет воронку. Вакансии со ссылкой на нее переходят на активную воронку.
func (s *PipelineService) DeletePipeline(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeletePipeline(ctx, id); err != nil {
		s.logger.Error("Failed to delete pipeline",
			zap.String("pipeline_id", id.String()),
			zap.Error(err))
		return fmt.Errorf("failed to delete pipeline: %w", err)
	}
	return nil
}

// ActivePipeline воронка workspace по умолчанию, иначе первая в списке,
// иначе несохраненная воронка со стандартными этапами
func (s *PipelineService) ActivePipeline(ctx context.Context, workspaceID uuid.UUID) (*models.HiringPipeline, error) {
	p, err := activePipeline(ctx, s.store, workspaceID)
	if err != nil {
		s.logger.Error("Failed to resolve active pipeline",
			zap.String("workspace_id", workspaceID.String()),
			zap.Error(err))
		return nil, err
	}
	return p, nil
}

// GoverningStages этапы, по которым движется кандидат: воронка его вакансии,
// если она задана, существует и принадлежит его workspace, иначе активная воронка workspace
func (s *PipelineService) GoverningStages(ctx context.Context, candidate *models.Candidate) (models.PipelineStages, error) {
	p, err := governingPipeline(ctx, s.store, candidate.WorkspaceID, candidate.JobPostingID)
	if err != nil {
		s.logger.Error("Failed to resolve pipeline",
			zap.String("candidate_id", candidate.ID.String()),
			zap.Error(err))
		return nil, err
	}
	return p.Stages, nil
}

// Board кандидаты workspace, разложенные по этапам активной воронки.
// jobPostingID uuid.Nil означает все вакансии; у вакансии со своей воронкой берется она.
// Чужая вакансия или воронка дает активную воронку workspace.
func (s *PipelineService) Board(ctx context.Context, workspaceID, jobPostingID uuid.UUID) (*models.HiringPipeline, pipeline.Grouping, error) {
	p, err := governingPipeline(ctx, s.store, workspaceID, jobPostingID)
	if err != nil {
		s.logger.Error("Failed to resolve pipeline",
			zap.String("workspace_id", workspaceID.String()),
			zap.String("job_posting_id", jobPostingID.String()),
			zap.Error(err))
		return nil, pipeline.Grouping{}, err
	}

	candidates, err := s.candidates.List(ctx, workspaceID, models.CandidateFilter{JobPostingID: jobPostingID})
	if err != nil {
		return nil, pipeline.Grouping{}, err
	}

	return p, pipeline.GroupByStage(candidates, p.Stages), nil
}

// AdvanceCandidate переводит кандидата на следующий этап.
// Для последнего или конечного этапа возвращает кандидата без изменений и false.
func (s *PipelineService) AdvanceCandidate(ctx context.Context, candidateID uuid.UUID) (*models.Candidate, bool, error) {
	var advanced bool
	candidate, err := s.candidates.moveStatus(ctx, candidateID, func(tx storage.Store, c *models.Candidate) (models.CandidateStatus, error) {
		p, err := governingPipeline(ctx, tx, c.WorkspaceID, c.JobPostingID)
		if err != nil {
			return "", err
		}
		var next models.CandidateStatus
		next, advanced = pipeline.Advance(c, p.Stages)
		return next, nil
	})
	if err != nil {
		return nil, false, err
	}
	return candidate, advanced, nil
}

// TransitionCandidate перевод на любой этап воронки: отказ, отзыв, возврат назад
func (s *PipelineService) TransitionCandidate(ctx context.Context, candidateID uuid.UUID, target models.CandidateStatus) (*models.Candidate, error) {
	return s.candidates.moveStatus(ctx, candidateID, func(tx storage.Store, c *models.Candidate) (models.CandidateStatus, error) {
		p, err := governingPipeline(ctx, tx, c.WorkspaceID, c.JobPostingID)
		if err != nil {
			return "", err
		}
		return pipeline.TransitionTo(c, target, p.Stages)
	})
}

// BulkTransition массовый перевод. Целевой этап проверяется по воронке каждого кандидата,
// любая ошибка отменяет весь перевод.
func (s *PipelineService) BulkTransition(ctx context.Context, workspaceID uuid.UUID, ids []uuid.UUID, target models.CandidateStatus) ([]models.Candidate, error) {
	return s.candidates.bulkSetStatus(ctx, workspaceID, ids, target, func(tx storage.Store, c *models.Candidate) error {
		p, err := governingPipeline(ctx, tx, c.WorkspaceID, c.JobPostingID)
		if err != nil {
			return err
		}
		if err := pipeline.CheckTarget(target, p.Stages); err != nil {
			return fmt.Errorf("candidate %s: %w", c.ID, err)
		}
		return nil
	})
}

// governingPipeline воронка вакансии в рамках workspace. uuid.Nil вместо вакансии
// дает активную воронку.
func governingPipeline(ctx context.Context, store storage.Store, workspaceID, jobPostingID uuid.UUID) (*models.HiringPipeline, error) {
	var job *models.JobPosting
	if jobPostingID != uuid.Nil {
		var err error
		job, err = store.GetJobPosting(ctx, jobPostingID)
		if err != nil {
			return nil, fmt.Errorf("failed to get job posting: %w", err)
		}
	}
	return jobPipeline(ctx, store, workspaceID, job)
}

// jobPipeline собственная воронка вакансии, иначе активная воронка workspace.
// Вакансия или воронка другого workspace не учитываются.
func jobPipeline(ctx context.Context, store storage.Store, workspaceID uuid.UUID, job *models.JobPosting) (*models.HiringPipeline, error) {
	if job != nil && job.WorkspaceID == workspaceID && job.PipelineID != nil {
		p, err := store.GetPipeline(ctx, *job.PipelineID)
		if err != nil {
			return nil, fmt.Errorf("failed to get pipeline: %w", err)
		}
		if p != nil && p.WorkspaceID == workspaceID {
			return p, nil
		}
	}
	return activePipeline(ctx, store, workspaceID)
}

func activePipeline(ctx context.Context, store storage.Store, workspaceID uuid.UUID) (*models.HiringPipeline, error) {
	pipelines, err := store.ListPipelines(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pipelines: %w", err)
	}

	for i := range pipelines {
		if pipelines[i].IsDefault {
			return &pipelines[i], nil
		}
	}
	if len(pipelines) > 0 {
		return &pipelines[0], nil
	}

	return &models.HiringPipeline{
		WorkspaceID: workspaceID,
		Name:        "Default",
		Stages:      pipeline.DefaultStages(),
		IsDefault:   true,
	}, nil
}
