package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamshub/backend/internal/models"
	"teamshub/backend/internal/stats"
	"teamshub/backend/internal/storage"
)

// StatsService статистика найма. Считается заново при каждом запросе.
type StatsService struct {
	store  storage.Store
	logger *zap.Logger
	clock  Clock
}

func NewStatsService(store storage.Store, logger *zap.Logger) *StatsService {
	return &StatsService{store: store, logger: logger}
}

// Compute загружает вакансии, кандидатов и собеседования workspace и агрегирует их
func (s *StatsService) Compute(ctx context.Context, workspaceID uuid.UUID) (models.RecruitmentStats, error) {
	result, err := s.compute(ctx, workspaceID)
	if err != nil {
		s.logger.Error("Failed to compute recruitment stats",
			zap.String("workspace_id", workspaceID.String()),
			zap.Error(err))
		return models.RecruitmentStats{}, err
	}
	return result, nil
}

func (s *StatsService) compute(ctx context.Context, workspaceID uuid.UUID) (models.RecruitmentStats, error) {
	jobs, err := s.store.ListJobPostings(ctx, workspaceID, models.JobPostingFilter{})
	if err != nil {
		return models.RecruitmentStats{}, fmt.Errorf("failed to list job postings: %w", err)
	}

	candidates, err := s.store.ListCandidates(ctx, workspaceID, models.CandidateFilter{})
	if err != nil {
		return models.RecruitmentStats{}, fmt.Errorf("failed to list candidates: %w", err)
	}

	interviews, err := s.store.ListInterviews(ctx, workspaceID, models.InterviewFilter{})
	if err != nil {
		return models.RecruitmentStats{}, fmt.Errorf("failed to list interviews: %w", err)
	}

	return stats.Compute(jobs, candidates, interviews, s.clock.now()), nil
}
