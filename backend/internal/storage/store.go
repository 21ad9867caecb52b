package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"teamshub/backend/internal/models"
)

// JobCounter счетчик вакансии, меняется только атомарным инкрементом
type JobCounter string

const (
	CounterViews        JobCounter = "views"
	CounterApplications JobCounter = "applications"
)

// JobPostingStore операции с вакансиями
type JobPostingStore interface {
	CreateJobPosting(ctx context.Context, job *models.JobPosting) error
	GetJobPosting(ctx context.Context, id uuid.UUID) (*models.JobPosting, error)
	UpdateJobPosting(ctx context.Context, job *models.JobPosting) error
	DeleteJobPosting(ctx context.Context, id uuid.UUID) error
	ListJobPostings(ctx context.Context, workspaceID uuid.UUID, filter models.JobPostingFilter) ([]models.JobPosting, error)
	ListPublicJobPostings(ctx context.Context) ([]models.JobPosting, error)
	IncrementJobPostingCounter(ctx context.Context, id uuid.UUID, counter JobCounter, delta int) error
	ExpireJobPostings(ctx context.Context, now time.Time) ([]models.JobPosting, error)
}

// CandidateStore операции с кандидатами
type CandidateStore interface {
	CreateCandidate(ctx context.Context, candidate *models.Candidate) error
	GetCandidate(ctx context.Context, id uuid.UUID) (*models.Candidate, error)
	UpdateCandidate(ctx context.Context, candidate *models.Candidate) error
	DeleteCandidate(ctx context.Context, id uuid.UUID) error
	ListCandidates(ctx context.Context, workspaceID uuid.UUID, filter models.CandidateFilter) ([]models.Candidate, error)
	RecordStageChange(ctx context.Context, change *models.StageChange) error
	ListStageChanges(ctx context.Context, candidateID uuid.UUID) ([]models.StageChange, error)
}

// PipelineStore операции с воронками
type PipelineStore interface {
	CreatePipeline(ctx context.Context, p *models.HiringPipeline) error
	GetPipeline(ctx context.Context, id uuid.UUID) (*models.HiringPipeline, error)
	UpdatePipeline(ctx context.Context, p *models.HiringPipeline) error
	DeletePipeline(ctx context.Context, id uuid.UUID) error
	ListPipelines(ctx context.Context, workspaceID uuid.UUID) ([]models.HiringPipeline, error)
	ClearDefaultPipeline(ctx context.Context, workspaceID uuid.UUID) error
}

// InterviewStore операции с собеседованиями
type InterviewStore interface {
	CreateInterview(ctx context.Context, interview *models.Interview) error
	GetInterview(ctx context.Context, id uuid.UUID) (*models.Interview, error)
	UpdateInterview(ctx context.Context, interview *models.Interview) error
	DeleteInterview(ctx context.Context, id uuid.UUID) error
	ListInterviews(ctx context.Context, workspaceID uuid.UUID, filter models.InterviewFilter) ([]models.Interview, error)
}

// Store хранилище документов recruitment.
// Get-методы возвращают (nil, nil), если запись не найдена.
type Store interface {
	JobPostingStore
	CandidateStore
	PipelineStore
	InterviewStore

	WithTx(ctx context.Context, fn func(tx Store) error) error
}

var _ Store = (*Database)(nil)
