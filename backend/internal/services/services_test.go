package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"teamshub/backend/internal/models"
)

type testEnv struct {
	ctx       context.Context
	store     *fakeStore
	events    *recordingPublisher
	clock     *fixedClock
	metrics   *Metrics
	logs      *observer.ObservedLogs
	workspace uuid.UUID

	jobs       *JobPostingService
	candidates *CandidateService
	pipelines  *PipelineService
	interviews *InterviewService
	stats      *StatsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newFakeStore()
	events := &recordingPublisher{}
	clock := &fixedClock{now: time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)}
	metrics := NewMetrics(prometheus.NewRegistry())
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	env := &testEnv{
		ctx:       context.Background(),
		store:     store,
		events:    events,
		clock:     clock,
		metrics:   metrics,
		logs:      logs,
		workspace: uuid.New(),
	}

	env.jobs = NewJobPostingService(store, nil, ViewLimitConfig{}, events, metrics, logger)
	env.jobs.clock = clock.Now
	env.candidates = NewCandidateService(store, events, metrics, logger)
	env.candidates.clock = clock.Now
	env.pipelines = NewPipelineService(store, env.candidates, logger)
	env.pipelines.clock = clock.Now
	env.interviews = NewInterviewService(store, events, "https://teams.example.com/", logger)
	env.interviews.clock = clock.Now
	env.stats = NewStatsService(store, logger)
	env.stats.clock = clock.Now

	return env
}

func (e *testEnv) createJob(t *testing.T, status models.JobStatus) *models.JobPosting {
	t.Helper()

	job, err := e.jobs.Create(e.ctx, &models.JobPosting{
		WorkspaceID: e.workspace,
		Title:       "Backend Engineer",
		Department:  "Engineering",
		Type:        models.EmploymentFullTime,
		Status:      status,
	})
	require.NoError(t, err)
	return job
}

func (e *testEnv) createCandidate(t *testing.T, job *models.JobPosting) *models.Candidate {
	t.Helper()

	c, err := e.candidates.Create(e.ctx, &models.Candidate{
		WorkspaceID:  e.workspace,
		JobPostingID: job.ID,
		Name:         "Jane Doe",
		Email:        "jane@example.com",
	})
	require.NoError(t, err)
	return c
}

func (e *testEnv) job(t *testing.T, id uuid.UUID) *models.JobPosting {
	t.Helper()

	job, err := e.store.GetJobPosting(e.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, job)
	return job
}

func (e *testEnv) candidate(t *testing.T, id uuid.UUID) *models.Candidate {
	t.Helper()

	c, err := e.store.GetCandidate(e.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c
}

// errorLogs записи уровня error с данным сообщением
func (e *testEnv) errorLogs(msg string) []observer.LoggedEntry {
	return e.logs.FilterLevelExact(zap.ErrorLevel).FilterMessage(msg).All()
}
