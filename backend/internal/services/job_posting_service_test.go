package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamshub/backend/internal/models"
)

type fakeLimiter struct {
	counts map[string]int
	err    error
}

func (l *fakeLimiter) RateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	if l.err != nil {
		return false, 0, l.err
	}
	if l.counts == nil {
		l.counts = map[string]int{}
	}
	l.counts[key]++
	if l.counts[key] > limit {
		return false, window, nil
	}
	return true, 0, nil
}

func TestJobPostingCreateDefaults(t *testing.T) {
	env := newTestEnv(t)

	job := env.createJob(t, "")

	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, models.JobStatusDraft, job.Status)
	assert.Equal(t, env.clock.now, job.PostedDate)
	assert.Equal(t, env.clock.now, job.CreatedAt)
	assert.Equal(t, env.clock.now, job.UpdatedAt)
	assert.Zero(t, job.Views)
	assert.Zero(t, job.Applications)
}

func TestJobPostingUpdateAnyStatus(t *testing.T) {
	env := newTestEnv(t)
	job := env.createJob(t, models.JobStatusClosed)

	env.clock.advance(time.Hour)
	active := models.JobStatusActive
	title := "Senior Backend Engineer"

	updated, err := env.jobs.Update(env.ctx, job.ID, models.JobPostingUpdate{Status: &active, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusActive, updated.Status)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, env.clock.now, updated.UpdatedAt)
	assert.Equal(t, "Engineering", updated.Department)
}

func TestJobPostingUpdateMissing(t *testing.T) {
	env := newTestEnv(t)
	title := "Nobody"

	_, err := env.jobs.Update(env.ctx, uuid.New(), models.JobPostingUpdate{Title: &title})
	require.ErrorIs(t, err, ErrJobPostingNotFound)
}

func TestJobPostingGetMissingReturnsNil(t *testing.T) {
	env := newTestEnv(t)

	job, err := env.jobs.Get(env.ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, job)
}

func TestJobPostingDeleteKeepsCandidatesAndInterviews(t *testing.T) {
	env := newTestEnv(t)
	job := env.createJob(t, models.JobStatusActive)
	candidate := env.createCandidate(t, job)
	_, err := env.interviews.Create(env.ctx, &models.Interview{
		WorkspaceID:  env.workspace,
		CandidateID:  candidate.ID,
		JobPostingID: job.ID,
		ScheduledAt:  env.clock.now.Add(24 * time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, env.jobs.Delete(env.ctx, job.ID))

	got, err := env.jobs.Get(env.ctx, job.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	left := env.candidate(t, candidate.ID)
	assert.Equal(t, job.ID, left.JobPostingID)

	interviews, err := env.interviews.List(env.ctx, env.workspace, models.InterviewFilter{JobPostingID: job.ID})
	require.NoError(t, err)
	assert.Len(t, interviews, 1)
	assert.Equal(t, DeletePolicyOrphan, env.jobs.DeletePolicy)
}

func TestJobPostingListPublicOnlyActive(t *testing.T) {
	env := newTestEnv(t)

	for _, status := range models.JobStatuses {
		env.createJob(t, status)
		env.clock.advance(time.Minute)
	}

	jobs, err := env.jobs.ListPublic(env.ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, models.JobStatusActive, jobs[0].Status)
}

func TestJobPostingListFilters(t *testing.T) {
	env := newTestEnv(t)
	env.createJob(t, models.JobStatusActive)
	env.clock.advance(time.Minute)
	newest := env.createJob(t, models.JobStatusDraft)
	env.clock.advance(time.Minute)
	_, err := env.jobs.Create(env.ctx, &models.JobPosting{WorkspaceID: uuid.New(), Title: "Elsewhere"})
	require.NoError(t, err)

	all, err := env.jobs.List(env.ctx, env.workspace, models.JobPostingFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newest.ID, all[0].ID)

	drafts, err := env.jobs.List(env.ctx, env.workspace, models.JobPostingFilter{Status: models.JobStatusDraft})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, newest.ID, drafts[0].ID)
}

func TestJobPostingCountersOnlyGrow(t *testing.T) {
	env := newTestEnv(t)
	job := env.createJob(t, models.JobStatusActive)

	for i := 0; i < 3; i++ {
		require.NoError(t, env.jobs.IncrementViews(env.ctx, job.ID))
	}
	require.NoError(t, env.jobs.IncrementApplications(env.ctx, job.ID))

	title := "Renamed"
	_, err := env.jobs.Update(env.ctx, job.ID, models.JobPostingUpdate{Title: &title})
	require.NoError(t, err)

	stored := env.job(t, job.ID)
	assert.Equal(t, 3, stored.Views)
	assert.Equal(t, 1, stored.Applications)
	assert.Equal(t, float64(3), testutil.ToFloat64(env.metrics.jobViews))
}

func TestRecordPublicViewRateLimited(t *testing.T) {
	env := newTestEnv(t)
	job := env.createJob(t, models.JobStatusActive)
	env.jobs.limiter = &fakeLimiter{}

	counted, err := env.jobs.RecordPublicView(env.ctx, job.ID, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, counted)

	counted, err = env.jobs.RecordPublicView(env.ctx, job.ID, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, counted)

	counted, err = env.jobs.RecordPublicView(env.ctx, job.ID, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, counted)

	assert.Equal(t, 2, env.job(t, job.ID).Views)
}

func TestRecordPublicViewLimiterDown(t *testing.T) {
	env := newTestEnv(t)
	job := env.createJob(t, models.JobStatusActive)
	env.jobs.limiter = &fakeLimiter{err: errors.New("redis: connection refused")}

	counted, err := env.jobs.RecordPublicView(env.ctx, job.ID, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, counted)
	assert.Equal(t, 1, env.job(t, job.ID).Views)
}

func TestRecordPublicViewInactive(t *testing.T) {
	env := newTestEnv(t)
	job := env.createJob(t, models.JobStatusDraft)

	_, err := env.jobs.RecordPublicView(env.ctx, job.ID, "10.0.0.1")
	require.ErrorIs(t, err, ErrJobPostingNotFound)

	_, err = env.jobs.RecordPublicView(env.ctx, uuid.New(), "10.0.0.1")
	require.ErrorIs(t, err, ErrJobPostingNotFound)

	assert.Zero(t, env.job(t, job.ID).Views)
}

func TestExpireOverdue(t *testing.T) {
	env := newTestEnv(t)
	past := env.clock.now.Add(-time.Hour)
	future := env.clock.now.Add(time.Hour)

	overdue := env.createJob(t, models.JobStatusActive)
	_, err := env.jobs.Update(env.ctx, overdue.ID, models.JobPostingUpdate{ExpiryDate: &past})
	require.NoError(t, err)

	fresh := env.createJob(t, models.JobStatusActive)
	_, err = env.jobs.Update(env.ctx, fresh.ID, models.JobPostingUpdate{ExpiryDate: &future})
	require.NoError(t, err)

	paused := env.createJob(t, models.JobStatusPaused)
	_, err = env.jobs.Update(env.ctx, paused.ID, models.JobPostingUpdate{ExpiryDate: &past})
	require.NoError(t, err)

	n, err := env.jobs.ExpireOverdue(env.ctx, env.clock.now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, models.JobStatusExpired, env.job(t, overdue.ID).Status)
	assert.Equal(t, models.JobStatusActive, env.job(t, fresh.ID).Status)
	assert.Equal(t, models.JobStatusPaused, env.job(t, paused.ID).Status)

	expired := env.events.ofType(EventJobPostingExpired)
	require.Len(t, expired, 1)
	assert.Equal(t, overdue.ID.String(), expired[0].Data["job_posting_id"])
	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.postingsExpired))

	n, err = env.jobs.ExpireOverdue(env.ctx, env.clock.now)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestJobPostingPipelineMustBelongToWorkspace(t *testing.T) {
	env := newTestEnv(t)
	own, err := env.pipelines.CreatePipeline(env.ctx, env.workspace, "Own", nil, false)
	require.NoError(t, err)
	foreign, err := env.pipelines.CreatePipeline(env.ctx, uuid.New(), "Foreign", nil, false)
	require.NoError(t, err)
	missing := uuid.New()

	for _, id := range []uuid.UUID{foreign.ID, missing} {
		pipelineID := id
		_, err := env.jobs.Create(env.ctx, &models.JobPosting{
			WorkspaceID: env.workspace,
			PipelineID:  &pipelineID,
			Title:       "Backend Engineer",
			Type:        models.EmploymentFullTime,
		})
		require.ErrorIs(t, err, ErrPipelineNotFound)
	}

	jobs, err := env.jobs.List(env.ctx, env.workspace, models.JobPostingFilter{})
	require.NoError(t, err)
	assert.Empty(t, jobs)

	job := env.createJob(t, models.JobStatusActive)
	_, err = env.jobs.Update(env.ctx, job.ID, models.JobPostingUpdate{PipelineID: &foreign.ID})
	require.ErrorIs(t, err, ErrPipelineNotFound)
	assert.Nil(t, env.job(t, job.ID).PipelineID)

	updated, err := env.jobs.Update(env.ctx, job.ID, models.JobPostingUpdate{PipelineID: &own.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.PipelineID)
	assert.Equal(t, own.ID, *updated.PipelineID)
}

func TestJobPostingLogsStorageFailures(t *testing.T) {
	env := newTestEnv(t)
	env.store.fail["ListJobPostings"] = errInjected

	_, err := env.jobs.List(env.ctx, env.workspace, models.JobPostingFilter{})
	require.ErrorIs(t, err, errInjected)

	logged := env.errorLogs("Failed to list job postings")
	require.Len(t, logged, 1)
	assert.Equal(t, env.workspace.String(), logged[0].ContextMap()["workspace_id"])
	assert.Equal(t, errInjected.Error(), logged[0].ContextMap()["error"])
}
