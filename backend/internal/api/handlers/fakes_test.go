package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"teamshub/backend/internal/api/middleware"
	"teamshub/backend/internal/models"
	"teamshub/backend/internal/pipeline"
	"teamshub/backend/internal/services"
)

type apiResponse struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// serve выполняет запрос от имени workspace
func serve(t *testing.T, routes http.Handler, workspaceID uuid.UUID, method, path string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req = req.WithContext(middleware.WithWorkspace(req.Context(), uuid.New(), workspaceID))

	r := chi.NewRouter()
	r.Mount("/", routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp apiResponse
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

type fakeJobs struct {
	jobs     map[uuid.UUID]*models.JobPosting
	public   []models.JobPosting
	viewErr  error
	counted  bool
	created  *models.JobPosting
	lastView string

	createErr error
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{jobs: map[uuid.UUID]*models.JobPosting{}, counted: true}
}

func (f *fakeJobs) add(job models.JobPosting) *models.JobPosting {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	f.jobs[job.ID] = &job
	return &job
}

func (f *fakeJobs) Create(ctx context.Context, job *models.JobPosting) (*models.JobPosting, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	job.ID = uuid.New()
	if job.Status == "" {
		job.Status = models.JobStatusDraft
	}
	f.created = job
	f.jobs[job.ID] = job
	return job, nil
}

func (f *fakeJobs) Get(ctx context.Context, id uuid.UUID) (*models.JobPosting, error) {
	return f.jobs[id], nil
}

func (f *fakeJobs) Update(ctx context.Context, id uuid.UUID, update models.JobPostingUpdate) (*models.JobPosting, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, services.ErrJobPostingNotFound
	}
	update.Apply(job)
	return job, nil
}

func (f *fakeJobs) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.jobs, id)
	return nil
}

func (f *fakeJobs) List(ctx context.Context, workspaceID uuid.UUID, filter models.JobPostingFilter) ([]models.JobPosting, error) {
	var out []models.JobPosting
	for _, job := range f.jobs {
		if job.WorkspaceID == workspaceID {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (f *fakeJobs) ListPublic(ctx context.Context) ([]models.JobPosting, error) {
	return f.public, nil
}

func (f *fakeJobs) RecordPublicView(ctx context.Context, id uuid.UUID, visitorKey string) (bool, error) {
	f.lastView = visitorKey
	if f.viewErr != nil {
		return false, f.viewErr
	}
	return f.counted, nil
}

type fakeCandidates struct {
	candidates map[uuid.UUID]*models.Candidate
	createErr  error
}

func newFakeCandidates() *fakeCandidates {
	return &fakeCandidates{candidates: map[uuid.UUID]*models.Candidate{}}
}

func (f *fakeCandidates) add(c models.Candidate) *models.Candidate {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.candidates[c.ID] = &c
	return &c
}

func (f *fakeCandidates) Create(ctx context.Context, c *models.Candidate) (*models.Candidate, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c.ID = uuid.New()
	if c.Status == "" {
		c.Status = models.CandidateApplied
	}
	f.candidates[c.ID] = c
	return c, nil
}

func (f *fakeCandidates) Get(ctx context.Context, id uuid.UUID) (*models.Candidate, error) {
	return f.candidates[id], nil
}

func (f *fakeCandidates) Update(ctx context.Context, id uuid.UUID, update models.CandidateUpdate) (*models.Candidate, error) {
	c, ok := f.candidates[id]
	if !ok {
		return nil, services.ErrCandidateNotFound
	}
	update.Apply(c)
	return c, nil
}

func (f *fakeCandidates) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.candidates, id)
	return nil
}

func (f *fakeCandidates) List(ctx context.Context, workspaceID uuid.UUID, filter models.CandidateFilter) ([]models.Candidate, error) {
	var out []models.Candidate
	for _, c := range f.candidates {
		if c.WorkspaceID == workspaceID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCandidates) History(ctx context.Context, candidateID uuid.UUID) ([]models.StageChange, error) {
	return []models.StageChange{{CandidateID: candidateID, ToStatus: models.CandidateApplied}}, nil
}

// fakeMover возвращает заранее заданный результат
type fakeMover struct {
	candidate *models.Candidate
	advanced  bool
	err       error

	bulkIDs    []uuid.UUID
	bulkStatus models.CandidateStatus
}

func (f *fakeMover) AdvanceCandidate(ctx context.Context, candidateID uuid.UUID) (*models.Candidate, bool, error) {
	return f.candidate, f.advanced, f.err
}

func (f *fakeMover) TransitionCandidate(ctx context.Context, candidateID uuid.UUID, target models.CandidateStatus) (*models.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	c := *f.candidate
	c.Status = target
	return &c, nil
}

func (f *fakeMover) BulkTransition(ctx context.Context, workspaceID uuid.UUID, ids []uuid.UUID, target models.CandidateStatus) ([]models.Candidate, error) {
	f.bulkIDs = ids
	f.bulkStatus = target
	if f.err != nil {
		return nil, f.err
	}
	return []models.Candidate{}, nil
}

type fakePipelines struct {
	pipelines map[uuid.UUID]*models.HiringPipeline
	createErr error
	grouping  pipeline.Grouping
	boardJob  uuid.UUID
}

func newFakePipelines() *fakePipelines {
	return &fakePipelines{pipelines: map[uuid.UUID]*models.HiringPipeline{}}
}

func (f *fakePipelines) CreatePipeline(ctx context.Context, workspaceID uuid.UUID, name string, stages models.PipelineStages, isDefault bool) (*models.HiringPipeline, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	p := &models.HiringPipeline{ID: uuid.New(), WorkspaceID: workspaceID, Name: name, Stages: stages, IsDefault: isDefault}
	f.pipelines[p.ID] = p
	return p, nil
}

func (f *fakePipelines) GetPipeline(ctx context.Context, id uuid.UUID) (*models.HiringPipeline, error) {
	return f.pipelines[id], nil
}

func (f *fakePipelines) ListPipelines(ctx context.Context, workspaceID uuid.UUID) ([]models.HiringPipeline, error) {
	return nil, nil
}

func (f *fakePipelines) UpdatePipeline(ctx context.Context, id uuid.UUID, update models.PipelineUpdate) (*models.HiringPipeline, error) {
	p, ok := f.pipelines[id]
	if !ok {
		return nil, services.ErrPipelineNotFound
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	return p, nil
}

func (f *fakePipelines) DeletePipeline(ctx context.Context, id uuid.UUID) error {
	delete(f.pipelines, id)
	return nil
}

func (f *fakePipelines) ActivePipeline(ctx context.Context, workspaceID uuid.UUID) (*models.HiringPipeline, error) {
	return &models.HiringPipeline{WorkspaceID: workspaceID, Name: "Default", Stages: pipeline.DefaultStages()}, nil
}

func (f *fakePipelines) Board(ctx context.Context, workspaceID, jobPostingID uuid.UUID) (*models.HiringPipeline, pipeline.Grouping, error) {
	f.boardJob = jobPostingID
	p, _ := f.ActivePipeline(ctx, workspaceID)
	return p, f.grouping, nil
}
