package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"teamshub/backend/internal/models"
	"teamshub/backend/internal/storage"
)

var errInjected = errors.New("injected failure")

// fakeStore хранилище в памяти. WithTx делает снимок и откатывает его при ошибке.
type fakeStore struct {
	mu sync.Mutex

	jobs       map[uuid.UUID]models.JobPosting
	candidates map[uuid.UUID]models.Candidate
	pipelines  map[uuid.UUID]models.HiringPipeline
	interviews map[uuid.UUID]models.Interview
	changes    []models.StageChange
	order      []uuid.UUID

	// fail имя метода -> ошибка
	fail map[string]error
	inTx bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		jobs:       map[uuid.UUID]models.JobPosting{},
		candidates: map[uuid.UUID]models.Candidate{},
		pipelines:  map[uuid.UUID]models.HiringPipeline{},
		interviews: map[uuid.UUID]models.Interview{},
		fail:       map[string]error{},
	}
}

var _ storage.Store = (*fakeStore)(nil)

type fakeSnapshot struct {
	jobs       map[uuid.UUID]models.JobPosting
	candidates map[uuid.UUID]models.Candidate
	pipelines  map[uuid.UUID]models.HiringPipeline
	interviews map[uuid.UUID]models.Interview
	changes    []models.StageChange
	order      []uuid.UUID
}

func (f *fakeStore) snapshot() fakeSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := fakeSnapshot{
		jobs:       make(map[uuid.UUID]models.JobPosting, len(f.jobs)),
		candidates: make(map[uuid.UUID]models.Candidate, len(f.candidates)),
		pipelines:  make(map[uuid.UUID]models.HiringPipeline, len(f.pipelines)),
		interviews: make(map[uuid.UUID]models.Interview, len(f.interviews)),
		changes:    append([]models.StageChange(nil), f.changes...),
		order:      append([]uuid.UUID(nil), f.order...),
	}
	for k, v := range f.jobs {
		s.jobs[k] = v
	}
	for k, v := range f.candidates {
		s.candidates[k] = v
	}
	for k, v := range f.pipelines {
		s.pipelines[k] = v
	}
	for k, v := range f.interviews {
		s.interviews[k] = v
	}
	return s
}

func (f *fakeStore) restore(s fakeSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.jobs = s.jobs
	f.candidates = s.candidates
	f.pipelines = s.pipelines
	f.interviews = s.interviews
	f.changes = s.changes
	f.order = s.order
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(tx storage.Store) error) error {
	if f.inTx {
		return fn(f)
	}

	snap := f.snapshot()
	f.inTx = true
	err := fn(f)
	f.inTx = false

	if err != nil {
		f.restore(snap)
	}
	return err
}

func (f *fakeStore) injected(method string) error {
	return f.fail[method]
}

// newestFirst ID в порядке вставки от последнего к первому
func (f *fakeStore) newestFirst() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(f.order))
	for i := len(f.order) - 1; i >= 0; i-- {
		ids = append(ids, f.order[i])
	}
	return ids
}

// Вакансии

func (f *fakeStore) CreateJobPosting(ctx context.Context, job *models.JobPosting) error {
	if err := f.injected("CreateJobPosting"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[job.ID] = *job
	f.order = append(f.order, job.ID)
	return nil
}

func (f *fakeStore) GetJobPosting(ctx context.Context, id uuid.UUID) (*models.JobPosting, error) {
	if err := f.injected("GetJobPosting"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return nil, nil
	}
	return &job, nil
}

func (f *fakeStore) UpdateJobPosting(ctx context.Context, job *models.JobPosting) error {
	if err := f.injected("UpdateJobPosting"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.jobs[job.ID]
	if !ok {
		return nil
	}
	updated := *job
	updated.Views = stored.Views
	updated.Applications = stored.Applications
	f.jobs[job.ID] = updated
	return nil
}

func (f *fakeStore) DeleteJobPosting(ctx context.Context, id uuid.UUID) error {
	if err := f.injected("DeleteJobPosting"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.jobs, id)
	return nil
}

func (f *fakeStore) ListJobPostings(ctx context.Context, workspaceID uuid.UUID, filter models.JobPostingFilter) ([]models.JobPosting, error) {
	if err := f.injected("ListJobPostings"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	jobs := []models.JobPosting{}
	for _, id := range f.newestFirst() {
		job, ok := f.jobs[id]
		if !ok || job.WorkspaceID != workspaceID {
			continue
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		if filter.Department != "" && job.Department != filter.Department {
			continue
		}
		if filter.Type != "" && job.Type != filter.Type {
			continue
		}
		jobs = append(jobs, job)
	}
	sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })
	return jobs, nil
}

func (f *fakeStore) ListPublicJobPostings(ctx context.Context) ([]models.JobPosting, error) {
	if err := f.injected("ListPublicJobPostings"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	jobs := []models.JobPosting{}
	for _, id := range f.newestFirst() {
		job, ok := f.jobs[id]
		if ok && job.Status == models.JobStatusActive {
			jobs = append(jobs, job)
		}
	}
	sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].PostedDate.After(jobs[j].PostedDate) })
	return jobs, nil
}

func (f *fakeStore) IncrementJobPostingCounter(ctx context.Context, id uuid.UUID, counter storage.JobCounter, delta int) error {
	if err := f.injected("IncrementJobPostingCounter"); err != nil {
		return err
	}
	if delta <= 0 {
		return errors.New("counter delta must be positive")
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	job, ok := f.jobs[id]
	if !ok {
		return nil
	}
	switch counter {
	case storage.CounterViews:
		job.Views += delta
	case storage.CounterApplications:
		job.Applications += delta
	default:
		return errors.New("unknown counter")
	}
	f.jobs[id] = job
	return nil
}

func (f *fakeStore) ExpireJobPostings(ctx context.Context, now time.Time) ([]models.JobPosting, error) {
	if err := f.injected("ExpireJobPostings"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	expired := []models.JobPosting{}
	for _, id := range f.order {
		job, ok := f.jobs[id]
		if !ok || job.Status != models.JobStatusActive || job.ExpiryDate == nil || !job.ExpiryDate.Before(now) {
			continue
		}
		job.Status = models.JobStatusExpired
		job.UpdatedAt = now
		f.jobs[id] = job
		expired = append(expired, job)
	}
	return expired, nil
}

// Кандидаты

func (f *fakeStore) CreateCandidate(ctx context.Context, c *models.Candidate) error {
	if err := f.injected("CreateCandidate"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.candidates[c.ID] = *c
	f.order = append(f.order, c.ID)
	return nil
}

func (f *fakeStore) GetCandidate(ctx context.Context, id uuid.UUID) (*models.Candidate, error) {
	if err := f.injected("GetCandidate"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.candidates[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeStore) UpdateCandidate(ctx context.Context, c *models.Candidate) error {
	if err := f.injected("UpdateCandidate"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.candidates[c.ID]; ok {
		f.candidates[c.ID] = *c
	}
	return nil
}

func (f *fakeStore) DeleteCandidate(ctx context.Context, id uuid.UUID) error {
	if err := f.injected("DeleteCandidate"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.candidates, id)
	return nil
}

func (f *fakeStore) ListCandidates(ctx context.Context, workspaceID uuid.UUID, filter models.CandidateFilter) ([]models.Candidate, error) {
	if err := f.injected("ListCandidates"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	candidates := []models.Candidate{}
	for _, id := range f.newestFirst() {
		c, ok := f.candidates[id]
		if !ok || c.WorkspaceID != workspaceID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.JobPostingID != uuid.Nil && c.JobPostingID != filter.JobPostingID {
			continue
		}
		candidates = append(candidates, c)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].AppliedDate.After(candidates[j].AppliedDate)
	})
	return candidates, nil
}

func (f *fakeStore) RecordStageChange(ctx context.Context, change *models.StageChange) error {
	if err := f.injected("RecordStageChange"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = append(f.changes, *change)
	return nil
}

func (f *fakeStore) ListStageChanges(ctx context.Context, candidateID uuid.UUID) ([]models.StageChange, error) {
	if err := f.injected("ListStageChanges"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	changes := []models.StageChange{}
	for _, change := range f.changes {
		if change.CandidateID == candidateID {
			changes = append(changes, change)
		}
	}
	return changes, nil
}

// Воронки

func (f *fakeStore) CreatePipeline(ctx context.Context, p *models.HiringPipeline) error {
	if err := f.injected("CreatePipeline"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pipelines[p.ID] = *p
	f.order = append(f.order, p.ID)
	return nil
}

func (f *fakeStore) GetPipeline(ctx context.Context, id uuid.UUID) (*models.HiringPipeline, error) {
	if err := f.injected("GetPipeline"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pipelines[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeStore) UpdatePipeline(ctx context.Context, p *models.HiringPipeline) error {
	if err := f.injected("UpdatePipeline"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.pipelines[p.ID]; ok {
		f.pipelines[p.ID] = *p
	}
	return nil
}

func (f *fakeStore) DeletePipeline(ctx context.Context, id uuid.UUID) error {
	if err := f.injected("DeletePipeline"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pipelines, id)
	return nil
}

func (f *fakeStore) ListPipelines(ctx context.Context, workspaceID uuid.UUID) ([]models.HiringPipeline, error) {
	if err := f.injected("ListPipelines"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	pipelines := []models.HiringPipeline{}
	for _, id := range f.newestFirst() {
		p, ok := f.pipelines[id]
		if ok && p.WorkspaceID == workspaceID {
			pipelines = append(pipelines, p)
		}
	}
	sort.SliceStable(pipelines, func(i, j int) bool {
		return pipelines[i].CreatedAt.After(pipelines[j].CreatedAt)
	})
	return pipelines, nil
}

func (f *fakeStore) ClearDefaultPipeline(ctx context.Context, workspaceID uuid.UUID) error {
	if err := f.injected("ClearDefaultPipeline"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, p := range f.pipelines {
		if p.WorkspaceID == workspaceID && p.IsDefault {
			p.IsDefault = false
			f.pipelines[id] = p
		}
	}
	return nil
}

// Собеседования

func (f *fakeStore) CreateInterview(ctx context.Context, i *models.Interview) error {
	if err := f.injected("CreateInterview"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.interviews[i.ID] = *i
	f.order = append(f.order, i.ID)
	return nil
}

func (f *fakeStore) GetInterview(ctx context.Context, id uuid.UUID) (*models.Interview, error) {
	if err := f.injected("GetInterview"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i, ok := f.interviews[id]
	if !ok {
		return nil, nil
	}
	return &i, nil
}

func (f *fakeStore) UpdateInterview(ctx context.Context, i *models.Interview) error {
	if err := f.injected("UpdateInterview"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.interviews[i.ID]; ok {
		f.interviews[i.ID] = *i
	}
	return nil
}

func (f *fakeStore) DeleteInterview(ctx context.Context, id uuid.UUID) error {
	if err := f.injected("DeleteInterview"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.interviews, id)
	return nil
}

func (f *fakeStore) ListInterviews(ctx context.Context, workspaceID uuid.UUID, filter models.InterviewFilter) ([]models.Interview, error) {
	if err := f.injected("ListInterviews"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	interviews := []models.Interview{}
	for _, id := range f.newestFirst() {
		i, ok := f.interviews[id]
		if !ok || i.WorkspaceID != workspaceID {
			continue
		}
		if filter.Status != "" && i.Status != filter.Status {
			continue
		}
		if filter.CandidateID != uuid.Nil && i.CandidateID != filter.CandidateID {
			continue
		}
		if filter.JobPostingID != uuid.Nil && i.JobPostingID != filter.JobPostingID {
			continue
		}
		interviews = append(interviews, i)
	}
	sort.SliceStable(interviews, func(a, b int) bool {
		return interviews[a].ScheduledAt.After(interviews[b].ScheduledAt)
	})
	return interviews, nil
}

// recordingPublisher запоминает опубликованные события
type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) ofType(t EventType) []Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []Event
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// fixedClock часы, которые двигаются только вручную
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func (c *fixedClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}
