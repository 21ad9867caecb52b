package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"teamshub/backend/internal/models"
)

// EventType типы событий воронки
type EventType string

const (
	// Кандидаты
	EventCandidateCreated      EventType = "candidate_created"
	EventCandidateStageChanged EventType = "candidate_stage_changed"
	EventCandidatesBulkMoved   EventType = "candidates_bulk_moved"

	// Собеседования
	EventInterviewScheduled EventType = "interview_scheduled"

	// Вакансии
	EventJobPostingExpired EventType = "job_posting_expired"
)

// activityLimit сколько последних событий хранить в ленте workspace
const activityLimit = 100

// Event событие workspace
type Event struct {
	ID          uuid.UUID              `json:"id"`
	Type        EventType              `json:"type"`
	WorkspaceID uuid.UUID              `json:"workspace_id"`
	Data        map[string]interface{} `json:"data,omitempty"`
	OccurredAt  time.Time              `json:"occurred_at"`
}

// EventPublisher получатель событий. Ошибки доставки не должны ломать бизнес-операцию.
type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}

// eventSink то, что нужно от Redis
type eventSink interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	PushCapped(ctx context.Context, key string, value interface{}, limit int64) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// EventService публикует события в Redis канал и ленту активности workspace
type EventService struct {
	sink   eventSink
	logger *zap.Logger
	clock  Clock
}

// NewEventService создает сервис событий
func NewEventService(sink eventSink, logger *zap.Logger) *EventService {
	return &EventService{
		sink:   sink,
		logger: logger,
	}
}

// EventsChannel канал событий workspace
func EventsChannel(workspaceID uuid.UUID) string {
	return fmt.Sprintf("recruitment:%s:events", workspaceID.String())
}

// ActivityKey список последних событий workspace
func ActivityKey(workspaceID uuid.UUID) string {
	return fmt.Sprintf("recruitment:%s:activity", workspaceID.String())
}

// Publish отправка события
func (s *EventService) Publish(ctx context.Context, event Event) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.clock.now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal event",
			zap.String("type", string(event.Type)),
			zap.Error(err))
		return
	}

	if err := s.sink.Publish(ctx, EventsChannel(event.WorkspaceID), payload); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("type", string(event.Type)),
			zap.String("workspace_id", event.WorkspaceID.String()),
			zap.Error(err))
	}

	if err := s.sink.PushCapped(ctx, ActivityKey(event.WorkspaceID), payload, activityLimit); err != nil {
		s.logger.Warn("Failed to store activity",
			zap.String("type", string(event.Type)),
			zap.String("workspace_id", event.WorkspaceID.String()),
			zap.Error(err))
	}

	s.logger.Debug("Event published",
		zap.String("type", string(event.Type)),
		zap.String("workspace_id", event.WorkspaceID.String()))
}

// Recent последние события workspace, новые первыми
func (s *EventService) Recent(ctx context.Context, workspaceID uuid.UUID, limit int) ([]Event, error) {
	if limit <= 0 || limit > activityLimit {
		limit = activityLimit
	}

	raw, err := s.sink.LRange(ctx, ActivityKey(workspaceID), 0, int64(limit-1))
	if err != nil {
		return nil, fmt.Errorf("failed to read activity: %w", err)
	}

	events := make([]Event, 0, len(raw))
	for _, item := range raw {
		var event Event
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			s.logger.Warn("Skipping malformed activity entry", zap.Error(err))
			continue
		}
		events = append(events, event)
	}

	return events, nil
}

// Методы для конкретных типов событий

func candidateCreatedEvent(c *models.Candidate) Event {
	return Event{
		Type:        EventCandidateCreated,
		WorkspaceID: c.WorkspaceID,
		Data: map[string]interface{}{
			"candidate_id":   c.ID.String(),
			"job_posting_id": c.JobPostingID.String(),
			"name":           c.Name,
			"status":         c.Status,
		},
		OccurredAt: c.CreatedAt,
	}
}

func stageChangedEvent(c *models.Candidate, from models.CandidateStatus) Event {
	return Event{
		Type:        EventCandidateStageChanged,
		WorkspaceID: c.WorkspaceID,
		Data: map[string]interface{}{
			"candidate_id":   c.ID.String(),
			"job_posting_id": c.JobPostingID.String(),
			"from":           from,
			"to":             c.Status,
		},
		OccurredAt: c.UpdatedAt,
	}
}

func bulkMovedEvent(workspaceID uuid.UUID, ids []uuid.UUID, status models.CandidateStatus, at time.Time) Event {
	list := make([]string, 0, len(ids))
	for _, id := range ids {
		list = append(list, id.String())
	}
	return Event{
		Type:        EventCandidatesBulkMoved,
		WorkspaceID: workspaceID,
		Data: map[string]interface{}{
			"candidate_ids": list,
			"to":            status,
		},
		OccurredAt: at,
	}
}

func interviewScheduledEvent(i *models.Interview) Event {
	return Event{
		Type:        EventInterviewScheduled,
		WorkspaceID: i.WorkspaceID,
		Data: map[string]interface{}{
			"interview_id":   i.ID.String(),
			"candidate_id":   i.CandidateID.String(),
			"job_posting_id": i.JobPostingID.String(),
			"scheduled_at":   i.ScheduledAt,
			"type":           i.Type,
		},
		OccurredAt: i.CreatedAt,
	}
}

func jobExpiredEvent(job *models.JobPosting) Event {
	return Event{
		Type:        EventJobPostingExpired,
		WorkspaceID: job.WorkspaceID,
		Data: map[string]interface{}{
			"job_posting_id": job.ID.String(),
			"title":          job.Title,
			"expiry_date":    job.ExpiryDate,
		},
		OccurredAt: job.UpdatedAt,
	}
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}
