package storage

import (
	"context"

	"github.com/google/uuid"

	"teamshub/backend/internal/models"
)

// CreateInterview сохраняет собеседование
func (d *Database) CreateInterview(ctx context.Context, i *models.Interview) error {
	query := `
        INSERT INTO interviews (id, workspace_id, candidate_id, job_posting_id, type, scheduled_at,
                                duration_minutes, interviewers, location, meeting_link, status,
                                feedback, rating, technical_score, cultural_score, overall_score,
                                next_steps, created_at, updated_at)
        VALUES (:id, :workspace_id, :candidate_id, :job_posting_id, :type, :scheduled_at,
                :duration_minutes, :interviewers, :location, :meeting_link, :status,
                :feedback, :rating, :technical_score, :cultural_score, :overall_score,
                :next_steps, :created_at, :updated_at)
    `

	_, err := d.conn.NamedExecContext(ctx, query, i)
	return err
}

// GetInterview получает собеседование по ID
func (d *Database) GetInterview(ctx context.Context, id uuid.UUID) (*models.Interview, error) {
	var i models.Interview
	found, err := d.getOne(ctx, &i, `SELECT * FROM interviews WHERE id = $1`, id)
	if err != nil || !found {
		return nil, err
	}
	return &i, nil
}

// UpdateInterview обновляет собеседование
func (d *Database) UpdateInterview(ctx context.Context, i *models.Interview) error {
	query := `
        UPDATE interviews
        SET type = :type, scheduled_at = :scheduled_at, duration_minutes = :duration_minutes,
            interviewers = :interviewers, location = :location, meeting_link = :meeting_link,
            status = :status, feedback = :feedback, rating = :rating,
            technical_score = :technical_score, cultural_score = :cultural_score,
            overall_score = :overall_score, next_steps = :next_steps, updated_at = :updated_at
        WHERE id = :id
    `

	_, err := d.conn.NamedExecContext(ctx, query, i)
	return err
}

// DeleteInterview удаляет собеседование
func (d *Database) DeleteInterview(ctx context.Context, id uuid.UUID) error {
	_, err := d.conn.ExecContext(ctx, `DELETE FROM interviews WHERE id = $1`, id)
	return err
}

// ListInterviews собеседования workspace, поздние по дате первыми
func (d *Database) ListInterviews(ctx context.Context, workspaceID uuid.UUID, filter models.InterviewFilter) ([]models.Interview, error) {
	where := &whereBuilder{}
	where.add("workspace_id", workspaceID)
	if filter.Status != "" {
		where.add("status", filter.Status)
	}
	if filter.CandidateID != uuid.Nil {
		where.add("candidate_id", filter.CandidateID)
	}
	if filter.JobPostingID != uuid.Nil {
		where.add("job_posting_id", filter.JobPostingID)
	}

	query := `SELECT * FROM interviews` + where.sql() + ` ORDER BY scheduled_at DESC`

	interviews := []models.Interview{}
	if err := d.conn.SelectContext(ctx, &interviews, query, where.args...); err != nil {
		return nil, err
	}
	return interviews, nil
}
