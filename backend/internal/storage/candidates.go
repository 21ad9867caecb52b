package storage

import (
	"context"

	"github.com/google/uuid"

	"teamshub/backend/internal/models"
)

// CreateCandidate сохраняет кандидата. job_posting_id не проверяется.
func (d *Database) CreateCandidate(ctx context.Context, c *models.Candidate) error {
	query := `
        INSERT INTO candidates (id, workspace_id, job_posting_id, name, email, phone,
                                experience_years, education, location, resume_url, cover_letter,
                                portfolio_url, linkedin_url, status, score, notes, tags,
                                applied_date, hired_at, created_at, updated_at)
        VALUES (:id, :workspace_id, :job_posting_id, :name, :email, :phone,
                :experience_years, :education, :location, :resume_url, :cover_letter,
                :portfolio_url, :linkedin_url, :status, :score, :notes, :tags,
                :applied_date, :hired_at, :created_at, :updated_at)
    `

	_, err := d.conn.NamedExecContext(ctx, query, c)
	return err
}

// GetCandidate получает кандидата по ID
func (d *Database) GetCandidate(ctx context.Context, id uuid.UUID) (*models.Candidate, error) {
	var c models.Candidate
	found, err := d.getOne(ctx, &c, `SELECT * FROM candidates WHERE id = $1`, id)
	if err != nil || !found {
		return nil, err
	}
	return &c, nil
}

// UpdateCandidate обновляет кандидата
func (d *Database) UpdateCandidate(ctx context.Context, c *models.Candidate) error {
	query := `
        UPDATE candidates
        SET name = :name, email = :email, phone = :phone, experience_years = :experience_years,
            education = :education, location = :location, resume_url = :resume_url,
            cover_letter = :cover_letter, portfolio_url = :portfolio_url,
            linkedin_url = :linkedin_url, status = :status, score = :score, notes = :notes,
            tags = :tags, hired_at = :hired_at, updated_at = :updated_at
        WHERE id = :id
    `

	_, err := d.conn.NamedExecContext(ctx, query, c)
	return err
}

// DeleteCandidate удаляет кандидата. Счетчик откликов вакансии не уменьшается.
func (d *Database) DeleteCandidate(ctx context.Context, id uuid.UUID) error {
	_, err := d.conn.ExecContext(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	return err
}

// ListCandidates кандидаты workspace, последние отклики первыми
func (d *Database) ListCandidates(ctx context.Context, workspaceID uuid.UUID, filter models.CandidateFilter) ([]models.Candidate, error) {
	where := &whereBuilder{}
	where.add("workspace_id", workspaceID)
	if filter.Status != "" {
		where.add("status", filter.Status)
	}
	if filter.JobPostingID != uuid.Nil {
		where.add("job_posting_id", filter.JobPostingID)
	}

	query := `SELECT * FROM candidates` + where.sql() + ` ORDER BY applied_date DESC`

	candidates := []models.Candidate{}
	if err := d.conn.SelectContext(ctx, &candidates, query, where.args...); err != nil {
		return nil, err
	}
	return candidates, nil
}

// RecordStageChange сохраняет переход кандидата между этапами
func (d *Database) RecordStageChange(ctx context.Context, change *models.StageChange) error {
	query := `
        INSERT INTO candidate_stage_changes (id, workspace_id, candidate_id, from_status, to_status, changed_at)
        VALUES (:id, :workspace_id, :candidate_id, :from_status, :to_status, :changed_at)
    `

	_, err := d.conn.NamedExecContext(ctx, query, change)
	return err
}

// ListStageChanges история переходов кандидата по порядку
func (d *Database) ListStageChanges(ctx context.Context, candidateID uuid.UUID) ([]models.StageChange, error) {
	query := `SELECT * FROM candidate_stage_changes WHERE candidate_id = $1 ORDER BY changed_at ASC`

	changes := []models.StageChange{}
	if err := d.conn.SelectContext(ctx, &changes, query, candidateID); err != nil {
		return nil, err
	}
	return changes, nil
}
