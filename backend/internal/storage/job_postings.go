package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"teamshub/backend/internal/models"
)

// CreateJobPosting сохраняет вакансию
func (d *Database) CreateJobPosting(ctx context.Context, job *models.JobPosting) error {
	query := `
        INSERT INTO job_postings (id, workspace_id, pipeline_id, title, department, location, type,
                                  salary_range, description, requirements, responsibilities, benefits,
                                  status, applications, views, posted_date, expiry_date,
                                  created_at, updated_at)
        VALUES (:id, :workspace_id, :pipeline_id, :title, :department, :location, :type,
                :salary_range, :description, :requirements, :responsibilities, :benefits,
                :status, :applications, :views, :posted_date, :expiry_date,
                :created_at, :updated_at)
    `

	_, err := d.conn.NamedExecContext(ctx, query, job)
	return err
}

// GetJobPosting получает вакансию по ID
func (d *Database) GetJobPosting(ctx context.Context, id uuid.UUID) (*models.JobPosting, error) {
	var job models.JobPosting
	found, err := d.getOne(ctx, &job, `SELECT * FROM job_postings WHERE id = $1`, id)
	if err != nil || !found {
		return nil, err
	}
	return &job, nil
}

// UpdateJobPosting обновляет вакансию. Счетчики здесь не трогаем.
func (d *Database) UpdateJobPosting(ctx context.Context, job *models.JobPosting) error {
	query := `
        UPDATE job_postings
        SET pipeline_id = :pipeline_id, title = :title, department = :department,
            location = :location, type = :type, salary_range = :salary_range,
            description = :description, requirements = :requirements,
            responsibilities = :responsibilities, benefits = :benefits,
            status = :status, expiry_date = :expiry_date, updated_at = :updated_at
        WHERE id = :id
    `

	_, err := d.conn.NamedExecContext(ctx, query, job)
	return err
}

// DeleteJobPosting удаляет вакансию. Кандидаты и собеседования остаются.
func (d *Database) DeleteJobPosting(ctx context.Context, id uuid.UUID) error {
	_, err := d.conn.ExecContext(ctx, `DELETE FROM job_postings WHERE id = $1`, id)
	return err
}

// ListJobPostings вакансии workspace, новые первыми
func (d *Database) ListJobPostings(ctx context.Context, workspaceID uuid.UUID, filter models.JobPostingFilter) ([]models.JobPosting, error) {
	where := &whereBuilder{}
	where.add("workspace_id", workspaceID)
	if filter.Status != "" {
		where.add("status", filter.Status)
	}
	if filter.Department != "" {
		where.add("department", filter.Department)
	}
	if filter.Type != "" {
		where.add("type", filter.Type)
	}

	query := `SELECT * FROM job_postings` + where.sql() + ` ORDER BY created_at DESC`

	jobs := []models.JobPosting{}
	if err := d.conn.SelectContext(ctx, &jobs, query, where.args...); err != nil {
		return nil, err
	}
	return jobs, nil
}

// ListPublicJobPostings активные вакансии всех workspace для страницы карьеры
func (d *Database) ListPublicJobPostings(ctx context.Context) ([]models.JobPosting, error) {
	query := `SELECT * FROM job_postings WHERE status = $1 ORDER BY posted_date DESC`

	jobs := []models.JobPosting{}
	if err := d.conn.SelectContext(ctx, &jobs, query, models.JobStatusActive); err != nil {
		return nil, err
	}
	return jobs, nil
}

// IncrementJobPostingCounter атомарно увеличивает счетчик вакансии
func (d *Database) IncrementJobPostingCounter(ctx context.Context, id uuid.UUID, counter JobCounter, delta int) error {
	switch counter {
	case CounterViews, CounterApplications:
	default:
		return fmt.Errorf("unknown job posting counter %q", counter)
	}
	if delta <= 0 {
		return fmt.Errorf("counter delta must be positive, got %d", delta)
	}

	// Имя колонки из закрытого списка выше
	query := fmt.Sprintf(`UPDATE job_postings SET %s = %s + $1 WHERE id = $2`, counter, counter)
	_, err := d.conn.ExecContext(ctx, query, delta, id)
	return err
}

// ExpireJobPostings переводит активные вакансии с истекшим сроком в expired
func (d *Database) ExpireJobPostings(ctx context.Context, now time.Time) ([]models.JobPosting, error) {
	query := `
        UPDATE job_postings
        SET status = $1, updated_at = $2
        WHERE status = $3 AND expiry_date IS NOT NULL AND expiry_date < $2
        RETURNING *
    `

	jobs := []models.JobPosting{}
	if err := d.conn.SelectContext(ctx, &jobs, query, models.JobStatusExpired, now, models.JobStatusActive); err != nil {
		return nil, err
	}
	return jobs, nil
}
