package storage

import (
	"context"

	"github.com/google/uuid"

	"teamshub/backend/internal/models"
)

// CreatePipeline сохраняет воронку
func (d *Database) CreatePipeline(ctx context.Context, p *models.HiringPipeline) error {
	query := `
        INSERT INTO hiring_pipelines (id, workspace_id, name, stages, is_default, created_at, updated_at)
        VALUES (:id, :workspace_id, :name, :stages, :is_default, :created_at, :updated_at)
    `

	_, err := d.conn.NamedExecContext(ctx, query, p)
	return err
}

// GetPipeline получает воронку по ID
func (d *Database) GetPipeline(ctx context.Context, id uuid.UUID) (*models.HiringPipeline, error) {
	var p models.HiringPipeline
	found, err := d.getOne(ctx, &p, `SELECT * FROM hiring_pipelines WHERE id = $1`, id)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

// UpdatePipeline обновляет воронку
func (d *Database) UpdatePipeline(ctx context.Context, p *models.HiringPipeline) error {
	query := `
        UPDATE hiring_pipelines
        SET name = :name, stages = :stages, is_default = :is_default, updated_at = :updated_at
        WHERE id = :id
    `

	_, err := d.conn.NamedExecContext(ctx, query, p)
	return err
}

// DeletePipeline удаляет воронку
func (d *Database) DeletePipeline(ctx context.Context, id uuid.UUID) error {
	_, err := d.conn.ExecContext(ctx, `DELETE FROM hiring_pipelines WHERE id = $1`, id)
	return err
}

// ListPipelines воронки workspace, новые первыми
func (d *Database) ListPipelines(ctx context.Context, workspaceID uuid.UUID) ([]models.HiringPipeline, error) {
	query := `SELECT * FROM hiring_pipelines WHERE workspace_id = $1 ORDER BY created_at DESC`

	pipelines := []models.HiringPipeline{}
	if err := d.conn.SelectContext(ctx, &pipelines, query, workspaceID); err != nil {
		return nil, err
	}
	return pipelines, nil
}

// ClearDefaultPipeline снимает флаг is_default со всех воронок workspace
func (d *Database) ClearDefaultPipeline(ctx context.Context, workspaceID uuid.UUID) error {
	query := `UPDATE hiring_pipelines SET is_default = false WHERE workspace_id = $1 AND is_default = true`
	_, err := d.conn.ExecContext(ctx, query, workspaceID)
	return err
}
