package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.WorkflowRepository = (*WorkflowRepo)(nil)

// WorkflowRepo implementación de plantillas de flujo sobre PostgreSQL (pool o tx).
type WorkflowRepo struct {
	q Querier
}

// NewWorkflowRepository construye el adaptador.
func NewWorkflowRepository(q Querier) *WorkflowRepo {
	return &WorkflowRepo{q: q}
}

// Create persiste la plantilla y sus etapas.
func (r *WorkflowRepo) Create(wf *entity.Workflow) error {
	_, err := r.q.Exec(context.Background(), `
		INSERT INTO workflows (id, company_id, name, created_at)
		VALUES ($1, $2, $3, $4)`,
		wf.ID, wf.CompanyID, wf.Name, wf.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create workflow: %w", err)
	}
	for _, s := range wf.Stages {
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO workflow_stages (id, workflow_id, name, position, input_unit, output_unit, wip_limit)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			s.ID, s.WorkflowID, s.Name, s.Position, s.InputUnit, s.OutputUnit, s.WIPLimit,
		)
		if err != nil {
			return fmt.Errorf("create workflow stage: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la plantilla con sus etapas ordenadas (nil si no existe).
func (r *WorkflowRepo) GetByID(id string) (*entity.Workflow, error) {
	var wf entity.Workflow
	err := r.q.QueryRow(context.Background(), `
		SELECT id, company_id, name, created_at FROM workflows WHERE id = $1`, id).
		Scan(&wf.ID, &wf.CompanyID, &wf.Name, &wf.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get workflow: %w", err)
	}
	stages, err := r.ListStages(id)
	if err != nil {
		return nil, err
	}
	for _, s := range stages {
		wf.Stages = append(wf.Stages, *s)
	}
	return &wf, nil
}

// GetStage obtiene una etapa por ID (nil si no existe).
func (r *WorkflowRepo) GetStage(stageID string) (*entity.Stage, error) {
	var s entity.Stage
	err := r.q.QueryRow(context.Background(), `
		SELECT id, workflow_id, name, position, input_unit, output_unit, wip_limit
		FROM workflow_stages WHERE id = $1`, stageID).
		Scan(&s.ID, &s.WorkflowID, &s.Name, &s.Position, &s.InputUnit, &s.OutputUnit, &s.WIPLimit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stage: %w", err)
	}
	return &s, nil
}

// ListStages lista las etapas de la plantilla en orden de ejecución.
func (r *WorkflowRepo) ListStages(workflowID string) ([]*entity.Stage, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, workflow_id, name, position, input_unit, output_unit, wip_limit
		FROM workflow_stages WHERE workflow_id = $1 ORDER BY position`, workflowID)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	defer rows.Close()

	var list []*entity.Stage
	for rows.Next() {
		var s entity.Stage
		if err := rows.Scan(&s.ID, &s.WorkflowID, &s.Name, &s.Position,
			&s.InputUnit, &s.OutputUnit, &s.WIPLimit); err != nil {
			return nil, fmt.Errorf("scan stage: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
