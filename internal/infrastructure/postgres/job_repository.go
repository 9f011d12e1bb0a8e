package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.JobRepository = (*JobRepo)(nil)

// JobRepo implementación de órdenes de producción sobre PostgreSQL (pool o tx).
// Las líneas de BOM viven en job_bom_lines; las etapas planificadas en un text[].
type JobRepo struct {
	q Querier
}

// NewJobRepository construye el adaptador.
func NewJobRepository(q Querier) *JobRepo {
	return &JobRepo{q: q}
}

const jobColumns = `id, company_id, code, status, workflow_id, planned_stages, current_stage,
	pieces_per_box, boxes_per_pallet, number_up,
	output_item_id, planned_qty, output_unit, created_at, updated_at, created_by`

// Create persiste la orden y sus líneas de BOM.
func (r *JobRepo) Create(job *entity.Job) error {
	query := `
		INSERT INTO jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	currentStage := (*string)(nil)
	if job.CurrentStage != "" {
		currentStage = &job.CurrentStage
	}
	createdBy := (*string)(nil)
	if job.CreatedBy != "" {
		createdBy = &job.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		job.ID, job.CompanyID, job.Code, job.Status, job.WorkflowID,
		job.PlannedStages, currentStage,
		job.Packaging.PiecesPerBox, job.Packaging.BoxesPerPallet, job.Packaging.NumberUp,
		job.Output.ItemID, job.Output.PlannedQty, job.Output.Unit,
		job.CreatedAt, job.UpdatedAt, createdBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create job: %w", err)
	}
	for _, l := range job.BOM {
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO job_bom_lines (job_id, item_id, unit, qty_required, qty_consumed)
			VALUES ($1, $2, $3, $4, $5)`,
			job.ID, l.ItemID, l.Unit, l.QtyRequired, l.QtyConsumed,
		)
		if err != nil {
			return fmt.Errorf("create bom line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la orden con su BOM (nil si no existe).
func (r *JobRepo) GetByID(id string) (*entity.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	var j entity.Job
	var currentStage, createdBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&j.ID, &j.CompanyID, &j.Code, &j.Status, &j.WorkflowID,
		&j.PlannedStages, &currentStage,
		&j.Packaging.PiecesPerBox, &j.Packaging.BoxesPerPallet, &j.Packaging.NumberUp,
		&j.Output.ItemID, &j.Output.PlannedQty, &j.Output.Unit,
		&j.CreatedAt, &j.UpdatedAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job: %w", err)
	}
	if currentStage != nil {
		j.CurrentStage = *currentStage
	}
	if createdBy != nil {
		j.CreatedBy = *createdBy
	}

	bom, err := r.bomLines(id)
	if err != nil {
		return nil, err
	}
	j.BOM = bom
	return &j, nil
}

func (r *JobRepo) bomLines(jobID string) ([]entity.BOMLine, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT item_id, unit, qty_required, qty_consumed
		FROM job_bom_lines WHERE job_id = $1 ORDER BY item_id`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list bom lines: %w", err)
	}
	defer rows.Close()

	var bom []entity.BOMLine
	for rows.Next() {
		var l entity.BOMLine
		if err := rows.Scan(&l.ItemID, &l.Unit, &l.QtyRequired, &l.QtyConsumed); err != nil {
			return nil, fmt.Errorf("scan bom line: %w", err)
		}
		bom = append(bom, l)
	}
	return bom, rows.Err()
}

// List lista órdenes de la empresa, opcionalmente filtradas por estado.
func (r *JobRepo) List(companyID, status string, limit, offset int) ([]*entity.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE company_id = $1`
	args := []any{companyID}
	pos := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var list []*entity.Job
	for rows.Next() {
		var j entity.Job
		var currentStage, createdBy *string
		if err := rows.Scan(
			&j.ID, &j.CompanyID, &j.Code, &j.Status, &j.WorkflowID,
			&j.PlannedStages, &currentStage,
			&j.Packaging.PiecesPerBox, &j.Packaging.BoxesPerPallet, &j.Packaging.NumberUp,
			&j.Output.ItemID, &j.Output.PlannedQty, &j.Output.Unit,
			&j.CreatedAt, &j.UpdatedAt, &createdBy,
		); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		if currentStage != nil {
			j.CurrentStage = *currentStage
		}
		if createdBy != nil {
			j.CreatedBy = *createdBy
		}
		list = append(list, &j)
	}
	return list, rows.Err()
}

// UpdateStatus parchea el estado de la orden.
func (r *JobRepo) UpdateStatus(jobID, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE jobs SET status = $2, updated_at = now() WHERE id = $1`, jobID, status)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	return nil
}

// UpdateCurrentStage parchea el puntero de etapa y el estado en una sola escritura.
func (r *JobRepo) UpdateCurrentStage(jobID, stageID, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE jobs SET current_stage = $2, status = $3, updated_at = now() WHERE id = $1`,
		jobID, stageID, status)
	if err != nil {
		return fmt.Errorf("update current stage: %w", err)
	}
	return nil
}

// UpdateBOMConsumed fija el acumulado consumido de una línea de BOM.
func (r *JobRepo) UpdateBOMConsumed(jobID, itemID string, qtyConsumed decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE job_bom_lines SET qty_consumed = $3 WHERE job_id = $1 AND item_id = $2`,
		jobID, itemID, qtyConsumed)
	if err != nil {
		return fmt.Errorf("update bom consumed: %w", err)
	}
	return nil
}
