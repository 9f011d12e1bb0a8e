package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.ProductionRunRepository = (*ProductionRunRepo)(nil)

// ProductionRunRepo implementación de runs de producción sobre PostgreSQL
// (pool o tx). source_run_ids es un text[]: vacío = producción original.
type ProductionRunRepo struct {
	q Querier
}

// NewProductionRunRepository construye el adaptador.
func NewProductionRunRepository(q Querier) *ProductionRunRepo {
	return &ProductionRunRepo{q: q}
}

const runColumns = `id, job_id, stage_id, qty_good, qty_scrap, unit, lot_id, source_run_ids, created_at, created_by`

// Create persiste un run.
func (r *ProductionRunRepo) Create(run *entity.ProductionRun) error {
	query := `
		INSERT INTO production_runs (` + runColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	lotID := (*string)(nil)
	if run.LotID != "" {
		lotID = &run.LotID
	}
	createdBy := (*string)(nil)
	if run.CreatedBy != "" {
		createdBy = &run.CreatedBy
	}
	sourceIDs := run.SourceRunIDs
	if sourceIDs == nil {
		sourceIDs = []string{}
	}
	_, err := r.q.Exec(context.Background(), query,
		run.ID, run.JobID, run.StageID, run.QtyGood, run.QtyScrap, run.Unit,
		lotID, sourceIDs, run.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create production run: %w", err)
	}
	return nil
}

func (r *ProductionRunRepo) list(query string, args ...any) ([]*entity.ProductionRun, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list production runs: %w", err)
	}
	defer rows.Close()

	var list []*entity.ProductionRun
	for rows.Next() {
		var run entity.ProductionRun
		var lotID, createdBy *string
		if err := rows.Scan(&run.ID, &run.JobID, &run.StageID, &run.QtyGood, &run.QtyScrap,
			&run.Unit, &lotID, &run.SourceRunIDs, &run.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan production run: %w", err)
		}
		if lotID != nil {
			run.LotID = *lotID
		}
		if createdBy != nil {
			run.CreatedBy = *createdBy
		}
		list = append(list, &run)
	}
	return list, rows.Err()
}

// ListByJobStage lista los runs de una etapa de la orden.
func (r *ProductionRunRepo) ListByJobStage(jobID, stageID string) ([]*entity.ProductionRun, error) {
	query := `
		SELECT ` + runColumns + `
		FROM production_runs
		WHERE job_id = $1 AND stage_id = $2
		ORDER BY created_at`
	return r.list(query, jobID, stageID)
}

// ListUntransferred devuelve los runs originales de la etapa que ningún otro
// run referencia como fuente: los candidatos al traslado automático.
func (r *ProductionRunRepo) ListUntransferred(jobID, stageID string) ([]*entity.ProductionRun, error) {
	query := `
		SELECT ` + runColumns + `
		FROM production_runs pr
		WHERE pr.job_id = $1 AND pr.stage_id = $2
		  AND cardinality(pr.source_run_ids) = 0
		  AND NOT EXISTS (
			SELECT 1 FROM production_runs t
			WHERE t.job_id = pr.job_id AND pr.id = ANY(t.source_run_ids)
		  )
		ORDER BY pr.created_at`
	return r.list(query, jobID, stageID)
}
