package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.ConsumptionRepository = (*ConsumptionRepo)(nil)

// ConsumptionRepo implementación de consumos de material sobre PostgreSQL (pool o tx).
type ConsumptionRepo struct {
	q Querier
}

// NewConsumptionRepository construye el adaptador.
func NewConsumptionRepository(q Querier) *ConsumptionRepo {
	return &ConsumptionRepo{q: q}
}

// Create persiste un consumo.
func (r *ConsumptionRepo) Create(c *entity.Consumption) error {
	query := `
		INSERT INTO consumptions (id, job_id, item_id, quantity, unit, approved, note, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	createdBy := (*string)(nil)
	if c.CreatedBy != "" {
		createdBy = &c.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.JobID, c.ItemID, c.Quantity, c.Unit, c.Approved, c.Note, c.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create consumption: %w", err)
	}
	return nil
}

// ListByJob lista los consumos de una orden.
func (r *ConsumptionRepo) ListByJob(jobID string) ([]*entity.Consumption, error) {
	rows, err := r.q.Query(context.Background(), `
		SELECT id, job_id, item_id, quantity, unit, approved, note, created_at, created_by
		FROM consumptions WHERE job_id = $1 ORDER BY created_at`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list consumptions: %w", err)
	}
	defer rows.Close()

	var list []*entity.Consumption
	for rows.Next() {
		var c entity.Consumption
		var createdBy *string
		if err := rows.Scan(&c.ID, &c.JobID, &c.ItemID, &c.Quantity, &c.Unit,
			&c.Approved, &c.Note, &c.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan consumption: %w", err)
		}
		if createdBy != nil {
			c.CreatedBy = *createdBy
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// SumByJobItem suma el consumo registrado de un ítem en la orden.
func (r *ConsumptionRepo) SumByJobItem(jobID, itemID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(), `
		SELECT COALESCE(SUM(quantity), 0) FROM consumptions WHERE job_id = $1 AND item_id = $2`,
		jobID, itemID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum consumptions: %w", err)
	}
	return sum, nil
}
