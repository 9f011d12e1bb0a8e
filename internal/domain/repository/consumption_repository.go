package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ConsumptionRepository define el puerto de persistencia de consumos de material.
type ConsumptionRepository interface {
	Create(c *entity.Consumption) error
	ListByJob(jobID string) ([]*entity.Consumption, error)
	SumByJobItem(jobID, itemID string) (decimal.Decimal, error)
}
