package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// JobRepository define el puerto de persistencia de órdenes de producción.
// Las mutaciones son parches parciales (patch), nunca reemplazo del documento.
type JobRepository interface {
	Create(job *entity.Job) error
	GetByID(id string) (*entity.Job, error)
	List(companyID, status string, limit, offset int) ([]*entity.Job, error)
	UpdateStatus(jobID, status string) error
	UpdateCurrentStage(jobID, stageID, status string) error
	// UpdateBOMConsumed fija el acumulado consumido de una línea de BOM.
	UpdateBOMConsumed(jobID, itemID string, qtyConsumed decimal.Decimal) error
}
