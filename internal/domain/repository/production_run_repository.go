package repository

import "github.com/jhoicas/Produccion-api/internal/domain/entity"

// ProductionRunRepository define el puerto de persistencia de runs de producción.
type ProductionRunRepository interface {
	Create(run *entity.ProductionRun) error
	ListByJobStage(jobID, stageID string) ([]*entity.ProductionRun, error)
	// ListUntransferred devuelve los runs originales de la etapa que aún no han
	// sido usados como fuente de un traslado (candidatos a auto-transferencia).
	ListUntransferred(jobID, stageID string) ([]*entity.ProductionRun, error)
}
