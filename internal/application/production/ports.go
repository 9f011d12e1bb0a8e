package production

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// ProductionTxRunner ejecuta una función dentro de una transacción de BD con
// los repositorios que necesitan los caminos de escritura de producción
// (publicar salida, backflush, traslado de etapa). Commit si fn retorna nil.
type ProductionTxRunner interface {
	RunProduction(ctx context.Context, fn func(
		stockTxRepo repository.StockTransactionRepository,
		itemRepo repository.ItemRepository,
		runRepo repository.ProductionRunRepository,
		consRepo repository.ConsumptionRepository,
		jobRepo repository.JobRepository,
	) error) error
}
