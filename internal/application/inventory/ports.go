package inventory

import (
	"context"

	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el append al libro y la
// actualización de la caché advisory sean atómicos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockTxRepo repository.StockTransactionRepository,
		itemRepo repository.ItemRepository,
	) error) error
}
