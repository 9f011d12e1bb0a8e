package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// StockTransactionRepository define el puerto del libro de stock append-only.
// No existe update ni delete: las correcciones son transacciones nuevas.
type StockTransactionRepository interface {
	Create(tx *entity.StockTransaction) error
	// SumByItem deriva las existencias actuales sumando todas las transacciones
	// del ítem. Es la única fuente de verdad de on-hand.
	SumByItem(itemID string) (decimal.Decimal, error)
	ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error)
}
