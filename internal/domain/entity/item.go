package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa una referencia de inventario (SKU).
// QtyOnHand es una caché de conveniencia materializada desde stock_transactions;
// la verdad siempre es la suma de las transacciones (ver LedgerUseCase.Recalculate).
type Item struct {
	ID           string
	CompanyID    string
	SKU          string
	Name         string
	Unit         string          // unidad de inventario (pcs, cajas, kg, ...)
	ReorderPoint decimal.Decimal // punto de reorden para el reporte de reposición
	QtyOnHand    decimal.Decimal // caché advisory, nunca fuente de verdad
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
