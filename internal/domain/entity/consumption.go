package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BackflushNote es la marca con la que se etiquetan los consumos generados
// automáticamente por backflush, para distinguirlos de los manuales en reportes.
const BackflushNote = "backflush automático"

// Consumption registra un consumo de material contra una línea de BOM de la orden.
type Consumption struct {
	ID        string
	JobID     string
	ItemID    string
	Quantity  decimal.Decimal
	Unit      string
	Approved  bool   // true si un operario confirmó el consumo (override incluido)
	Note      string // BackflushNote para líneas automáticas; libre para manuales
	CreatedAt time.Time
	CreatedBy string
}

// IsBackflush indica si el consumo fue generado automáticamente.
func (c *Consumption) IsBackflush() bool {
	return c.Note == BackflushNote
}
