package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionRun registra producción en una etapa de una orden.
// Las cantidades se almacenan en la unidad de salida de la etapa.
// Si SourceRunIDs no está vacío, el run fue creado por un traslado automático
// entre etapas: no cuenta como producción original y nunca puede volver a
// usarse como fuente de otro traslado.
type ProductionRun struct {
	ID           string
	JobID        string
	StageID      string
	QtyGood      decimal.Decimal
	QtyScrap     decimal.Decimal
	Unit         string
	LotID        string   // lote asignado por el operario; puede generarse en traslados
	SourceRunIDs []string // vacío = producción original
	CreatedAt    time.Time
	CreatedBy    string
}

// IsOriginal indica si el run es producción original (no un traslado automático).
func (r *ProductionRun) IsOriginal() bool {
	return len(r.SourceRunIDs) == 0
}
