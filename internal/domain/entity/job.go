package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de producción.
const (
	JobStatusDraft      = "draft"
	JobStatusReleased   = "released"
	JobStatusInProgress = "in_progress"
	JobStatusBlocked    = "blocked"
	JobStatusDone       = "done"
	JobStatusCancelled  = "cancelled"
)

// BOMLine es una línea de la lista de materiales de una orden.
// QtyConsumed se actualiza con cada consumo (manual o backflush).
type BOMLine struct {
	ItemID      string
	Unit        string // unidad declarada de la línea, sin conversión implícita
	QtyRequired decimal.Decimal
	QtyConsumed decimal.Decimal
}

// Packaging parámetros de empaque de la orden.
// NumberUp relaciona la unidad base con la unidad agrupada (ej. hojas por caja).
type Packaging struct {
	PiecesPerBox   int64
	BoxesPerPallet int64
	NumberUp       int64
}

// OutputSpec especifica el producto terminado de la orden.
type OutputSpec struct {
	ItemID     string
	PlannedQty decimal.Decimal
	Unit       string
}

// Job es una orden de producción: avanza por sus etapas planificadas en orden
// y al cerrar (status done) queda inmutable a efectos de etapas y libro de stock.
type Job struct {
	ID            string
	CompanyID     string
	Code          string // código legible por humanos (ej. OP-2026-0042)
	Status        string
	WorkflowID    string
	PlannedStages []string // IDs de etapa en orden de ejecución
	CurrentStage  string   // vacío antes de liberar la orden
	BOM           []BOMLine
	Packaging     Packaging
	Output        OutputSpec
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CreatedBy     string
}

// StageIndex devuelve la posición de una etapa dentro de PlannedStages, o -1.
func (j *Job) StageIndex(stageID string) int {
	for i, s := range j.PlannedStages {
		if s == stageID {
			return i
		}
	}
	return -1
}

// TerminalStage devuelve el ID de la última etapa planificada ("" si no hay etapas).
func (j *Job) TerminalStage() string {
	if len(j.PlannedStages) == 0 {
		return ""
	}
	return j.PlannedStages[len(j.PlannedStages)-1]
}

// IsTerminal indica si la etapa dada es la última planificada.
func (j *Job) IsTerminal(stageID string) bool {
	return stageID != "" && stageID == j.TerminalStage()
}

// BOMLineFor devuelve la línea de BOM del ítem dado, o nil.
func (j *Job) BOMLineFor(itemID string) *BOMLine {
	for i := range j.BOM {
		if j.BOM[i].ItemID == itemID {
			return &j.BOM[i]
		}
	}
	return nil
}
