package dto

import "github.com/shopspring/decimal"

// BOMLineRequest línea de materiales al crear una orden.
type BOMLineRequest struct {
	ItemID      string          `json:"item_id"`
	Unit        string          `json:"unit"`
	QtyRequired decimal.Decimal `json:"qty_required"`
}

// CreateJobRequest body para POST /api/jobs.
type CreateJobRequest struct {
	Code           string           `json:"code"`
	WorkflowID     string           `json:"workflow_id"`
	OutputItemID   string           `json:"output_item_id"`
	PlannedQty     decimal.Decimal  `json:"planned_qty"`
	OutputUnit     string           `json:"output_unit"`
	BOM            []BOMLineRequest `json:"bom"`
	PiecesPerBox   int64            `json:"pieces_per_box,omitempty"`
	BoxesPerPallet int64            `json:"boxes_per_pallet,omitempty"`
	NumberUp       int64            `json:"number_up,omitempty"`
}

// BOMLineDTO línea de materiales con consumo acumulado.
type BOMLineDTO struct {
	ItemID      string          `json:"item_id"`
	Unit        string          `json:"unit"`
	QtyRequired decimal.Decimal `json:"qty_required"`
	QtyConsumed decimal.Decimal `json:"qty_consumed"`
}

// JobDTO orden de producción para respuestas.
type JobDTO struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Status        string          `json:"status"`
	WorkflowID    string          `json:"workflow_id"`
	PlannedStages []string        `json:"planned_stages"`
	CurrentStage  string          `json:"current_stage,omitempty"`
	OutputItemID  string          `json:"output_item_id"`
	PlannedQty    decimal.Decimal `json:"planned_qty"`
	OutputUnit    string          `json:"output_unit"`
	NumberUp      int64           `json:"number_up,omitempty"`
	BOM           []BOMLineDTO    `json:"bom,omitempty"`
}

// CreateWorkflowRequest body para POST /api/workflows.
type CreateWorkflowRequest struct {
	Name   string               `json:"name"`
	Stages []CreateStageRequest `json:"stages"`
}

// CreateStageRequest etapa de una plantilla de flujo.
type CreateStageRequest struct {
	Name       string `json:"name"`
	InputUnit  string `json:"input_unit"`
	OutputUnit string `json:"output_unit"`
	WIPLimit   int    `json:"wip_limit,omitempty"`
}
