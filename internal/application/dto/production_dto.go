package dto

import "github.com/shopspring/decimal"

// StageProgressDTO avance de una etapa con evaluación de banda de tolerancia.
type StageProgressDTO struct {
	StageID    string          `json:"stage_id"`
	Produced   decimal.Decimal `json:"produced"`
	Planned    decimal.Decimal `json:"planned"`
	Percentage decimal.Decimal `json:"percentage"`
	Unit       string          `json:"unit"`
	Status     string          `json:"status"` // incomplete, complete, over_limit, no_plan
	Lower      decimal.Decimal `json:"lower"`
	Upper      decimal.Decimal `json:"upper"`
}

// MoveStageRequest body para POST /api/jobs/:id/move.
type MoveStageRequest struct {
	TargetStageID string `json:"target_stage_id"`
	Override      bool   `json:"override,omitempty"` // fuerza el avance con etapa incompleta
}

// RecordRunRequest body para POST /api/jobs/:id/runs.
type RecordRunRequest struct {
	StageID  string          `json:"stage_id"`
	QtyGood  decimal.Decimal `json:"qty_good"`
	QtyScrap decimal.Decimal `json:"qty_scrap,omitempty"`
	Unit     string          `json:"unit,omitempty"` // vacío = unidad de salida de la etapa
	LotID    string          `json:"lot_id,omitempty"`
}

// PostOutputRequest body para POST /api/jobs/:id/post-output.
type PostOutputRequest struct {
	StageID       string          `json:"stage_id"`
	Qty           decimal.Decimal `json:"qty"`
	AutoConsume   bool            `json:"auto_consume,omitempty"`
	CompleteJob   bool            `json:"complete_job,omitempty"`
	AllowOverride bool            `json:"allow_override,omitempty"` // acepta sobreconsumo de BOM
	RequestID     string          `json:"request_id,omitempty"`     // token de idempotencia
}

// BackflushLineDTO consumo calculado por línea de BOM (preview o ejecución).
type BackflushLineDTO struct {
	ItemID       string          `json:"item_id"`
	Unit         string          `json:"unit"`
	Draw         decimal.Decimal `json:"draw"`
	OnHand       decimal.Decimal `json:"on_hand"`
	Insufficient bool            `json:"insufficient"`
}

// BackflushPreviewRequest body para POST /api/jobs/:id/backflush-preview.
// La cantidad va en la unidad de salida de la orden.
type BackflushPreviewRequest struct {
	Qty decimal.Decimal `json:"qty"`
}

// PostOutputResponse resultado de una publicación de salida.
type PostOutputResponse struct {
	Posted    decimal.Decimal    `json:"posted"` // cantidad en unidad de inventario
	Unit      string             `json:"unit"`
	Completed bool               `json:"completed"`
	Warnings  []string           `json:"warnings,omitempty"`
	Backflush []BackflushLineDTO `json:"backflush,omitempty"`
}
