package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordTransactionRequest body para POST /api/inventory/transactions.
// Quantity va en valor absoluto; el signo en el libro lo determina el tipo
// (SHIP y ADJUST_OUT se registran como negativos).
type RecordTransactionRequest struct {
	ItemID    string          `json:"item_id"`
	Type      string          `json:"type"` // RECEIVE, SHIP, TRANSFER, ADJUST_IN, ADJUST_OUT
	Quantity  decimal.Decimal `json:"quantity"`
	Reference string          `json:"reference,omitempty"`
	RequestID string          `json:"request_id,omitempty"` // token de idempotencia
	Notes     string          `json:"notes,omitempty"`
}

// OnHandResponse existencias derivadas de un ítem.
type OnHandResponse struct {
	ItemID string          `json:"item_id"`
	OnHand decimal.Decimal `json:"on_hand"`
	Unit   string          `json:"unit"`
}

// RecalculateResponse resultado de una re-derivación forzada.
type RecalculateResponse struct {
	ItemID     string          `json:"item_id"`
	OnHand     decimal.Decimal `json:"on_hand"`
	Cached     decimal.Decimal `json:"cached"`
	Drift      bool            `json:"drift"` // true si la caché difería de la suma
	Reconciled time.Time       `json:"reconciled_at"`
}

// StockTransactionDTO transacción del libro para listados.
type StockTransactionDTO struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reference string          `json:"reference,omitempty"`
	Date      time.Time       `json:"date"`
	CreatedBy string          `json:"created_by,omitempty"`
}

// ReorderSuggestionDTO ítem bajo punto de reorden con cantidad sugerida de pedido.
type ReorderSuggestionDTO struct {
	ItemID            string          `json:"item_id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	OnHand            decimal.Decimal `json:"on_hand"` // suma derivada, no la caché
	ReorderPoint      decimal.Decimal `json:"reorder_point"`
	IdealStock        decimal.Decimal `json:"ideal_stock"`         // ReorderPoint * 1.5
	SuggestedOrderQty decimal.Decimal `json:"suggested_order_qty"` // IdealStock - OnHand
}

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
}
