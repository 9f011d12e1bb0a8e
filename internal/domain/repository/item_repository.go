package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia del maestro de ítems.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetBySKU(companyID, sku string) (*entity.Item, error)
	List(companyID string, limit, offset int) ([]*entity.Item, error)
	// UpdateQtyOnHand actualiza la caché advisory de existencias. Best-effort:
	// nunca se lee como verdad frente a la suma de transacciones.
	UpdateQtyOnHand(itemID string, qty decimal.Decimal) error
	// ListBelowReorder devuelve ítems cuya caché está en o bajo el punto de
	// reorden (candidatos a verificación contra la suma real).
	ListBelowReorder(companyID string) ([]*entity.Item, error)
}
