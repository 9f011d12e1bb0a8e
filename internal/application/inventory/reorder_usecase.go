package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// ReorderUseCase genera la lista de reposición: ítems en o bajo su punto de
// reorden con la cantidad sugerida de pedido. La caché advisory solo sirve de
// pre-filtro; cada candidato se verifica contra la suma real del libro.
type ReorderUseCase struct {
	itemRepo    repository.ItemRepository
	stockTxRepo repository.StockTransactionRepository
}

// NewReorderUseCase construye el caso de uso de reposición.
func NewReorderUseCase(
	itemRepo repository.ItemRepository,
	stockTxRepo repository.StockTransactionRepository,
) *ReorderUseCase {
	return &ReorderUseCase{itemRepo: itemRepo, stockTxRepo: stockTxRepo}
}

// GenerateReorderList devuelve los ítems bajo punto de reorden con cantidad
// sugerida (stock ideal = punto de reorden * 1.5), ordenados por faltante.
func (uc *ReorderUseCase) GenerateReorderList(ctx context.Context, companyID string) ([]dto.ReorderSuggestionDTO, error) {
	candidates, err := uc.itemRepo.ListBelowReorder(companyID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []dto.ReorderSuggestionDTO{}, nil
	}

	suggestions := make([]dto.ReorderSuggestionDTO, 0, len(candidates))
	for _, item := range candidates {
		// Verificar con la suma derivada: la caché pudo quedar desfasada.
		onHand, err := uc.stockTxRepo.SumByItem(item.ID)
		if err != nil {
			return nil, err
		}
		if onHand.GreaterThan(item.ReorderPoint) {
			continue // falso positivo de la caché
		}
		idealStock := item.ReorderPoint.Mul(decimal.NewFromFloat(1.5))
		suggestedQty := idealStock.Sub(onHand)
		if suggestedQty.LessThanOrEqual(decimal.Zero) {
			suggestedQty = decimal.Zero
		}
		suggestions = append(suggestions, dto.ReorderSuggestionDTO{
			ItemID:            item.ID,
			SKU:               item.SKU,
			Name:              item.Name,
			OnHand:            onHand,
			ReorderPoint:      item.ReorderPoint,
			IdealStock:        idealStock,
			SuggestedOrderQty: suggestedQty,
		})
	}

	// Mayor faltante primero.
	sort.Slice(suggestions, func(i, j int) bool {
		return suggestions[i].SuggestedOrderQty.GreaterThan(suggestions[j].SuggestedOrderQty)
	})
	return suggestions, nil
}
