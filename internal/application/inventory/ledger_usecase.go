package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// LedgerUseCase implementa el libro de stock append-only: registra
// transacciones inmutables y deriva existencias sumando el historial.
// La columna items.qty_on_hand es solo caché advisory: se refresca tras cada
// escritura y cualquier discrepancia se resuelve a favor de la suma recomputada.
type LedgerUseCase struct {
	txRunner    TxRunner
	itemRepo    repository.ItemRepository
	stockTxRepo repository.StockTransactionRepository
}

// NewLedgerUseCase construye el caso de uso.
// itemRepo y stockTxRepo se usan en el camino de lectura (pool);
// las escrituras van por txRunner con repos atados a la transacción.
func NewLedgerUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	stockTxRepo repository.StockTransactionRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:    txRunner,
		itemRepo:    itemRepo,
		stockTxRepo: stockTxRepo,
	}
}

// RecordTransactionInput entrada para registrar una transacción de stock.
// Quantity se recibe en valor absoluto; el signo lo determina el tipo
// (SHIP y ADJUST_OUT se registran en negativo). TRANSFER conserva el signo dado.
type RecordTransactionInput struct {
	CompanyID string
	UserID    string
	ItemID    string
	Type      string
	Quantity  decimal.Decimal
	Reference string
	RequestID string
	Notes     string
}

// RecordTransaction valida y registra una transacción inmutable, y refresca la
// caché advisory dentro de la misma transacción de BD. Un RequestID repetido
// devuelve ErrDuplicate sin escribir nada (idempotencia del caller).
func (uc *LedgerUseCase) RecordTransaction(ctx context.Context, input RecordTransactionInput) (*entity.StockTransaction, error) {
	if !entity.ValidTxType(input.Type) {
		return nil, domain.NewValidation("tx_type", "tipo de transacción desconocido: %q", input.Type)
	}
	if input.Quantity.IsZero() {
		return nil, domain.NewValidation("quantity", "la cantidad no puede ser cero")
	}

	qty := input.Quantity
	switch input.Type {
	case entity.TxTypeRECEIVE, entity.TxTypeADJUSTIn:
		if qty.LessThanOrEqual(decimal.Zero) {
			return nil, domain.NewValidation("quantity", "cantidad debe ser positiva para %s", input.Type)
		}
	case entity.TxTypeSHIP, entity.TxTypeADJUSTOut:
		if qty.LessThanOrEqual(decimal.Zero) {
			return nil, domain.NewValidation("quantity", "cantidad debe ser positiva para %s", input.Type)
		}
		qty = qty.Neg()
	}

	item, err := uc.itemRepo.GetByID(input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != input.CompanyID {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	tx := &entity.StockTransaction{
		ID:        uuid.New().String(),
		CompanyID: input.CompanyID,
		ItemID:    input.ItemID,
		Type:      input.Type,
		Quantity:  qty,
		Reference: input.Reference,
		RequestID: input.RequestID,
		Notes:     input.Notes,
		Date:      now,
		CreatedAt: now,
		CreatedBy: input.UserID,
	}

	err = uc.txRunner.Run(ctx, func(
		stockTxRepo repository.StockTransactionRepository,
		itemRepo repository.ItemRepository,
	) error {
		if err := stockTxRepo.Create(tx); err != nil {
			return err
		}
		// La caché se refresca desde la suma, nunca con aritmética incremental.
		sum, err := stockTxRepo.SumByItem(input.ItemID)
		if err != nil {
			return err
		}
		return itemRepo.UpdateQtyOnHand(input.ItemID, sum)
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// OnHand devuelve las existencias derivadas del ítem: la suma de todas sus
// transacciones. Es la única fuente de verdad.
func (uc *LedgerUseCase) OnHand(ctx context.Context, companyID, itemID string) (decimal.Decimal, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return decimal.Zero, err
	}
	if item == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return decimal.Zero, domain.ErrForbidden
	}
	return uc.stockTxRepo.SumByItem(itemID)
}

// RecalculateResult resultado de una re-derivación forzada.
type RecalculateResult struct {
	OnHand decimal.Decimal
	Cached decimal.Decimal
	Drift  bool
}

// Recalculate fuerza la re-derivación de existencias y reconcilia la caché.
// Si la caché difiere de la suma se registra la anomalía y se corrige la caché;
// la suma siempre gana.
func (uc *LedgerUseCase) Recalculate(ctx context.Context, companyID, itemID string) (*RecalculateResult, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	sum, err := uc.stockTxRepo.SumByItem(itemID)
	if err != nil {
		return nil, err
	}
	res := &RecalculateResult{OnHand: sum, Cached: item.QtyOnHand}
	if !item.QtyOnHand.Equal(sum) {
		res.Drift = true
		log.Warn().
			Str("item_id", itemID).
			Str("cached", item.QtyOnHand.String()).
			Str("recomputed", sum.String()).
			Msg("deriva de reconciliación: la caché difiere de la suma del libro")
		if err := uc.itemRepo.UpdateQtyOnHand(itemID, sum); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// ListTransactions lista el historial de un ítem (más reciente primero).
func (uc *LedgerUseCase) ListTransactions(ctx context.Context, companyID, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return uc.stockTxRepo.ListByItem(itemID, from, to, limit, offset)
}
