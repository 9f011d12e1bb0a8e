package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// StockTransactionRepo implementación del libro append-only sobre PostgreSQL.
// Solo INSERT y SELECT: no existe camino de UPDATE ni DELETE.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

// Create persiste una transacción inmutable. Un request_id repetido viola el
// índice único y se traduce a domain.ErrDuplicate (idempotencia del caller).
func (r *StockTransactionRepo) Create(tx *entity.StockTransaction) error {
	query := `
		INSERT INTO stock_transactions (id, company_id, item_id, type, quantity, reference, request_id, notes, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	requestID := (*string)(nil)
	if tx.RequestID != "" {
		requestID = &tx.RequestID
	}
	createdBy := (*string)(nil)
	if tx.CreatedBy != "" {
		createdBy = &tx.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.CompanyID, tx.ItemID, tx.Type, tx.Quantity,
		tx.Reference, requestID, tx.Notes, tx.Date, tx.CreatedAt, createdBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create stock transaction: %w", err)
	}
	return nil
}

// SumByItem deriva las existencias sumando todas las transacciones del ítem.
func (r *StockTransactionRepo) SumByItem(itemID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM stock_transactions WHERE item_id = $1`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, itemID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum by item: %w", err)
	}
	return sum, nil
}

// ListByItem lista transacciones de un ítem en un rango de fechas.
func (r *StockTransactionRepo) ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error) {
	query := `
		SELECT id, company_id, item_id, type, quantity, reference, request_id, notes, date, created_at, created_by
		FROM stock_transactions WHERE item_id = $1`
	args := []any{itemID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list by item: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockTransaction
	for rows.Next() {
		var t entity.StockTransaction
		var reference, requestID, notes, createdBy *string
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.ItemID, &t.Type, &t.Quantity,
			&reference, &requestID, &notes, &t.Date, &t.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		if reference != nil {
			t.Reference = *reference
		}
		if requestID != nil {
			t.RequestID = *requestID
		}
		if notes != nil {
			t.Notes = *notes
		}
		if createdBy != nil {
			t.CreatedBy = *createdBy
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
