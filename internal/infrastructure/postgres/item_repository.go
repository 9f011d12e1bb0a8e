package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación del maestro de ítems sobre PostgreSQL (pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador.
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, company_id, sku, name, unit, reorder_point, qty_on_hand, created_at, updated_at`

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(&it.ID, &it.CompanyID, &it.SKU, &it.Name, &it.Unit,
		&it.ReorderPoint, &it.QtyOnHand, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return &it, nil
}

// Create persiste un ítem nuevo.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (id, company_id, sku, name, unit, reorder_point, qty_on_hand, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.CompanyID, item.SKU, item.Name, item.Unit,
		item.ReorderPoint, item.QtyOnHand, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID (nil si no existe).
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return scanItem(r.q.QueryRow(context.Background(), query, id))
}

// GetBySKU obtiene un ítem por SKU dentro de la empresa.
func (r *ItemRepo) GetBySKU(companyID, sku string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE company_id = $1 AND sku = $2`
	return scanItem(r.q.QueryRow(context.Background(), query, companyID, sku))
}

// List lista ítems de la empresa.
func (r *ItemRepo) List(companyID string, limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE company_id = $1 ORDER BY sku LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var list []*entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(&it.ID, &it.CompanyID, &it.SKU, &it.Name, &it.Unit,
			&it.ReorderPoint, &it.QtyOnHand, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// UpdateQtyOnHand refresca la caché advisory de existencias.
func (r *ItemRepo) UpdateQtyOnHand(itemID string, qty decimal.Decimal) error {
	query := `UPDATE items SET qty_on_hand = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, itemID, qty)
	if err != nil {
		return fmt.Errorf("update qty on hand: %w", err)
	}
	return nil
}

// ListBelowReorder devuelve ítems con la caché en o bajo el punto de reorden.
// Pre-filtro barato: el caso de uso verifica cada candidato contra la suma real.
func (r *ItemRepo) ListBelowReorder(companyID string) ([]*entity.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE company_id = $1 AND reorder_point > 0 AND qty_on_hand <= reorder_point
		ORDER BY qty_on_hand - reorder_point`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list below reorder: %w", err)
	}
	defer rows.Close()

	var list []*entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(&it.ID, &it.CompanyID, &it.SKU, &it.Name, &it.Unit,
			&it.ReorderPoint, &it.QtyOnHand, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
