package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD del maestro de ítems. Las existencias se
// manejan exclusivamente vía el libro de stock, nunca editando el ítem.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create crea un ítem. QtyOnHand inicia en 0 (la caché se deriva del libro).
func (uc *ItemUseCase) Create(companyID string, in dto.CreateItemRequest) (*entity.Item, error) {
	if in.SKU == "" || in.Name == "" || in.Unit == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetBySKU(companyID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	item := &entity.Item{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		SKU:          in.SKU,
		Name:         in.Name,
		Unit:         in.Unit,
		ReorderPoint: in.ReorderPoint,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetByID obtiene un ítem de la empresa.
func (uc *ItemUseCase) GetByID(companyID, id string) (*entity.Item, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}

// List lista los ítems de la empresa.
func (uc *ItemUseCase) List(companyID string, limit, offset int) ([]*entity.Item, error) {
	return uc.repo.List(companyID, limit, offset)
}
