package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP del libro de stock (protegido).
type InventoryHandler struct {
	ledger  *inventory.LedgerUseCase
	reorder *inventory.ReorderUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase, reorder *inventory.ReorderUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, reorder: reorder}
}

// RecordTransaction godoc
// @Summary      Registrar transacción de stock (append-only)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordTransactionRequest  true  "item_id, type, quantity, reference, request_id"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions [post]
func (h *InventoryHandler) RecordTransaction(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RecordTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tx, err := h.ledger.RecordTransaction(c.Context(), inventory.RecordTransactionInput{
		CompanyID: companyID,
		UserID:    userID,
		ItemID:    in.ItemID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Reference: in.Reference,
		RequestID: in.RequestID,
		Notes:     in.Notes,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": tx.ID, "message": "transacción registrada"})
}

// OnHand godoc
// @Summary      Existencias derivadas de un ítem (suma del libro)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OnHandResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/on-hand [get]
func (h *InventoryHandler) OnHand(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	itemID := c.Params("id")
	onHand, err := h.ledger.OnHand(c.Context(), companyID, itemID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.OnHandResponse{ItemID: itemID, OnHand: onHand})
}

// Recalculate godoc
// @Summary      Re-derivar existencias y reconciliar la caché advisory
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.RecalculateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/recalculate [post]
func (h *InventoryHandler) Recalculate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	itemID := c.Params("id")
	res, err := h.ledger.Recalculate(c.Context(), companyID, itemID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"item_id": itemID,
		"on_hand": res.OnHand,
		"cached":  res.Cached,
		"drift":   res.Drift,
	})
}

// ListTransactions godoc
// @Summary      Historial de transacciones de un ítem
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.StockTransactionDTO
// @Router       /api/inventory/items/{id}/transactions [get]
func (h *InventoryHandler) ListTransactions(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	itemID := c.Params("id")
	list, err := h.ledger.ListTransactions(c.Context(), companyID, itemID, nil, nil, page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.StockTransactionDTO, 0, len(list))
	for _, t := range list {
		out = append(out, dto.StockTransactionDTO{
			ID:        t.ID,
			ItemID:    t.ItemID,
			Type:      t.Type,
			Quantity:  t.Quantity,
			Reference: t.Reference,
			Date:      t.Date,
			CreatedBy: t.CreatedBy,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "transactions": out})
}

// ReorderList godoc
// @Summary      Lista de reposición (ítems bajo punto de reorden)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReorderSuggestionDTO
// @Router       /api/inventory/reorder-list [get]
func (h *InventoryHandler) ReorderList(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	list, err := h.reorder.GenerateReorderList(c.Context(), companyID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "reorders": list})
}
