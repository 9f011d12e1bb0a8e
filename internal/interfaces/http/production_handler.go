package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/production"
)

// ProductionHandler expone el motor de reconciliación de planta: avance por
// etapa, traslados, registro de runs, backflush y publicación a inventario.
type ProductionHandler struct {
	progressUC   *production.ProgressUseCase
	transitionUC *production.TransitionUseCase
	runUC        *production.RunUseCase
	backflushUC  *production.BackflushUseCase
	postUC       *production.PostOutputUseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(
	progressUC *production.ProgressUseCase,
	transitionUC *production.TransitionUseCase,
	runUC *production.RunUseCase,
	backflushUC *production.BackflushUseCase,
	postUC *production.PostOutputUseCase,
) *ProductionHandler {
	return &ProductionHandler{
		progressUC:   progressUC,
		transitionUC: transitionUC,
		runUC:        runUC,
		backflushUC:  backflushUC,
		postUC:       postUC,
	}
}

// Progress godoc
// @Summary      Avance de una etapa con banda de tolerancia
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StageProgressDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/stages/{stageID}/progress [get]
func (h *ProductionHandler) Progress(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	p, err := h.progressUC.Progress(c.Context(), companyID, c.Params("id"), c.Params("stageID"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.StageProgressDTO{
		StageID:    p.StageID,
		Produced:   p.Produced,
		Planned:    p.Planned,
		Percentage: p.Percentage,
		Unit:       p.Unit,
		Status:     p.Status,
		Lower:      p.Lower,
		Upper:      p.Upper,
	})
}

// MoveToStage godoc
// @Summary      Avanzar la orden a la etapa siguiente (traslado por lote)
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/move [post]
func (h *ProductionHandler) MoveToStage(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.MoveStageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	err := h.transitionUC.MoveToStage(c.Context(), companyID, c.Params("id"), in.TargetStageID, production.MoveOptions{
		Override: in.Override,
		UserID:   userID,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "orden avanzada", "stage_id": in.TargetStageID})
}

// RecordRun godoc
// @Summary      Registrar un run de producción en la etapa actual
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/runs [post]
func (h *ProductionHandler) RecordRun(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RecordRunRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	run, err := h.runUC.RecordRun(c.Context(), production.RecordRunInput{
		CompanyID: companyID,
		UserID:    userID,
		JobID:     c.Params("id"),
		StageID:   in.StageID,
		QtyGood:   in.QtyGood,
		QtyScrap:  in.QtyScrap,
		Unit:      in.Unit,
		LotID:     in.LotID,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": run.ID, "lot_id": run.LotID})
}

// ListRuns godoc
// @Summary      Listar runs de una orden (filtro opcional por etapa)
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        stage_id  query  string  false  "etapa"
// @Router       /api/jobs/{id}/runs [get]
func (h *ProductionHandler) ListRuns(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	runs, err := h.runUC.ListRuns(c.Context(), companyID, c.Params("id"), c.Query("stage_id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(runs), "runs": runs})
}

// BackflushPreview godoc
// @Summary      Previsualizar consumo proporcional de BOM sin escribir nada
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      200  {array}  dto.BackflushLineDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/backflush-preview [post]
func (h *ProductionHandler) BackflushPreview(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.BackflushPreviewRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines, err := h.backflushUC.Preview(c.Context(), companyID, c.Params("id"), in.Qty)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"lines": lines})
}

// PostOutput godoc
// @Summary      Publicar salida de la etapa terminal al inventario
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.PostOutputResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/post-output [post]
func (h *ProductionHandler) PostOutput(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.PostOutputRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.postUC.PostOutput(c.Context(), companyID, c.Params("id"), in.StageID, in.Qty, production.PostOptions{
		AutoConsume:   in.AutoConsume,
		CompleteJob:   in.CompleteJob,
		AllowOverride: in.AllowOverride,
		RequestID:     in.RequestID,
		UserID:        userID,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.PostOutputResponse{
		Posted:    res.Posted,
		Unit:      res.Unit,
		Completed: res.Completed,
		Warnings:  res.Warnings,
		Backflush: res.Backflush,
	})
}

// CompleteJob godoc
// @Summary      Cerrar la orden si la banda de tolerancia lo permite
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/complete [post]
func (h *ProductionHandler) CompleteJob(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.postUC.CompleteJob(c.Context(), companyID, c.Params("id"), userID); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "orden cerrada"})
}
