package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
)

// JobHandler maneja órdenes de producción y plantillas de flujo (protegido).
type JobHandler struct {
	jobUC *usecase.JobUseCase
	wfUC  *usecase.WorkflowUseCase
}

// NewJobHandler construye el handler.
func NewJobHandler(jobUC *usecase.JobUseCase, wfUC *usecase.WorkflowUseCase) *JobHandler {
	return &JobHandler{jobUC: jobUC, wfUC: wfUC}
}

// CreateWorkflow godoc
// @Summary      Crear plantilla de flujo con etapas ordenadas
// @Tags         workflows
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/workflows [post]
func (h *JobHandler) CreateWorkflow(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateWorkflowRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	wf, err := h.wfUC.Create(companyID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": wf.ID, "name": wf.Name})
}

// GetWorkflow godoc
// @Summary      Obtener plantilla de flujo por ID
// @Tags         workflows
// @Security     Bearer
// @Produce      json
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/workflows/{id} [get]
func (h *JobHandler) GetWorkflow(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	wf, err := h.wfUC.GetByID(companyID, c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(wf)
}

// Create godoc
// @Summary      Crear orden de producción en borrador
// @Tags         jobs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/jobs [post]
func (h *JobHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateJobRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	job, err := h.jobUC.Create(companyID, userID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": job.ID, "code": job.Code, "status": job.Status})
}

// Release godoc
// @Summary      Liberar orden (borrador → liberada, fija la primera etapa)
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id}/release [post]
func (h *JobHandler) Release(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.jobUC.Release(companyID, c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "orden liberada"})
}

// GetByID godoc
// @Summary      Obtener orden por ID
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/jobs/{id} [get]
func (h *JobHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	job, err := h.jobUC.GetByID(companyID, c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(job)
}

// List godoc
// @Summary      Listar órdenes (filtro opcional por estado)
// @Tags         jobs
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "draft, released, in_progress, done, cancelled"
// @Router       /api/jobs [get]
func (h *JobHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	jobs, err := h.jobUC.List(companyID, c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(jobs), "jobs": jobs})
}
