package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/inventory"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC       *usecase.ItemUseCase
	WorkflowUC   *usecase.WorkflowUseCase
	JobUC        *usecase.JobUseCase
	LedgerUC     *inventory.LedgerUseCase
	ReorderUC    *inventory.ReorderUseCase
	ProgressUC   *production.ProgressUseCase
	TransitionUC *production.TransitionUseCase
	RunUC        *production.RunUseCase
	BackflushUC  *production.BackflushUseCase
	PostOutputUC *production.PostOutputUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Todo el dominio de planta requiere identidad (Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Items (protegido)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)

	// Libro de stock (protegido). Los asientos manuales y la re-derivación
	// forzada quedan reservados a supervisión.
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC, deps.ReorderUC)
	invGroup.Post("/transactions", RequireRole("admin", "supervisor"), inventoryHandler.RecordTransaction)
	invGroup.Get("/items/:id/on-hand", inventoryHandler.OnHand)
	invGroup.Post("/items/:id/recalculate", RequireRole("admin", "supervisor"), inventoryHandler.Recalculate)
	invGroup.Get("/items/:id/transactions", inventoryHandler.ListTransactions)
	invGroup.Get("/reorder-list", inventoryHandler.ReorderList)

	// Workflows (protegido)
	workflows := protected.Group("/workflows")
	jobHandler := NewJobHandler(deps.JobUC, deps.WorkflowUC)
	workflows.Post("/", jobHandler.CreateWorkflow)
	workflows.Get("/:id", jobHandler.GetWorkflow)

	// Órdenes de producción (protegido)
	jobs := protected.Group("/jobs")
	jobs.Post("/", jobHandler.Create)
	jobs.Get("/", jobHandler.List)
	jobs.Get("/:id", jobHandler.GetByID)
	jobs.Post("/:id/release", jobHandler.Release)

	// Motor de reconciliación (protegido)
	productionHandler := NewProductionHandler(
		deps.ProgressUC, deps.TransitionUC, deps.RunUC, deps.BackflushUC, deps.PostOutputUC,
	)
	jobs.Get("/:id/stages/:stageID/progress", productionHandler.Progress)
	jobs.Post("/:id/move", productionHandler.MoveToStage)
	jobs.Post("/:id/runs", productionHandler.RecordRun)
	jobs.Get("/:id/runs", productionHandler.ListRuns)
	jobs.Post("/:id/backflush-preview", productionHandler.BackflushPreview)
	// Publicar al inventario y cerrar la orden mueven stock real: supervisión.
	jobs.Post("/:id/post-output", RequireRole("admin", "supervisor"), productionHandler.PostOutput)
	jobs.Post("/:id/complete", RequireRole("admin", "supervisor"), productionHandler.CompleteJob)
}
