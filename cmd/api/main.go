package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/inventory"
	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
	"github.com/jhoicas/Produccion-api/internal/domain/uom"
	"github.com/jhoicas/Produccion-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Produccion-api/internal/interfaces/http"
	"github.com/jhoicas/Produccion-api/pkg/config"
	"github.com/jhoicas/Produccion-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewItemRepository(pool)
	stockTxRepo := postgres.NewStockTransactionRepository(pool)
	jobRepo := postgres.NewJobRepository(pool)
	wfRepo := postgres.NewWorkflowRepository(pool)
	runRepo := postgres.NewProductionRunRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	units := uom.NewTable(uom.ClassesFromAliases(cfg.UOM.PieceAliases, cfg.UOM.GroupAliases))
	tol := production.Thresholds{
		Lower: decimal.NewFromInt(int64(cfg.Production.LowerTolerance)),
		Upper: decimal.NewFromInt(int64(cfg.Production.UpperTolerance)),
	}
	locks := production.NewJobLocks()

	itemUC := usecase.NewItemUseCase(itemRepo)
	workflowUC := usecase.NewWorkflowUseCase(wfRepo)
	jobUC := usecase.NewJobUseCase(jobRepo, wfRepo, itemRepo)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, itemRepo, stockTxRepo)
	reorderUC := inventory.NewReorderUseCase(itemRepo, stockTxRepo)

	progressUC := production.NewProgressUseCase(jobRepo, wfRepo, runRepo, units, tol)
	transitionUC := production.NewTransitionUseCase(txRunner, jobRepo, wfRepo, runRepo, progressUC, units, locks)
	runUC := production.NewRunUseCase(jobRepo, wfRepo, runRepo, units)
	consRepo := postgres.NewConsumptionRepository(pool)
	backflushUC := production.NewBackflushUseCase(jobRepo, itemRepo, stockTxRepo, consRepo)
	postOutputUC := production.NewPostOutputUseCase(
		txRunner, jobRepo, wfRepo, itemRepo, progressUC, backflushUC, units, locks,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Producción API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:       itemUC,
		WorkflowUC:   workflowUC,
		JobUC:        jobUC,
		LedgerUC:     ledgerUC,
		ReorderUC:    reorderUC,
		ProgressUC:   progressUC,
		TransitionUC: transitionUC,
		RunUC:        runUC,
		BackflushUC:  backflushUC,
		PostOutputUC: postOutputUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
