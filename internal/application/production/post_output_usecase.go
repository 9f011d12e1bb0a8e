package production

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/internal/domain/uom"
)

// PostOutputUseCase orquesta la publicación de salida final al libro de stock:
// valida etapa terminal y banda de tolerancia, convierte a la unidad de
// inventario, registra la entrada, dispara el backflush y opcionalmente cierra
// la orden. Todas las escrituras van en una sola transacción de BD.
type PostOutputUseCase struct {
	txRunner  ProductionTxRunner
	jobRepo   repository.JobRepository
	wfRepo    repository.WorkflowRepository
	itemRepo  repository.ItemRepository
	progress  *ProgressUseCase
	backflush *BackflushUseCase
	units     *uom.Table
	locks     *JobLocks
}

// NewPostOutputUseCase construye el orquestador.
func NewPostOutputUseCase(
	txRunner ProductionTxRunner,
	jobRepo repository.JobRepository,
	wfRepo repository.WorkflowRepository,
	itemRepo repository.ItemRepository,
	progress *ProgressUseCase,
	backflush *BackflushUseCase,
	units *uom.Table,
	locks *JobLocks,
) *PostOutputUseCase {
	return &PostOutputUseCase{
		txRunner:  txRunner,
		jobRepo:   jobRepo,
		wfRepo:    wfRepo,
		itemRepo:  itemRepo,
		progress:  progress,
		backflush: backflush,
		units:     units,
		locks:     locks,
	}
}

// PostOptions opciones de publicación de salida.
type PostOptions struct {
	AutoConsume   bool   // dispara backflush con la misma cantidad
	CompleteJob   bool   // cierra la orden si la banda de tolerancia lo permite
	AllowOverride bool   // acepta sobreconsumo de BOM confirmado por el operario
	RequestID     string // token de idempotencia generado por el cliente
	UserID        string
}

// PostResult resultado de una publicación.
type PostResult struct {
	Posted    decimal.Decimal // cantidad registrada, en unidad de inventario
	Unit      string
	Completed bool
	Warnings  []string
	Backflush []dto.BackflushLineDTO
}

// PostOutput publica qty (en la unidad de salida de la etapa) al libro de
// stock del producto terminado. Solo la etapa terminal puede publicar; toda
// validación ocurre antes de cualquier escritura. Un RequestID repetido
// devuelve ErrDuplicate sin registrar nada.
func (uc *PostOutputUseCase) PostOutput(ctx context.Context, companyID, jobID, stageID string, qty decimal.Decimal, opts PostOptions) (*PostResult, error) {
	if qty.LessThanOrEqual(decimal.Zero) {
		return nil, domain.NewValidation("quantity", "la cantidad debe ser positiva")
	}

	unlock := uc.locks.Lock(jobID)
	defer unlock()

	job, err := uc.jobRepo.GetByID(jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	if job.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	switch job.Status {
	case entity.JobStatusDone, entity.JobStatusCancelled:
		return nil, domain.ErrJobClosed
	case entity.JobStatusDraft:
		return nil, domain.NewValidation("job_not_released", "la orden %s no está liberada", job.Code)
	}

	// Guarda de etapa terminal: la salida parcial de etapas intermedias se
	// rastrea con ProductionRun, nunca contra el libro de stock.
	if !job.IsTerminal(stageID) {
		return nil, domain.NewValidation("non_terminal_posting",
			"solo la etapa terminal puede publicar al inventario (terminal %s, pedida %s)",
			job.TerminalStage(), stageID)
	}

	// El cierre exige banda satisfecha; se rechaza antes de cualquier escritura
	// para que el caller pueda publicar sin cerrar y corregir después.
	if opts.CompleteJob {
		prog, err := uc.progress.progressFor(job, stageID)
		if err != nil {
			return nil, err
		}
		if !prog.CanAdvance() {
			return nil, &domain.ThresholdError{
				StageID:  stageID,
				Produced: prog.Produced,
				Planned:  prog.Planned,
				Lower:    prog.Lower,
				Upper:    prog.Upper,
			}
		}
	}

	stage, err := uc.wfRepo.GetStage(stageID)
	if err != nil {
		return nil, err
	}
	if stage == nil {
		return nil, domain.ErrNotFound
	}
	item, err := uc.itemRepo.GetByID(job.Output.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	result := &PostResult{Unit: item.Unit}

	// Conversión a la unidad de inventario del producto terminado.
	conv := uc.units.Convert(qty, stage.OutputUnit, item.Unit, job.Packaging.NumberUp, uom.RoundExact)
	if !conv.Converted {
		w := fmt.Sprintf("sin conversión conocida de %s a %s: cantidad registrada sin convertir", stage.OutputUnit, item.Unit)
		result.Warnings = append(result.Warnings, w)
		log.Warn().Str("job_id", job.ID).Msg(w)
	}
	result.Posted = conv.Qty

	// Proporción del backflush en la unidad de la especificación de salida.
	outQty := uc.units.Convert(qty, stage.OutputUnit, job.Output.Unit, job.Packaging.NumberUp, uom.RoundExact)

	now := time.Now()
	err = uc.txRunner.RunProduction(ctx, func(
		stockTxRepo repository.StockTransactionRepository,
		itemRepo repository.ItemRepository,
		runRepo repository.ProductionRunRepository,
		consRepo repository.ConsumptionRepository,
		jobRepo repository.JobRepository,
	) error {
		stockTx := &entity.StockTransaction{
			ID:        uuid.New().String(),
			CompanyID: job.CompanyID,
			ItemID:    item.ID,
			Type:      entity.TxTypeRECEIVE,
			Quantity:  conv.Qty,
			Reference: fmt.Sprintf("producción %s", job.Code),
			RequestID: opts.RequestID,
			Date:      now,
			CreatedAt: now,
			CreatedBy: opts.UserID,
		}
		if err := stockTxRepo.Create(stockTx); err != nil {
			return err
		}

		if opts.AutoConsume {
			lines, warns, err := uc.backflush.ExecuteInTx(
				stockTxRepo, itemRepo, consRepo, jobRepo,
				job, outQty.Qty, now, opts.UserID, opts.AllowOverride,
			)
			if err != nil {
				return err
			}
			result.Backflush = lines
			result.Warnings = append(result.Warnings, warns...)
		}

		sum, err := stockTxRepo.SumByItem(item.ID)
		if err != nil {
			return err
		}
		if err := itemRepo.UpdateQtyOnHand(item.ID, sum); err != nil {
			return err
		}

		if opts.CompleteJob {
			if err := jobRepo.UpdateStatus(job.ID, entity.JobStatusDone); err != nil {
				return err
			}
			result.Completed = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CompleteJob cierra la orden sin publicar salida adicional: solo es
// alcanzable desde la etapa terminal con la banda de tolerancia satisfecha.
func (uc *PostOutputUseCase) CompleteJob(ctx context.Context, companyID, jobID, userID string) error {
	unlock := uc.locks.Lock(jobID)
	defer unlock()

	job, err := uc.jobRepo.GetByID(jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return domain.ErrNotFound
	}
	if job.CompanyID != companyID {
		return domain.ErrForbidden
	}
	switch job.Status {
	case entity.JobStatusDone, entity.JobStatusCancelled:
		return domain.ErrJobClosed
	case entity.JobStatusDraft:
		return domain.NewValidation("job_not_released", "la orden %s no está liberada", job.Code)
	}
	if !job.IsTerminal(job.CurrentStage) {
		return domain.NewValidation("not_terminal_stage",
			"la orden %s aún no llegó a su etapa terminal (%s)", job.Code, job.TerminalStage())
	}
	prog, err := uc.progress.progressFor(job, job.CurrentStage)
	if err != nil {
		return err
	}
	if !prog.CanAdvance() {
		return &domain.ThresholdError{
			StageID:  job.CurrentStage,
			Produced: prog.Produced,
			Planned:  prog.Planned,
			Lower:    prog.Lower,
			Upper:    prog.Upper,
		}
	}
	return uc.jobRepo.UpdateStatus(job.ID, entity.JobStatusDone)
}
