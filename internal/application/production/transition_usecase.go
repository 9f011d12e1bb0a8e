package production

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/internal/domain/uom"
)

// TransitionUseCase mueve una orden a su siguiente etapa planificada:
// máquina de estados lineal, solo hacia adelante, con traslado automático de
// la producción no consumida de la etapa anterior.
type TransitionUseCase struct {
	txRunner ProductionTxRunner
	jobRepo  repository.JobRepository
	wfRepo   repository.WorkflowRepository
	runRepo  repository.ProductionRunRepository
	progress *ProgressUseCase
	units    *uom.Table
	locks    *JobLocks
}

// NewTransitionUseCase construye el motor de transición de etapas.
func NewTransitionUseCase(
	txRunner ProductionTxRunner,
	jobRepo repository.JobRepository,
	wfRepo repository.WorkflowRepository,
	runRepo repository.ProductionRunRepository,
	progress *ProgressUseCase,
	units *uom.Table,
	locks *JobLocks,
) *TransitionUseCase {
	return &TransitionUseCase{
		txRunner: txRunner,
		jobRepo:  jobRepo,
		wfRepo:   wfRepo,
		runRepo:  runRepo,
		progress: progress,
		units:    units,
		locks:    locks,
	}
}

// MoveOptions opciones de una transición de etapa.
type MoveOptions struct {
	Override bool // avanza aunque la etapa actual no esté completa
	UserID   string
}

// MoveToStage valida y ejecuta el paso de la orden a targetStageID.
// Serializado por orden: dos transiciones concurrentes sobre la misma orden
// no pueden trasladar el mismo lote dos veces.
func (uc *TransitionUseCase) MoveToStage(ctx context.Context, companyID, jobID, targetStageID string, opts MoveOptions) error {
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

	targetIdx := job.StageIndex(targetStageID)
	if targetIdx < 0 {
		return domain.NewValidation("stage_not_planned", "la etapa %s no está planificada en la orden %s", targetStageID, job.Code)
	}
	curIdx := job.StageIndex(job.CurrentStage)
	if targetIdx != curIdx+1 {
		return domain.NewValidation("not_next_stage",
			"solo se puede avanzar a la siguiente etapa planificada (actual %s, destino %s)",
			job.CurrentStage, targetStageID)
	}

	// Regla de completitud sobre la etapa actual, salvo override explícito.
	prog, err := uc.progress.progressFor(job, job.CurrentStage)
	if err != nil {
		return err
	}
	if !prog.CanAdvance() && !opts.Override {
		return &domain.ThresholdError{
			StageID:  job.CurrentStage,
			Produced: prog.Produced,
			Planned:  prog.Planned,
			Lower:    prog.Lower,
			Upper:    prog.Upper,
		}
	}

	transfers, err := uc.buildTransfers(job, job.CurrentStage, targetStageID, opts.UserID)
	if err != nil {
		return err
	}

	return uc.txRunner.RunProduction(ctx, func(
		_ repository.StockTransactionRepository,
		_ repository.ItemRepository,
		runRepo repository.ProductionRunRepository,
		_ repository.ConsumptionRepository,
		jobRepo repository.JobRepository,
	) error {
		for _, run := range transfers {
			if err := runRepo.Create(run); err != nil {
				return err
			}
		}
		return jobRepo.UpdateCurrentStage(job.ID, targetStageID, entity.JobStatusInProgress)
	})
}

// buildTransfers arma un run receptor por lote de producción original sin
// trasladar de la etapa previa. Los runs sin lote se agrupan bajo un lote
// generado para que el batch trasladado siga siendo rastreable.
// Un run con SourceRunIDs nunca vuelve a ser fuente (sin cadenas de re-traslado).
func (uc *TransitionUseCase) buildTransfers(job *entity.Job, fromStageID, toStageID, userID string) ([]*entity.ProductionRun, error) {
	pending, err := uc.runRepo.ListUntransferred(job.ID, fromStageID)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, nil
	}

	fromStage, err := uc.wfRepo.GetStage(fromStageID)
	if err != nil {
		return nil, err
	}
	toStage, err := uc.wfRepo.GetStage(toStageID)
	if err != nil {
		return nil, err
	}
	if fromStage == nil || toStage == nil {
		return nil, domain.ErrNotFound
	}

	// Agrupar por lote, conservando el orden de aparición.
	var lotOrder []string
	byLot := make(map[string][]*entity.ProductionRun)
	for _, r := range pending {
		lot := r.LotID
		if _, ok := byLot[lot]; !ok {
			lotOrder = append(lotOrder, lot)
		}
		byLot[lot] = append(byLot[lot], r)
	}

	now := time.Now()
	var out []*entity.ProductionRun
	for _, lot := range lotOrder {
		group := byLot[lot]
		total := sumProduced(group)
		ids := make([]string, 0, len(group))
		for _, r := range group {
			ids = append(ids, r.ID)
		}

		// Dos pasos: salida etapa previa → entrada destino → salida destino.
		step1 := uc.units.Convert(total, fromStage.OutputUnit, toStage.InputUnit, job.Packaging.NumberUp, uom.RoundExact)
		step2 := uc.units.Convert(step1.Qty, toStage.InputUnit, toStage.OutputUnit, job.Packaging.NumberUp, uom.RoundExact)
		if !step1.Converted || !step2.Converted {
			log.Warn().
				Str("job_id", job.ID).
				Str("from_unit", fromStage.OutputUnit).
				Str("to_unit", toStage.OutputUnit).
				Msg("traslado con unidades sin conversión conocida: pass-through")
		}

		lotID := lot
		if lotID == "" {
			lotID = "LOTE-" + strings.ToUpper(uuid.New().String()[:8])
		}
		out = append(out, &entity.ProductionRun{
			ID:           uuid.New().String(),
			JobID:        job.ID,
			StageID:      toStageID,
			QtyGood:      step2.Qty,
			Unit:         toStage.OutputUnit,
			LotID:        lotID,
			SourceRunIDs: ids,
			CreatedAt:    now,
			CreatedBy:    userID,
		})
	}
	return out, nil
}
