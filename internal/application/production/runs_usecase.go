package production

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/internal/domain/uom"
)

// RunUseCase registra producción original en la etapa actual de una orden.
type RunUseCase struct {
	jobRepo repository.JobRepository
	wfRepo  repository.WorkflowRepository
	runRepo repository.ProductionRunRepository
	units   *uom.Table
}

// NewRunUseCase construye el caso de uso.
func NewRunUseCase(
	jobRepo repository.JobRepository,
	wfRepo repository.WorkflowRepository,
	runRepo repository.ProductionRunRepository,
	units *uom.Table,
) *RunUseCase {
	return &RunUseCase{jobRepo: jobRepo, wfRepo: wfRepo, runRepo: runRepo, units: units}
}

// RecordRunInput entrada para registrar un run de producción.
type RecordRunInput struct {
	CompanyID string
	UserID    string
	JobID     string
	StageID   string
	QtyGood   decimal.Decimal
	QtyScrap  decimal.Decimal
	Unit      string // vacío = unidad de salida de la etapa
	LotID     string
}

// RecordRun valida y persiste un run original en la etapa actual de la orden.
// Las cantidades se almacenan en la unidad de salida de la etapa.
func (uc *RunUseCase) RecordRun(ctx context.Context, input RecordRunInput) (*entity.ProductionRun, error) {
	if input.QtyGood.LessThan(decimal.Zero) || input.QtyScrap.LessThan(decimal.Zero) {
		return nil, domain.NewValidation("quantity", "las cantidades no pueden ser negativas")
	}
	if input.QtyGood.IsZero() && input.QtyScrap.IsZero() {
		return nil, domain.NewValidation("quantity", "el run debe registrar alguna cantidad")
	}

	job, err := uc.jobRepo.GetByID(input.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, domain.ErrNotFound
	}
	if job.CompanyID != input.CompanyID {
		return nil, domain.ErrForbidden
	}
	switch job.Status {
	case entity.JobStatusDone, entity.JobStatusCancelled:
		return nil, domain.ErrJobClosed
	case entity.JobStatusDraft:
		return nil, domain.NewValidation("job_not_released", "la orden %s no está liberada", job.Code)
	}
	if input.StageID != job.CurrentStage {
		return nil, domain.NewValidation("not_current_stage",
			"solo se registra producción en la etapa actual (%s)", job.CurrentStage)
	}

	stage, err := uc.wfRepo.GetStage(input.StageID)
	if err != nil {
		return nil, err
	}
	if stage == nil {
		return nil, domain.ErrNotFound
	}

	good, scrap := input.QtyGood, input.QtyScrap
	if input.Unit != "" {
		resGood := uc.units.Convert(good, input.Unit, stage.OutputUnit, job.Packaging.NumberUp, uom.RoundExact)
		resScrap := uc.units.Convert(scrap, input.Unit, stage.OutputUnit, job.Packaging.NumberUp, uom.RoundExact)
		if !resGood.Converted {
			log.Warn().
				Str("job_id", job.ID).
				Str("from_unit", input.Unit).
				Str("to_unit", stage.OutputUnit).
				Msg("run registrado con unidad sin conversión conocida: pass-through")
		}
		good, scrap = resGood.Qty, resScrap.Qty
	}

	now := time.Now()
	run := &entity.ProductionRun{
		ID:        uuid.New().String(),
		JobID:     job.ID,
		StageID:   input.StageID,
		QtyGood:   good,
		QtyScrap:  scrap,
		Unit:      stage.OutputUnit,
		LotID:     input.LotID,
		CreatedAt: now,
		CreatedBy: input.UserID,
	}
	if err := uc.runRepo.Create(run); err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns lista los runs de una etapa de la orden.
func (uc *RunUseCase) ListRuns(ctx context.Context, companyID, jobID, stageID string) ([]*entity.ProductionRun, error) {
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
	return uc.runRepo.ListByJobStage(jobID, stageID)
}
