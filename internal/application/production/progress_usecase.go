package production

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
	"github.com/jhoicas/Produccion-api/internal/domain/uom"
)

// Estados de la banda de tolerancia de completitud.
const (
	BandNoPlan     = "no_plan"    // sin plan significativo: cualquier cantidad es aceptable
	BandIncomplete = "incomplete" // bloquea avance y cierre
	BandComplete   = "complete"   // dentro de la banda: puede avanzar o cerrar
	BandOverLimit  = "over_limit" // sobreproducción grosera: bloquea avance y cierre
)

// Thresholds tolerancias de la banda de completitud. Configuración, no ley de
// negocio: los defaults 400/500 vienen del comportamiento observado en planta.
type Thresholds struct {
	Lower decimal.Decimal
	Upper decimal.Decimal
}

// DefaultThresholds tolerancias por defecto (400 abajo, 500 arriba).
func DefaultThresholds() Thresholds {
	return Thresholds{
		Lower: decimal.NewFromInt(400),
		Upper: decimal.NewFromInt(500),
	}
}

// StageProgress avance de una etapa con su evaluación de banda.
type StageProgress struct {
	StageID          string
	Produced         decimal.Decimal // originales + runs recibidos por traslado
	OriginalProduced decimal.Decimal // solo producción original (para reportes)
	Planned          decimal.Decimal
	Percentage       decimal.Decimal
	Unit             string
	Status           string
	Lower            decimal.Decimal
	Upper            decimal.Decimal
}

// CanAdvance indica si la etapa está lo bastante completa para avanzar o cerrar.
func (p *StageProgress) CanAdvance() bool {
	return p.Status == BandComplete || p.Status == BandNoPlan
}

// EvaluateBand evalúa produced contra la banda [max(0, planned-lower), planned+upper].
// planned <= 0 es la válvula de escape: sin plan no se exige umbral.
func EvaluateBand(produced, planned decimal.Decimal, t Thresholds) (status string, lower, upper decimal.Decimal) {
	if planned.LessThanOrEqual(decimal.Zero) {
		return BandNoPlan, decimal.Zero, decimal.Zero
	}
	lower = planned.Sub(t.Lower)
	if lower.LessThan(decimal.Zero) {
		lower = decimal.Zero
	}
	upper = planned.Add(t.Upper)
	switch {
	case produced.LessThan(lower):
		return BandIncomplete, lower, upper
	case produced.GreaterThan(upper):
		return BandOverLimit, lower, upper
	default:
		return BandComplete, lower, upper
	}
}

// sumProduced suma QtyGood de todos los runs de la etapa: producción original
// más el run receptor de cada traslado (el material que llegó a la etapa).
func sumProduced(runs []*entity.ProductionRun) decimal.Decimal {
	total := decimal.Zero
	for _, r := range runs {
		total = total.Add(r.QtyGood)
	}
	return total
}

// sumOriginal suma solo la producción original (excluye copias de traslado),
// para reportes de "producción real" de la etapa.
func sumOriginal(runs []*entity.ProductionRun) decimal.Decimal {
	total := decimal.Zero
	for _, r := range runs {
		if r.IsOriginal() {
			total = total.Add(r.QtyGood)
		}
	}
	return total
}

// ProgressUseCase calcula producido/planificado por etapa y evalúa la banda
// de tolerancia que decide si una orden puede avanzar o cerrarse.
type ProgressUseCase struct {
	jobRepo repository.JobRepository
	wfRepo  repository.WorkflowRepository
	runRepo repository.ProductionRunRepository
	units   *uom.Table
	tol     Thresholds
}

// NewProgressUseCase construye el caso de uso.
func NewProgressUseCase(
	jobRepo repository.JobRepository,
	wfRepo repository.WorkflowRepository,
	runRepo repository.ProductionRunRepository,
	units *uom.Table,
	tol Thresholds,
) *ProgressUseCase {
	return &ProgressUseCase{jobRepo: jobRepo, wfRepo: wfRepo, runRepo: runRepo, units: units, tol: tol}
}

// Progress devuelve el avance de la etapa indicada de una orden.
func (uc *ProgressUseCase) Progress(ctx context.Context, companyID, jobID, stageID string) (*StageProgress, error) {
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
	return uc.progressFor(job, stageID)
}

// progressFor calcula el avance de una etapa de la orden ya cargada.
// Lo comparten el endpoint de progreso, el motor de transición y el
// orquestador de publicación.
func (uc *ProgressUseCase) progressFor(job *entity.Job, stageID string) (*StageProgress, error) {
	idx := job.StageIndex(stageID)
	if idx < 0 {
		return nil, domain.NewValidation("stage_not_planned", "la etapa %s no está planificada en la orden %s", stageID, job.Code)
	}
	stage, err := uc.wfRepo.GetStage(stageID)
	if err != nil {
		return nil, err
	}
	if stage == nil {
		return nil, domain.ErrNotFound
	}

	runs, err := uc.runRepo.ListByJobStage(job.ID, stageID)
	if err != nil {
		return nil, err
	}
	produced := sumProduced(runs)
	original := sumOriginal(runs)

	planned, err := uc.plannedFor(job, stage, idx)
	if err != nil {
		return nil, err
	}

	status, lower, upper := EvaluateBand(produced, planned, uc.tol)
	pct := decimal.Zero
	if planned.GreaterThan(decimal.Zero) {
		pct = produced.Div(planned).Mul(decimal.NewFromInt(100)).Round(1)
	}
	return &StageProgress{
		StageID:          stageID,
		Produced:         produced,
		OriginalProduced: original,
		Planned:          planned,
		Percentage:       pct,
		Unit:             stage.OutputUnit,
		Status:           status,
		Lower:            lower,
		Upper:            upper,
	}, nil
}

// plannedFor deriva la cantidad planificada de la etapa (nunca es un valor fijo):
// la primera etapa la toma de la especificación de salida de la orden; las
// siguientes, del total producido en la etapa anterior convertido etapa a etapa.
func (uc *ProgressUseCase) plannedFor(job *entity.Job, stage *entity.Stage, idx int) (decimal.Decimal, error) {
	if idx == 0 {
		res := uc.units.Convert(job.Output.PlannedQty, job.Output.Unit, stage.OutputUnit, job.Packaging.NumberUp, uom.RoundExact)
		return res.Qty, nil
	}

	prevID := job.PlannedStages[idx-1]
	prevStage, err := uc.wfRepo.GetStage(prevID)
	if err != nil {
		return decimal.Zero, err
	}
	if prevStage == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	prevRuns, err := uc.runRepo.ListByJobStage(job.ID, prevID)
	if err != nil {
		return decimal.Zero, err
	}
	prevProduced := sumProduced(prevRuns)

	// Conversión en dos pasos: salida de la etapa anterior → entrada de esta
	// etapa → salida de esta etapa.
	step1 := uc.units.Convert(prevProduced, prevStage.OutputUnit, stage.InputUnit, job.Packaging.NumberUp, uom.RoundExact)
	step2 := uc.units.Convert(step1.Qty, stage.InputUnit, stage.OutputUnit, job.Packaging.NumberUp, uom.RoundExact)
	return step2.Qty, nil
}
