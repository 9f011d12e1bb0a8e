package production

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// BackflushUseCase deriva el consumo de materia prima desde la BOM de la
// orden, proporcional a la salida publicada, en la unidad declarada de cada
// línea (sin adivinar conversiones cruzadas). Las líneas generadas se marcan
// con entity.BackflushNote para distinguirlas de los consumos manuales.
type BackflushUseCase struct {
	jobRepo     repository.JobRepository
	itemRepo    repository.ItemRepository
	stockTxRepo repository.StockTransactionRepository
	consRepo    repository.ConsumptionRepository
}

// NewBackflushUseCase construye el caso de uso.
// Los repos recibidos son del camino de lectura (Preview); la ejecución real
// va por ExecuteInTx con repos atados a la transacción del orquestador.
func NewBackflushUseCase(
	jobRepo repository.JobRepository,
	itemRepo repository.ItemRepository,
	stockTxRepo repository.StockTransactionRepository,
	consRepo repository.ConsumptionRepository,
) *BackflushUseCase {
	return &BackflushUseCase{
		jobRepo:     jobRepo,
		itemRepo:    itemRepo,
		stockTxRepo: stockTxRepo,
		consRepo:    consRepo,
	}
}

// ComputeDraws calcula el consumo proporcional por línea de BOM:
// draw = qtyPosted * (requerido / salida total planificada).
// qtyPosted debe venir en la unidad de la especificación de salida de la orden.
func ComputeDraws(job *entity.Job, qtyPosted decimal.Decimal) ([]dto.BackflushLineDTO, error) {
	if job.Output.PlannedQty.LessThanOrEqual(decimal.Zero) {
		return nil, domain.NewValidation("no_plan",
			"la orden %s no tiene salida planificada; no se puede prorratear el consumo", job.Code)
	}
	lines := make([]dto.BackflushLineDTO, 0, len(job.BOM))
	for _, bl := range job.BOM {
		draw := qtyPosted.Mul(bl.QtyRequired).Div(job.Output.PlannedQty)
		lines = append(lines, dto.BackflushLineDTO{
			ItemID: bl.ItemID,
			Unit:   bl.Unit,
			Draw:   draw,
		})
	}
	return lines, nil
}

// Preview calcula los consumos sin comprometer nada, para el diálogo de
// confirmación del caller. Marca las líneas con stock derivado insuficiente.
func (uc *BackflushUseCase) Preview(ctx context.Context, companyID, jobID string, qtyPosted decimal.Decimal) ([]dto.BackflushLineDTO, error) {
	if qtyPosted.LessThanOrEqual(decimal.Zero) {
		return nil, domain.NewValidation("quantity", "la cantidad debe ser positiva")
	}
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

	lines, err := ComputeDraws(job, qtyPosted)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		onHand, err := uc.stockTxRepo.SumByItem(lines[i].ItemID)
		if err != nil {
			return nil, err
		}
		lines[i].OnHand = onHand
		lines[i].Insufficient = onHand.LessThan(lines[i].Draw)
	}
	return lines, nil
}

// ExecuteInTx ejecuta el backflush con los repositorios de la transacción del
// caller (patrón del orquestador: una sola tx para publicación y consumo).
// El caller garantiza invocarlo a lo sumo una vez por acción de publicación.
//
// Stock insuficiente no bloquea (el piso de planta va por delante del
// papeleo): se re-lee on-hand justo antes de comprometer y se devuelve la
// advertencia. Exceder lo requerido de una línea sí exige override explícito.
func (uc *BackflushUseCase) ExecuteInTx(
	stockTxRepo repository.StockTransactionRepository,
	itemRepo repository.ItemRepository,
	consRepo repository.ConsumptionRepository,
	jobRepo repository.JobRepository,
	job *entity.Job,
	qtyPosted decimal.Decimal,
	now time.Time,
	userID string,
	allowOverride bool,
) ([]dto.BackflushLineDTO, []string, error) {
	lines, err := ComputeDraws(job, qtyPosted)
	if err != nil {
		return nil, nil, err
	}

	var warnings []string
	for i := range lines {
		line := &lines[i]
		bomLine := job.BOMLineFor(line.ItemID)
		if bomLine == nil {
			return nil, nil, domain.ErrNotFound
		}

		newConsumed := bomLine.QtyConsumed.Add(line.Draw)
		if newConsumed.GreaterThan(bomLine.QtyRequired) && !allowOverride {
			return nil, nil, domain.NewValidation("bom_overconsumption",
				"el consumo de %s superaría lo requerido (%s > %s); requiere override del operario",
				line.ItemID, newConsumed, bomLine.QtyRequired)
		}

		// Re-lectura de on-hand justo antes de comprometer la transacción
		// consecuente; una carrera con otro consumidor es advertencia blanda.
		onHand, err := stockTxRepo.SumByItem(line.ItemID)
		if err != nil {
			return nil, nil, err
		}
		line.OnHand = onHand
		if onHand.LessThan(line.Draw) {
			line.Insufficient = true
			w := &domain.InsufficientStockWarning{ItemID: line.ItemID, Required: line.Draw, Available: onHand}
			warnings = append(warnings, w.Error())
		}

		cons := &entity.Consumption{
			ID:        uuid.New().String(),
			JobID:     job.ID,
			ItemID:    line.ItemID,
			Quantity:  line.Draw,
			Unit:      line.Unit,
			Approved:  allowOverride,
			Note:      entity.BackflushNote,
			CreatedAt: now,
			CreatedBy: userID,
		}
		if err := consRepo.Create(cons); err != nil {
			return nil, nil, err
		}

		stockTx := &entity.StockTransaction{
			ID:        uuid.New().String(),
			CompanyID: job.CompanyID,
			ItemID:    line.ItemID,
			Type:      entity.TxTypeSHIP,
			Quantity:  line.Draw.Neg(),
			Reference: fmt.Sprintf("backflush %s", job.Code),
			Date:      now,
			CreatedAt: now,
			CreatedBy: userID,
		}
		if err := stockTxRepo.Create(stockTx); err != nil {
			return nil, nil, err
		}

		if err := jobRepo.UpdateBOMConsumed(job.ID, line.ItemID, newConsumed); err != nil {
			return nil, nil, err
		}
		bomLine.QtyConsumed = newConsumed

		// Refrescar la caché advisory desde la suma.
		sum, err := stockTxRepo.SumByItem(line.ItemID)
		if err != nil {
			return nil, nil, err
		}
		if err := itemRepo.UpdateQtyOnHand(line.ItemID, sum); err != nil {
			return nil, nil, err
		}
	}
	return lines, warnings, nil
}
