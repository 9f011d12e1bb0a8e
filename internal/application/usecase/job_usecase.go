package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// JobUseCase administra el ciclo de vida documental de las órdenes de
// producción: creación en borrador, liberación y consulta. El avance por
// etapas y el cierre van por el paquete production.
type JobUseCase struct {
	jobRepo  repository.JobRepository
	wfRepo   repository.WorkflowRepository
	itemRepo repository.ItemRepository
}

// NewJobUseCase construye el caso de uso.
func NewJobUseCase(
	jobRepo repository.JobRepository,
	wfRepo repository.WorkflowRepository,
	itemRepo repository.ItemRepository,
) *JobUseCase {
	return &JobUseCase{jobRepo: jobRepo, wfRepo: wfRepo, itemRepo: itemRepo}
}

// Create crea una orden en borrador con las etapas planificadas del flujo.
func (uc *JobUseCase) Create(companyID, userID string, in dto.CreateJobRequest) (*entity.Job, error) {
	if in.Code == "" || in.WorkflowID == "" || in.OutputItemID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.PlannedQty.LessThan(decimal.Zero) {
		return nil, domain.NewValidation("planned_qty", "la cantidad planificada no puede ser negativa")
	}

	wf, err := uc.wfRepo.GetByID(in.WorkflowID)
	if err != nil {
		return nil, err
	}
	if wf == nil || wf.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if len(wf.Stages) == 0 {
		return nil, domain.NewValidation("workflow_empty", "el flujo %s no tiene etapas", wf.Name)
	}

	outputItem, err := uc.itemRepo.GetByID(in.OutputItemID)
	if err != nil {
		return nil, err
	}
	if outputItem == nil || outputItem.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}

	bom := make([]entity.BOMLine, 0, len(in.BOM))
	for _, l := range in.BOM {
		if l.QtyRequired.LessThanOrEqual(decimal.Zero) {
			return nil, domain.NewValidation("bom_line", "qty_required debe ser positiva para %s", l.ItemID)
		}
		item, err := uc.itemRepo.GetByID(l.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil || item.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
		unit := l.Unit
		if unit == "" {
			unit = item.Unit
		}
		bom = append(bom, entity.BOMLine{
			ItemID:      l.ItemID,
			Unit:        unit,
			QtyRequired: l.QtyRequired,
			QtyConsumed: decimal.Zero,
		})
	}

	stages := make([]string, 0, len(wf.Stages))
	for _, s := range wf.Stages {
		stages = append(stages, s.ID)
	}

	outUnit := in.OutputUnit
	if outUnit == "" {
		outUnit = outputItem.Unit
	}

	now := time.Now()
	job := &entity.Job{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		Code:          in.Code,
		Status:        entity.JobStatusDraft,
		WorkflowID:    wf.ID,
		PlannedStages: stages,
		BOM:           bom,
		Packaging: entity.Packaging{
			PiecesPerBox:   in.PiecesPerBox,
			BoxesPerPallet: in.BoxesPerPallet,
			NumberUp:       in.NumberUp,
		},
		Output: entity.OutputSpec{
			ItemID:     in.OutputItemID,
			PlannedQty: in.PlannedQty,
			Unit:       outUnit,
		},
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: userID,
	}
	if err := uc.jobRepo.Create(job); err != nil {
		return nil, err
	}
	return job, nil
}

// Release libera la orden: pasa a released y fija la primera etapa planificada
// como etapa actual (antes de liberar, CurrentStage permanece vacío).
func (uc *JobUseCase) Release(companyID, jobID string) error {
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
	if job.Status != entity.JobStatusDraft {
		return domain.ErrConflict
	}
	if len(job.PlannedStages) == 0 {
		return domain.NewValidation("no_stages", "la orden %s no tiene etapas planificadas", job.Code)
	}
	return uc.jobRepo.UpdateCurrentStage(job.ID, job.PlannedStages[0], entity.JobStatusReleased)
}

// GetByID obtiene una orden de la empresa.
func (uc *JobUseCase) GetByID(companyID, jobID string) (*entity.Job, error) {
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
	return job, nil
}

// List lista órdenes por estado (status vacío = todas).
func (uc *JobUseCase) List(companyID, status string, limit, offset int) ([]*entity.Job, error) {
	return uc.jobRepo.List(companyID, status, limit, offset)
}
