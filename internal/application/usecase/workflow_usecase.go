package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Produccion-api/internal/application/dto"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// WorkflowUseCase administra plantillas de flujo. Las etapas son de solo
// lectura para el motor de reconciliación: aquí solo se crean y consultan.
type WorkflowUseCase struct {
	repo repository.WorkflowRepository
}

// NewWorkflowUseCase construye el caso de uso.
func NewWorkflowUseCase(repo repository.WorkflowRepository) *WorkflowUseCase {
	return &WorkflowUseCase{repo: repo}
}

// Create crea una plantilla con sus etapas ordenadas.
func (uc *WorkflowUseCase) Create(companyID string, in dto.CreateWorkflowRequest) (*entity.Workflow, error) {
	if in.Name == "" || len(in.Stages) == 0 {
		return nil, domain.ErrInvalidInput
	}
	wfID := uuid.New().String()
	stages := make([]entity.Stage, 0, len(in.Stages))
	for i, s := range in.Stages {
		if s.Name == "" || s.InputUnit == "" || s.OutputUnit == "" {
			return nil, domain.ErrInvalidInput
		}
		stages = append(stages, entity.Stage{
			ID:         uuid.New().String(),
			WorkflowID: wfID,
			Name:       s.Name,
			Position:   i,
			InputUnit:  s.InputUnit,
			OutputUnit: s.OutputUnit,
			WIPLimit:   s.WIPLimit,
		})
	}
	wf := &entity.Workflow{
		ID:        wfID,
		CompanyID: companyID,
		Name:      in.Name,
		Stages:    stages,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(wf); err != nil {
		return nil, err
	}
	return wf, nil
}

// GetByID obtiene una plantilla con sus etapas.
func (uc *WorkflowUseCase) GetByID(companyID, id string) (*entity.Workflow, error) {
	wf, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if wf == nil {
		return nil, domain.ErrNotFound
	}
	if wf.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return wf, nil
}
