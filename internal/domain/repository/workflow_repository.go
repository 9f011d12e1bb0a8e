package repository

import "github.com/jhoicas/Produccion-api/internal/domain/entity"

// WorkflowRepository define el puerto de lectura de flujos y etapas.
// El motor de reconciliación solo lee etapas; la edición de plantillas
// queda fuera de su alcance.
type WorkflowRepository interface {
	Create(wf *entity.Workflow) error
	GetByID(id string) (*entity.Workflow, error)
	GetStage(stageID string) (*entity.Stage, error)
	ListStages(workflowID string) ([]*entity.Stage, error)
}
