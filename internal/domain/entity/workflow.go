package entity

import "time"

// Stage es una etapa de un flujo de trabajo (plantilla). De solo lectura para el
// motor de reconciliación: las órdenes la referencian por ID desde PlannedStages.
type Stage struct {
	ID         string
	WorkflowID string
	Name       string
	Position   int    // orden dentro del flujo
	InputUnit  string // unidad en la que la etapa recibe material
	OutputUnit string // unidad en la que la etapa entrega material
	WIPLimit   int    // 0 = sin límite de trabajo en proceso
}

// Workflow es una plantilla de etapas ordenadas reutilizable entre órdenes.
type Workflow struct {
	ID        string
	CompanyID string
	Name      string
	Stages    []Stage
	CreatedAt time.Time
}
