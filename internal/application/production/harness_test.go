package production_test

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/uom"
)

const (
	testCompany = "comp-1"
	testUser    = "user-1"
)

// world agrupa los fakes y los casos de uso ya cableados, como lo hace main.
type world struct {
	items *fakeItemRepo
	stock *fakeStockTxRepo
	jobs  *fakeJobRepo
	wfs   *fakeWorkflowRepo
	runs  *fakeRunRepo
	cons  *fakeConsumptionRepo

	progress   *production.ProgressUseCase
	transition *production.TransitionUseCase
	runUC      *production.RunUseCase
	backflush  *production.BackflushUseCase
	post       *production.PostOutputUseCase
}

func newWorld() *world {
	w := &world{
		items: newFakeItemRepo(),
		stock: &fakeStockTxRepo{},
		jobs:  newFakeJobRepo(),
		wfs:   newFakeWorkflowRepo(),
		runs:  &fakeRunRepo{},
		cons:  &fakeConsumptionRepo{},
	}
	tx := &fakeTxRunner{
		stockTxRepo: w.stock,
		itemRepo:    w.items,
		runRepo:     w.runs,
		consRepo:    w.cons,
		jobRepo:     w.jobs,
	}
	units := uom.Default()
	locks := production.NewJobLocks()

	w.progress = production.NewProgressUseCase(w.jobs, w.wfs, w.runs, units, production.DefaultThresholds())
	w.transition = production.NewTransitionUseCase(tx, w.jobs, w.wfs, w.runs, w.progress, units, locks)
	w.runUC = production.NewRunUseCase(w.jobs, w.wfs, w.runs, units)
	w.backflush = production.NewBackflushUseCase(w.jobs, w.items, w.stock, w.cons)
	w.post = production.NewPostOutputUseCase(tx, w.jobs, w.wfs, w.items, w.progress, w.backflush, units, locks)
	return w
}

func (w *world) addItem(id, unit string) *entity.Item {
	it := &entity.Item{ID: id, CompanyID: testCompany, SKU: "SKU-" + id, Name: id, Unit: unit}
	_ = w.items.Create(it)
	return it
}

// seedStock registra una entrada en el libro para dar existencias al ítem.
func (w *world) seedStock(itemID string, qty decimal.Decimal) {
	_ = w.stock.Create(&entity.StockTransaction{
		ID:        "seed-" + itemID,
		CompanyID: testCompany,
		ItemID:    itemID,
		Type:      entity.TxTypeRECEIVE,
		Quantity:  qty,
		Date:      time.Now(),
	})
	_ = w.items.UpdateQtyOnHand(itemID, qty)
}

// addWorkflow registra un flujo con las etapas dadas (posición = índice).
func (w *world) addWorkflow(id string, stages ...entity.Stage) *entity.Workflow {
	for i := range stages {
		stages[i].WorkflowID = id
		stages[i].Position = i
	}
	wf := &entity.Workflow{ID: id, CompanyID: testCompany, Name: id, Stages: stages}
	_ = w.wfs.Create(wf)
	return wf
}

// addJob crea una orden liberada sobre el flujo, parada en la primera etapa.
func (w *world) addJob(id string, wf *entity.Workflow, out entity.OutputSpec, pack entity.Packaging, bom ...entity.BOMLine) *entity.Job {
	stages := make([]string, 0, len(wf.Stages))
	for _, s := range wf.Stages {
		stages = append(stages, s.ID)
	}
	job := &entity.Job{
		ID:            id,
		CompanyID:     testCompany,
		Code:          "OP-" + id,
		Status:        entity.JobStatusReleased,
		WorkflowID:    wf.ID,
		PlannedStages: stages,
		CurrentStage:  stages[0],
		BOM:           bom,
		Packaging:     pack,
		Output:        out,
	}
	_ = w.jobs.Create(job)
	return job
}

// singleStageJob arma el caso mínimo: una etapa pcs→pcs con salida planificada
// en piezas. Útil para los tests de banda de tolerancia.
func (w *world) singleStageJob(jobID string, planned int64) *entity.Job {
	w.addItem("fg-"+jobID, "pcs")
	wf := w.addWorkflow("wf-"+jobID, entity.Stage{ID: "st-" + jobID, Name: "ensamble", InputUnit: "pcs", OutputUnit: "pcs"})
	return w.addJob(jobID, wf,
		entity.OutputSpec{ItemID: "fg-" + jobID, PlannedQty: decimal.NewFromInt(planned), Unit: "pcs"},
		entity.Packaging{},
	)
}

// addRun inserta directamente un run original (sin pasar por el caso de uso).
func (w *world) addRun(jobID, stageID, lotID string, qty int64, unit string) *entity.ProductionRun {
	r := &entity.ProductionRun{
		ID:      fmt.Sprintf("run-%d", len(w.runs.runs)+1),
		JobID:   jobID,
		StageID: stageID,
		QtyGood: decimal.NewFromInt(qty),
		Unit:    unit,
		LotID:   lotID,
	}
	_ = w.runs.Create(r)
	return r
}
