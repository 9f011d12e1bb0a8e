package production_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los repositorios, para probar los casos de uso sin BD.
// Replican el contrato observable de los repos Postgres: GetByID con nil en
// "no existe", ErrDuplicate para RequestID repetido, y ListUntransferred con
// la misma regla (runs originales aún no usados como fuente de un traslado).
// ──────────────────────────────────────────────────────────────────────────────

type fakeItemRepo struct {
	items map[string]*entity.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[string]*entity.Item)}
}

func (f *fakeItemRepo) Create(item *entity.Item) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeItemRepo) GetByID(id string) (*entity.Item, error) {
	return f.items[id], nil
}

func (f *fakeItemRepo) GetBySKU(companyID, sku string) (*entity.Item, error) {
	for _, it := range f.items {
		if it.CompanyID == companyID && it.SKU == sku {
			return it, nil
		}
	}
	return nil, nil
}

func (f *fakeItemRepo) List(companyID string, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range f.items {
		if it.CompanyID == companyID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeItemRepo) UpdateQtyOnHand(itemID string, qty decimal.Decimal) error {
	if it, ok := f.items[itemID]; ok {
		it.QtyOnHand = qty
	}
	return nil
}

func (f *fakeItemRepo) ListBelowReorder(companyID string) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, it := range f.items {
		if it.CompanyID == companyID && it.QtyOnHand.LessThanOrEqual(it.ReorderPoint) {
			out = append(out, it)
		}
	}
	return out, nil
}

type fakeStockTxRepo struct {
	txs []*entity.StockTransaction
}

func (f *fakeStockTxRepo) Create(tx *entity.StockTransaction) error {
	if tx.RequestID != "" {
		for _, prev := range f.txs {
			if prev.RequestID == tx.RequestID {
				return domain.ErrDuplicate
			}
		}
	}
	f.txs = append(f.txs, tx)
	return nil
}

func (f *fakeStockTxRepo) SumByItem(itemID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, tx := range f.txs {
		if tx.ItemID == itemID {
			sum = sum.Add(tx.Quantity)
		}
	}
	return sum, nil
}

func (f *fakeStockTxRepo) ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error) {
	var out []*entity.StockTransaction
	for _, tx := range f.txs {
		if tx.ItemID == itemID {
			out = append(out, tx)
		}
	}
	return out, nil
}

type fakeJobRepo struct {
	jobs map[string]*entity.Job
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]*entity.Job)}
}

func (f *fakeJobRepo) Create(job *entity.Job) error {
	f.jobs[job.ID] = job
	return nil
}

func (f *fakeJobRepo) GetByID(id string) (*entity.Job, error) {
	return f.jobs[id], nil
}

func (f *fakeJobRepo) List(companyID, status string, limit, offset int) ([]*entity.Job, error) {
	var out []*entity.Job
	for _, j := range f.jobs {
		if j.CompanyID == companyID && (status == "" || j.Status == status) {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeJobRepo) UpdateStatus(jobID, status string) error {
	if j, ok := f.jobs[jobID]; ok {
		j.Status = status
	}
	return nil
}

func (f *fakeJobRepo) UpdateCurrentStage(jobID, stageID, status string) error {
	if j, ok := f.jobs[jobID]; ok {
		j.CurrentStage = stageID
		j.Status = status
	}
	return nil
}

func (f *fakeJobRepo) UpdateBOMConsumed(jobID, itemID string, qtyConsumed decimal.Decimal) error {
	j, ok := f.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	line := j.BOMLineFor(itemID)
	if line == nil {
		return domain.ErrNotFound
	}
	line.QtyConsumed = qtyConsumed
	return nil
}

type fakeWorkflowRepo struct {
	wfs    map[string]*entity.Workflow
	stages map[string]*entity.Stage
}

func newFakeWorkflowRepo() *fakeWorkflowRepo {
	return &fakeWorkflowRepo{
		wfs:    make(map[string]*entity.Workflow),
		stages: make(map[string]*entity.Stage),
	}
}

func (f *fakeWorkflowRepo) Create(wf *entity.Workflow) error {
	f.wfs[wf.ID] = wf
	for i := range wf.Stages {
		f.stages[wf.Stages[i].ID] = &wf.Stages[i]
	}
	return nil
}

func (f *fakeWorkflowRepo) GetByID(id string) (*entity.Workflow, error) {
	return f.wfs[id], nil
}

func (f *fakeWorkflowRepo) GetStage(stageID string) (*entity.Stage, error) {
	return f.stages[stageID], nil
}

func (f *fakeWorkflowRepo) ListStages(workflowID string) ([]*entity.Stage, error) {
	wf, ok := f.wfs[workflowID]
	if !ok {
		return nil, nil
	}
	out := make([]*entity.Stage, 0, len(wf.Stages))
	for i := range wf.Stages {
		out = append(out, &wf.Stages[i])
	}
	return out, nil
}

type fakeRunRepo struct {
	runs []*entity.ProductionRun
}

func (f *fakeRunRepo) Create(run *entity.ProductionRun) error {
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRunRepo) ListByJobStage(jobID, stageID string) ([]*entity.ProductionRun, error) {
	var out []*entity.ProductionRun
	for _, r := range f.runs {
		if r.JobID == jobID && (stageID == "" || r.StageID == stageID) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRunRepo) ListUntransferred(jobID, stageID string) ([]*entity.ProductionRun, error) {
	used := make(map[string]bool)
	for _, r := range f.runs {
		for _, src := range r.SourceRunIDs {
			used[src] = true
		}
	}
	var out []*entity.ProductionRun
	for _, r := range f.runs {
		if r.JobID == jobID && r.StageID == stageID && r.IsOriginal() && !used[r.ID] {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeConsumptionRepo struct {
	cons []*entity.Consumption
}

func (f *fakeConsumptionRepo) Create(c *entity.Consumption) error {
	f.cons = append(f.cons, c)
	return nil
}

func (f *fakeConsumptionRepo) ListByJob(jobID string) ([]*entity.Consumption, error) {
	var out []*entity.Consumption
	for _, c := range f.cons {
		if c.JobID == jobID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConsumptionRepo) SumByJobItem(jobID, itemID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, c := range f.cons {
		if c.JobID == jobID && c.ItemID == itemID {
			sum = sum.Add(c.Quantity)
		}
	}
	return sum, nil
}

// fakeTxRunner ejecuta la función con los mismos fakes, sin transacción real.
type fakeTxRunner struct {
	stockTxRepo *fakeStockTxRepo
	itemRepo    *fakeItemRepo
	runRepo     *fakeRunRepo
	consRepo    *fakeConsumptionRepo
	jobRepo     *fakeJobRepo
}

func (f *fakeTxRunner) RunProduction(ctx context.Context, fn func(
	stockTxRepo repository.StockTransactionRepository,
	itemRepo repository.ItemRepository,
	runRepo repository.ProductionRunRepository,
	consRepo repository.ConsumptionRepository,
	jobRepo repository.JobRepository,
) error) error {
	return fn(f.stockTxRepo, f.itemRepo, f.runRepo, f.consRepo, f.jobRepo)
}
