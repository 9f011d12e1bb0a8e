package production_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

func TestRecordRun_GuardaEnUnidadDeSalida(t *testing.T) {
	w := newWorld()
	w.addItem("fg", "caja")
	wf := w.addWorkflow("wf", entity.Stage{ID: "pack", Name: "empaque", InputUnit: "hoja", OutputUnit: "caja"})
	w.addJob("job", wf,
		entity.OutputSpec{ItemID: "fg", PlannedQty: decimal.NewFromInt(10), Unit: "caja"},
		entity.Packaging{NumberUp: 24},
	)

	// El operario reporta en hojas; se almacena en la unidad de salida de la
	// etapa: 240 hojas con 24 por caja son 10 cajas.
	run, err := w.runUC.RecordRun(context.Background(), production.RecordRunInput{
		CompanyID: testCompany,
		UserID:    testUser,
		JobID:     "job",
		StageID:   "pack",
		QtyGood:   decimal.NewFromInt(240),
		Unit:      "hoja",
		LotID:     "L1",
	})
	require.NoError(t, err)

	assert.Equal(t, "caja", run.Unit)
	assert.True(t, run.QtyGood.Equal(decimal.NewFromInt(10)), "qty = %s", run.QtyGood)
	assert.True(t, run.IsOriginal())
}

func TestRecordRun_SinUnidadUsaLaDeEtapa(t *testing.T) {
	w := newWorld()
	job := w.singleStageJob("job", 100)

	run, err := w.runUC.RecordRun(context.Background(), production.RecordRunInput{
		CompanyID: testCompany,
		UserID:    testUser,
		JobID:     "job",
		StageID:   job.CurrentStage,
		QtyGood:   decimal.NewFromInt(40),
		QtyScrap:  decimal.NewFromInt(2),
	})
	require.NoError(t, err)
	assert.Equal(t, "pcs", run.Unit)
	assert.True(t, run.QtyScrap.Equal(decimal.NewFromInt(2)))
}

func TestRecordRun_SoloEtapaActual(t *testing.T) {
	w := newWorld()
	w.addItem("fg", "pcs")
	wf := w.addWorkflow("wf",
		entity.Stage{ID: "a", Name: "corte", InputUnit: "pcs", OutputUnit: "pcs"},
		entity.Stage{ID: "b", Name: "armado", InputUnit: "pcs", OutputUnit: "pcs"},
	)
	w.addJob("job", wf,
		entity.OutputSpec{ItemID: "fg", PlannedQty: decimal.NewFromInt(100), Unit: "pcs"},
		entity.Packaging{},
	)

	_, err := w.runUC.RecordRun(context.Background(), production.RecordRunInput{
		CompanyID: testCompany,
		UserID:    testUser,
		JobID:     "job",
		StageID:   "b", // la orden está parada en a
		QtyGood:   decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordRun_CantidadesInvalidas(t *testing.T) {
	w := newWorld()
	job := w.singleStageJob("job", 100)

	_, err := w.runUC.RecordRun(context.Background(), production.RecordRunInput{
		CompanyID: testCompany,
		JobID:     "job",
		StageID:   job.CurrentStage,
		QtyGood:   decimal.NewFromInt(-5),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = w.runUC.RecordRun(context.Background(), production.RecordRunInput{
		CompanyID: testCompany,
		JobID:     "job",
		StageID:   job.CurrentStage,
		QtyGood:   decimal.Zero,
		QtyScrap:  decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordRun_OrdenCerradaRechaza(t *testing.T) {
	w := newWorld()
	job := w.singleStageJob("job", 100)
	job.Status = entity.JobStatusDone

	_, err := w.runUC.RecordRun(context.Background(), production.RecordRunInput{
		CompanyID: testCompany,
		JobID:     "job",
		StageID:   job.CurrentStage,
		QtyGood:   decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrJobClosed)
}
