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

// postWorld arma una orden de dos etapas parada en la terminal, con BOM,
// lista para publicar: salida planificada de 10 cajas (24 hojas por caja).
func postWorld() (*world, *entity.Job) {
	w := newWorld()
	w.addItem("fg", "caja")
	w.addItem("papel", "kg")
	w.seedStock("papel", decimal.NewFromInt(500))
	wf := w.addWorkflow("wf",
		entity.Stage{ID: "print", Name: "impresión", InputUnit: "hoja", OutputUnit: "hoja"},
		entity.Stage{ID: "pack", Name: "empaque", InputUnit: "hoja", OutputUnit: "caja"},
	)
	job := w.addJob("job", wf,
		entity.OutputSpec{ItemID: "fg", PlannedQty: decimal.NewFromInt(10), Unit: "caja"},
		entity.Packaging{NumberUp: 24},
		entity.BOMLine{ItemID: "papel", Unit: "kg", QtyRequired: decimal.NewFromInt(100)},
	)
	job.CurrentStage = "pack"
	job.Status = entity.JobStatusInProgress
	return w, job
}

// Publicar desde la etapa terminal registra una entrada RECEIVE en el libro
// del producto terminado y refresca la caché advisory.
func TestPostOutput_RegistraEntradaEnLibro(t *testing.T) {
	w, job := postWorld()

	res, err := w.post.PostOutput(context.Background(), testCompany, "job", "pack",
		decimal.NewFromInt(10), production.PostOptions{UserID: testUser})
	require.NoError(t, err)

	assert.True(t, res.Posted.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "caja", res.Unit)
	assert.False(t, res.Completed)

	// La última transacción es la entrada del producto terminado.
	last := w.stock.txs[len(w.stock.txs)-1]
	assert.Equal(t, entity.TxTypeRECEIVE, last.Type)
	assert.Equal(t, "fg", last.ItemID)
	assert.True(t, last.Quantity.Equal(decimal.NewFromInt(10)))
	assert.Contains(t, last.Reference, job.Code)

	it, _ := w.items.GetByID("fg")
	assert.True(t, it.QtyOnHand.Equal(decimal.NewFromInt(10)), "la caché debe refrescarse en la misma operación")
}

// Las etapas intermedias nunca publican al libro.
func TestPostOutput_SoloEtapaTerminal(t *testing.T) {
	w, _ := postWorld()

	_, err := w.post.PostOutput(context.Background(), testCompany, "job", "print",
		decimal.NewFromInt(240), production.PostOptions{UserID: testUser})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, w.stock.txs, 1, "ninguna escritura: solo la semilla de papel")
}

// Un RequestID repetido no duplica la publicación.
func TestPostOutput_RequestIDIdempotente(t *testing.T) {
	w, _ := postWorld()
	opts := production.PostOptions{UserID: testUser, RequestID: "req-123"}

	_, err := w.post.PostOutput(context.Background(), testCompany, "job", "pack", decimal.NewFromInt(5), opts)
	require.NoError(t, err)

	_, err = w.post.PostOutput(context.Background(), testCompany, "job", "pack", decimal.NewFromInt(5), opts)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	onHand, _ := w.stock.SumByItem("fg")
	assert.True(t, onHand.Equal(decimal.NewFromInt(5)), "el reintento no debe sumar de nuevo")
}

// autoConsume dispara el backflush proporcional dentro de la misma operación:
// 5 de 10 cajas planificadas consumen la mitad de los 100 kg de papel.
func TestPostOutput_AutoConsume(t *testing.T) {
	w, job := postWorld()

	res, err := w.post.PostOutput(context.Background(), testCompany, "job", "pack",
		decimal.NewFromInt(5), production.PostOptions{UserID: testUser, AutoConsume: true})
	require.NoError(t, err)

	require.Len(t, res.Backflush, 1)
	assert.True(t, res.Backflush[0].Draw.Equal(decimal.NewFromInt(50)), "draw = %s", res.Backflush[0].Draw)

	papel := job.BOMLineFor("papel")
	assert.True(t, papel.QtyConsumed.Equal(decimal.NewFromInt(50)))

	onHand, _ := w.stock.SumByItem("papel")
	assert.True(t, onHand.Equal(decimal.NewFromInt(450)))

	cons, _ := w.cons.ListByJob("job")
	require.Len(t, cons, 1)
	assert.True(t, cons[0].IsBackflush())
}

// completeJob dentro de banda publica y cierra en una sola operación.
func TestPostOutput_PublicaYCierra(t *testing.T) {
	w, job := postWorld()
	w.addRun("job", "print", "L1", 240, "hoja")

	// pack: plan derivado 10 cajas, banda [0, 510] con los defaults → completa.
	res, err := w.post.PostOutput(context.Background(), testCompany, "job", "pack",
		decimal.NewFromInt(10), production.PostOptions{UserID: testUser, CompleteJob: true})
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Equal(t, entity.JobStatusDone, job.Status)

	// Una publicación posterior sobre la orden cerrada se rechaza.
	_, err = w.post.PostOutput(context.Background(), testCompany, "job", "pack",
		decimal.NewFromInt(1), production.PostOptions{UserID: testUser})
	assert.ErrorIs(t, err, domain.ErrJobClosed)
}

// Con umbrales que sí muerden, el cierre fuera de banda se rechaza íntegro.
func TestPostOutput_CierreFueraDeBanda(t *testing.T) {
	w := newWorld()
	job := w.singleStageJob("job", 1000)
	stage := job.PlannedStages[0]
	job.Status = entity.JobStatusInProgress
	w.addRun("job", stage, "L1", 100, "pcs") // muy por debajo de 600

	txsBefore := len(w.stock.txs)
	_, err := w.post.PostOutput(context.Background(), testCompany, "job", stage,
		decimal.NewFromInt(100), production.PostOptions{UserID: testUser, CompleteJob: true})

	var thresholdErr *domain.ThresholdError
	require.ErrorAs(t, err, &thresholdErr)
	assert.Len(t, w.stock.txs, txsBefore, "el rechazo del cierre no debe dejar escrituras")
	assert.Equal(t, entity.JobStatusInProgress, job.Status)
}

// CompleteJob sin publicación: exige etapa terminal y banda satisfecha.
func TestCompleteJob_SoloEnTerminalConBanda(t *testing.T) {
	w := newWorld()
	w.addItem("fg", "pcs")
	wf := w.addWorkflow("wf",
		entity.Stage{ID: "a", Name: "corte", InputUnit: "pcs", OutputUnit: "pcs"},
		entity.Stage{ID: "b", Name: "empaque", InputUnit: "pcs", OutputUnit: "pcs"},
	)
	job := w.addJob("job", wf,
		entity.OutputSpec{ItemID: "fg", PlannedQty: decimal.NewFromInt(1000), Unit: "pcs"},
		entity.Packaging{},
	)

	// Aún en la primera etapa: no se puede cerrar.
	err := w.post.CompleteJob(context.Background(), testCompany, "job", testUser)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// En la terminal pero fuera de banda: tampoco.
	w.addRun("job", "a", "L1", 1000, "pcs")
	require.NoError(t, w.transition.MoveToStage(context.Background(), testCompany, "job", "b", production.MoveOptions{UserID: testUser}))
	// El traslado dejó 1000 recibidas en b (plan derivado 1000): banda completa.
	require.NoError(t, w.post.CompleteJob(context.Background(), testCompany, "job", testUser))
	assert.Equal(t, entity.JobStatusDone, job.Status)

	// Cerrar dos veces no es válido.
	err = w.post.CompleteJob(context.Background(), testCompany, "job", testUser)
	assert.ErrorIs(t, err, domain.ErrJobClosed)
}

func TestPostOutput_CantidadInvalida(t *testing.T) {
	w, _ := postWorld()
	_, err := w.post.PostOutput(context.Background(), testCompany, "job", "pack",
		decimal.Zero, production.PostOptions{UserID: testUser})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
