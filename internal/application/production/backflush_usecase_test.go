package production_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/internal/application/production"
	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// backflushWorld arma una orden con BOM: 200 unidades planificadas que
// requieren 100 kg de papel y 50 kg de tinta.
func backflushWorld() (*world, *entity.Job) {
	w := newWorld()
	w.addItem("fg", "pcs")
	w.addItem("papel", "kg")
	w.addItem("tinta", "kg")
	wf := w.addWorkflow("wf", entity.Stage{ID: "st", Name: "impresión", InputUnit: "pcs", OutputUnit: "pcs"})
	job := w.addJob("job", wf,
		entity.OutputSpec{ItemID: "fg", PlannedQty: decimal.NewFromInt(200), Unit: "pcs"},
		entity.Packaging{},
		entity.BOMLine{ItemID: "papel", Unit: "kg", QtyRequired: decimal.NewFromInt(100)},
		entity.BOMLine{ItemID: "tinta", Unit: "kg", QtyRequired: decimal.NewFromInt(50)},
	)
	return w, job
}

// Publicar la mitad de la salida planificada consume la mitad de cada línea:
// 100/200 × 100 kg = 50 kg de papel, 100/200 × 50 kg = 25 kg de tinta.
func TestComputeDraws_Proporcional(t *testing.T) {
	_, job := backflushWorld()

	lines, err := production.ComputeDraws(job, decimal.NewFromInt(100))
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "papel", lines[0].ItemID)
	assert.True(t, lines[0].Draw.Equal(decimal.NewFromInt(50)), "draw papel = %s", lines[0].Draw)
	assert.Equal(t, "kg", lines[0].Unit)

	assert.Equal(t, "tinta", lines[1].ItemID)
	assert.True(t, lines[1].Draw.Equal(decimal.NewFromInt(25)), "draw tinta = %s", lines[1].Draw)
}

func TestComputeDraws_SinPlanFalla(t *testing.T) {
	_, job := backflushWorld()
	job.Output.PlannedQty = decimal.Zero

	_, err := production.ComputeDraws(job, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Preview marca insuficiencia sin escribir nada en el libro.
func TestPreview_MarcaInsuficienteSinEscribir(t *testing.T) {
	w, _ := backflushWorld()
	w.seedStock("papel", decimal.NewFromInt(30)) // menos que los 50 requeridos
	w.seedStock("tinta", decimal.NewFromInt(200))

	lines, err := w.backflush.Preview(context.Background(), testCompany, "job", decimal.NewFromInt(100))
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.True(t, lines[0].Insufficient, "papel con 30 kg no cubre los 50 requeridos")
	assert.True(t, lines[0].OnHand.Equal(decimal.NewFromInt(30)))
	assert.False(t, lines[1].Insufficient)

	cons, _ := w.cons.ListByJob("job")
	assert.Empty(t, cons, "preview no debe registrar consumos")
	assert.Len(t, w.stock.txs, 2, "preview no debe tocar el libro (solo las 2 semillas)")
}

// La ejecución registra consumo etiquetado como backflush más una salida
// negativa del libro por línea, y actualiza el consumido de la BOM.
func TestExecuteInTx_RegistraConsumoYSalida(t *testing.T) {
	w, job := backflushWorld()
	w.seedStock("papel", decimal.NewFromInt(500))
	w.seedStock("tinta", decimal.NewFromInt(500))

	lines, warns, err := w.backflush.ExecuteInTx(
		w.stock, w.items, w.cons, w.jobs,
		job, decimal.NewFromInt(100), time.Now(), testUser, false,
	)
	require.NoError(t, err)
	assert.Empty(t, warns)
	require.Len(t, lines, 2)

	cons, _ := w.cons.ListByJob("job")
	require.Len(t, cons, 2)
	assert.True(t, cons[0].IsBackflush())
	assert.False(t, cons[0].Approved, "sin override el consumo queda sin aprobar")

	// Libro: 2 semillas + 2 salidas negativas.
	require.Len(t, w.stock.txs, 4)
	salida := w.stock.txs[2]
	assert.Equal(t, entity.TxTypeSHIP, salida.Type)
	assert.True(t, salida.Quantity.Equal(decimal.NewFromInt(-50)), "salida papel = %s", salida.Quantity)

	onHand, _ := w.stock.SumByItem("papel")
	assert.True(t, onHand.Equal(decimal.NewFromInt(450)))

	papel := job.BOMLineFor("papel")
	assert.True(t, papel.QtyConsumed.Equal(decimal.NewFromInt(50)))

	// La caché advisory quedó alineada con la suma.
	it, _ := w.items.GetByID("papel")
	assert.True(t, it.QtyOnHand.Equal(decimal.NewFromInt(450)))
}

// Stock insuficiente no bloquea: se consume igual (el stock queda negativo)
// y se devuelve la advertencia.
func TestExecuteInTx_InsuficienciaEsAdvertenciaBlanda(t *testing.T) {
	w, job := backflushWorld()
	w.seedStock("papel", decimal.NewFromInt(10))
	w.seedStock("tinta", decimal.NewFromInt(500))

	lines, warns, err := w.backflush.ExecuteInTx(
		w.stock, w.items, w.cons, w.jobs,
		job, decimal.NewFromInt(100), time.Now(), testUser, false,
	)
	require.NoError(t, err, "la insuficiencia no debe bloquear el backflush")
	require.Len(t, warns, 1)
	assert.True(t, lines[0].Insufficient)

	onHand, _ := w.stock.SumByItem("papel")
	assert.True(t, onHand.Equal(decimal.NewFromInt(-40)), "el libro registra el consumo aunque quede negativo")
}

// Superar lo requerido de una línea sí es error duro, salvo override.
func TestExecuteInTx_SobreconsumoExigeOverride(t *testing.T) {
	w, job := backflushWorld()
	w.seedStock("papel", decimal.NewFromInt(500))
	w.seedStock("tinta", decimal.NewFromInt(500))
	job.BOM[0].QtyConsumed = decimal.NewFromInt(80) // ya se consumió 80 de 100

	// 100 publicadas piden 50 más de papel: 130 > 100 requerido.
	_, _, err := w.backflush.ExecuteInTx(
		w.stock, w.items, w.cons, w.jobs,
		job, decimal.NewFromInt(100), time.Now(), testUser, false,
	)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	cons, _ := w.cons.ListByJob("job")
	assert.Empty(t, cons, "el rechazo debe ocurrir antes de registrar nada")

	// Con override pasa y el consumo queda aprobado.
	lines, _, err := w.backflush.ExecuteInTx(
		w.stock, w.items, w.cons, w.jobs,
		job, decimal.NewFromInt(100), time.Now(), testUser, true,
	)
	require.NoError(t, err)
	require.NotEmpty(t, lines)

	cons, _ = w.cons.ListByJob("job")
	require.NotEmpty(t, cons)
	assert.True(t, cons[0].Approved)
}
