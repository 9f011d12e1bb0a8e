// Package uom implementa la conversión de unidades de medida entre etapas
// de producción (servicio de dominio puro, sin I/O).
package uom

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Rounding modo de redondeo al convertir de unidad base a unidad agrupada.
type Rounding int

const (
	// RoundExact división exacta: para calcular cantidades de piezas.
	RoundExact Rounding = iota
	// RoundCeil techo: para calcular contenedores requeridos
	// (nunca sub-reportar cajas necesarias).
	RoundCeil
)

// Class agrupa alias equivalentes de una unidad. Grouped distingue la unidad
// agrupada (cajas, cartones) de la unidad base (piezas, hojas): el number-up
// de la orden relaciona una con la otra.
type Class struct {
	Name    string
	Grouped bool
	Aliases []string
}

// DefaultClasses clases de sinónimos observadas en planta. La tabla real se
// arma desde configuración (pkg/config); estos son los valores por defecto.
func DefaultClasses() []Class {
	return []Class{
		{
			Name:    "piece",
			Grouped: false,
			Aliases: []string{"pcs", "pieces", "units", "ea", "sheet", "sheets", "unidad", "unidades", "hoja", "hojas"},
		},
		{
			Name:    "group",
			Grouped: true,
			Aliases: []string{"box", "boxes", "carton", "cartons", "outer", "caja", "cajas"},
		},
	}
}

// ClassesFromAliases construye las clases con alias configurados para la
// unidad base y la agrupada. Una lista vacía conserva los valores por defecto
// de esa clase, así la configuración puede redefinir solo una de las dos.
func ClassesFromAliases(piece, group []string) []Class {
	classes := DefaultClasses()
	for i := range classes {
		if classes[i].Grouped {
			if len(group) > 0 {
				classes[i].Aliases = group
			}
		} else if len(piece) > 0 {
			classes[i].Aliases = piece
		}
	}
	return classes
}

type classInfo struct {
	name    string
	grouped bool
}

// Table tabla de sinónimos de unidades. Insensible a mayúsculas y espacios.
type Table struct {
	byAlias map[string]classInfo
}

// NewTable construye la tabla a partir de las clases configuradas.
func NewTable(classes []Class) *Table {
	t := &Table{byAlias: make(map[string]classInfo)}
	for _, c := range classes {
		info := classInfo{name: c.Name, grouped: c.Grouped}
		for _, a := range c.Aliases {
			t.byAlias[canon(a)] = info
		}
	}
	return t
}

// Default tabla con las clases por defecto.
func Default() *Table {
	return NewTable(DefaultClasses())
}

func canon(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}

// Same indica si dos nombres de unidad pertenecen a la misma clase
// (o son idénticos tras normalizar).
func (t *Table) Same(a, b string) bool {
	ca, cb := canon(a), canon(b)
	if ca == cb {
		return true
	}
	ia, oka := t.byAlias[ca]
	ib, okb := t.byAlias[cb]
	return oka && okb && ia.name == ib.name
}

// Result resultado de una conversión. Converted=false señala un pass-through
// sin conversión conocida: el caller debe tratarlo como advertencia, no como
// corrección silenciosa.
type Result struct {
	Qty       decimal.Decimal
	Converted bool
}

// Convert convierte qty de una unidad a otra usando el number-up de la orden.
//   - Misma clase: identidad.
//   - Base → agrupada (ej. hojas → cajas): divide por numberUp; con RoundCeil
//     aplica techo para nunca sub-reportar contenedores requeridos.
//   - Agrupada → base: multiplica por numberUp.
//   - Unidades sin relación conocida o numberUp <= 0: identidad con
//     Converted=false.
func (t *Table) Convert(qty decimal.Decimal, from, to string, numberUp int64, r Rounding) Result {
	if t.Same(from, to) {
		return Result{Qty: qty, Converted: true}
	}
	if numberUp <= 0 {
		return Result{Qty: qty, Converted: false}
	}
	fi, okFrom := t.byAlias[canon(from)]
	ti, okTo := t.byAlias[canon(to)]
	if !okFrom || !okTo || fi.grouped == ti.grouped {
		return Result{Qty: qty, Converted: false}
	}
	n := decimal.NewFromInt(numberUp)
	if !fi.grouped && ti.grouped {
		out := qty.Div(n)
		if r == RoundCeil {
			out = out.Ceil()
		}
		return Result{Qty: out, Converted: true}
	}
	return Result{Qty: qty.Mul(n), Converted: true}
}
