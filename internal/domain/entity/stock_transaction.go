package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de stock.
const (
	TxTypeRECEIVE   = "RECEIVE"    // entrada de producto terminado o compra
	TxTypeSHIP      = "SHIP"       // salida / despacho / consumo
	TxTypeTRANSFER  = "TRANSFER"   // traslado
	TxTypeADJUSTIn  = "ADJUST_IN"  // ajuste positivo
	TxTypeADJUSTOut = "ADJUST_OUT" // ajuste negativo
)

// StockTransaction es un registro inmutable del libro de stock (append-only).
// Las correcciones se registran como transacciones nuevas; no hay update ni delete.
// Quantity es con signo: positivo aumenta existencias, negativo las reduce.
type StockTransaction struct {
	ID        string
	CompanyID string
	ItemID    string
	Type      string // RECEIVE, SHIP, TRANSFER, ADJUST_IN, ADJUST_OUT
	Quantity  decimal.Decimal
	Reference string // orden de producción, nota de ajuste, etc.
	RequestID string // token de idempotencia del caller (opcional, único si presente)
	Notes     string
	Date      time.Time
	CreatedAt time.Time
	CreatedBy string // UserID
}

// ValidTxType indica si el tipo de transacción es uno de los soportados.
func ValidTxType(t string) bool {
	switch t {
	case TxTypeRECEIVE, TxTypeSHIP, TxTypeTRANSFER, TxTypeADJUSTIn, TxTypeADJUSTOut:
		return true
	}
	return false
}
