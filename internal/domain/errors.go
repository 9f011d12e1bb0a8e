package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrJobClosed         = errors.New("la orden está cerrada; no admite más actividad")
)

// ValidationError rechaza una operación antes de cualquier escritura,
// indicando la regla violada para que el caller pueda corregir los datos.
type ValidationError struct {
	Rule    string // ej. "stage_not_planned", "non_terminal_posting"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validación (%s): %s", e.Rule, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidation construye un ValidationError con mensaje formateado.
func NewValidation(rule, format string, args ...any) *ValidationError {
	return &ValidationError{Rule: rule, Message: fmt.Sprintf(format, args...)}
}

// ThresholdError indica que la producción de una etapa está fuera de la banda
// de tolerancia requerida para avanzar o cerrar. Incluye la banda y el total
// actual para que el caller decida reintentar, forzar o corregir datos.
type ThresholdError struct {
	StageID  string
	Produced decimal.Decimal
	Planned  decimal.Decimal
	Lower    decimal.Decimal
	Upper    decimal.Decimal
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf(
		"producción fuera de tolerancia en etapa %s: producido %s, planificado %s (banda %s–%s)",
		e.StageID, e.Produced, e.Planned, e.Lower, e.Upper,
	)
}

func (e *ThresholdError) Unwrap() error { return ErrConflict }

// InsufficientStockWarning es una advertencia blanda: el stock derivado no
// alcanza para el consumo calculado. No bloquea por defecto (el piso de planta
// va por delante del papeleo); el caller decide confirmar o corregir.
type InsufficientStockWarning struct {
	ItemID    string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (w *InsufficientStockWarning) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: requiere %s, disponible %s",
		w.ItemID, w.Required, w.Available)
}

func (w *InsufficientStockWarning) Unwrap() error { return ErrInsufficientStock }
