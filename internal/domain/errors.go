package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists     = errors.New("el email ya está registrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrInvalidState           = errors.New("transición de estado no permitida")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrPaymentExceedsBalance  = errors.New("el pago excede el saldo pendiente")
	ErrAlreadyConverted       = errors.New("la cotización ya fue convertida a factura")
	ErrCannotCancelPaid       = errors.New("no se puede anular un documento pagado")
	ErrConcurrentModification = errors.New("modificación concurrente, reintente")
)

// InsufficientStockError lleva el disponible y el requerido para que el caller
// pueda construir un mensaje preciso. errors.Is(err, ErrInsufficientStock) == true.
type InsufficientStockError struct {
	ProductID string
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s: disponible %s, requerido %s",
		e.ProductID, e.Available.String(), e.Required.String())
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// InvalidStateError lleva el estado actual y la operación intentada.
type InvalidStateError struct {
	Entity    string // invoice, purchase, quotation
	Current   string
	Attempted string // confirm, pay, cancel, update, ...
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s en estado %q: operación %q no permitida", e.Entity, e.Current, e.Attempted)
}

func (e *InvalidStateError) Is(target error) bool { return target == ErrInvalidState }

// PaymentExceedsBalanceError lleva el saldo actual y el monto intentado.
type PaymentExceedsBalanceError struct {
	DocumentID string
	Balance    decimal.Decimal
	Amount     decimal.Decimal
}

func (e *PaymentExceedsBalanceError) Error() string {
	return fmt.Sprintf("pago de %s excede el saldo %s del documento %s",
		e.Amount.String(), e.Balance.String(), e.DocumentID)
}

func (e *PaymentExceedsBalanceError) Is(target error) bool {
	return target == ErrPaymentExceedsBalance
}
