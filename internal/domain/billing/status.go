package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// DeriveStatus calcula el estado de pago de un documento como función pura de
// (AmountPaid, RoundedAmount). forwardStatus es el estado "hacia adelante" del
// documento sin pagos: confirmed para facturas, received para compras.
//   - AmountPaid >= RoundedAmount (y monto > 0)  -> paid
//   - 0 < AmountPaid < RoundedAmount             -> partial
//   - AmountPaid == 0                            -> forwardStatus
func DeriveStatus(forwardStatus string, amountPaid, roundedAmount decimal.Decimal) string {
	if roundedAmount.GreaterThan(decimal.Zero) && amountPaid.GreaterThanOrEqual(roundedAmount) {
		return entity.DocStatusPaid
	}
	if amountPaid.GreaterThan(decimal.Zero) {
		return entity.DocStatusPartial
	}
	return forwardStatus
}
