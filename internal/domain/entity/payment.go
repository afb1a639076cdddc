package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
	PaymentMethodCheque   = "cheque"
)

// Payment es un abono parcial sobre un documento comercial. Append-only:
// AmountPaid del documento es la suma de sus pagos y nunca supera RoundedAmount.
type Payment struct {
	ID           string
	DocumentType string // invoice | purchase
	DocumentID   string
	Amount       decimal.Decimal // > 0
	Method       string
	Reference    string // número de transferencia, voucher, etc.
	RecordedBy   string // UserID
	PaidAt       time.Time
}

// ValidPaymentMethod valida el método de pago.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodCheque:
		return true
	}
	return false
}
