package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice representa una factura de venta a un cliente.
// Balance se recalcula siempre como RoundedAmount - AmountPaid; StockDeducted
// marca que el efecto de stock (salidas por venta) ya se disparó exactamente una vez.
type Invoice struct {
	ID           string
	Number       string // consecutivo FAC-00001
	ClientID     string
	QuotationID  string // vacío si no proviene de una cotización
	Items        []DocumentItem
	Status       string // draft, confirmed, partial, paid, cancelled
	Totals
	AmountPaid    decimal.Decimal
	Balance       decimal.Decimal
	Payments      []Payment
	StockDeducted bool
	DueDate       *time.Time
	Notes         string
	CreatedBy     string
	ConfirmedBy   string
	ConfirmedAt   *time.Time
	CancelledBy   string
	CancelledAt   *time.Time
	CancelReason  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsEditable indica si el documento admite edición o borrado (solo borradores).
func (i *Invoice) IsEditable() bool { return i.Status == DocStatusDraft }
