package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase representa una compra a un proveedor (simétrica a Invoice).
// StockAdded marca que el efecto de stock (entradas por compra, con recálculo
// de costo promedio) ya se disparó exactamente una vez.
type Purchase struct {
	ID         string
	Number     string // consecutivo COM-00001
	SupplierID string
	Items      []DocumentItem
	Status     string // draft, received, partial, paid, cancelled
	Totals
	AmountPaid   decimal.Decimal
	Balance      decimal.Decimal
	Payments     []Payment
	StockAdded   bool
	Notes        string
	CreatedBy    string
	ReceivedBy   string
	ReceivedAt   *time.Time
	CancelledBy  string
	CancelledAt  *time.Time
	CancelReason string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsEditable indica si el documento admite edición o borrado (solo borradores).
func (p *Purchase) IsEditable() bool { return p.Status == DocStatusDraft }
