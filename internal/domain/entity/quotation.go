package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de cotización. converted es terminal: una vez fijado
// ConvertedToInvoiceID la cotización queda inmutable.
const (
	QuotationStatusDraft     = "draft"
	QuotationStatusSent      = "sent"
	QuotationStatusApproved  = "approved"
	QuotationStatusRejected  = "rejected"
	QuotationStatusConverted = "converted"
	QuotationStatusExpired   = "expired"
)

// QuotationItem es una línea de cotización: misma forma que DocumentItem pero
// sin campos derivados de buckets de impuesto (se derivan recién al convertir).
type QuotationItem struct {
	ID          string
	QuotationID string
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	TaxCode     string // se copia tal cual a la factura al convertir
	Subtotal    decimal.Decimal
	Total       decimal.Decimal // Subtotal - Discount
}

// Quotation representa una cotización a un cliente. No toca stock ni pagos:
// solo puede promoverse (una única vez) a una factura en borrador.
type Quotation struct {
	ID                   string
	Number               string // consecutivo COT-00001
	ClientID             string
	Items                []QuotationItem
	Status               string
	Subtotal             decimal.Decimal
	TotalDiscount        decimal.Decimal
	Total                decimal.Decimal
	ValidUntil           *time.Time
	Notes                string
	CreatedBy            string
	SentAt               *time.Time
	ApprovedBy           string
	ApprovedAt           *time.Time
	ConvertedToInvoiceID string
	ConvertedAt          *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsEditable indica si la cotización admite edición o borrado (solo borradores).
func (q *Quotation) IsEditable() bool { return q.Status == QuotationStatusDraft }
