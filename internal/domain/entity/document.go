package entity

import "github.com/shopspring/decimal"

// Estados del ciclo de vida de documentos comerciales (Invoice y Purchase).
// draft -> confirmed (factura) | received (compra) -> partial -> paid.
// cancelled es alcanzable desde cualquier estado no pagado y es terminal.
const (
	DocStatusDraft     = "draft"
	DocStatusConfirmed = "confirmed"
	DocStatusReceived  = "received"
	DocStatusPartial   = "partial"
	DocStatusPaid      = "paid"
	DocStatusCancelled = "cancelled"
)

// DocumentItem es una línea de un documento comercial (factura o compra).
// Los campos derivados (Subtotal, TaxAmount, TotalWithTax) se recalculan en cada
// create/update del documento; nunca se aceptan del caller.
type DocumentItem struct {
	ID           string
	DocumentID   string
	ProductID    string
	ProductName  string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal // precio de venta (factura) o costo unitario (compra)
	Discount     decimal.Decimal // descuento absoluto por línea, >= 0
	TaxCode      string          // A, B o NONE
	TaxRate      decimal.Decimal // derivado del código
	Subtotal     decimal.Decimal // Quantity * UnitPrice
	TaxAmount    decimal.Decimal // (Subtotal - Discount) * TaxRate / 100
	TotalWithTax decimal.Decimal
}

// Totals agrupa los montos derivados de un documento. Se recalculan siempre
// desde las líneas; RoundedAmount es GrandTotal redondeado a 2 decimales.
type Totals struct {
	Subtotal      decimal.Decimal
	TotalDiscount decimal.Decimal
	TaxableA      decimal.Decimal // base gravable bucket A
	TaxA          decimal.Decimal
	TaxableB      decimal.Decimal // base gravable bucket B
	TaxB          decimal.Decimal
	TotalTax      decimal.Decimal
	GrandTotal    decimal.Decimal
	RoundedAmount decimal.Decimal
}
