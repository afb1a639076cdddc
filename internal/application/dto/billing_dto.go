package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// DocumentItemRequest línea de un documento comercial. Los totales que envíe
// el caller se descartan: siempre se recalculan en el servidor.
type DocumentItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"` // 0 = usar precio/costo del producto
	Discount  decimal.Decimal `json:"discount"`
	TaxCode   string          `json:"tax_code"` // vacío = código por defecto del producto
}

// CreateInvoiceRequest crea una factura en borrador.
type CreateInvoiceRequest struct {
	ClientID string                `json:"client_id"`
	Items    []DocumentItemRequest `json:"items"`
	DueDate  *time.Time            `json:"due_date,omitempty"`
	Notes    string                `json:"notes,omitempty"`
}

// UpdateInvoiceRequest edita una factura en borrador (fuerza recálculo completo).
type UpdateInvoiceRequest struct {
	Items   []DocumentItemRequest `json:"items"`
	DueDate *time.Time            `json:"due_date,omitempty"`
	Notes   string                `json:"notes,omitempty"`
}

// CreatePurchaseRequest crea una compra en borrador.
type CreatePurchaseRequest struct {
	SupplierID string                `json:"supplier_id"`
	Items      []DocumentItemRequest `json:"items"`
	Notes      string                `json:"notes,omitempty"`
}

// UpdatePurchaseRequest edita una compra en borrador.
type UpdatePurchaseRequest struct {
	Items []DocumentItemRequest `json:"items"`
	Notes string                `json:"notes,omitempty"`
}

// RecordPaymentRequest registra un abono sobre un documento.
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"` // cash, card, transfer, cheque
	Reference string          `json:"reference,omitempty"`
}

// CancelRequest anula un documento con motivo.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// CreateQuotationRequest crea una cotización en borrador.
type CreateQuotationRequest struct {
	ClientID   string                `json:"client_id"`
	Items      []DocumentItemRequest `json:"items"`
	ValidUntil *time.Time            `json:"valid_until,omitempty"`
	Notes      string                `json:"notes,omitempty"`
}

// UpdateQuotationRequest edita una cotización en borrador.
type UpdateQuotationRequest struct {
	Items      []DocumentItemRequest `json:"items"`
	ValidUntil *time.Time            `json:"valid_until,omitempty"`
	Notes      string                `json:"notes,omitempty"`
}

// ConvertQuotationRequest promueve una cotización aprobada a factura en borrador.
type ConvertQuotationRequest struct {
	DueDate *time.Time `json:"due_date,omitempty"`
}

// ── Respuestas ────────────────────────────────────────────────────────────────

// DocumentItemResponse línea con campos derivados.
type DocumentItemResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Discount     decimal.Decimal `json:"discount"`
	TaxCode      string          `json:"tax_code"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	TotalWithTax decimal.Decimal `json:"total_with_tax"`
}

// PaymentResponse abono registrado.
type PaymentResponse struct {
	ID         string          `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Reference  string          `json:"reference,omitempty"`
	RecordedBy string          `json:"recorded_by"`
	PaidAt     time.Time       `json:"paid_at"`
}

// TotalsResponse montos derivados del documento.
type TotalsResponse struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	TaxableA      decimal.Decimal `json:"taxable_a"`
	TaxA          decimal.Decimal `json:"tax_a"`
	TaxableB      decimal.Decimal `json:"taxable_b"`
	TaxB          decimal.Decimal `json:"tax_b"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	RoundedAmount decimal.Decimal `json:"rounded_amount"`
}

// InvoiceResponse factura completa.
type InvoiceResponse struct {
	ID            string                 `json:"id"`
	Number        string                 `json:"number"`
	ClientID      string                 `json:"client_id"`
	QuotationID   string                 `json:"quotation_id,omitempty"`
	Status        string                 `json:"status"`
	Items         []DocumentItemResponse `json:"items"`
	Totals        TotalsResponse         `json:"totals"`
	AmountPaid    decimal.Decimal        `json:"amount_paid"`
	Balance       decimal.Decimal        `json:"balance"`
	Payments      []PaymentResponse      `json:"payments"`
	StockDeducted bool                   `json:"stock_deducted"`
	DueDate       *time.Time             `json:"due_date,omitempty"`
	Notes         string                 `json:"notes,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// PurchaseResponse compra completa.
type PurchaseResponse struct {
	ID         string                 `json:"id"`
	Number     string                 `json:"number"`
	SupplierID string                 `json:"supplier_id"`
	Status     string                 `json:"status"`
	Items      []DocumentItemResponse `json:"items"`
	Totals     TotalsResponse         `json:"totals"`
	AmountPaid decimal.Decimal        `json:"amount_paid"`
	Balance    decimal.Decimal        `json:"balance"`
	Payments   []PaymentResponse      `json:"payments"`
	StockAdded bool                   `json:"stock_added"`
	Notes      string                 `json:"notes,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// QuotationItemResponse línea de cotización.
type QuotationItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	TaxCode     string          `json:"tax_code"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Total       decimal.Decimal `json:"total"`
}

// QuotationResponse cotización completa.
type QuotationResponse struct {
	ID                   string                  `json:"id"`
	Number               string                  `json:"number"`
	ClientID             string                  `json:"client_id"`
	Status               string                  `json:"status"`
	Items                []QuotationItemResponse `json:"items"`
	Subtotal             decimal.Decimal         `json:"subtotal"`
	TotalDiscount        decimal.Decimal         `json:"total_discount"`
	Total                decimal.Decimal         `json:"total"`
	ValidUntil           *time.Time              `json:"valid_until,omitempty"`
	ConvertedToInvoiceID string                  `json:"converted_to_invoice_id,omitempty"`
	Notes                string                  `json:"notes,omitempty"`
	CreatedAt            time.Time               `json:"created_at"`
}

// ── Mapeos entidad -> DTO ─────────────────────────────────────────────────────

func toItemResponses(items []entity.DocumentItem) []DocumentItemResponse {
	out := make([]DocumentItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, DocumentItemResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			Discount:     it.Discount,
			TaxCode:      it.TaxCode,
			TaxRate:      it.TaxRate,
			Subtotal:     it.Subtotal,
			TaxAmount:    it.TaxAmount,
			TotalWithTax: it.TotalWithTax,
		})
	}
	return out
}

func toPaymentResponses(payments []entity.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, PaymentResponse{
			ID:         p.ID,
			Amount:     p.Amount,
			Method:     p.Method,
			Reference:  p.Reference,
			RecordedBy: p.RecordedBy,
			PaidAt:     p.PaidAt,
		})
	}
	return out
}

func toTotalsResponse(t entity.Totals) TotalsResponse {
	return TotalsResponse{
		Subtotal:      t.Subtotal,
		TotalDiscount: t.TotalDiscount,
		TaxableA:      t.TaxableA,
		TaxA:          t.TaxA,
		TaxableB:      t.TaxableB,
		TaxB:          t.TaxB,
		TotalTax:      t.TotalTax,
		GrandTotal:    t.GrandTotal,
		RoundedAmount: t.RoundedAmount,
	}
}

// ToInvoiceResponse mapea la factura al DTO de salida.
func ToInvoiceResponse(inv *entity.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		ID:            inv.ID,
		Number:        inv.Number,
		ClientID:      inv.ClientID,
		QuotationID:   inv.QuotationID,
		Status:        inv.Status,
		Items:         toItemResponses(inv.Items),
		Totals:        toTotalsResponse(inv.Totals),
		AmountPaid:    inv.AmountPaid,
		Balance:       inv.Balance,
		Payments:      toPaymentResponses(inv.Payments),
		StockDeducted: inv.StockDeducted,
		DueDate:       inv.DueDate,
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt,
	}
}

// ToPurchaseResponse mapea la compra al DTO de salida.
func ToPurchaseResponse(p *entity.Purchase) *PurchaseResponse {
	return &PurchaseResponse{
		ID:         p.ID,
		Number:     p.Number,
		SupplierID: p.SupplierID,
		Status:     p.Status,
		Items:      toItemResponses(p.Items),
		Totals:     toTotalsResponse(p.Totals),
		AmountPaid: p.AmountPaid,
		Balance:    p.Balance,
		Payments:   toPaymentResponses(p.Payments),
		StockAdded: p.StockAdded,
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt,
	}
}

// ToQuotationResponse mapea la cotización al DTO de salida.
func ToQuotationResponse(q *entity.Quotation) *QuotationResponse {
	items := make([]QuotationItemResponse, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, QuotationItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			TaxCode:     it.TaxCode,
			Subtotal:    it.Subtotal,
			Total:       it.Total,
		})
	}
	return &QuotationResponse{
		ID:                   q.ID,
		Number:               q.Number,
		ClientID:             q.ClientID,
		Status:               q.Status,
		Items:                items,
		Subtotal:             q.Subtotal,
		TotalDiscount:        q.TotalDiscount,
		Total:                q.Total,
		ValidUntil:           q.ValidUntil,
		ConvertedToInvoiceID: q.ConvertedToInvoiceID,
		Notes:                q.Notes,
		CreatedAt:            q.CreatedAt,
	}
}
