package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `id, number, client_id, quotation_id, status,
	subtotal, total_discount, taxable_a, tax_a, taxable_b, tax_b, total_tax, grand_total, rounded_amount,
	amount_paid, balance, stock_deducted, due_date, notes,
	created_by, confirmed_by, confirmed_at, cancelled_by, cancelled_at, cancel_reason,
	created_at, updated_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// GetByID/GetForUpdate devuelven el agregado completo: cabecera, líneas y pagos.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste cabecera y líneas.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Number, invoice.ClientID, nullIfEmpty(invoice.QuotationID), invoice.Status,
		invoice.Subtotal, invoice.TotalDiscount, invoice.TaxableA, invoice.TaxA, invoice.TaxableB,
		invoice.TaxB, invoice.TotalTax, invoice.GrandTotal, invoice.RoundedAmount,
		invoice.AmountPaid, invoice.Balance, invoice.StockDeducted, invoice.DueDate, invoice.Notes,
		invoice.CreatedBy, nullIfEmpty(invoice.ConfirmedBy), invoice.ConfirmedAt,
		nullIfEmpty(invoice.CancelledBy), invoice.CancelledAt, invoice.CancelReason,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number already exists: %w", err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return r.insertItems(invoice.ID, invoice.Items)
}

// Update actualiza cabecera: estado, totales, acumulados de pago y auditoría.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET status = $2,
		    subtotal = $3, total_discount = $4, taxable_a = $5, tax_a = $6,
		    taxable_b = $7, tax_b = $8, total_tax = $9, grand_total = $10, rounded_amount = $11,
		    amount_paid = $12, balance = $13, stock_deducted = $14, due_date = $15, notes = $16,
		    confirmed_by = $17, confirmed_at = $18, cancelled_by = $19, cancelled_at = $20, cancel_reason = $21,
		    updated_at = $22
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Status,
		invoice.Subtotal, invoice.TotalDiscount, invoice.TaxableA, invoice.TaxA,
		invoice.TaxableB, invoice.TaxB, invoice.TotalTax, invoice.GrandTotal, invoice.RoundedAmount,
		invoice.AmountPaid, invoice.Balance, invoice.StockDeducted, invoice.DueDate, invoice.Notes,
		nullIfEmpty(invoice.ConfirmedBy), invoice.ConfirmedAt,
		nullIfEmpty(invoice.CancelledBy), invoice.CancelledAt, invoice.CancelReason,
		invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// ReplaceItems reemplaza las líneas (solo legal en borradores; el caso de uso lo garantiza).
func (r *InvoiceRepo) ReplaceItems(invoiceID string, items []entity.DocumentItem) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM invoice_items WHERE document_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("clear invoice items: %w", err)
	}
	return r.insertItems(invoiceID, items)
}

// AddPayment agrega un abono (append-only).
func (r *InvoiceRepo) AddPayment(payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, document_type, document_id, amount, method, reference, recorded_by, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, payment.DocumentType, payment.DocumentID, payment.Amount,
		payment.Method, payment.Reference, payment.RecordedBy, payment.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID obtiene el agregado completo.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	return r.get(id, false)
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) para serializar transiciones.
func (r *InvoiceRepo) GetForUpdate(id string) (*entity.Invoice, error) {
	return r.get(id, true)
}

func (r *InvoiceRepo) get(id string, forUpdate bool) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil || inv == nil {
		return inv, err
	}
	if inv.Items, err = r.itemsByDocument(inv.ID); err != nil {
		return nil, err
	}
	if inv.Payments, err = paymentsByDocument(r.q, entity.DocTypeInvoice, inv.ID); err != nil {
		return nil, err
	}
	return inv, nil
}

// List lista facturas (solo cabeceras), opcionalmente por estado.
func (r *InvoiceRepo) List(status string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	args := []any{}
	if status != "" {
		args = append(args, status)
		query += ` WHERE status = $1`
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// Delete borra cabecera, líneas y pagos (solo borradores; el caso de uso lo garantiza).
func (r *InvoiceRepo) Delete(id string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM payments WHERE document_type = $1 AND document_id = $2`, entity.DocTypeInvoice, id); err != nil {
		return fmt.Errorf("delete invoice payments: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE document_id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) insertItems(invoiceID string, items []entity.DocumentItem) error {
	query := `
		INSERT INTO invoice_items (id, document_id, product_id, product_name, quantity, unit_price, discount, tax_code, tax_rate, subtotal, tax_amount, total_with_tax)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	for _, it := range items {
		_, err := r.q.Exec(context.Background(), query,
			it.ID, invoiceID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice,
			it.Discount, it.TaxCode, it.TaxRate, it.Subtotal, it.TaxAmount, it.TotalWithTax,
		)
		if err != nil {
			return fmt.Errorf("insert invoice item: %w", err)
		}
	}
	return nil
}

func (r *InvoiceRepo) itemsByDocument(invoiceID string) ([]entity.DocumentItem, error) {
	return documentItems(r.q, "invoice_items", invoiceID)
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var quotationID, confirmedBy, cancelledBy *string
	var dueDate, confirmedAt, cancelledAt *time.Time
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.ClientID, &quotationID, &inv.Status,
		&inv.Subtotal, &inv.TotalDiscount, &inv.TaxableA, &inv.TaxA, &inv.TaxableB,
		&inv.TaxB, &inv.TotalTax, &inv.GrandTotal, &inv.RoundedAmount,
		&inv.AmountPaid, &inv.Balance, &inv.StockDeducted, &dueDate, &inv.Notes,
		&inv.CreatedBy, &confirmedBy, &confirmedAt, &cancelledBy, &cancelledAt, &inv.CancelReason,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	inv.QuotationID = derefStr(quotationID)
	inv.ConfirmedBy = derefStr(confirmedBy)
	inv.CancelledBy = derefStr(cancelledBy)
	inv.DueDate = dueDate
	inv.ConfirmedAt = confirmedAt
	inv.CancelledAt = cancelledAt
	return &inv, nil
}

// documentItems carga líneas desde invoice_items o purchase_items (misma forma).
func documentItems(q Querier, table, documentID string) ([]entity.DocumentItem, error) {
	query := `
		SELECT id, document_id, product_id, product_name, quantity, unit_price, discount, tax_code, tax_rate, subtotal, tax_amount, total_with_tax
		FROM ` + table + ` WHERE document_id = $1 ORDER BY id`
	rows, err := q.Query(context.Background(), query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()
	var list []entity.DocumentItem
	for rows.Next() {
		var it entity.DocumentItem
		if err := rows.Scan(&it.ID, &it.DocumentID, &it.ProductID, &it.ProductName, &it.Quantity,
			&it.UnitPrice, &it.Discount, &it.TaxCode, &it.TaxRate, &it.Subtotal, &it.TaxAmount, &it.TotalWithTax); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// paymentsByDocument carga los abonos de un documento en orden cronológico.
func paymentsByDocument(q Querier, docType, documentID string) ([]entity.Payment, error) {
	query := `
		SELECT id, document_type, document_id, amount, method, reference, recorded_by, paid_at
		FROM payments WHERE document_type = $1 AND document_id = $2 ORDER BY paid_at, id`
	rows, err := q.Query(context.Background(), query, docType, documentID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var list []entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.DocumentType, &p.DocumentID, &p.Amount, &p.Method,
			&p.Reference, &p.RecordedBy, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
