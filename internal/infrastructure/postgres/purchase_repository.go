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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, number, supplier_id, status,
	subtotal, total_discount, taxable_a, tax_a, taxable_b, tax_b, total_tax, grand_total, rounded_amount,
	amount_paid, balance, stock_added, notes,
	created_by, received_by, received_at, cancelled_by, cancelled_at, cancel_reason,
	created_at, updated_at`

// PurchaseRepo implementación de PurchaseRepository (usable con pool o tx).
// Espejo de InvoiceRepo sobre purchases/purchase_items.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste cabecera y líneas.
func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	query := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.Number, purchase.SupplierID, purchase.Status,
		purchase.Subtotal, purchase.TotalDiscount, purchase.TaxableA, purchase.TaxA,
		purchase.TaxableB, purchase.TaxB, purchase.TotalTax, purchase.GrandTotal, purchase.RoundedAmount,
		purchase.AmountPaid, purchase.Balance, purchase.StockAdded, purchase.Notes,
		purchase.CreatedBy, nullIfEmpty(purchase.ReceivedBy), purchase.ReceivedAt,
		nullIfEmpty(purchase.CancelledBy), purchase.CancelledAt, purchase.CancelReason,
		purchase.CreatedAt, purchase.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("purchase number already exists: %w", err)
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return r.insertItems(purchase.ID, purchase.Items)
}

// Update actualiza cabecera: estado, totales, acumulados de pago y auditoría.
func (r *PurchaseRepo) Update(purchase *entity.Purchase) error {
	query := `
		UPDATE purchases
		SET status = $2,
		    subtotal = $3, total_discount = $4, taxable_a = $5, tax_a = $6,
		    taxable_b = $7, tax_b = $8, total_tax = $9, grand_total = $10, rounded_amount = $11,
		    amount_paid = $12, balance = $13, stock_added = $14, notes = $15,
		    received_by = $16, received_at = $17, cancelled_by = $18, cancelled_at = $19, cancel_reason = $20,
		    updated_at = $21
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.Status,
		purchase.Subtotal, purchase.TotalDiscount, purchase.TaxableA, purchase.TaxA,
		purchase.TaxableB, purchase.TaxB, purchase.TotalTax, purchase.GrandTotal, purchase.RoundedAmount,
		purchase.AmountPaid, purchase.Balance, purchase.StockAdded, purchase.Notes,
		nullIfEmpty(purchase.ReceivedBy), purchase.ReceivedAt,
		nullIfEmpty(purchase.CancelledBy), purchase.CancelledAt, purchase.CancelReason,
		purchase.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	return nil
}

// ReplaceItems reemplaza las líneas (solo legal en borradores; el caso de uso lo garantiza).
func (r *PurchaseRepo) ReplaceItems(purchaseID string, items []entity.DocumentItem) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM purchase_items WHERE document_id = $1`, purchaseID); err != nil {
		return fmt.Errorf("clear purchase items: %w", err)
	}
	return r.insertItems(purchaseID, items)
}

// AddPayment agrega un abono (append-only).
func (r *PurchaseRepo) AddPayment(payment *entity.Payment) error {
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
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	return r.get(id, false)
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) para serializar transiciones.
func (r *PurchaseRepo) GetForUpdate(id string) (*entity.Purchase, error) {
	return r.get(id, true)
}

func (r *PurchaseRepo) get(id string, forUpdate bool) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	pur, err := scanPurchase(r.q.QueryRow(context.Background(), query, id))
	if err != nil || pur == nil {
		return pur, err
	}
	if pur.Items, err = documentItems(r.q, "purchase_items", pur.ID); err != nil {
		return nil, err
	}
	if pur.Payments, err = paymentsByDocument(r.q, entity.DocTypePurchase, pur.ID); err != nil {
		return nil, err
	}
	return pur, nil
}

// List lista compras (solo cabeceras), opcionalmente por estado.
func (r *PurchaseRepo) List(status string, limit, offset int) ([]*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases`
	args := []any{}
	if status != "" {
		args = append(args, status)
		query += ` WHERE status = $1`
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		pur, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, pur)
	}
	return list, rows.Err()
}

// Delete borra cabecera, líneas y pagos (solo borradores; el caso de uso lo garantiza).
func (r *PurchaseRepo) Delete(id string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM payments WHERE document_type = $1 AND document_id = $2`, entity.DocTypePurchase, id); err != nil {
		return fmt.Errorf("delete purchase payments: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_items WHERE document_id = $1`, id); err != nil {
		return fmt.Errorf("delete purchase items: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	return nil
}

func (r *PurchaseRepo) insertItems(purchaseID string, items []entity.DocumentItem) error {
	query := `
		INSERT INTO purchase_items (id, document_id, product_id, product_name, quantity, unit_price, discount, tax_code, tax_rate, subtotal, tax_amount, total_with_tax)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	for _, it := range items {
		_, err := r.q.Exec(context.Background(), query,
			it.ID, purchaseID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice,
			it.Discount, it.TaxCode, it.TaxRate, it.Subtotal, it.TaxAmount, it.TotalWithTax,
		)
		if err != nil {
			return fmt.Errorf("insert purchase item: %w", err)
		}
	}
	return nil
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var pur entity.Purchase
	var receivedBy, cancelledBy *string
	var receivedAt, cancelledAt *time.Time
	err := row.Scan(
		&pur.ID, &pur.Number, &pur.SupplierID, &pur.Status,
		&pur.Subtotal, &pur.TotalDiscount, &pur.TaxableA, &pur.TaxA,
		&pur.TaxableB, &pur.TaxB, &pur.TotalTax, &pur.GrandTotal, &pur.RoundedAmount,
		&pur.AmountPaid, &pur.Balance, &pur.StockAdded, &pur.Notes,
		&pur.CreatedBy, &receivedBy, &receivedAt, &cancelledBy, &cancelledAt, &pur.CancelReason,
		&pur.CreatedAt, &pur.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan purchase: %w", err)
	}
	pur.ReceivedBy = derefStr(receivedBy)
	pur.CancelledBy = derefStr(cancelledBy)
	pur.ReceivedAt = receivedAt
	pur.CancelledAt = cancelledAt
	return &pur, nil
}
