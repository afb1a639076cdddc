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

var _ repository.QuotationRepository = (*QuotationRepo)(nil)

const quotationColumns = `id, number, client_id, status, subtotal, total_discount, total,
	valid_until, notes, created_by, sent_at, approved_by, approved_at,
	converted_to_invoice_id, converted_at, created_at, updated_at`

// QuotationRepo implementación de QuotationRepository (usable con pool o tx).
type QuotationRepo struct {
	q Querier
}

// NewQuotationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuotationRepository(q Querier) *QuotationRepo {
	return &QuotationRepo{q: q}
}

// Create persiste cabecera y líneas.
func (r *QuotationRepo) Create(quotation *entity.Quotation) error {
	query := `
		INSERT INTO quotations (` + quotationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		quotation.ID, quotation.Number, quotation.ClientID, quotation.Status,
		quotation.Subtotal, quotation.TotalDiscount, quotation.Total,
		quotation.ValidUntil, quotation.Notes, quotation.CreatedBy, quotation.SentAt,
		nullIfEmpty(quotation.ApprovedBy), quotation.ApprovedAt,
		nullIfEmpty(quotation.ConvertedToInvoiceID), quotation.ConvertedAt,
		quotation.CreatedAt, quotation.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("quotation number already exists: %w", err)
		}
		return fmt.Errorf("insert quotation: %w", err)
	}
	return r.insertItems(quotation.ID, quotation.Items)
}

// Update actualiza cabecera: estado, totales y auditoría.
func (r *QuotationRepo) Update(quotation *entity.Quotation) error {
	query := `
		UPDATE quotations
		SET status = $2, subtotal = $3, total_discount = $4, total = $5,
		    valid_until = $6, notes = $7, sent_at = $8, approved_by = $9, approved_at = $10,
		    converted_to_invoice_id = $11, converted_at = $12, updated_at = $13
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		quotation.ID, quotation.Status, quotation.Subtotal, quotation.TotalDiscount, quotation.Total,
		quotation.ValidUntil, quotation.Notes, quotation.SentAt,
		nullIfEmpty(quotation.ApprovedBy), quotation.ApprovedAt,
		nullIfEmpty(quotation.ConvertedToInvoiceID), quotation.ConvertedAt,
		quotation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update quotation: %w", err)
	}
	return nil
}

// ReplaceItems reemplaza las líneas (solo legal en borradores; el caso de uso lo garantiza).
func (r *QuotationRepo) ReplaceItems(quotationID string, items []entity.QuotationItem) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM quotation_items WHERE quotation_id = $1`, quotationID); err != nil {
		return fmt.Errorf("clear quotation items: %w", err)
	}
	return r.insertItems(quotationID, items)
}

// GetByID obtiene el agregado completo.
func (r *QuotationRepo) GetByID(id string) (*entity.Quotation, error) {
	return r.get(id, false)
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE); serializa la conversión única.
func (r *QuotationRepo) GetForUpdate(id string) (*entity.Quotation, error) {
	return r.get(id, true)
}

func (r *QuotationRepo) get(id string, forUpdate bool) (*entity.Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	q, err := scanQuotation(r.q.QueryRow(context.Background(), query, id))
	if err != nil || q == nil {
		return q, err
	}
	if q.Items, err = r.itemsByQuotation(q.ID); err != nil {
		return nil, err
	}
	return q, nil
}

// List lista cotizaciones (solo cabeceras), opcionalmente por estado.
func (r *QuotationRepo) List(status string, limit, offset int) ([]*entity.Quotation, error) {
	query := `SELECT ` + quotationColumns + ` FROM quotations`
	args := []any{}
	if status != "" {
		args = append(args, status)
		query += ` WHERE status = $1`
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// Delete borra cabecera y líneas (solo borradores; el caso de uso lo garantiza).
func (r *QuotationRepo) Delete(id string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM quotation_items WHERE quotation_id = $1`, id); err != nil {
		return fmt.Errorf("delete quotation items: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM quotations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete quotation: %w", err)
	}
	return nil
}

func (r *QuotationRepo) insertItems(quotationID string, items []entity.QuotationItem) error {
	query := `
		INSERT INTO quotation_items (id, quotation_id, product_id, product_name, quantity, unit_price, discount, tax_code, subtotal, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for _, it := range items {
		_, err := r.q.Exec(context.Background(), query,
			it.ID, quotationID, it.ProductID, it.ProductName, it.Quantity,
			it.UnitPrice, it.Discount, it.TaxCode, it.Subtotal, it.Total,
		)
		if err != nil {
			return fmt.Errorf("insert quotation item: %w", err)
		}
	}
	return nil
}

func (r *QuotationRepo) itemsByQuotation(quotationID string) ([]entity.QuotationItem, error) {
	query := `
		SELECT id, quotation_id, product_id, product_name, quantity, unit_price, discount, tax_code, subtotal, total
		FROM quotation_items WHERE quotation_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, quotationID)
	if err != nil {
		return nil, fmt.Errorf("list quotation items: %w", err)
	}
	defer rows.Close()
	var list []entity.QuotationItem
	for rows.Next() {
		var it entity.QuotationItem
		if err := rows.Scan(&it.ID, &it.QuotationID, &it.ProductID, &it.ProductName, &it.Quantity,
			&it.UnitPrice, &it.Discount, &it.TaxCode, &it.Subtotal, &it.Total); err != nil {
			return nil, fmt.Errorf("scan quotation item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func scanQuotation(row pgx.Row) (*entity.Quotation, error) {
	var q entity.Quotation
	var approvedBy, convertedToInvoiceID *string
	var validUntil, sentAt, approvedAt, convertedAt *time.Time
	err := row.Scan(
		&q.ID, &q.Number, &q.ClientID, &q.Status, &q.Subtotal, &q.TotalDiscount, &q.Total,
		&validUntil, &q.Notes, &q.CreatedBy, &sentAt, &approvedBy, &approvedAt,
		&convertedToInvoiceID, &convertedAt, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan quotation: %w", err)
	}
	q.ApprovedBy = derefStr(approvedBy)
	q.ConvertedToInvoiceID = derefStr(convertedToInvoiceID)
	q.ValidUntil = validUntil
	q.SentAt = sentAt
	q.ApprovedAt = approvedAt
	q.ConvertedAt = convertedAt
	return &q, nil
}
