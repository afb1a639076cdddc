package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/application/ports"
	"github.com/jhoicas/Comercial-api/internal/domain"
	domainbilling "github.com/jhoicas/Comercial-api/internal/domain/billing"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

// QuotationUseCase gobierna cotizaciones: draft -> sent -> approved/rejected y
// la conversión (única) a factura en borrador. Las cotizaciones nunca tocan
// stock, pagos ni saldos.
type QuotationUseCase struct {
	txRunner   ports.TxRunner
	quotations repository.QuotationRepository
}

// NewQuotationUseCase construye el caso de uso.
func NewQuotationUseCase(txRunner ports.TxRunner, quotations repository.QuotationRepository) *QuotationUseCase {
	return &QuotationUseCase{txRunner: txRunner, quotations: quotations}
}

// buildQuotationItems resuelve líneas de cotización: precio cero toma el precio
// de venta del producto, código de impuesto vacío toma el del producto. Se
// guarda el TaxCode pero el impuesto no se deriva hasta convertir.
func buildQuotationItems(products repository.ProductRepository, reqs []dto.DocumentItemRequest) ([]entity.QuotationItem, decimal.Decimal, decimal.Decimal, error) {
	if len(reqs) == 0 {
		return nil, decimal.Zero, decimal.Zero, domain.ErrInvalidInput
	}
	items := make([]entity.QuotationItem, 0, len(reqs))
	subtotal := decimal.Zero
	discount := decimal.Zero
	for _, r := range reqs {
		product, err := products.GetByID(r.ProductID)
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, err
		}
		if product == nil {
			return nil, decimal.Zero, decimal.Zero, domain.ErrNotFound
		}
		unitPrice := r.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = product.Price
		}
		taxCode := r.TaxCode
		if taxCode == "" {
			taxCode = product.TaxCode
		}
		if taxCode == "" {
			taxCode = domainbilling.TaxCodeNone
		}
		if !r.Quantity.GreaterThan(decimal.Zero) {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("%w: cantidad debe ser mayor que cero", domain.ErrInvalidInput)
		}
		if r.Discount.IsNegative() {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("%w: descuento negativo", domain.ErrInvalidInput)
		}
		lineSubtotal := unitPrice.Mul(r.Quantity)
		if r.Discount.GreaterThan(lineSubtotal) {
			return nil, decimal.Zero, decimal.Zero, fmt.Errorf("%w: descuento mayor al subtotal de la línea", domain.ErrInvalidInput)
		}
		item := entity.QuotationItem{
			ID:          uuid.New().String(),
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    r.Quantity,
			UnitPrice:   unitPrice,
			Discount:    r.Discount,
			TaxCode:     taxCode,
			Subtotal:    lineSubtotal,
			Total:       lineSubtotal.Sub(r.Discount),
		}
		items = append(items, item)
		subtotal = subtotal.Add(lineSubtotal)
		discount = discount.Add(r.Discount)
	}
	return items, subtotal, discount, nil
}

// Create crea una cotización en borrador.
func (uc *QuotationUseCase) Create(ctx context.Context, userID string, in dto.CreateQuotationRequest) (*entity.Quotation, error) {
	if in.ClientID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	var q *entity.Quotation
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		client, err := repos.Clients.GetByID(in.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.ErrNotFound
		}
		items, subtotal, discount, err := buildQuotationItems(repos.Products, in.Items)
		if err != nil {
			return err
		}
		seq, err := repos.Sequences.Next(entity.DocTypeQuotation)
		if err != nil {
			return err
		}
		now := time.Now()
		q = &entity.Quotation{
			ID:            uuid.New().String(),
			Number:        fmt.Sprintf("COT-%05d", seq),
			ClientID:      in.ClientID,
			Items:         items,
			Status:        entity.QuotationStatusDraft,
			Subtotal:      subtotal,
			TotalDiscount: discount,
			Total:         subtotal.Sub(discount),
			ValidUntil:    in.ValidUntil,
			Notes:         in.Notes,
			CreatedBy:     userID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		for i := range q.Items {
			q.Items[i].QuotationID = q.ID
		}
		return repos.Quotations.Create(q)
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

// Update edita una cotización en borrador.
func (uc *QuotationUseCase) Update(ctx context.Context, quotationID string, in dto.UpdateQuotationRequest) (*entity.Quotation, error) {
	var q *entity.Quotation
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		current, err := repos.Quotations.GetForUpdate(quotationID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if !current.IsEditable() {
			return &domain.InvalidStateError{Entity: "quotation", Current: current.Status, Attempted: "update"}
		}
		items, subtotal, discount, err := buildQuotationItems(repos.Products, in.Items)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].QuotationID = current.ID
		}
		current.Items = items
		current.Subtotal = subtotal
		current.TotalDiscount = discount
		current.Total = subtotal.Sub(discount)
		current.ValidUntil = in.ValidUntil
		current.Notes = in.Notes
		current.UpdatedAt = time.Now()
		if err := repos.Quotations.ReplaceItems(current.ID, items); err != nil {
			return err
		}
		if err := repos.Quotations.Update(current); err != nil {
			return err
		}
		q = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

// Send marca la cotización como enviada al cliente.
func (uc *QuotationUseCase) Send(ctx context.Context, quotationID string) (*entity.Quotation, error) {
	return uc.transition(ctx, quotationID, "send", func(q *entity.Quotation, now time.Time) error {
		if q.Status != entity.QuotationStatusDraft {
			return &domain.InvalidStateError{Entity: "quotation", Current: q.Status, Attempted: "send"}
		}
		q.Status = entity.QuotationStatusSent
		q.SentAt = &now
		return nil
	})
}

// Approve marca la cotización como aprobada por el cliente. Solo es legal
// desde sent: un borrador nunca enviado no se puede aprobar. Una cotización
// vencida se marca expired y se rechaza la aprobación.
func (uc *QuotationUseCase) Approve(ctx context.Context, quotationID, userID string) (*entity.Quotation, error) {
	return uc.transition(ctx, quotationID, "approve", func(q *entity.Quotation, now time.Time) error {
		if q.Status != entity.QuotationStatusSent {
			return &domain.InvalidStateError{Entity: "quotation", Current: q.Status, Attempted: "approve"}
		}
		if q.ValidUntil != nil && now.After(*q.ValidUntil) {
			q.Status = entity.QuotationStatusExpired
			return &domain.InvalidStateError{Entity: "quotation", Current: entity.QuotationStatusExpired, Attempted: "approve"}
		}
		q.Status = entity.QuotationStatusApproved
		q.ApprovedBy = userID
		q.ApprovedAt = &now
		return nil
	})
}

// Reject marca la cotización como rechazada.
func (uc *QuotationUseCase) Reject(ctx context.Context, quotationID string) (*entity.Quotation, error) {
	return uc.transition(ctx, quotationID, "reject", func(q *entity.Quotation, now time.Time) error {
		if q.Status != entity.QuotationStatusSent && q.Status != entity.QuotationStatusDraft {
			return &domain.InvalidStateError{Entity: "quotation", Current: q.Status, Attempted: "reject"}
		}
		q.Status = entity.QuotationStatusRejected
		return nil
	})
}

// Convert promueve la cotización a una factura en borrador, una única vez.
// Copia las líneas tal cual (precio y descuento congelados al cotizar, aunque
// el producto haya cambiado de precio) y deriva ahí los campos de impuesto.
// La factura nace en draft: no toca stock ni saldos hasta su confirmación.
func (uc *QuotationUseCase) Convert(ctx context.Context, quotationID, userID string, in dto.ConvertQuotationRequest) (*entity.Invoice, error) {
	var inv *entity.Invoice
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		q, err := repos.Quotations.GetForUpdate(quotationID)
		if err != nil {
			return err
		}
		if q == nil {
			return domain.ErrNotFound
		}
		if q.Status == entity.QuotationStatusConverted {
			return domain.ErrAlreadyConverted
		}
		if q.Status != entity.QuotationStatusApproved {
			return &domain.InvalidStateError{Entity: "quotation", Current: q.Status, Attempted: "convert"}
		}

		seq, err := repos.Sequences.Next(entity.DocTypeInvoice)
		if err != nil {
			return err
		}
		now := time.Now()
		invoiceID := uuid.New().String()
		items := make([]entity.DocumentItem, 0, len(q.Items))
		for _, qi := range q.Items {
			item := entity.DocumentItem{
				ID:          uuid.New().String(),
				DocumentID:  invoiceID,
				ProductID:   qi.ProductID,
				ProductName: qi.ProductName,
				Quantity:    qi.Quantity,
				UnitPrice:   qi.UnitPrice,
				Discount:    qi.Discount,
				TaxCode:     qi.TaxCode,
			}
			if err := domainbilling.ValidateItem(&item); err != nil {
				return err
			}
			domainbilling.ComputeItem(&item)
			items = append(items, item)
		}
		totals := domainbilling.ComputeTotals(items)
		inv = &entity.Invoice{
			ID:          invoiceID,
			Number:      fmt.Sprintf("FAC-%05d", seq),
			ClientID:    q.ClientID,
			QuotationID: q.ID,
			Items:       items,
			Status:      entity.DocStatusDraft,
			Totals:      totals,
			Balance:     totals.RoundedAmount,
			DueDate:     in.DueDate,
			Notes:       q.Notes,
			CreatedBy:   userID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := repos.Invoices.Create(inv); err != nil {
			return err
		}

		q.Status = entity.QuotationStatusConverted
		q.ConvertedToInvoiceID = inv.ID
		q.ConvertedAt = &now
		q.UpdatedAt = now
		return repos.Quotations.Update(q)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Delete borra una cotización, solo legal en borrador.
func (uc *QuotationUseCase) Delete(ctx context.Context, quotationID string) error {
	return uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		current, err := repos.Quotations.GetForUpdate(quotationID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if !current.IsEditable() {
			return &domain.InvalidStateError{Entity: "quotation", Current: current.Status, Attempted: "delete"}
		}
		return repos.Quotations.Delete(current.ID)
	})
}

// Get obtiene una cotización con líneas.
func (uc *QuotationUseCase) Get(ctx context.Context, quotationID string) (*entity.Quotation, error) {
	q, err := uc.quotations.GetByID(quotationID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	return q, nil
}

// List lista cotizaciones, opcionalmente por estado.
func (uc *QuotationUseCase) List(ctx context.Context, status string, limit, offset int) ([]*entity.Quotation, error) {
	return uc.quotations.List(status, limit, offset)
}

// transition aplica una transición simple de estado dentro de una tx. Si fn
// falla pero dejó la cotización en expired, el vencimiento se persiste de todos
// modos (la tx se confirma) y el error se devuelve al caller.
func (uc *QuotationUseCase) transition(ctx context.Context, quotationID, name string, fn func(*entity.Quotation, time.Time) error) (*entity.Quotation, error) {
	var q *entity.Quotation
	var transitionErr error
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		current, err := repos.Quotations.GetForUpdate(quotationID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		now := time.Now()
		before := current.Status
		transitionErr = fn(current, now)
		if transitionErr != nil {
			if current.Status == entity.QuotationStatusExpired && before != entity.QuotationStatusExpired {
				current.UpdatedAt = now
				return repos.Quotations.Update(current)
			}
			return transitionErr
		}
		current.UpdatedAt = now
		if err := repos.Quotations.Update(current); err != nil {
			return err
		}
		q = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	if transitionErr != nil {
		return nil, transitionErr
	}
	return q, nil
}
