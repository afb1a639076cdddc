package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/application/dto"
	appinventory "github.com/jhoicas/Comercial-api/internal/application/inventory"
	"github.com/jhoicas/Comercial-api/internal/application/ports"
	"github.com/jhoicas/Comercial-api/internal/domain"
	domainbilling "github.com/jhoicas/Comercial-api/internal/domain/billing"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

// InvoiceUseCase gobierna el ciclo de vida de facturas: borrador, confirmación,
// abonos y anulación. Toda transición corre en una sola transacción junto con
// sus efectos de stock (vía el motor de inventario) y de saldo del cliente:
// o se aplica completa, o no se aplica.
type InvoiceUseCase struct {
	txRunner ports.TxRunner
	invoices repository.InvoiceRepository
	clients  repository.ClientRepository
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner ports.TxRunner,
	invoices repository.InvoiceRepository,
	clients repository.ClientRepository,
) *InvoiceUseCase {
	return &InvoiceUseCase{txRunner: txRunner, invoices: invoices, clients: clients}
}

// Create crea una factura en borrador: resuelve líneas contra productos,
// recalcula totales y toma el consecutivo de forma atómica. No toca stock.
func (uc *InvoiceUseCase) Create(ctx context.Context, userID string, in dto.CreateInvoiceRequest) (*entity.Invoice, error) {
	if in.ClientID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	var inv *entity.Invoice
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		client, err := repos.Clients.GetByID(in.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.ErrNotFound
		}
		items, err := buildDocumentItems(repos.Products, in.Items, false)
		if err != nil {
			return err
		}
		seq, err := repos.Sequences.Next(entity.DocTypeInvoice)
		if err != nil {
			return err
		}
		now := time.Now()
		totals := domainbilling.ComputeTotals(items)
		inv = &entity.Invoice{
			ID:        uuid.New().String(),
			Number:    fmt.Sprintf("FAC-%05d", seq),
			ClientID:  in.ClientID,
			Items:     items,
			Status:    entity.DocStatusDraft,
			Totals:    totals,
			Balance:   totals.RoundedAmount,
			DueDate:   in.DueDate,
			Notes:     in.Notes,
			CreatedBy: userID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		for i := range inv.Items {
			inv.Items[i].DocumentID = inv.ID
		}
		return repos.Invoices.Create(inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Update edita una factura en borrador: reemplaza líneas y fuerza recálculo
// completo de totales. Ilegal fuera de draft.
func (uc *InvoiceUseCase) Update(ctx context.Context, invoiceID string, in dto.UpdateInvoiceRequest) (*entity.Invoice, error) {
	var inv *entity.Invoice
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		current, err := repos.Invoices.GetForUpdate(invoiceID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if !current.IsEditable() {
			return &domain.InvalidStateError{Entity: "invoice", Current: current.Status, Attempted: "update"}
		}
		items, err := buildDocumentItems(repos.Products, in.Items, false)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].DocumentID = current.ID
		}
		current.Items = items
		current.Totals = domainbilling.ComputeTotals(items)
		current.Balance = current.RoundedAmount.Sub(current.AmountPaid)
		current.DueDate = in.DueDate
		current.Notes = in.Notes
		current.UpdatedAt = time.Now()
		if err := repos.Invoices.ReplaceItems(current.ID, items); err != nil {
			return err
		}
		if err := repos.Invoices.Update(current); err != nil {
			return err
		}
		inv = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Confirm transiciona draft -> confirmed: descuenta stock (una salida por
// línea, razón sale), marca StockDeducted, promueve la cotización de origen si
// existe y carga el total al saldo del cliente. Todo en la misma transacción.
func (uc *InvoiceUseCase) Confirm(ctx context.Context, invoiceID, userID string) (*entity.Invoice, error) {
	var inv *entity.Invoice
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		current, err := repos.Invoices.GetForUpdate(invoiceID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if current.Status != entity.DocStatusDraft {
			return &domain.InvalidStateError{Entity: "invoice", Current: current.Status, Attempted: "confirm"}
		}
		now := time.Now()
		if err := deductInvoiceStock(repos, current, userID, now); err != nil {
			return err
		}
		current.Status = entity.DocStatusConfirmed
		current.ConfirmedBy = userID
		current.ConfirmedAt = &now
		current.UpdatedAt = now

		if err := promoteSourceQuotation(repos, current, now); err != nil {
			return err
		}
		if err := chargeClient(repos, current.ClientID, current.RoundedAmount); err != nil {
			return err
		}
		if err := repos.Invoices.Update(current); err != nil {
			return err
		}
		inv = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// RecordPayment registra un abono. Un pago sobre un borrador dispara la
// auto-confirmación (mismo efecto de stock que Confirm, exactamente una vez);
// a diferencia de las compras, aquí aplica con cualquier método de pago.
// Recalcular Balance y Status tras cada pago es obligatorio.
func (uc *InvoiceUseCase) RecordPayment(ctx context.Context, invoiceID, userID string, in dto.RecordPaymentRequest) (*entity.Invoice, error) {
	if !validPaymentAmount(in.Amount) {
		return nil, fmt.Errorf("%w: monto debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if !entity.ValidPaymentMethod(in.Method) {
		return nil, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, in.Method)
	}

	var inv *entity.Invoice
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		current, err := repos.Invoices.GetForUpdate(invoiceID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if current.Status == entity.DocStatusCancelled {
			return &domain.InvalidStateError{Entity: "invoice", Current: current.Status, Attempted: "pay"}
		}
		if in.Amount.GreaterThan(current.Balance) {
			return &domain.PaymentExceedsBalanceError{
				DocumentID: current.ID,
				Balance:    current.Balance,
				Amount:     in.Amount,
			}
		}

		now := time.Now()
		justConfirmed := false
		if current.Status == entity.DocStatusDraft && !current.StockDeducted {
			// Auto-confirmación: el primer abono sobre un borrador implica la venta.
			if err := deductInvoiceStock(repos, current, userID, now); err != nil {
				return err
			}
			current.ConfirmedBy = userID
			current.ConfirmedAt = &now
			if err := promoteSourceQuotation(repos, current, now); err != nil {
				return err
			}
			justConfirmed = true
		}

		payment := &entity.Payment{
			ID:           uuid.New().String(),
			DocumentType: entity.DocTypeInvoice,
			DocumentID:   current.ID,
			Amount:       in.Amount,
			Method:       in.Method,
			Reference:    in.Reference,
			RecordedBy:   userID,
			PaidAt:       now,
		}
		if err := repos.Invoices.AddPayment(payment); err != nil {
			return err
		}
		current.Payments = append(current.Payments, *payment)
		current.AmountPaid = current.AmountPaid.Add(in.Amount)
		current.Balance = current.RoundedAmount.Sub(current.AmountPaid)
		current.Status = domainbilling.DeriveStatus(entity.DocStatusConfirmed, current.AmountPaid, current.RoundedAmount)
		current.UpdatedAt = now

		client, err := repos.Clients.GetForUpdate(current.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.ErrNotFound
		}
		if justConfirmed {
			client.ApplyCharge(current.RoundedAmount)
		}
		client.SettlePayment(in.Amount)
		if err := repos.Clients.UpdateBalance(client.ID, client.OutstandingBalance); err != nil {
			return err
		}
		if err := repos.Invoices.Update(current); err != nil {
			return err
		}
		inv = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Cancel anula la factura. Ilegal sobre documentos pagados; terminal. Si el
// stock ya se descontó emite un movimiento compensatorio (entrada, razón
// return) por línea, y libera del saldo del cliente el remanente no pagado.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, invoiceID, userID, reason string) (*entity.Invoice, error) {
	var inv *entity.Invoice
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		current, err := repos.Invoices.GetForUpdate(invoiceID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if current.Status == entity.DocStatusPaid {
			return domain.ErrCannotCancelPaid
		}
		if current.Status == entity.DocStatusCancelled {
			return &domain.InvalidStateError{Entity: "invoice", Current: current.Status, Attempted: "cancel"}
		}

		now := time.Now()
		if current.StockDeducted {
			for _, item := range current.Items {
				_, err := appinventory.ApplyMovementInTx(repos, appinventory.MovementInput{
					ProductID:     item.ProductID,
					Type:          entity.MovementTypeIN,
					Reason:        entity.ReasonReturn,
					Quantity:      item.Quantity,
					ReferenceType: entity.DocTypeInvoice,
					ReferenceID:   current.ID,
					Notes:         "anulación " + current.Number,
					PerformedBy:   userID,
				}, now)
				if err != nil {
					return err
				}
			}
			// Efecto neto de stock revertido.
			current.StockDeducted = false
		}

		client, err := repos.Clients.GetForUpdate(current.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.ErrNotFound
		}
		client.ReleaseUnpaid(current.RoundedAmount, current.AmountPaid)
		if err := repos.Clients.UpdateBalance(client.ID, client.OutstandingBalance); err != nil {
			return err
		}

		current.Status = entity.DocStatusCancelled
		current.CancelledBy = userID
		current.CancelledAt = &now
		current.CancelReason = reason
		current.UpdatedAt = now
		if err := repos.Invoices.Update(current); err != nil {
			return err
		}
		inv = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// Delete borra una factura, solo legal en borrador.
func (uc *InvoiceUseCase) Delete(ctx context.Context, invoiceID string) error {
	return uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		current, err := repos.Invoices.GetForUpdate(invoiceID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if !current.IsEditable() {
			return &domain.InvalidStateError{Entity: "invoice", Current: current.Status, Attempted: "delete"}
		}
		return repos.Invoices.Delete(current.ID)
	})
}

// Get obtiene una factura con líneas y pagos.
func (uc *InvoiceUseCase) Get(ctx context.Context, invoiceID string) (*entity.Invoice, error) {
	inv, err := uc.invoices.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// List lista facturas, opcionalmente por estado.
func (uc *InvoiceUseCase) List(ctx context.Context, status string, limit, offset int) ([]*entity.Invoice, error) {
	return uc.invoices.List(status, limit, offset)
}

// deductInvoiceStock aplica una salida (sale) por cada línea, exactamente una
// vez por documento. Falta de stock en cualquier línea aborta la transacción completa.
func deductInvoiceStock(repos ports.TxRepos, inv *entity.Invoice, userID string, now time.Time) error {
	if inv.StockDeducted {
		return nil
	}
	for _, item := range inv.Items {
		_, err := appinventory.ApplyMovementInTx(repos, appinventory.MovementInput{
			ProductID:     item.ProductID,
			Type:          entity.MovementTypeOUT,
			Reason:        entity.ReasonSale,
			Quantity:      item.Quantity,
			ReferenceType: entity.DocTypeInvoice,
			ReferenceID:   inv.ID,
			PerformedBy:   userID,
		}, now)
		if err != nil {
			return err
		}
	}
	inv.StockDeducted = true
	return nil
}

// promoteSourceQuotation deja la cotización de origen en converted si aún no lo está.
func promoteSourceQuotation(repos ports.TxRepos, inv *entity.Invoice, now time.Time) error {
	if inv.QuotationID == "" {
		return nil
	}
	q, err := repos.Quotations.GetForUpdate(inv.QuotationID)
	if err != nil {
		return err
	}
	if q == nil || q.Status == entity.QuotationStatusConverted {
		return nil
	}
	q.Status = entity.QuotationStatusConverted
	q.ConvertedToInvoiceID = inv.ID
	q.ConvertedAt = &now
	q.UpdatedAt = now
	return repos.Quotations.Update(q)
}

// chargeClient carga el total del documento al saldo del cliente (una sola vez
// por transición, dentro de la misma tx).
func chargeClient(repos ports.TxRepos, clientID string, amount decimal.Decimal) error {
	client, err := repos.Clients.GetForUpdate(clientID)
	if err != nil {
		return err
	}
	if client == nil {
		return domain.ErrNotFound
	}
	client.ApplyCharge(amount)
	return repos.Clients.UpdateBalance(client.ID, client.OutstandingBalance)
}
