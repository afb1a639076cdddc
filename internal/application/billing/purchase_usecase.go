package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Comercial-api/internal/application/dto"
	appinventory "github.com/jhoicas/Comercial-api/internal/application/inventory"
	"github.com/jhoicas/Comercial-api/internal/application/ports"
	"github.com/jhoicas/Comercial-api/internal/domain"
	domainbilling "github.com/jhoicas/Comercial-api/internal/domain/billing"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
	"github.com/jhoicas/Comercial-api/internal/domain/repository"
)

// PurchaseUseCase gobierna el ciclo de compras: borrador, recepción (entrada de
// mercancía con recálculo de costo promedio), abonos y anulación. Espejo de
// InvoiceUseCase con el flujo de stock invertido.
type PurchaseUseCase struct {
	txRunner  ports.TxRunner
	purchases repository.PurchaseRepository
	suppliers repository.SupplierRepository
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(
	txRunner ports.TxRunner,
	purchases repository.PurchaseRepository,
	suppliers repository.SupplierRepository,
) *PurchaseUseCase {
	return &PurchaseUseCase{txRunner: txRunner, purchases: purchases, suppliers: suppliers}
}

// Create crea una compra en borrador. Las líneas con precio cero toman el costo
// promedio vigente del producto. No toca stock.
func (uc *PurchaseUseCase) Create(ctx context.Context, userID string, in dto.CreatePurchaseRequest) (*entity.Purchase, error) {
	if in.SupplierID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	var pur *entity.Purchase
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		supplier, err := repos.Suppliers.GetByID(in.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return domain.ErrNotFound
		}
		items, err := buildDocumentItems(repos.Products, in.Items, true)
		if err != nil {
			return err
		}
		seq, err := repos.Sequences.Next(entity.DocTypePurchase)
		if err != nil {
			return err
		}
		now := time.Now()
		totals := domainbilling.ComputeTotals(items)
		pur = &entity.Purchase{
			ID:         uuid.New().String(),
			Number:     fmt.Sprintf("COM-%05d", seq),
			SupplierID: in.SupplierID,
			Items:      items,
			Status:     entity.DocStatusDraft,
			Totals:     totals,
			Balance:    totals.RoundedAmount,
			Notes:      in.Notes,
			CreatedBy:  userID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		for i := range pur.Items {
			pur.Items[i].DocumentID = pur.ID
		}
		return repos.Purchases.Create(pur)
	})
	if err != nil {
		return nil, err
	}
	return pur, nil
}

// Update edita una compra en borrador: reemplaza líneas y recalcula totales.
func (uc *PurchaseUseCase) Update(ctx context.Context, purchaseID string, in dto.UpdatePurchaseRequest) (*entity.Purchase, error) {
	var pur *entity.Purchase
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		current, err := repos.Purchases.GetForUpdate(purchaseID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if !current.IsEditable() {
			return &domain.InvalidStateError{Entity: "purchase", Current: current.Status, Attempted: "update"}
		}
		items, err := buildDocumentItems(repos.Products, in.Items, true)
		if err != nil {
			return err
		}
		for i := range items {
			items[i].DocumentID = current.ID
		}
		current.Items = items
		current.Totals = domainbilling.ComputeTotals(items)
		current.Balance = current.RoundedAmount.Sub(current.AmountPaid)
		current.Notes = in.Notes
		current.UpdatedAt = time.Now()
		if err := repos.Purchases.ReplaceItems(current.ID, items); err != nil {
			return err
		}
		if err := repos.Purchases.Update(current); err != nil {
			return err
		}
		pur = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pur, nil
}

// Receive transiciona draft -> received: una entrada (purchase) por línea al
// costo unitario de la línea, con recálculo de costo promedio en cada una, y
// carga el total al saldo del proveedor.
func (uc *PurchaseUseCase) Receive(ctx context.Context, purchaseID, userID string) (*entity.Purchase, error) {
	var pur *entity.Purchase
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		current, err := repos.Purchases.GetForUpdate(purchaseID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if current.Status != entity.DocStatusDraft {
			return &domain.InvalidStateError{Entity: "purchase", Current: current.Status, Attempted: "receive"}
		}
		now := time.Now()
		if err := addPurchaseStock(repos, current, userID, now); err != nil {
			return err
		}
		current.Status = entity.DocStatusReceived
		current.ReceivedBy = userID
		current.ReceivedAt = &now
		current.UpdatedAt = now

		if err := chargeSupplier(repos, current); err != nil {
			return err
		}
		if err := repos.Purchases.Update(current); err != nil {
			return err
		}
		pur = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pur, nil
}

// RecordPayment registra un abono al proveedor. Un pago en efectivo o tarjeta
// sobre un borrador dispara la auto-recepción (la mercancía cambió de manos en
// el acto); transferencias y cheques sobre borrador se rechazan con
// InvalidStateError en lugar de quedar registrados sin recepción: un abono
// diferido sin mercancía recibida dejaría el saldo sin documento que lo
// respalde.
func (uc *PurchaseUseCase) RecordPayment(ctx context.Context, purchaseID, userID string, in dto.RecordPaymentRequest) (*entity.Purchase, error) {
	if !validPaymentAmount(in.Amount) {
		return nil, fmt.Errorf("%w: monto debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if !entity.ValidPaymentMethod(in.Method) {
		return nil, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, in.Method)
	}

	var pur *entity.Purchase
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		current, err := repos.Purchases.GetForUpdate(purchaseID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if current.Status == entity.DocStatusCancelled {
			return &domain.InvalidStateError{Entity: "purchase", Current: current.Status, Attempted: "pay"}
		}
		if in.Amount.GreaterThan(current.Balance) {
			return &domain.PaymentExceedsBalanceError{
				DocumentID: current.ID,
				Balance:    current.Balance,
				Amount:     in.Amount,
			}
		}

		now := time.Now()
		justReceived := false
		if current.Status == entity.DocStatusDraft {
			if in.Method != entity.PaymentMethodCash && in.Method != entity.PaymentMethodCard {
				return &domain.InvalidStateError{Entity: "purchase", Current: current.Status, Attempted: "pay"}
			}
			if err := addPurchaseStock(repos, current, userID, now); err != nil {
				return err
			}
			current.ReceivedBy = userID
			current.ReceivedAt = &now
			justReceived = true
		}

		payment := &entity.Payment{
			ID:           uuid.New().String(),
			DocumentType: entity.DocTypePurchase,
			DocumentID:   current.ID,
			Amount:       in.Amount,
			Method:       in.Method,
			Reference:    in.Reference,
			RecordedBy:   userID,
			PaidAt:       now,
		}
		if err := repos.Purchases.AddPayment(payment); err != nil {
			return err
		}
		current.Payments = append(current.Payments, *payment)
		current.AmountPaid = current.AmountPaid.Add(in.Amount)
		current.Balance = current.RoundedAmount.Sub(current.AmountPaid)
		current.Status = domainbilling.DeriveStatus(entity.DocStatusReceived, current.AmountPaid, current.RoundedAmount)
		current.UpdatedAt = now

		supplier, err := repos.Suppliers.GetForUpdate(current.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return domain.ErrNotFound
		}
		if justReceived {
			supplier.ApplyCharge(current.RoundedAmount)
		}
		supplier.SettlePayment(in.Amount)
		if err := repos.Suppliers.UpdateBalances(supplier.ID, supplier.OutstandingBalance, supplier.TotalPurchases); err != nil {
			return err
		}
		if err := repos.Purchases.Update(current); err != nil {
			return err
		}
		pur = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pur, nil
}

// Cancel anula la compra. Si la mercancía ya entró emite salidas (return) por
// línea, que pueden fallar por stock insuficiente si la mercancía ya se vendió;
// en ese caso la anulación completa se rechaza. TotalPurchases del proveedor no
// se revierte: es acumulado histórico.
func (uc *PurchaseUseCase) Cancel(ctx context.Context, purchaseID, userID, reason string) (*entity.Purchase, error) {
	var pur *entity.Purchase
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		current, err := repos.Purchases.GetForUpdate(purchaseID)
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
			return &domain.InvalidStateError{Entity: "purchase", Current: current.Status, Attempted: "cancel"}
		}

		now := time.Now()
		if current.StockAdded {
			for _, item := range current.Items {
				_, err := appinventory.ApplyMovementInTx(repos, appinventory.MovementInput{
					ProductID:     item.ProductID,
					Type:          entity.MovementTypeOUT,
					Reason:        entity.ReasonReturn,
					Quantity:      item.Quantity,
					ReferenceType: entity.DocTypePurchase,
					ReferenceID:   current.ID,
					Notes:         "anulación " + current.Number,
					PerformedBy:   userID,
				}, now)
				if err != nil {
					return err
				}
			}
			current.StockAdded = false
		}

		supplier, err := repos.Suppliers.GetForUpdate(current.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return domain.ErrNotFound
		}
		supplier.ReleaseUnpaid(current.RoundedAmount, current.AmountPaid)
		if err := repos.Suppliers.UpdateBalances(supplier.ID, supplier.OutstandingBalance, supplier.TotalPurchases); err != nil {
			return err
		}

		current.Status = entity.DocStatusCancelled
		current.CancelledBy = userID
		current.CancelledAt = &now
		current.CancelReason = reason
		current.UpdatedAt = now
		if err := repos.Purchases.Update(current); err != nil {
			return err
		}
		pur = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pur, nil
}

// Delete borra una compra, solo legal en borrador.
func (uc *PurchaseUseCase) Delete(ctx context.Context, purchaseID string) error {
	return uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		current, err := repos.Purchases.GetForUpdate(purchaseID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if !current.IsEditable() {
			return &domain.InvalidStateError{Entity: "purchase", Current: current.Status, Attempted: "delete"}
		}
		return repos.Purchases.Delete(current.ID)
	})
}

// Get obtiene una compra con líneas y pagos.
func (uc *PurchaseUseCase) Get(ctx context.Context, purchaseID string) (*entity.Purchase, error) {
	pur, err := uc.purchases.GetByID(purchaseID)
	if err != nil {
		return nil, err
	}
	if pur == nil {
		return nil, domain.ErrNotFound
	}
	return pur, nil
}

// List lista compras, opcionalmente por estado.
func (uc *PurchaseUseCase) List(ctx context.Context, status string, limit, offset int) ([]*entity.Purchase, error) {
	return uc.purchases.List(status, limit, offset)
}

// addPurchaseStock aplica una entrada (purchase) por línea al costo unitario de
// la línea, exactamente una vez por documento. Cada entrada recalcula el costo
// promedio del producto.
func addPurchaseStock(repos ports.TxRepos, pur *entity.Purchase, userID string, now time.Time) error {
	if pur.StockAdded {
		return nil
	}
	for _, item := range pur.Items {
		unitCost := item.UnitPrice
		_, err := appinventory.ApplyMovementInTx(repos, appinventory.MovementInput{
			ProductID:     item.ProductID,
			Type:          entity.MovementTypeIN,
			Reason:        entity.ReasonPurchase,
			Quantity:      item.Quantity,
			UnitCost:      &unitCost,
			SupplierID:    pur.SupplierID,
			ReferenceType: entity.DocTypePurchase,
			ReferenceID:   pur.ID,
			PerformedBy:   userID,
		}, now)
		if err != nil {
			return err
		}
	}
	pur.StockAdded = true
	return nil
}

// chargeSupplier carga el total al saldo del proveedor y acumula TotalPurchases.
func chargeSupplier(repos ports.TxRepos, pur *entity.Purchase) error {
	supplier, err := repos.Suppliers.GetForUpdate(pur.SupplierID)
	if err != nil {
		return err
	}
	if supplier == nil {
		return domain.ErrNotFound
	}
	supplier.ApplyCharge(pur.RoundedAmount)
	return repos.Suppliers.UpdateBalances(supplier.ID, supplier.OutstandingBalance, supplier.TotalPurchases)
}
