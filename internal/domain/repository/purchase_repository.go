package repository

import "github.com/jhoicas/Comercial-api/internal/domain/entity"

// PurchaseRepository define el puerto de persistencia para compras (simétrico a InvoiceRepository).
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	Update(purchase *entity.Purchase) error
	ReplaceItems(purchaseID string, items []entity.DocumentItem) error
	AddPayment(payment *entity.Payment) error
	GetByID(id string) (*entity.Purchase, error)
	GetForUpdate(id string) (*entity.Purchase, error)
	List(status string, limit, offset int) ([]*entity.Purchase, error)
	Delete(id string) error
}
