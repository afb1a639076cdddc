package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	// GetForUpdate bloquea la fila para actualizar saldos sin lost updates.
	GetForUpdate(id string) (*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
	// UpdateBalances escribe saldo pendiente y acumulado de compras.
	UpdateBalances(supplierID string, outstanding, totalPurchases decimal.Decimal) error
	List(limit, offset int) ([]*entity.Supplier, error)
	Delete(id string) error
}
