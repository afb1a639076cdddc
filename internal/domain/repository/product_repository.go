package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) para
	// serializar la secuencia leer-modificar-escribir del motor de inventario.
	GetForUpdate(id string) (*entity.Product, error)
	// Update actualiza datos comerciales. No permite modificar Cost ni
	// CurrentStock (se manejan vía movimientos).
	Update(product *entity.Product) error
	// UpdateStockAndCost escribe el nuevo agregado (stock actual y costo
	// promedio). Único camino de escritura para esos campos.
	UpdateStockAndCost(productID string, stock, cost decimal.Decimal) error
	List(limit, offset int) ([]*entity.Product, error)
	// ListLowStock devuelve los productos en o por debajo de su umbral de reposición.
	ListLowStock() ([]*entity.Product, error)
	Delete(id string) error
}
