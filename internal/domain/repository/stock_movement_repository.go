package repository

import (
	"time"

	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el libro de movimientos.
// Las entradas son inmutables; Delete existe solo como escape administrativo y el
// caso de uso se encarga de revertir el stock del producto.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	List(limit, offset int) ([]*entity.StockMovement, error)
	// IsLatest indica si el movimiento es el más reciente de su producto
	// (el borrado administrativo solo es legal sobre el último movimiento).
	IsLatest(id, productID string) (bool, error)
	Delete(id string) error
}
