package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto (SKU) del inventario.
// CurrentStock y Cost (costo promedio ponderado) se mutan únicamente a través
// del libro de movimientos (StockMovement); nunca por un update genérico.
type Product struct {
	ID                string
	SKU               string // código único
	Name              string
	Description       string
	Price             decimal.Decimal // precio de venta
	Cost              decimal.Decimal // costo promedio ponderado (inicia en 0)
	TaxCode           string          // bucket de impuesto por defecto al facturar: A, B o NONE
	CurrentStock      decimal.Decimal
	LowStockThreshold decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock indica si el stock actual está en o por debajo del umbral de reposición.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock.LessThanOrEqual(p.LowStockThreshold)
}
