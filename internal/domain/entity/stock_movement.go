package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         = "IN"         // entrada
	MovementTypeOUT        = "OUT"        // salida
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste manual (dirección explícita en la operación)
)

// Razones de movimiento.
const (
	ReasonPurchase     = "purchase"
	ReasonSale         = "sale"
	ReasonReturn       = "return"
	ReasonDamage       = "damage"
	ReasonLoss         = "loss"
	ReasonTheft        = "theft"
	ReasonExpired      = "expired"
	ReasonTransfer     = "transfer"
	ReasonCorrection   = "correction"
	ReasonInitialStock = "initial_stock"
)

// Tipos de documento (referencia causal de movimientos y consecutivos).
const (
	DocTypeInvoice   = "invoice"
	DocTypePurchase  = "purchase"
	DocTypeQuotation = "quotation"
	RefManual        = "manual"
)

// StockMovement es una entrada inmutable del libro de inventario: cada cambio de
// stock queda justificado con su snapshot antes/después y su referencia causal.
// PreviousStock y NewStock se capturan al insertar y nunca se recalculan.
type StockMovement struct {
	ID            string
	ProductID     string
	Type          string          // IN, OUT, ADJUSTMENT
	Reason        string          // purchase, sale, return, damage, ...
	Quantity      decimal.Decimal // siempre > 0; la dirección la da Type (o el snapshot en ajustes)
	PreviousStock decimal.Decimal
	NewStock      decimal.Decimal
	UnitCost      decimal.Decimal // costo unitario de la entrada, o promedio vigente en salidas
	TotalCost     decimal.Decimal
	SupplierID    string // proveedor, si aplica (entradas por compra)
	BatchNumber   string // lote, opcional
	ReferenceType string // invoice, purchase, manual
	ReferenceID   string
	Notes         string
	PerformedBy   string // UserID
	MovementDate  time.Time
	CreatedAt     time.Time
}

// Delta devuelve la variación firmada de stock que produjo el movimiento.
func (m *StockMovement) Delta() decimal.Decimal {
	return m.NewStock.Sub(m.PreviousStock)
}
