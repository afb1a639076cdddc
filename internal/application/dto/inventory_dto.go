package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// ReceiveStockRequest entrada directa de mercancía (compra suelta o stock inicial).
type ReceiveStockRequest struct {
	ProductID   string          `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	SupplierID  string          `json:"supplier_id,omitempty"`
	BatchNumber string          `json:"batch_number,omitempty"`
	Reason      string          `json:"reason,omitempty"` // purchase (default) o initial_stock
	Notes       string          `json:"notes,omitempty"`
}

// AdjustStockRequest ajuste manual de inventario (merma, daño, corrección...).
type AdjustStockRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Direction string          `json:"direction"` // in | out
	Reason    string          `json:"reason"`    // damage, loss, theft, expired, correction, transfer
	Notes     string          `json:"notes,omitempty"`
}

// MovementResponse representación de un movimiento del libro de inventario.
type MovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Type          string          `json:"type"`
	Reason        string          `json:"reason"`
	Quantity      decimal.Decimal `json:"quantity"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	NewStock      decimal.Decimal `json:"new_stock"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	SupplierID    string          `json:"supplier_id,omitempty"`
	BatchNumber   string          `json:"batch_number,omitempty"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	PerformedBy   string          `json:"performed_by"`
	MovementDate  time.Time       `json:"movement_date"`
}

// ToMovementResponse mapea la entidad al DTO de salida.
func ToMovementResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		Reason:        m.Reason,
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		UnitCost:      m.UnitCost,
		TotalCost:     m.TotalCost,
		SupplierID:    m.SupplierID,
		BatchNumber:   m.BatchNumber,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Notes:         m.Notes,
		PerformedBy:   m.PerformedBy,
		MovementDate:  m.MovementDate,
	}
}
