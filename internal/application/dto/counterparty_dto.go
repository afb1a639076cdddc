package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// CounterpartyRequest alta/edición de cliente o proveedor. El saldo pendiente
// no es editable: se deriva de las transiciones de documentos.
type CounterpartyRequest struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// ClientResponse cliente con su saldo derivado.
type ClientResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	TaxID              string          `json:"tax_id,omitempty"`
	Email              string          `json:"email,omitempty"`
	Phone              string          `json:"phone,omitempty"`
	Address            string          `json:"address,omitempty"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	CreatedAt          time.Time       `json:"created_at"`
}

// SupplierResponse proveedor con sus saldos derivados.
type SupplierResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	TaxID              string          `json:"tax_id,omitempty"`
	Email              string          `json:"email,omitempty"`
	Phone              string          `json:"phone,omitempty"`
	Address            string          `json:"address,omitempty"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	TotalPurchases     decimal.Decimal `json:"total_purchases"`
	CreatedAt          time.Time       `json:"created_at"`
}

// ToClientResponse mapea la entidad al DTO de salida.
func ToClientResponse(c *entity.Client) ClientResponse {
	return ClientResponse{
		ID:                 c.ID,
		Name:               c.Name,
		TaxID:              c.TaxID,
		Email:              c.Email,
		Phone:              c.Phone,
		Address:            c.Address,
		OutstandingBalance: c.OutstandingBalance,
		CreatedAt:          c.CreatedAt,
	}
}

// ToSupplierResponse mapea la entidad al DTO de salida.
func ToSupplierResponse(s *entity.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:                 s.ID,
		Name:               s.Name,
		TaxID:              s.TaxID,
		Email:              s.Email,
		Phone:              s.Phone,
		Address:            s.Address,
		OutstandingBalance: s.OutstandingBalance,
		TotalPurchases:     s.TotalPurchases,
		CreatedAt:          s.CreatedAt,
	}
}
