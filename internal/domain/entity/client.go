package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client representa un cliente (contraparte de facturas).
// OutstandingBalance es un total derivado: solo se actualiza como efecto de
// transiciones de documentos (confirmar, pagar, anular), nunca por un update genérico.
type Client struct {
	ID                 string
	Name               string
	TaxID              string
	Email              string
	Phone              string
	Address            string
	OutstandingBalance decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ApplyCharge suma el total del documento al saldo pendiente (confirmación).
func (c *Client) ApplyCharge(amount decimal.Decimal) {
	c.OutstandingBalance = c.OutstandingBalance.Add(amount)
}

// SettlePayment descuenta un abono del saldo pendiente, con piso en cero.
func (c *Client) SettlePayment(amount decimal.Decimal) {
	c.OutstandingBalance = c.OutstandingBalance.Sub(amount)
	if c.OutstandingBalance.IsNegative() {
		c.OutstandingBalance = decimal.Zero
	}
}

// ReleaseUnpaid libera el remanente no pagado al anular un documento
// (RoundedAmount - AmountPaid), con piso en cero.
func (c *Client) ReleaseUnpaid(roundedAmount, amountPaid decimal.Decimal) {
	unpaid := roundedAmount.Sub(amountPaid)
	if unpaid.IsNegative() {
		unpaid = decimal.Zero
	}
	c.OutstandingBalance = c.OutstandingBalance.Sub(unpaid)
	if c.OutstandingBalance.IsNegative() {
		c.OutstandingBalance = decimal.Zero
	}
}
