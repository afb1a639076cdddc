package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier representa un proveedor (contraparte de compras).
// OutstandingBalance y TotalPurchases son totales derivados de transiciones
// de documentos; mismas reglas que Client.OutstandingBalance.
type Supplier struct {
	ID                 string
	Name               string
	TaxID              string
	Email              string
	Phone              string
	Address            string
	OutstandingBalance decimal.Decimal
	TotalPurchases     decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ApplyCharge registra la recepción de una compra: aumenta el saldo pendiente
// y el acumulado histórico de compras.
func (s *Supplier) ApplyCharge(amount decimal.Decimal) {
	s.OutstandingBalance = s.OutstandingBalance.Add(amount)
	s.TotalPurchases = s.TotalPurchases.Add(amount)
}

// SettlePayment descuenta un abono del saldo pendiente, con piso en cero.
func (s *Supplier) SettlePayment(amount decimal.Decimal) {
	s.OutstandingBalance = s.OutstandingBalance.Sub(amount)
	if s.OutstandingBalance.IsNegative() {
		s.OutstandingBalance = decimal.Zero
	}
}

// ReleaseUnpaid libera el remanente no pagado al anular una compra, piso en cero.
// TotalPurchases no se revierte: es un acumulado histórico.
func (s *Supplier) ReleaseUnpaid(roundedAmount, amountPaid decimal.Decimal) {
	unpaid := roundedAmount.Sub(amountPaid)
	if unpaid.IsNegative() {
		unpaid = decimal.Zero
	}
	s.OutstandingBalance = s.OutstandingBalance.Sub(unpaid)
	if s.OutstandingBalance.IsNegative() {
		s.OutstandingBalance = decimal.Zero
	}
}
