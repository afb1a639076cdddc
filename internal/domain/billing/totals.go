package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

// Códigos de impuesto: modelo fijo de dos buckets más exento.
const (
	TaxCodeA    = "A"    // tasa reducida (8%)
	TaxCodeB    = "B"    // tasa general (18%)
	TaxCodeNone = "NONE" // exento
)

var (
	taxRateA = decimal.NewFromInt(8)
	taxRateB = decimal.NewFromInt(18)
	hundred  = decimal.NewFromInt(100)
)

// TaxRateFor devuelve la tasa (en %) para un código de impuesto.
func TaxRateFor(code string) decimal.Decimal {
	switch code {
	case TaxCodeA:
		return taxRateA
	case TaxCodeB:
		return taxRateB
	}
	return decimal.Zero
}

// ValidTaxCode valida el código de impuesto. Vacío se normaliza después al
// código por defecto del producto, por eso también es válido aquí.
func ValidTaxCode(code string) bool {
	switch code {
	case TaxCodeA, TaxCodeB, TaxCodeNone, "":
		return true
	}
	return false
}

// ComputeItem deriva los campos calculados de una línea. Lo que traiga el
// caller en Subtotal/TaxAmount/TotalWithTax se descarta siempre.
func ComputeItem(item *entity.DocumentItem) {
	item.TaxRate = TaxRateFor(item.TaxCode)
	item.Subtotal = item.Quantity.Mul(item.UnitPrice)
	net := item.Subtotal.Sub(item.Discount)
	item.TaxAmount = net.Mul(item.TaxRate).Div(hundred)
	item.TotalWithTax = net.Add(item.TaxAmount)
}

// ValidateItem valida cantidad, precio, descuento y código de impuesto de una línea.
func ValidateItem(item *entity.DocumentItem) error {
	if item.ProductID == "" {
		return fmt.Errorf("%w: línea sin producto", domain.ErrInvalidInput)
	}
	if !item.Quantity.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if item.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: precio unitario negativo", domain.ErrInvalidInput)
	}
	if item.Discount.IsNegative() {
		return fmt.Errorf("%w: descuento negativo", domain.ErrInvalidInput)
	}
	if item.Discount.GreaterThan(item.Quantity.Mul(item.UnitPrice)) {
		return fmt.Errorf("%w: descuento mayor que el subtotal de la línea", domain.ErrInvalidInput)
	}
	if !ValidTaxCode(item.TaxCode) {
		return fmt.Errorf("%w: código de impuesto %q", domain.ErrInvalidInput, item.TaxCode)
	}
	return nil
}

// ComputeTotals deriva los totales del documento desde sus líneas, agrupando
// las bases gravables por bucket (A/B). GrandTotal = Subtotal - TotalDiscount + TotalTax;
// RoundedAmount es GrandTotal redondeado a 2 decimales (mitad hacia arriba).
func ComputeTotals(items []entity.DocumentItem) entity.Totals {
	var t entity.Totals
	t.Subtotal = decimal.Zero
	t.TotalDiscount = decimal.Zero
	t.TaxableA = decimal.Zero
	t.TaxA = decimal.Zero
	t.TaxableB = decimal.Zero
	t.TaxB = decimal.Zero
	for i := range items {
		item := &items[i]
		t.Subtotal = t.Subtotal.Add(item.Subtotal)
		t.TotalDiscount = t.TotalDiscount.Add(item.Discount)
		net := item.Subtotal.Sub(item.Discount)
		switch item.TaxCode {
		case TaxCodeA:
			t.TaxableA = t.TaxableA.Add(net)
			t.TaxA = t.TaxA.Add(item.TaxAmount)
		case TaxCodeB:
			t.TaxableB = t.TaxableB.Add(net)
			t.TaxB = t.TaxB.Add(item.TaxAmount)
		}
	}
	t.TotalTax = t.TaxA.Add(t.TaxB)
	t.GrandTotal = t.Subtotal.Sub(t.TotalDiscount).Add(t.TotalTax)
	t.RoundedAmount = t.GrandTotal.Round(2)
	return t
}
