package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/billing"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func eq(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "%s: esperado %s, obtenido %s", msg, want, got)
}

// ──────────────────────────────────────────────────────────────────────────────
// ComputeItem
// ──────────────────────────────────────────────────────────────────────────────

// El impuesto se calcula sobre la base neta (subtotal - descuento).
func TestComputeItem_ImpuestoSobreNeto(t *testing.T) {
	item := entity.DocumentItem{
		Quantity:  d("2"),
		UnitPrice: d("100"),
		Discount:  d("50"),
		TaxCode:   billing.TaxCodeA,
	}
	billing.ComputeItem(&item)

	eq(t, "8", item.TaxRate, "tasa bucket A")
	eq(t, "200", item.Subtotal, "subtotal")
	eq(t, "12", item.TaxAmount, "impuesto (150 * 8%)")
	eq(t, "162", item.TotalWithTax, "total con impuesto")
}

// Lo que traiga el caller en los campos derivados se descarta.
func TestComputeItem_DescartaDerivadosDelCaller(t *testing.T) {
	item := entity.DocumentItem{
		Quantity:     d("1"),
		UnitPrice:    d("100"),
		TaxCode:      billing.TaxCodeNone,
		Subtotal:     d("999"),
		TaxAmount:    d("999"),
		TotalWithTax: d("999"),
	}
	billing.ComputeItem(&item)

	eq(t, "100", item.Subtotal, "subtotal recalculado")
	eq(t, "0", item.TaxAmount, "exento no lleva impuesto")
	eq(t, "100", item.TotalWithTax, "total")
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidateItem
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateItem_Rechazos(t *testing.T) {
	base := func() entity.DocumentItem {
		return entity.DocumentItem{
			ProductID: "p1",
			Quantity:  d("1"),
			UnitPrice: d("10"),
			TaxCode:   billing.TaxCodeB,
		}
	}

	cases := []struct {
		name   string
		mutate func(*entity.DocumentItem)
	}{
		{"cantidad cero", func(it *entity.DocumentItem) { it.Quantity = d("0") }},
		{"cantidad negativa", func(it *entity.DocumentItem) { it.Quantity = d("-1") }},
		{"precio negativo", func(it *entity.DocumentItem) { it.UnitPrice = d("-5") }},
		{"descuento negativo", func(it *entity.DocumentItem) { it.Discount = d("-1") }},
		{"descuento mayor al subtotal", func(it *entity.DocumentItem) { it.Discount = d("11") }},
		{"código de impuesto desconocido", func(it *entity.DocumentItem) { it.TaxCode = "Z" }},
		{"sin producto", func(it *entity.DocumentItem) { it.ProductID = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			item := base()
			tc.mutate(&item)
			err := billing.ValidateItem(&item)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	item := base()
	require.NoError(t, billing.ValidateItem(&item), "línea bien formada debe pasar")
}

// ──────────────────────────────────────────────────────────────────────────────
// ComputeTotals
// ──────────────────────────────────────────────────────────────────────────────

// Dos líneas en buckets distintos: las bases gravables se agrupan por bucket.
func TestComputeTotals_AgrupaPorBucket(t *testing.T) {
	items := []entity.DocumentItem{
		{Quantity: d("2"), UnitPrice: d("100"), Discount: d("20"), TaxCode: billing.TaxCodeA},
		{Quantity: d("1"), UnitPrice: d("50"), TaxCode: billing.TaxCodeB},
		{Quantity: d("3"), UnitPrice: d("10"), TaxCode: billing.TaxCodeNone},
	}
	for i := range items {
		billing.ComputeItem(&items[i])
	}
	totals := billing.ComputeTotals(items)

	eq(t, "280", totals.Subtotal, "subtotal bruto")
	eq(t, "20", totals.TotalDiscount, "descuento total")
	eq(t, "180", totals.TaxableA, "base gravable A")
	eq(t, "14.4", totals.TaxA, "impuesto A (180 * 8%)")
	eq(t, "50", totals.TaxableB, "base gravable B")
	eq(t, "9", totals.TaxB, "impuesto B (50 * 18%)")
	eq(t, "23.4", totals.TotalTax, "impuesto total")
	eq(t, "283.4", totals.GrandTotal, "gran total")
	eq(t, "283.4", totals.RoundedAmount, "monto redondeado")
}

// RoundedAmount redondea a 2 decimales.
func TestComputeTotals_Redondeo(t *testing.T) {
	items := []entity.DocumentItem{
		{Quantity: d("3"), UnitPrice: d("0.333"), TaxCode: billing.TaxCodeB},
	}
	billing.ComputeItem(&items[0])
	totals := billing.ComputeTotals(items)

	// 0.999 + 18% = 1.17882
	eq(t, "1.17882", totals.GrandTotal, "gran total exacto")
	eq(t, "1.18", totals.RoundedAmount, "redondeado a 2 decimales")
}

func TestComputeTotals_SinLineas(t *testing.T) {
	totals := billing.ComputeTotals(nil)
	eq(t, "0", totals.GrandTotal, "sin líneas el total es cero")
	eq(t, "0", totals.RoundedAmount, "sin líneas el redondeado es cero")
}

// ──────────────────────────────────────────────────────────────────────────────
// DeriveStatus
// ──────────────────────────────────────────────────────────────────────────────

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		name    string
		forward string
		paid    string
		total   string
		want    string
	}{
		{"sin pagos queda en estado forward", entity.DocStatusConfirmed, "0", "100", entity.DocStatusConfirmed},
		{"pago parcial", entity.DocStatusConfirmed, "40", "100", entity.DocStatusPartial},
		{"pago completo", entity.DocStatusConfirmed, "100", "100", entity.DocStatusPaid},
		{"sobrepago cuenta como paid", entity.DocStatusReceived, "120", "100", entity.DocStatusPaid},
		{"compra sin pagos queda received", entity.DocStatusReceived, "0", "100", entity.DocStatusReceived},
		{"total cero nunca es paid", entity.DocStatusConfirmed, "0", "0", entity.DocStatusConfirmed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := billing.DeriveStatus(tc.forward, d(tc.paid), d(tc.total))
			assert.Equal(t, tc.want, got)
		})
	}
}
