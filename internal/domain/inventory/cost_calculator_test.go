package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Comercial-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Stock previo cero: el costo nuevo es directamente el costo de entrada.
func TestAverageCost_StockCeroTomaCostoDeEntrada(t *testing.T) {
	got := inventory.AverageCost(d("0"), d("0"), d("10"), d("5"))
	assert.True(t, d("5").Equal(got), "esperado 5, obtenido %s", got)
}

// Costo previo cero (producto creado sin costo): también toma el costo de entrada.
func TestAverageCost_CostoCeroTomaCostoDeEntrada(t *testing.T) {
	got := inventory.AverageCost(d("20"), d("0"), d("10"), d("7"))
	assert.True(t, d("7").Equal(got), "esperado 7, obtenido %s", got)
}

// 10 unidades a 5 + 10 unidades a 7 = promedio 6.
func TestAverageCost_PromedioPonderado(t *testing.T) {
	got := inventory.AverageCost(d("10"), d("5"), d("10"), d("7"))
	assert.True(t, d("6").Equal(got), "esperado 6, obtenido %s", got)
}

// Cantidades desiguales: 30@4 + 10@8 = (120+80)/40 = 5.
func TestAverageCost_PonderaPorCantidad(t *testing.T) {
	got := inventory.AverageCost(d("30"), d("4"), d("10"), d("8"))
	assert.True(t, d("5").Equal(got), "esperado 5, obtenido %s", got)
}
