package inventory

import "github.com/shopspring/decimal"

// AverageCost implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Si el stock previo o el costo previo son cero, el nuevo costo es directamente el
// costo de entrada (evita el artefacto de promediar contra un valor inexistente).
// Solo se invoca en entradas (IN); las salidas y ajustes nunca cambian el promedio.
func AverageCost(currentStock, currentCost, qtyIn, unitCostIn decimal.Decimal) decimal.Decimal {
	if currentStock.LessThanOrEqual(decimal.Zero) || currentCost.IsZero() {
		return unitCostIn
	}
	total := currentStock.Add(qtyIn)
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := currentStock.Mul(currentCost).Add(qtyIn.Mul(unitCostIn))
	return num.Div(total)
}
