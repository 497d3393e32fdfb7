package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost implementa el costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func WeightedAverageCost(stock int64, cost decimal.Decimal, qtyIn int64, unitCost decimal.Decimal) decimal.Decimal {
	sum := stock + qtyIn
	if sum <= 0 {
		return decimal.Zero
	}
	num := decimal.NewFromInt(stock).Mul(cost).Add(decimal.NewFromInt(qtyIn).Mul(unitCost))
	return num.Div(decimal.NewFromInt(sum)).Round(4)
}
