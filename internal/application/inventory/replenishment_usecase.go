package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/dto"
)

// ReplenishmentUseCase genera la lista de reposición: productos bajo su stock mínimo
// con la cantidad sugerida de pedido y una prioridad.
type ReplenishmentUseCase struct {
	tx TxRunner
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(tx TxRunner) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{tx: tx}
}

// LowStock devuelve los productos bajo su stock mínimo. warehouseID puede ser vacío
// para considerar el stock total del producto.
func (uc *ReplenishmentUseCase) LowStock(ctx context.Context, warehouseID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	rawItems, err := uc.tx.Repositories().Products().ListBelowMinStock(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if len(rawItems) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	hundred := decimal.NewFromInt(100)
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(rawItems))
	for _, item := range rawItems {
		p := item.Product
		// Stock ideal = mínimo * 1.5, redondeado hacia arriba.
		idealStock := (p.MinStock*3 + 1) / 2
		suggestedQty := idealStock - item.CurrentStock
		if suggestedQty < 0 {
			suggestedQty = 0
		}

		var grossMarginPct decimal.Decimal
		if p.Price.GreaterThan(decimal.Zero) {
			grossMarginPct = p.Price.Sub(p.Cost).Div(p.Price).Mul(hundred).Round(2)
		}

		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          p.ID,
			SKU:                p.SKU,
			ProductName:        p.Name,
			WarehouseID:        warehouseID,
			CurrentStock:       item.CurrentStock,
			MinStock:           p.MinStock,
			IdealStock:         idealStock,
			SuggestedOrderQty:  suggestedQty,
			UnitCost:           p.Cost,
			EstimatedOrderCost: p.Cost.Mul(decimal.NewFromInt(suggestedQty)),
			GrossMarginPct:     grossMarginPct,
		})
	}

	// Primero el mayor déficit relativo al mínimo, luego mayor margen, luego SKU.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		ra := deficitRatio(a.CurrentStock, a.MinStock)
		rb := deficitRatio(b.CurrentStock, b.MinStock)
		if !ra.Equal(rb) {
			return ra.GreaterThan(rb)
		}
		if !a.GrossMarginPct.Equal(b.GrossMarginPct) {
			return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
		}
		return a.SKU < b.SKU
	})

	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

func deficitRatio(current, minStock int64) decimal.Decimal {
	if minStock <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(minStock - current).Div(decimal.NewFromInt(minStock))
}
