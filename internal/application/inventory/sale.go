package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// RecordSale registra una venta. Cada línea descuenta el stock de la bodega al precio vigente
// del producto; si alguna línea no tiene stock suficiente la venta completa se rechaza.
func (e *MovementEngine) RecordSale(ctx context.Context, cmd SaleCommand) (*entity.Sale, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}
	saleID := uuid.New().String()

	var sale *entity.Sale
	err := e.exec(ctx, "record_sale", cmd.ActorID, func(u *unitOfWork) error {
		sale = &entity.Sale{
			ID:            saleID,
			CustomerID:    cmd.CustomerID,
			WarehouseID:   cmd.WarehouseID,
			PaymentMethod: cmd.PaymentMethod,
			ReceiptNumber: cmd.ReceiptNumber,
			ActorID:       cmd.ActorID,
			Total:         decimal.Zero,
			CreatedAt:     u.now,
		}
		for _, l := range cmd.Lines {
			p, err := u.product(l.ProductID)
			if err != nil {
				return err
			}
			if _, err := u.apply(movement{
				product:     p,
				warehouseID: warehouseOr(cmd.WarehouseID, p),
				delta:       -l.Quantity,
				kind:        entity.MovementSale,
				referenceID: saleID,
			}); err != nil {
				return err
			}
			subtotal := p.Price.Mul(decimal.NewFromInt(l.Quantity))
			sale.Total = sale.Total.Add(subtotal)
			sale.Lines = append(sale.Lines, entity.SaleLine{
				ID:        uuid.New().String(),
				SaleID:    saleID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: p.Price,
				Subtotal:  subtotal,
			})
		}
		return u.repos.Sales().Create(u.ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}
