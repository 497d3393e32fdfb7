package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// RecordAdjustment corrige el stock de un producto (conteo físico, merma, hallazgo).
// Un delta que dejaría el stock en negativo es un ajuste inválido.
func (e *MovementEngine) RecordAdjustment(ctx context.Context, cmd AdjustmentCommand) (*entity.LedgerEntry, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}
	var entry *entity.LedgerEntry
	err := e.exec(ctx, "record_adjustment", cmd.ActorID, func(u *unitOfWork) error {
		p, err := u.product(cmd.ProductID)
		if err != nil {
			return err
		}
		entry, err = u.apply(movement{
			product:     p,
			warehouseID: warehouseOr(cmd.WarehouseID, p),
			delta:       cmd.Delta,
			kind:        entity.MovementAdjustment,
			reason:      cmd.Reason,
		})
		if errors.Is(err, domain.ErrInsufficientStock) {
			return fmt.Errorf("%w: %w", domain.ErrInvalidAdjustment, err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}
