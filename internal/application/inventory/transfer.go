package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// CreateTransfer registra un traslado pendiente: una salida pendiente por línea, validada contra
// el stock de la bodega origen. El stock no se mueve hasta CompleteTransfer.
// No reserva stock frente a otros traslados pendientes; CompleteTransfer vuelve a validar.
func (e *MovementEngine) CreateTransfer(ctx context.Context, cmd TransferCommand) (*entity.Transfer, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}
	transferID := uuid.New().String()

	var transfer *entity.Transfer
	err := e.exec(ctx, "create_transfer", cmd.ActorID, func(u *unitOfWork) error {
		transfer = &entity.Transfer{
			ID:                transferID,
			SourceWarehouseID: cmd.SourceWarehouseID,
			DestWarehouseID:   cmd.DestWarehouseID,
			Status:            entity.TransferPending,
			ActorID:           cmd.ActorID,
			Lines:             append([]entity.TransferLine(nil), cmd.Lines...),
			CreatedAt:         u.now,
		}
		// Cantidad ya comprometida por líneas anteriores del mismo traslado.
		committed := make(map[string]int64)
		for _, l := range cmd.Lines {
			p, err := u.product(l.ProductID)
			if err != nil {
				return err
			}
			st, err := u.stock(p.ID, cmd.SourceWarehouseID)
			if err != nil {
				return err
			}
			available := st.Quantity - committed[p.ID]
			if available < l.Quantity {
				return &domain.InsufficientStockError{
					ProductID:   p.ID,
					WarehouseID: cmd.SourceWarehouseID,
					Available:   available,
					Requested:   l.Quantity,
				}
			}
			committed[p.ID] += l.Quantity
			u.record(movement{
				product:     p,
				warehouseID: cmd.SourceWarehouseID,
				delta:       -l.Quantity,
				kind:        entity.MovementTransferOut,
				referenceID: transferID,
			}, available, available-l.Quantity, entity.EntryPending)
		}
		return u.repos.Transfers().Create(u.ctx, transfer)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// CompleteTransfer aplica un traslado pendiente: descuenta el origen, suma al destino,
// finaliza las salidas pendientes y anexa una entrada por línea.
func (e *MovementEngine) CompleteTransfer(ctx context.Context, transferID, actorID string) (*entity.Transfer, error) {
	var transfer *entity.Transfer
	err := e.exec(ctx, "complete_transfer", actorID, func(u *unitOfWork) error {
		var err error
		transfer, err = pendingTransfer(u, transferID)
		if err != nil {
			return err
		}
		for _, l := range transfer.Lines {
			p, err := u.product(l.ProductID)
			if err != nil {
				return err
			}
			// La salida ya está en el kardex (pendiente); solo se mueve el stock.
			if _, _, err := u.shift(p, transfer.SourceWarehouseID, -l.Quantity); err != nil {
				return err
			}
			if _, err := u.apply(movement{
				product:     p,
				warehouseID: transfer.DestWarehouseID,
				delta:       l.Quantity,
				kind:        entity.MovementTransferIn,
				referenceID: transferID,
			}); err != nil {
				return err
			}
		}
		u.finalizePending(transferID, entity.MovementTransferOut, len(transfer.Lines))
		now := u.now
		transfer.Status = entity.TransferCompleted
		transfer.CompletedAt = &now
		return u.repos.Transfers().UpdateStatus(u.ctx, transfer)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// CancelTransfer anula un traslado pendiente. Cada salida pendiente se compensa con un
// movimiento transfer-out positivo y ambas quedan finales; el stock no cambia.
func (e *MovementEngine) CancelTransfer(ctx context.Context, transferID, actorID string) (*entity.Transfer, error) {
	var transfer *entity.Transfer
	err := e.exec(ctx, "cancel_transfer", actorID, func(u *unitOfWork) error {
		var err error
		transfer, err = pendingTransfer(u, transferID)
		if err != nil {
			return err
		}
		entries, err := u.repos.Ledger().ListByReference(u.ctx, transferID)
		if err != nil {
			return err
		}
		pending := 0
		for _, original := range entries {
			if original.Kind != entity.MovementTransferOut || original.State != entity.EntryPending {
				continue
			}
			// Un producto desactivado después de crear el traslado igual debe poder anularlo.
			p, err := u.productAny(original.ProductID)
			if err != nil {
				return err
			}
			st, err := u.stock(p.ID, original.WarehouseID)
			if err != nil {
				return err
			}
			u.record(movement{
				product:     p,
				warehouseID: original.WarehouseID,
				delta:       -original.Delta,
				kind:        entity.MovementTransferOut,
				referenceID: transferID,
				reversesID:  original.ID,
				reason:      "traslado cancelado",
			}, st.Quantity, st.Quantity, entity.EntryFinal)
			pending++
		}
		u.finalizePending(transferID, entity.MovementTransferOut, pending)
		now := u.now
		transfer.Status = entity.TransferCancelled
		transfer.CancelledAt = &now
		return u.repos.Transfers().UpdateStatus(u.ctx, transfer)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

func pendingTransfer(u *unitOfWork, transferID string) (*entity.Transfer, error) {
	transfer, err := u.repos.Transfers().GetForUpdate(u.ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, fmt.Errorf("traslado %s: %w", transferID, domain.ErrNotFound)
	}
	if transfer.Status != entity.TransferPending {
		return nil, fmt.Errorf("traslado %s en estado %s: %w", transferID, transfer.Status, domain.ErrTransferNotPending)
	}
	return transfer, nil
}
