package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// TransferRepository persiste traslados con sus líneas.
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	// GetForUpdate devuelve el traslado bloqueando la cabecera (nil, nil si no existe).
	GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error)
	UpdateStatus(ctx context.Context, transfer *entity.Transfer) error
}
