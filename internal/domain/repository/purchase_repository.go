package repository

import (
	"context"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
)

// PurchaseRepository persiste compras con sus líneas.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	// GetForUpdate devuelve la compra con líneas bloqueando la cabecera (nil, nil si no existe).
	GetForUpdate(ctx context.Context, id string) (*entity.Purchase, error)
	UpdateStatus(ctx context.Context, id string, status entity.PurchaseStatus) error
}
