package postgres

import (
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

var _ inventory.Repositories = (*Repositories)(nil)

// Repositories agrupa los adaptadores atados a un mismo Querier (pool o tx).
type Repositories struct {
	q Querier
}

// NewRepositories construye el conjunto de repos. Pasar pool o tx (Querier).
func NewRepositories(q Querier) *Repositories {
	return &Repositories{q: q}
}

func (r *Repositories) Products() repository.ProductRepository   { return NewProductRepository(r.q) }
func (r *Repositories) Stock() repository.StockRepository        { return NewStockRepository(r.q) }
func (r *Repositories) Ledger() repository.LedgerRepository      { return NewLedgerRepository(r.q) }
func (r *Repositories) Purchases() repository.PurchaseRepository { return NewPurchaseRepository(r.q) }
func (r *Repositories) Sales() repository.SaleRepository         { return NewSaleRepository(r.q) }
func (r *Repositories) Transfers() repository.TransferRepository { return NewTransferRepository(r.q) }
