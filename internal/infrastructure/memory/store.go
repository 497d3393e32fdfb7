// Package memory implementa los puertos de inventario en memoria (pruebas y desarrollo local).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

type stockKey struct {
	productID   string
	warehouseID string
}

// dataset estado completo del almacén. Cada unidad de trabajo opera sobre una copia.
type dataset struct {
	products  map[string]entity.Product
	skus      map[string]string
	stock     map[stockKey]entity.Stock
	ledger    []entity.LedgerEntry // en orden de Seq
	seq       int64
	purchases map[string]entity.Purchase
	sales     map[string]entity.Sale
	transfers map[string]entity.Transfer
}

func newDataset() *dataset {
	return &dataset{
		products:  make(map[string]entity.Product),
		skus:      make(map[string]string),
		stock:     make(map[stockKey]entity.Stock),
		purchases: make(map[string]entity.Purchase),
		sales:     make(map[string]entity.Sale),
		transfers: make(map[string]entity.Transfer),
	}
}

func (d *dataset) clone() *dataset {
	c := &dataset{
		products:  make(map[string]entity.Product, len(d.products)),
		skus:      make(map[string]string, len(d.skus)),
		stock:     make(map[stockKey]entity.Stock, len(d.stock)),
		ledger:    make([]entity.LedgerEntry, len(d.ledger), len(d.ledger)+8),
		seq:       d.seq,
		purchases: make(map[string]entity.Purchase, len(d.purchases)),
		sales:     make(map[string]entity.Sale, len(d.sales)),
		transfers: make(map[string]entity.Transfer, len(d.transfers)),
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.skus {
		c.skus[k] = v
	}
	for k, v := range d.stock {
		c.stock[k] = v
	}
	copy(c.ledger, d.ledger)
	// Las líneas de documentos no se modifican después de crearse: se comparten.
	for k, v := range d.purchases {
		c.purchases[k] = v
	}
	for k, v := range d.sales {
		c.sales[k] = v
	}
	for k, v := range d.transfers {
		c.transfers[k] = v
	}
	return c
}

// Store almacén en memoria con un único escritor a la vez. RunAtomic trabaja sobre una copia
// del estado confirmado y la publica solo si fn termina sin error antes del tiempo límite.
type Store struct {
	mu   sync.RWMutex
	data *dataset
	sem  chan struct{}
}

var _ inventory.TxRunner = (*Store)(nil)

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: newDataset(), sem: make(chan struct{}, 1)}
}

// RunAtomic ejecuta fn como unidad de trabajo. Esperar el turno respeta ctx.
func (s *Store) RunAtomic(ctx context.Context, fn func(ctx context.Context, repos inventory.Repositories) error) error {
	return s.atomically(ctx, func(d *dataset) error {
		return fn(ctx, newRepositories(txAccess{d: d}))
	})
}

func (s *Store) atomically(ctx context.Context, fn func(d *dataset) error) error {
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s.sem }()

	s.mu.RLock()
	work := s.data.clone()
	s.mu.RUnlock()

	if err := fn(work); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.data = work
	s.mu.Unlock()
	return nil
}

// Repositories acceso fuera de una unidad de trabajo: lecturas sobre el estado confirmado;
// cada escritura corre como su propia unidad de trabajo.
func (s *Store) Repositories() inventory.Repositories {
	return newRepositories(directAccess{s: s})
}

// access abstrae si los repositorios operan dentro de una unidad de trabajo o directo sobre el almacén.
type access interface {
	read(fn func(d *dataset) error) error
	write(ctx context.Context, fn func(d *dataset) error) error
}

type txAccess struct{ d *dataset }

func (a txAccess) read(fn func(d *dataset) error) error                     { return fn(a.d) }
func (a txAccess) write(_ context.Context, fn func(d *dataset) error) error { return fn(a.d) }

type directAccess struct{ s *Store }

func (a directAccess) read(fn func(d *dataset) error) error {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	return fn(a.s.data)
}

func (a directAccess) write(ctx context.Context, fn func(d *dataset) error) error {
	return a.s.atomically(ctx, fn)
}

type repositories struct {
	acc access
}

func newRepositories(acc access) *repositories {
	return &repositories{acc: acc}
}

func (r *repositories) Products() repository.ProductRepository   { return &productRepo{acc: r.acc} }
func (r *repositories) Stock() repository.StockRepository        { return &stockRepo{acc: r.acc} }
func (r *repositories) Ledger() repository.LedgerRepository      { return &ledgerRepo{acc: r.acc} }
func (r *repositories) Purchases() repository.PurchaseRepository { return &purchaseRepo{acc: r.acc} }
func (r *repositories) Sales() repository.SaleRepository         { return &saleRepo{acc: r.acc} }
func (r *repositories) Transfers() repository.TransferRepository { return &transferRepo{acc: r.acc} }
