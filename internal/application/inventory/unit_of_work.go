package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
)

type stockKey struct {
	productID   string
	warehouseID string
}

type finalizeRequest struct {
	referenceID string
	kind        entity.MovementKind
	expected    int
}

// movement delta a registrar sobre un producto en una bodega.
type movement struct {
	product     *entity.Product
	warehouseID string
	delta       int64
	kind        entity.MovementKind
	referenceID string
	reversesID  string
	reason      string
}

// unitOfWork copias de trabajo de una operación. Los productos y filas de stock se cargan
// una sola vez con bloqueo de fila; los cambios se validan en memoria y solo se escriben en flush.
// Así las líneas repetidas de un mismo producto se acumulan y ninguna escritura ocurre
// antes de validar todas las líneas.
type unitOfWork struct {
	ctx     context.Context
	repos   Repositories
	now     time.Time
	actorID string

	products      map[string]*entity.Product
	productOrder  []string
	dirtyProducts map[string]bool
	stocks        map[stockKey]*entity.Stock
	stockOrder    []stockKey
	dirtyStocks   map[stockKey]bool
	entries       []*entity.LedgerEntry
	finalize      []finalizeRequest
}

func newUnitOfWork(ctx context.Context, repos Repositories, now time.Time, actorID string) *unitOfWork {
	return &unitOfWork{
		ctx:           ctx,
		repos:         repos,
		now:           now,
		actorID:       actorID,
		products:      make(map[string]*entity.Product),
		dirtyProducts: make(map[string]bool),
		stocks:        make(map[stockKey]*entity.Stock),
		dirtyStocks:   make(map[stockKey]bool),
	}
}

// product carga (bloqueando) el producto activo; las siguientes llamadas devuelven la misma copia.
func (u *unitOfWork) product(id string) (*entity.Product, error) {
	if p, ok := u.products[id]; ok {
		return p, nil
	}
	p, err := u.repos.Products().GetForUpdate(u.ctx, id)
	if err != nil {
		return nil, err
	}
	u.track(p)
	return p, nil
}

// productAny carga el producto aunque esté inactivo, sin bloquear su fila. Solo para caminos
// que no cambian el stock del producto (anular traslados pendientes).
func (u *unitOfWork) productAny(id string) (*entity.Product, error) {
	if p, ok := u.products[id]; ok {
		return p, nil
	}
	p, err := u.repos.Products().GetAny(u.ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrProductNotFound)
	}
	u.track(p)
	return p, nil
}

func (u *unitOfWork) track(p *entity.Product) {
	if _, ok := u.products[p.ID]; ok {
		return
	}
	u.products[p.ID] = p
	u.productOrder = append(u.productOrder, p.ID)
}

// stock carga (bloqueando) la fila de stock de la bodega; inexistente se lee como 0.
func (u *unitOfWork) stock(productID, warehouseID string) (*entity.Stock, error) {
	key := stockKey{productID: productID, warehouseID: warehouseID}
	if st, ok := u.stocks[key]; ok {
		return st, nil
	}
	st, err := u.repos.Stock().GetForUpdate(u.ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	u.stocks[key] = st
	u.stockOrder = append(u.stockOrder, key)
	return st, nil
}

// shift aplica delta al stock de la bodega y al total del producto, sin movimiento de kardex.
// Falla con *domain.InsufficientStockError si la bodega quedaría en negativo.
func (u *unitOfWork) shift(p *entity.Product, warehouseID string, delta int64) (before, after int64, err error) {
	if delta == 0 {
		return 0, 0, fmt.Errorf("%w: cantidad cero", domain.ErrInvalidInput)
	}
	st, err := u.stock(p.ID, warehouseID)
	if err != nil {
		return 0, 0, err
	}
	next, err := inventory.ApplyDelta(p.ID, warehouseID, st.Quantity, delta)
	if err != nil {
		return 0, 0, err
	}
	total := p.Stock + delta
	if total < 0 {
		return 0, 0, fmt.Errorf("%w: stock total %d del producto %s menor que el de la bodega %s",
			domain.ErrConsistencyViolation, p.Stock, p.ID, warehouseID)
	}
	before = st.Quantity
	st.Quantity = next
	p.Stock = total
	u.dirtyStocks[stockKey{productID: p.ID, warehouseID: warehouseID}] = true
	u.dirtyProducts[p.ID] = true
	return before, next, nil
}

// apply mueve el stock y registra el movimiento final correspondiente.
func (u *unitOfWork) apply(m movement) (*entity.LedgerEntry, error) {
	before, after, err := u.shift(m.product, m.warehouseID, m.delta)
	if err != nil {
		return nil, err
	}
	return u.record(m, before, after, entity.EntryFinal), nil
}

// record agrega un movimiento al kardex de la unidad sin tocar el stock.
func (u *unitOfWork) record(m movement, before, after int64, state entity.EntryState) *entity.LedgerEntry {
	entry := &entity.LedgerEntry{
		ID:          uuid.New().String(),
		ProductID:   m.product.ID,
		WarehouseID: m.warehouseID,
		Delta:       m.delta,
		Kind:        m.kind,
		ReferenceID: m.referenceID,
		ReversesID:  m.reversesID,
		ActorID:     u.actorID,
		Reason:      m.reason,
		StockBefore: before,
		StockAfter:  after,
		State:       state,
		CreatedAt:   u.now,
	}
	u.entries = append(u.entries, entry)
	return entry
}

// finalizePending programa el paso a final de los movimientos pendientes de la referencia.
func (u *unitOfWork) finalizePending(referenceID string, kind entity.MovementKind, expected int) {
	u.finalize = append(u.finalize, finalizeRequest{referenceID: referenceID, kind: kind, expected: expected})
}

// flush escribe stock, productos y movimientos en el orden en que se tocaron.
func (u *unitOfWork) flush() error {
	for _, key := range u.stockOrder {
		if !u.dirtyStocks[key] {
			continue
		}
		st := u.stocks[key]
		st.UpdatedAt = u.now
		if err := u.repos.Stock().Save(u.ctx, st); err != nil {
			return fmt.Errorf("guardar stock %s/%s: %w", key.productID, key.warehouseID, err)
		}
	}
	for _, id := range u.productOrder {
		if !u.dirtyProducts[id] {
			continue
		}
		p := u.products[id]
		p.UpdatedAt = u.now
		if err := u.repos.Products().Save(u.ctx, p); err != nil {
			return fmt.Errorf("guardar producto %s: %w", id, err)
		}
	}
	for _, entry := range u.entries {
		if err := u.repos.Ledger().Append(u.ctx, entry); err != nil {
			return fmt.Errorf("anexar movimiento %s: %w", entry.Kind, err)
		}
	}
	for _, f := range u.finalize {
		n, err := u.repos.Ledger().FinalizePending(u.ctx, f.referenceID, f.kind)
		if err != nil {
			return fmt.Errorf("finalizar movimientos de %s: %w", f.referenceID, err)
		}
		if int(n) != f.expected {
			return fmt.Errorf("%w: se esperaban %d movimientos pendientes de %s, hay %d",
				domain.ErrConflict, f.expected, f.referenceID, n)
		}
	}
	return nil
}
