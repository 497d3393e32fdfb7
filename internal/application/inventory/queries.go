package inventory

import (
	"context"
	"iter"
	"sort"
	"time"

	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
)

// Límites de GetProductLedger.
const (
	DefaultLedgerLimit = 50
	MaxLedgerLimit     = 500
)

// StockSnapshot stock vigente de un producto: total y detalle por bodega.
// Version es la del producto al momento de la lectura.
type StockSnapshot struct {
	ProductID   string           `json:"product_id"`
	Total       int64            `json:"total"`
	ByWarehouse map[string]int64 `json:"by_warehouse"`
	Version     int64            `json:"version"`
}

// LedgerQuery filtros de GetProductLedger.
type LedgerQuery struct {
	From        *time.Time
	To          *time.Time
	Kinds       []entity.MovementKind
	WarehouseID string
	Limit       int
}

// ProductLedger stock actual más los movimientos más recientes (vista kardex).
type ProductLedger struct {
	ProductID    string
	CurrentStock int64
	LedgerTotal  int64
	PendingTotal int64
	Entries      []entity.LedgerEntry
}

// GetCurrentStock devuelve el stock vigente, leyendo primero de la cache si existe.
func (e *MovementEngine) GetCurrentStock(ctx context.Context, productID string) (*StockSnapshot, error) {
	if snap, ok, err := e.cache.Get(ctx, productID); err != nil {
		e.log.Warn().Err(err).Str("product_id", productID).Msg("lectura de cache de stock fallida")
	} else if ok {
		return snap, nil
	}

	repos := e.tx.Repositories()
	p, err := repos.Products().Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	rows, err := repos.Stock().ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	snap := &StockSnapshot{ProductID: p.ID, Total: p.Stock, ByWarehouse: make(map[string]int64, len(rows)), Version: p.Version}
	for _, st := range rows {
		snap.ByWarehouse[st.WarehouseID] = st.Quantity
	}
	if _, noop := e.cache.(noopCache); noop {
		return snap, nil
	}
	if err := e.cache.Set(ctx, snap); err != nil {
		e.log.Warn().Err(err).Str("product_id", productID).Msg("escritura de cache de stock fallida")
		return snap, nil
	}
	// Un commit entre la lectura y el Set ya invalidó la cache; la entrada escrita quedaría vieja.
	if cur, err := repos.Products().Get(ctx, productID); err != nil || cur.Version != snap.Version {
		if err := e.cache.Invalidate(ctx, productID); err != nil {
			e.log.Error().Err(err).Str("product_id", productID).Msg("no se pudo retirar snapshot de stock desactualizado")
		}
	}
	return snap, nil
}

// GetProductLedger devuelve el stock actual del producto y sus últimos movimientos
// (del más reciente al más antiguo), hasta q.Limit.
func (e *MovementEngine) GetProductLedger(ctx context.Context, productID string, q LedgerQuery) (*ProductLedger, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLedgerLimit
	}
	if limit > MaxLedgerLimit {
		limit = MaxLedgerLimit
	}

	repos := e.tx.Repositories()
	p, err := repos.Products().Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := &ProductLedger{ProductID: p.ID, CurrentStock: p.Stock, Entries: make([]entity.LedgerEntry, 0, limit)}
	if out.LedgerTotal, err = repos.Ledger().SumByProduct(ctx, productID); err != nil {
		return nil, err
	}
	if out.PendingTotal, err = repos.Ledger().SumPendingByProduct(ctx, productID); err != nil {
		return nil, err
	}

	filter := repository.LedgerFilter{From: q.From, To: q.To, Kinds: q.Kinds, WarehouseID: q.WarehouseID}
	for entry, err := range repos.Ledger().ListByProduct(ctx, productID, filter) {
		if err != nil {
			return nil, err
		}
		out.Entries = append(out.Entries, entry)
		if len(out.Entries) == limit {
			break
		}
	}
	return out, nil
}

// LedgerEntries recorre todo el kardex del producto de forma perezosa (más reciente primero).
// La secuencia puede recorrerse varias veces; cada recorrido vuelve a consultar el almacén.
func (e *MovementEngine) LedgerEntries(ctx context.Context, productID string, filter repository.LedgerFilter) iter.Seq2[entity.LedgerEntry, error] {
	return e.tx.Repositories().Ledger().ListByProduct(ctx, productID, filter)
}

// Warehouses devuelve las bodegas del snapshot ordenadas.
func (s *StockSnapshot) Warehouses() []string {
	ids := make([]string, 0, len(s.ByWarehouse))
	for id := range s.ByWarehouse {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
