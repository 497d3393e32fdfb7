package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/domain/repository"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testActor = "00000000-0000-0000-0000-0000000000aa"
	whA       = "bodega-a"
	whB       = "bodega-b"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newEngine(t *testing.T) (*inventory.MovementEngine, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return inventory.NewMovementEngine(store, inventory.EngineDeps{Clock: func() time.Time { return testNow }}), store
}

// seedProduct registra un producto con stock inicial en la bodega A.
func seedProduct(t *testing.T, e *inventory.MovementEngine, sku string, stock int64, price string) *entity.Product {
	t.Helper()
	p, err := e.RegisterProduct(context.Background(), &entity.Product{
		SKU:         sku,
		Name:        "Producto " + sku,
		Price:       decimal.RequireFromString(price),
		MinStock:    2,
		WarehouseID: whA,
	}, stock, testActor)
	require.NoError(t, err, "debe registrarse el producto")
	return p
}

func currentProduct(t *testing.T, store *memory.Store, id string) *entity.Product {
	t.Helper()
	p, err := store.Repositories().Products().Get(context.Background(), id)
	require.NoError(t, err)
	return p
}

func warehouseStock(t *testing.T, store *memory.Store, productID, warehouseID string) int64 {
	t.Helper()
	st, err := store.Repositories().Stock().Get(context.Background(), productID, warehouseID)
	require.NoError(t, err)
	return st.Quantity
}

func ledgerOf(t *testing.T, store *memory.Store, productID string, kinds ...entity.MovementKind) []entity.LedgerEntry {
	t.Helper()
	var out []entity.LedgerEntry
	for e, err := range store.Repositories().Ledger().ListByProduct(context.Background(), productID, repository.LedgerFilter{Kinds: kinds}) {
		require.NoError(t, err)
		out = append(out, e)
	}
	return out
}

func ledgerSum(t *testing.T, store *memory.Store, productID string) int64 {
	t.Helper()
	sum, err := store.Repositories().Ledger().SumByProduct(context.Background(), productID)
	require.NoError(t, err)
	return sum
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios base
// ──────────────────────────────────────────────────────────────────────────────

// Escenario A: stock 10, venta de 3 → stock 7 y un movimiento sale (-3, 10 → 7).
func TestRecordSale_DescuentaStockYRegistraMovimiento(t *testing.T) {
	e, store := newEngine(t)
	p := seedProduct(t, e, "SKU-A", 10, "2500")

	sale, err := e.RecordSale(context.Background(), inventory.SaleCommand{
		CustomerID: "cliente-1",
		Lines:      []inventory.SaleLine{{ProductID: p.ID, Quantity: 3}},
		ActorID:    testActor,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), currentProduct(t, store, p.ID).Stock)
	assert.Equal(t, int64(7), warehouseStock(t, store, p.ID, whA))

	sales := ledgerOf(t, store, p.ID, entity.MovementSale)
	require.Len(t, sales, 1, "debe existir exactamente un movimiento de venta")
	assert.Equal(t, int64(-3), sales[0].Delta)
	assert.Equal(t, int64(10), sales[0].StockBefore)
	assert.Equal(t, int64(7), sales[0].StockAfter)
	assert.Equal(t, sale.ID, sales[0].ReferenceID)
	assert.Equal(t, testActor, sales[0].ActorID)
	assert.Equal(t, entity.EntryFinal, sales[0].State)

	assert.Equal(t, entity.PaymentCash, sale.PaymentMethod, "sin método de pago se asume efectivo")
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(7500)), "total = 3 x 2500")
	assert.True(t, sale.Lines[0].UnitPrice.Equal(decimal.NewFromInt(2500)), "el precio se captura del producto")
}

// Escenario B: stock 2, venta de 5 → InsufficientStock{2, 5}, sin cambios.
func TestRecordSale_StockInsuficiente(t *testing.T) {
	e, store := newEngine(t)
	p := seedProduct(t, e, "SKU-B", 2, "100")

	_, err := e.RecordSale(context.Background(), inventory.SaleCommand{
		Lines:   []inventory.SaleLine{{ProductID: p.ID, Quantity: 5}},
		ActorID: testActor,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(2), insufficient.Available)
	assert.Equal(t, int64(5), insufficient.Requested)

	assert.Equal(t, int64(2), currentProduct(t, store, p.ID).Stock)
	assert.Empty(t, ledgerOf(t, store, p.ID, entity.MovementSale), "no debe anexarse ningún movimiento")
}

// Escenario C: origen igual a destino → InvalidTransfer sin movimientos.
func TestCreateTransfer_MismaBodega(t *testing.T) {
	e, store := newEngine(t)
	p := seedProduct(t, e, "SKU-C", 5, "100")

	_, err := e.CreateTransfer(context.Background(), inventory.TransferCommand{
		SourceWarehouseID: whA,
		DestWarehouseID:   whA,
		Lines:             []entity.TransferLine{{ProductID: p.ID, Quantity: 1}},
		ActorID:           testActor,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransfer)
	assert.Empty(t, ledgerOf(t, store, p.ID, entity.MovementTransferOut, entity.MovementTransferIn))
}

// Escenario D: traslado de 4 desde A(6) a B(0) → A=2, B=4, una salida y una entrada.
func TestCompleteTransfer_MueveStockEntreBodegas(t *testing.T) {
	e, store := newEngine(t)
	ctx := context.Background()
	p := seedProduct(t, e, "SKU-D", 6, "100")

	transfer, err := e.CreateTransfer(ctx, inventory.TransferCommand{
		SourceWarehouseID: whA,
		DestWarehouseID:   whB,
		Lines:             []entity.TransferLine{{ProductID: p.ID, Quantity: 4}},
		ActorID:           testActor,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferPending, transfer.Status)
	assert.Equal(t, int64(6), warehouseStock(t, store, p.ID, whA), "crear el traslado no mueve stock")

	completed, err := e.CompleteTransfer(ctx, transfer.ID, testActor)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	assert.Equal(t, int64(2), warehouseStock(t, store, p.ID, whA))
	assert.Equal(t, int64(4), warehouseStock(t, store, p.ID, whB))
	assert.Equal(t, int64(6), currentProduct(t, store, p.ID).Stock, "el total no cambia")

	outs := ledgerOf(t, store, p.ID, entity.MovementTransferOut)
	ins := ledgerOf(t, store, p.ID, entity.MovementTransferIn)
	require.Len(t, outs, 1)
	require.Len(t, ins, 1)
	assert.Equal(t, int64(-4), outs[0].Delta)
	assert.Equal(t, whA, outs[0].WarehouseID)
	assert.Equal(t, entity.EntryFinal, outs[0].State)
	assert.Equal(t, int64(4), ins[0].Delta)
	assert.Equal(t, whB, ins[0].WarehouseID)
	assert.Equal(t, int64(0), ins[0].StockBefore)
	assert.Equal(t, int64(4), ins[0].StockAfter)
}

// Escenario E: ajuste -5 sobre stock 3 → InvalidAdjustment, stock intacto.
func TestRecordAdjustment_DejariaStockNegativo(t *testing.T) {
	e, store := newEngine(t)
	p := seedProduct(t, e, "SKU-E", 3, "100")

	_, err := e.RecordAdjustment(context.Background(), inventory.AdjustmentCommand{
		ProductID: p.ID,
		Delta:     -5,
		Reason:    "conteo físico",
		ActorID:   testActor,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAdjustment)
	assert.Equal(t, int64(3), currentProduct(t, store, p.ID).Stock)
	assert.Len(t, ledgerOf(t, store, p.ID, entity.MovementAdjustment), 1, "solo el ajuste de inventario inicial")
}

// ──────────────────────────────────────────────────────────────────────────────
// Compras
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordPurchase_SumaStockYRecalculaCosto(t *testing.T) {
	e, store := newEngine(t)
	ctx := context.Background()
	p := seedProduct(t, e, "SKU-P", 0, "100")

	_, err := e.RecordPurchase(ctx, inventory.PurchaseCommand{
		SupplierID: "prov-1",
		Lines:      []inventory.PurchaseLine{{ProductID: p.ID, Quantity: 10, UnitPrice: decimal.NewFromInt(50)}},
		ActorID:    testActor,
	})
	require.NoError(t, err)
	purchase, err := e.RecordPurchase(ctx, inventory.PurchaseCommand{
		SupplierID:    "prov-1",
		InvoiceNumber: "FAC-001",
		Lines:         []inventory.PurchaseLine{{ProductID: p.ID, Quantity: 10, UnitPrice: decimal.NewFromInt(70)}},
		ActorID:       testActor,
	})
	require.NoError(t, err)

	got := currentProduct(t, store, p.ID)
	assert.Equal(t, int64(20), got.Stock)
	assert.True(t, got.Cost.Equal(decimal.NewFromInt(60)), "costo promedio (10x50 + 10x70) / 20 = 60, obtenido %s", got.Cost)
	assert.Equal(t, entity.PurchasePending, purchase.Status)
	assert.True(t, purchase.Total.Equal(decimal.NewFromInt(700)))
	assert.Len(t, ledgerOf(t, store, p.ID, entity.MovementPurchase), 2)
}

func TestRecordPurchase_ProductoInexistenteNoEscribeNada(t *testing.T) {
	e, store := newEngine(t)
	p := seedProduct(t, e, "SKU-P2", 1, "100")

	_, err := e.RecordPurchase(context.Background(), inventory.PurchaseCommand{
		Lines: []inventory.PurchaseLine{
			{ProductID: p.ID, Quantity: 5, UnitPrice: decimal.NewFromInt(10)},
			{ProductID: "no-existe", Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
		},
		ActorID: testActor,
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, int64(1), currentProduct(t, store, p.ID).Stock, "la primera línea tampoco debe aplicarse")
	assert.Empty(t, ledgerOf(t, store, p.ID, entity.MovementPurchase))
}

func TestCancelPurchase_CompensaYRechazaSegundaCancelacion(t *testing.T) {
	e, store := newEngine(t)
	ctx := context.Background()
	p := seedProduct(t, e, "SKU-CP", 2, "100")

	purchase, err := e.RecordPurchase(ctx, inventory.PurchaseCommand{
		Lines:   []inventory.PurchaseLine{{ProductID: p.ID, Quantity: 8, UnitPrice: decimal.NewFromInt(10)}},
		ActorID: testActor,
	})
	require.NoError(t, err)
	require.Equal(t, int64(10), currentProduct(t, store, p.ID).Stock)

	cancelled, err := e.CancelPurchase(ctx, purchase.ID, testActor)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseCancelled, cancelled.Status)
	assert.Equal(t, int64(2), currentProduct(t, store, p.ID).Stock)

	entries := ledgerOf(t, store, p.ID, entity.MovementPurchase)
	require.Len(t, entries, 2)
	compensation, original := entries[0], entries[1]
	assert.Equal(t, int64(-8), compensation.Delta)
	assert.Equal(t, original.ID, compensation.ReversesID)
	assert.True(t, compensation.IsCompensation())

	_, err = e.CancelPurchase(ctx, purchase.ID, testActor)
	assert.ErrorIs(t, err, domain.ErrPurchaseNotPending, "la cancelación solo es legal una vez")
	assert.Len(t, ledgerOf(t, store, p.ID, entity.MovementPurchase), 2, "no se anexa una segunda compensación")
	assert.Equal(t, ledgerSum(t, store, p.ID), currentProduct(t, store, p.ID).Stock)
}

func TestCancelPurchase_MercanciaYaVendida(t *testing.T) {
	e, store := newEngine(t)
	ctx := context.Background()
	p := seedProduct(t, e, "SKU-CV", 0, "100")

	purchase, err := e.RecordPurchase(ctx, inventory.PurchaseCommand{
		Lines:   []inventory.PurchaseLine{{ProductID: p.ID, Quantity: 5, UnitPrice: decimal.NewFromInt(10)}},
		ActorID: testActor,
	})
	require.NoError(t, err)
	_, err = e.RecordSale(ctx, inventory.SaleCommand{Lines: []inventory.SaleLine{{ProductID: p.ID, Quantity: 4}}, ActorID: testActor})
	require.NoError(t, err)

	_, err = e.CancelPurchase(ctx, purchase.ID, testActor)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(1), currentProduct(t, store, p.ID).Stock)
}

func TestCompletePurchase_ImpideCancelar(t *testing.T) {
	e, _ := newEngine(t)
	ctx := context.Background()
	p := seedProduct(t, e, "SKU-CO", 0, "100")

	purchase, err := e.RecordPurchase(ctx, inventory.PurchaseCommand{
		Lines:   []inventory.PurchaseLine{{ProductID: p.ID, Quantity: 3, UnitPrice: decimal.NewFromInt(10)}},
		ActorID: testActor,
	})
	require.NoError(t, err)

	completed, err := e.CompletePurchase(ctx, purchase.ID, testActor)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseCompleted, completed.Status)

	_, err = e.CancelPurchase(ctx, purchase.ID, testActor)
	assert.ErrorIs(t, err, domain.ErrPurchaseNotPending)

	_, err = e.CancelPurchase(ctx, "no-existe", testActor)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas y ajustes
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordSale_LineasRepetidasSeAcumulan(t *testing.T) {
	e, store := newEngine(t)
	p := seedProduct(t, e, "SKU-R", 5, "10")

	_, err := e.RecordSale(context.Background(), inventory.SaleCommand{
		Lines: []inventory.SaleLine{
			{ProductID: p.ID, Quantity: 3},
			{ProductID: p.ID, Quantity: 3},
		},
		ActorID: testActor,
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(2), insufficient.Available, "la segunda línea ve lo que deja la primera")
	assert.Equal(t, int64(5), currentProduct(t, store, p.ID).Stock)
}

func TestRecordSale_EntradasInvalidas(t *testing.T) {
	e, _ := newEngine(t)
	p := seedProduct(t, e, "SKU-I", 5, "10")
	ctx := context.Background()

	_, err := e.RecordSale(ctx, inventory.SaleCommand{ActorID: testActor})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = e.RecordSale(ctx, inventory.SaleCommand{Lines: []inventory.SaleLine{{ProductID: p.ID, Quantity: 0}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = e.RecordSale(ctx, inventory.SaleCommand{PaymentMethod: "bitcoin", Lines: []inventory.SaleLine{{ProductID: p.ID, Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "método de pago desconocido")

	_, err = e.RecordSale(ctx, inventory.SaleCommand{Lines: []inventory.SaleLine{{ProductID: "no-existe", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestRecordAdjustment_DeltaCero(t *testing.T) {
	e, _ := newEngine(t)
	p := seedProduct(t, e, "SKU-Z", 3, "10")

	_, err := e.RecordAdjustment(context.Background(), inventory.AdjustmentCommand{ProductID: p.ID, Delta: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidAdjustment)
}

func TestRecordAdjustment_RegistraMotivo(t *testing.T) {
	e, store := newEngine(t)
	p := seedProduct(t, e, "SKU-M", 3, "10")

	entry, err := e.RecordAdjustment(context.Background(), inventory.AdjustmentCommand{
		ProductID: p.ID,
		Delta:     -2,
		Reason:    "merma",
		ActorID:   testActor,
	})
	require.NoError(t, err)
	assert.Equal(t, "merma", entry.Reason)
	assert.Equal(t, int64(3), entry.StockBefore)
	assert.Equal(t, int64(1), entry.StockAfter)
	assert.NotZero(t, entry.Seq, "el almacén asigna la secuencia")
	assert.Equal(t, int64(1), currentProduct(t, store, p.ID).Stock)
}

func TestRegisterProduct_StockInicialEnKardex(t *testing.T) {
	e, store := newEngine(t)
	p := seedProduct(t, e, "SKU-N", 12, "10")

	assert.True(t, p.Active)
	assert.Equal(t, int64(12), p.Stock)
	entries := ledgerOf(t, store, p.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.MovementAdjustment, entries[0].Kind)
	assert.Equal(t, inventory.InitialStockReason, entries[0].Reason)

	_, err := e.RegisterProduct(context.Background(), &entity.Product{SKU: "SKU-N", Name: "otro", WarehouseID: whA}, 0, testActor)
	assert.ErrorIs(t, err, domain.ErrDuplicate, "SKU único")
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateTransfer_StockInsuficienteEnOrigen(t *testing.T) {
	e, store := newEngine(t)
	p := seedProduct(t, e, "SKU-T1", 3, "10")

	_, err := e.CreateTransfer(context.Background(), inventory.TransferCommand{
		SourceWarehouseID: whB,
		DestWarehouseID:   whA,
		Lines:             []entity.TransferLine{{ProductID: p.ID, Quantity: 1}},
		ActorID:           testActor,
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, whB, insufficient.WarehouseID)
	assert.Equal(t, int64(0), insufficient.Available)
	assert.Empty(t, ledgerOf(t, store, p.ID, entity.MovementTransferOut))
}

func TestCancelTransfer_CompensaSinMoverStock(t *testing.T) {
	e, store := newEngine(t)
	ctx := context.Background()
	p := seedProduct(t, e, "SKU-T2", 6, "10")

	transfer, err := e.CreateTransfer(ctx, inventory.TransferCommand{
		SourceWarehouseID: whA,
		DestWarehouseID:   whB,
		Lines:             []entity.TransferLine{{ProductID: p.ID, Quantity: 4}},
		ActorID:           testActor,
	})
	require.NoError(t, err)

	cancelled, err := e.CancelTransfer(ctx, transfer.ID, testActor)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	assert.Equal(t, int64(6), warehouseStock(t, store, p.ID, whA))
	assert.Equal(t, int64(0), warehouseStock(t, store, p.ID, whB))

	outs := ledgerOf(t, store, p.ID, entity.MovementTransferOut)
	require.Len(t, outs, 2)
	for _, o := range outs {
		assert.Equal(t, entity.EntryFinal, o.State)
	}
	assert.Equal(t, int64(4), outs[0].Delta)
	assert.Equal(t, outs[1].ID, outs[0].ReversesID)
	assert.Equal(t, int64(6), ledgerSum(t, store, p.ID))

	_, err = e.CompleteTransfer(ctx, transfer.ID, testActor)
	assert.ErrorIs(t, err, domain.ErrTransferNotPending)
	_, err = e.CancelTransfer(ctx, transfer.ID, testActor)
	assert.ErrorIs(t, err, domain.ErrTransferNotPending)
}

func TestCompleteTransfer_RevalidaStockDeOrigen(t *testing.T) {
	e, store := newEngine(t)
	ctx := context.Background()
	p := seedProduct(t, e, "SKU-T3", 5, "10")

	transfer, err := e.CreateTransfer(ctx, inventory.TransferCommand{
		SourceWarehouseID: whA,
		DestWarehouseID:   whB,
		Lines:             []entity.TransferLine{{ProductID: p.ID, Quantity: 4}},
		ActorID:           testActor,
	})
	require.NoError(t, err)
	// Mientras el traslado está pendiente se vende parte del stock de origen.
	_, err = e.RecordSale(ctx, inventory.SaleCommand{Lines: []inventory.SaleLine{{ProductID: p.ID, Quantity: 3}}, ActorID: testActor})
	require.NoError(t, err)

	_, err = e.CompleteTransfer(ctx, transfer.ID, testActor)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(2), warehouseStock(t, store, p.ID, whA))

	pending := ledgerOf(t, store, p.ID, entity.MovementTransferOut)
	require.Len(t, pending, 1)
	assert.Equal(t, entity.EntryPending, pending[0].State, "el traslado sigue pendiente")
}

func TestCompleteTransfer_Inexistente(t *testing.T) {
	e, _ := newEngine(t)
	_, err := e.CompleteTransfer(context.Background(), "no-existe", testActor)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Desactivación con traslados pendientes
// ──────────────────────────────────────────────────────────────────────────────

func TestCancelTransfer_ProductoDesactivado(t *testing.T) {
	e, store := newEngine(t)
	ctx := context.Background()
	p := seedProduct(t, e, "SKU-T4", 6, "10")

	transfer, err := e.CreateTransfer(ctx, inventory.TransferCommand{
		SourceWarehouseID: whA,
		DestWarehouseID:   whB,
		Lines:             []entity.TransferLine{{ProductID: p.ID, Quantity: 4}},
		ActorID:           testActor,
	})
	require.NoError(t, err)

	// Fila desactivada por fuera del motor con el traslado aún pendiente.
	products := store.Repositories().Products()
	inactive := currentProduct(t, store, p.ID)
	inactive.Active = false
	require.NoError(t, products.Update(ctx, inactive))

	_, err = e.CompleteTransfer(ctx, transfer.ID, testActor)
	assert.ErrorIs(t, err, domain.ErrProductNotFound, "un producto inactivo no mueve stock")

	cancelled, err := e.CancelTransfer(ctx, transfer.ID, testActor)
	require.NoError(t, err, "el traslado pendiente debe poder anularse")
	assert.Equal(t, entity.TransferCancelled, cancelled.Status)

	pending, err := store.Repositories().Ledger().SumPendingByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, pending, "no quedan unidades en tránsito")

	after, err := products.GetAny(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.False(t, after.Active, "anular no reactiva el producto")
	assert.Equal(t, after.Stock, ledgerSum(t, store, p.ID))
	assert.Equal(t, int64(6), warehouseStock(t, store, p.ID, whA))
}

func TestDeactivateProduct_RechazaConTrasladoPendiente(t *testing.T) {
	e, store := newEngine(t)
	ctx := context.Background()
	p := seedProduct(t, e, "SKU-T5", 6, "10")

	transfer, err := e.CreateTransfer(ctx, inventory.TransferCommand{
		SourceWarehouseID: whA,
		DestWarehouseID:   whB,
		Lines:             []entity.TransferLine{{ProductID: p.ID, Quantity: 4}},
		ActorID:           testActor,
	})
	require.NoError(t, err)

	err = e.DeactivateProduct(ctx, p.ID, testActor)
	require.ErrorIs(t, err, domain.ErrPendingTransfers)
	assert.False(t, errors.Is(err, domain.ErrConflict), "no es un conflicto reintentable")
	assert.True(t, currentProduct(t, store, p.ID).Active, "el producto sigue activo")

	_, err = e.CompleteTransfer(ctx, transfer.ID, testActor)
	require.NoError(t, err)

	require.NoError(t, e.DeactivateProduct(ctx, p.ID, testActor))
	_, err = store.Repositories().Products().Get(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	err = e.DeactivateProduct(ctx, p.ID, testActor)
	assert.ErrorIs(t, err, domain.ErrProductNotFound, "desactivar dos veces falla")
}
