package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/infrastructure/memory"
)

const actor = "user-1"

func newProductUseCase() (*usecase.ProductUseCase, *inventory.MovementEngine) {
	store := memory.NewStore()
	engine := inventory.NewMovementEngine(store, inventory.EngineDeps{})
	return usecase.NewProductUseCase(engine, store.Repositories().Products()), engine
}

func createReq(sku string, initial int64) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		SKU:          sku,
		Name:         "Shampoo " + sku,
		Price:        decimal.RequireFromString("25000"),
		WarehouseID:  "bodega-a",
		InitialStock: initial,
	}
}

func TestProductUseCase_CreateRegistraStockInicialEnKardex(t *testing.T) {
	uc, engine := newProductUseCase()
	ctx := context.Background()

	resp, err := uc.Create(ctx, actor, createReq("SH-01", 12))
	require.NoError(t, err)
	assert.Equal(t, int64(12), resp.Stock)
	assert.Equal(t, entity.DefaultMinStock, resp.MinStock, "sin mínimo se aplica el valor por defecto")
	assert.True(t, resp.Active)
	assert.True(t, resp.Cost.IsZero())

	report, err := engine.Reconcile(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), report.LedgerTotal, "el stock inicial entra por el kardex")
}

func TestProductUseCase_CreateDuplicadoEInvalidos(t *testing.T) {
	uc, _ := newProductUseCase()
	ctx := context.Background()

	_, err := uc.Create(ctx, actor, createReq("SH-02", 0))
	require.NoError(t, err)

	_, err = uc.Create(ctx, actor, createReq("SH-02", 0))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	neg := int64(-1)
	req := createReq("SH-03", 0)
	req.MinStock = &neg
	_, err = uc.Create(ctx, actor, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = createReq("  ", 0)
	_, err = uc.Create(ctx, actor, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUseCase_UpdateNoTocaStockNiCosto(t *testing.T) {
	uc, _ := newProductUseCase()
	ctx := context.Background()

	created, err := uc.Create(ctx, actor, createReq("SH-04", 7))
	require.NoError(t, err)

	name := "Shampoo premium"
	price := decimal.RequireFromString("30000")
	minStock := int64(3)
	updated, err := uc.Update(ctx, created.ID, dto.UpdateProductRequest{Name: &name, Price: &price, MinStock: &minStock})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.True(t, updated.Price.Equal(price))
	assert.Equal(t, int64(3), updated.MinStock)
	assert.Equal(t, int64(7), updated.Stock)

	negative := decimal.NewFromInt(-1)
	_, err = uc.Update(ctx, created.ID, dto.UpdateProductRequest{Price: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(ctx, "no-existe", dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductUseCase_DeleteDesactiva(t *testing.T) {
	uc, engine := newProductUseCase()
	ctx := context.Background()

	created, err := uc.Create(ctx, actor, createReq("SH-05", 4))
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, actor, created.ID))

	_, err = uc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound, "un producto inactivo no se expone")

	_, err = engine.RecordSale(ctx, inventory.SaleCommand{
		Lines:   []inventory.SaleLine{{ProductID: created.ID, Quantity: 1}},
		ActorID: actor,
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound, "un producto inactivo no acepta movimientos")

	list, err := uc.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	assert.Equal(t, 20, list.Page.Limit)
}

func TestProductUseCase_DeleteConTrasladoPendiente(t *testing.T) {
	uc, engine := newProductUseCase()
	ctx := context.Background()

	created, err := uc.Create(ctx, actor, createReq("SH-06", 5))
	require.NoError(t, err)
	transfer, err := engine.CreateTransfer(ctx, inventory.TransferCommand{
		SourceWarehouseID: "bodega-a",
		DestWarehouseID:   "bodega-b",
		Lines:             []entity.TransferLine{{ProductID: created.ID, Quantity: 2}},
		ActorID:           actor,
	})
	require.NoError(t, err)

	err = uc.Delete(ctx, actor, created.ID)
	assert.ErrorIs(t, err, domain.ErrPendingTransfers)

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)

	_, err = engine.CancelTransfer(ctx, transfer.ID, actor)
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, actor, created.ID), "sin pendientes la desactivación procede")
}
