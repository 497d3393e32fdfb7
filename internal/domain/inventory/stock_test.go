package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/inventory"
)

func TestApplyDelta_Entrada(t *testing.T) {
	next, err := inventory.ApplyDelta("p1", "w1", 10, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(15), next)
}

func TestApplyDelta_SalidaHastaCero(t *testing.T) {
	next, err := inventory.ApplyDelta("p1", "w1", 3, -3)
	require.NoError(t, err)
	assert.Equal(t, int64(0), next)
}

// Una salida mayor al stock no deja el stock negativo y reporta disponible vs solicitado.
func TestApplyDelta_StockInsuficiente(t *testing.T) {
	next, err := inventory.ApplyDelta("p1", "w1", 2, -5)
	require.Error(t, err)
	assert.Equal(t, int64(2), next, "el stock no debe cambiar")
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, int64(2), ise.Available)
	assert.Equal(t, int64(5), ise.Requested)
}

func TestReconciled(t *testing.T) {
	assert.True(t, inventory.Reconciled(10, 10, 0))
	// traslado pendiente de 4: el kardex ya muestra la salida, el stock aún no
	assert.True(t, inventory.Reconciled(10, 6, -4))
	assert.False(t, inventory.Reconciled(10, 6, 0))
}

func TestWeightedAverageCost(t *testing.T) {
	// 10 unidades a 100 + 10 unidades a 200 => 150
	got := inventory.WeightedAverageCost(10, decimal.NewFromInt(100), 10, decimal.NewFromInt(200))
	assert.True(t, got.Equal(decimal.NewFromInt(150)), "costo obtenido %s", got)

	// sin stock previo toma el costo de la entrada
	got = inventory.WeightedAverageCost(0, decimal.Zero, 4, decimal.NewFromInt(25))
	assert.True(t, got.Equal(decimal.NewFromInt(25)))

	assert.True(t, inventory.WeightedAverageCost(0, decimal.Zero, 0, decimal.NewFromInt(25)).IsZero())
}
