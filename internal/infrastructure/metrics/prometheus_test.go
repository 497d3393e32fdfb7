package metrics_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/domain"
	"github.com/jhoicas/kardex-api/internal/domain/entity"
	"github.com/jhoicas/kardex-api/internal/infrastructure/metrics"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, metrics.ResultOK},
		{fmt.Errorf("record_sale: %w", domain.ErrOperationTimedOut), metrics.ResultTimeout},
		{&domain.InsufficientStockError{ProductID: "p", Available: 1, Requested: 2}, metrics.ResultInsufficientStock},
		{fmt.Errorf("%w: %w", domain.ErrInvalidAdjustment, &domain.InsufficientStockError{}), metrics.ResultInsufficientStock},
		{domain.ErrConflict, metrics.ResultConflict},
		{domain.ErrProductNotFound, metrics.ResultNotFound},
		{domain.ErrInvalidTransfer, metrics.ResultInvalid},
		{errors.New("boom"), metrics.ResultError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, metrics.Classify(c.err), "error: %v", c.err)
	}
}

func TestRecorder_CuentaOperacionesYMovimientos(t *testing.T) {
	r := metrics.NewRecorder("test")

	r.ObserveOperation("record_sale", 15*time.Millisecond, nil)
	r.ObserveOperation("record_sale", 5*time.Millisecond, domain.ErrConflict)
	r.MovementRecorded(entity.MovementSale, 3)
	r.MovementRecorded(entity.MovementSale, 2)

	expected := `
# HELP test_ledger_units_total Unidades movidas (valor absoluto del delta) por tipo.
# TYPE test_ledger_units_total counter
test_ledger_units_total{kind="sale"} 5
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "test_ledger_units_total"))

	expectedOps := `
# HELP test_operations_total Operaciones del motor de inventario por resultado.
# TYPE test_operations_total counter
test_operations_total{operation="record_sale",result="conflict"} 1
test_operations_total{operation="record_sale",result="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expectedOps), "test_operations_total"))
}

func TestRecorder_Handler(t *testing.T) {
	r := metrics.NewRecorder("")
	r.MovementRecorded(entity.MovementPurchase, 10)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `kardex_ledger_entries_total{kind="purchase"} 1`)
}
