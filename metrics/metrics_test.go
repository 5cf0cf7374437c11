package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseRecorded(t *testing.T) {
	m := New()
	m.ExpenseRecorded(decimal.NewFromInt(300), 1)
	m.ExpenseRecorded(decimal.RequireFromString("0.5"), 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ExpensesRecorded))
	assert.Equal(t, 300.5, testutil.ToFloat64(m.AmountRecorded))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LedgerSize))
}

func TestIndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.SummariesComputed.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.SummariesComputed))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.SummariesComputed))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ExpensesRejected.WithLabelValues("invalid_amount").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `acasinha_expenses_rejected_total{reason="invalid_amount"} 1`)
}
