package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "acasinha"

// Metrics holds the Prometheus collectors for the application. Each
// instance owns its registry so tests can create as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	ExpensesRecorded  prometheus.Counter
	AmountRecorded    prometheus.Counter
	ExpensesRejected  *prometheus.CounterVec
	SummariesComputed prometheus.Counter
	ComputeFailures   prometheus.Counter
	LedgerSize        prometheus.Gauge
	HTTPRequests      *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ExpensesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_recorded_total",
			Help:      "Total number of expenses appended to the ledger",
		}),
		AmountRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expense_amount_recorded_total",
			Help:      "Sum of the total amount of every recorded expense",
		}),
		ExpensesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_rejected_total",
			Help:      "Expense submissions rejected by validation",
		}, []string{"reason"}),
		SummariesComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_computed_total",
			Help:      "Number of balance computations",
		}),
		ComputeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "balance_compute_failures_total",
			Help:      "Balance computations aborted by an invalid user reference",
		}),
		LedgerSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_expenses",
			Help:      "Number of expenses currently in the ledger",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.ExpensesRecorded,
		m.AmountRecorded,
		m.ExpensesRejected,
		m.SummariesComputed,
		m.ComputeFailures,
		m.LedgerSize,
		m.HTTPRequests,
		collectors.NewGoCollector(),
	)

	return m
}

// ExpenseRecorded updates the counters for one appended expense.
func (m *Metrics) ExpenseRecorded(amount decimal.Decimal, ledgerSize int) {
	m.ExpensesRecorded.Inc()
	m.AmountRecorded.Add(amount.InexactFloat64())
	m.LedgerSize.Set(float64(ledgerSize))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
