// Package observability holds the Prometheus metrics and OpenTelemetry tracing setup.
package observability

import (
	"context"
	"errors"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the service's Prometheus instruments. A nil *Metrics is valid and records nothing.
type Metrics struct {
	rpcRequests      *prometheus.CounterVec
	rpcDuration      *prometheus.HistogramVec
	ledgerOperations *prometheus.CounterVec
	partialWrites    *prometheus.CounterVec
	billsSettled     prometheus.Counter
	reconcileRepairs *prometheus.CounterVec
}

// NewMetrics creates the instruments and registers them with registerer
// (prometheus.DefaultRegisterer when nil).
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		rpcRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billmate_rpc_requests_total",
				Help: "Total RPC calls by procedure and Connect code.",
			},
			[]string{"procedure", "code"},
		),
		rpcDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "billmate_rpc_duration_seconds",
				Help:    "RPC handling latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"procedure"},
		),
		ledgerOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billmate_ledger_operations_total",
				Help: "Ledger operations by name and result.",
			},
			[]string{"operation", "result"}, // ok | error
		),
		partialWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billmate_ledger_partial_writes_total",
				Help: "Two-phase writes whose second phase failed.",
			},
			[]string{"operation"},
		),
		billsSettled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "billmate_bills_settled_total",
				Help: "Bills transitioned to settled.",
			},
		),
		reconcileRepairs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billmate_reconcile_repairs_total",
				Help: "Inconsistencies repaired by the reconcile sweep.",
			},
			[]string{"kind"}, // group_link | settlement
		),
	}

	registerer.MustRegister(
		m.rpcRequests,
		m.rpcDuration,
		m.ledgerOperations,
		m.partialWrites,
		m.billsSettled,
		m.reconcileRepairs,
	)
	return m
}

// ObserveLedgerOperation counts one ledger call.
func (m *Metrics) ObserveLedgerOperation(operation string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.ledgerOperations.WithLabelValues(operation, result).Inc()
}

// IncPartialWrite counts a two-phase write left half done.
func (m *Metrics) IncPartialWrite(operation string) {
	if m == nil {
		return
	}
	m.partialWrites.WithLabelValues(operation).Inc()
}

// IncBillsSettled counts a bill moving to settled.
func (m *Metrics) IncBillsSettled() {
	if m == nil {
		return
	}
	m.billsSettled.Inc()
}

// AddReconcileRepairs counts repairs made by one reconcile sweep.
func (m *Metrics) AddReconcileRepairs(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.reconcileRepairs.WithLabelValues(kind).Add(float64(n))
}

// Interceptor returns a Connect interceptor that counts and times every RPC.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if m == nil {
				return next(ctx, req)
			}
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeUnknown.String()
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					code = connectErr.Code().String()
				}
			}
			m.rpcRequests.WithLabelValues(procedure, code).Inc()
			m.rpcDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}
