package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveLedgerOperation("create_bill", nil)
	m.IncPartialWrite("create_bill")
	m.IncBillsSettled()
	m.AddReconcileRepairs("settlement", 2)
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveLedgerOperation("confirm_payment", nil)
	m.ObserveLedgerOperation("confirm_payment", errors.New("boom"))
	m.ObserveLedgerOperation("confirm_payment", nil)
	m.IncBillsSettled()
	m.AddReconcileRepairs("group_link", 3)
	m.AddReconcileRepairs("group_link", 0)

	require.Equal(t, 2.0, testutil.ToFloat64(m.ledgerOperations.WithLabelValues("confirm_payment", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ledgerOperations.WithLabelValues("confirm_payment", "error")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.billsSettled))
	require.Equal(t, 3.0, testutil.ToFloat64(m.reconcileRepairs.WithLabelValues("group_link")))
}

func TestClampRatio(t *testing.T) {
	require.Equal(t, 0.1, clampRatio(0))
	require.Equal(t, 0.5, clampRatio(0.5))
	require.Equal(t, 1.0, clampRatio(7))
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	shutdown, err := NewTracerProvider(context.Background(), TracingConfig{})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestNewTracerProvider_UnknownExporter(t *testing.T) {
	_, err := NewTracerProvider(context.Background(), TracingConfig{Enabled: true, Exporter: "zipkin"})
	require.Error(t, err)
}

func TestNewTracerProvider_Stdout(t *testing.T) {
	shutdown, err := NewTracerProvider(context.Background(), TracingConfig{
		Enabled:     true,
		ServiceName: "billmate-test",
		Exporter:    "stdout",
	})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
