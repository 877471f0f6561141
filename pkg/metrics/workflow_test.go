package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflowMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWorkflowMetrics(reg)

	m.IncReservation("stock")
	m.IncReservation("stock")
	m.IncReservation("coupon")
	m.IncRedemption("recorded")
	m.IncRedemption("out_of_stock")
	m.AddRowsDropped("availability", "product_outside_category", 3)
	m.AddRowsDropped("availability", "product_outside_category", 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	stock, err := fetchCounterValue(mfs, "popmakeup_reservations_created_total", "kind", "stock")
	require.NoError(t, err)
	assert.Equal(t, 2.0, stock)

	coupon, err := fetchCounterValue(mfs, "popmakeup_reservations_created_total", "kind", "coupon")
	require.NoError(t, err)
	assert.Equal(t, 1.0, coupon)

	recorded, err := fetchCounterValue(mfs, "popmakeup_redemptions_total", "outcome", "recorded")
	require.NoError(t, err)
	assert.Equal(t, 1.0, recorded)

	dropped, err := fetchCounterValue(mfs, "popmakeup_rows_dropped_total", "reason", "product_outside_category")
	require.NoError(t, err)
	assert.Equal(t, 3.0, dropped)
}

func TestWorkflowMetricsNilSafe(t *testing.T) {
	var m *WorkflowMetrics
	assert.NotPanics(t, func() {
		m.IncReservation("stock")
		m.IncRedemption("recorded")
		m.AddRowsDropped("q", "r", 1)
	})
	assert.NotPanics(t, func() {
		NewWorkflowMetrics(nil).IncRedemption("failed")
	})
}
