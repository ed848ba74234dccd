package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	// Register should be safe to call multiple times
	Register()
	Register()

	assert.NotPanics(t, func() {
		ObserveHTTP("GET", "/api/cars", "200", 0.01)
	})

	before := testutil.ToFloat64(bookingConflicts)
	IncBookingConflict()
	assert.Equal(t, before+1, testutil.ToFloat64(bookingConflicts))

	ObserveReturn("fair", 130)
	assert.Equal(t, 1.0, testutil.ToFloat64(returnsProcessed.WithLabelValues("fair")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(returnCharges), 130.0)
}
