package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.AttemptMade()
	m.AttemptMade()
	m.DeliveryFinished(false)
	m.DeliveryFinished(true)
	m.SignalFailed("webgl")
	m.SignalFailed("webgl")
	m.SignalFailed("audio")
	m.ObserveCollect(30 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.attempts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues("delivered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveries.WithLabelValues("abandoned")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.signalFailures.WithLabelValues("webgl")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.collectDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.AttemptMade()
	m.DeliveryFinished(true)
	m.SignalFailed("canvas")
	m.ObserveCollect(time.Second)
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile("/nonexistent/metrics.prom"))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.AttemptMade()
	m.DeliveryFinished(true)

	path := filepath.Join(t.TempDir(), "fingerprint.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fingerprint_delivery_attempts_total 1")
	assert.Contains(t, string(data), `fingerprint_deliveries_total{result="delivered"} 1`)
}
