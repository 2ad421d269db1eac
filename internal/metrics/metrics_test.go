package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("load_chunk", time.Millisecond, nil)
	m.ObserveRequest("load_chunk", time.Millisecond, errors.New("boom"))
	m.ObserveRequest("geometry", time.Millisecond, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("load_chunk")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestErrors.WithLabelValues("load_chunk")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("geometry")))
}

func TestGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SetChunks(12, 3)
	m.SetQueueDepth(4)
	m.AddFaces(100, 7)

	assert.Equal(t, 12.0, testutil.ToFloat64(m.resident))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.pendingLoads))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.queueDepth))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.faces.WithLabelValues("transparent")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("x", time.Second, nil)
		m.AddFaces(1, 1)
		m.SetQueueDepth(1)
		m.SetChunks(1, 1)
		m.ObserveFrame(time.Second)
	})
}
