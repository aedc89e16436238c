package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SharedStatusChanged(true)
	m.SharedStatusChanged(true)
	m.SharedStatusChanged(false)
	m.ConflictDetected("update")
	m.ObserveRPC("/krisefikser.v1.InventoryService/GetReadiness", "ok", 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("split")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("flip")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.conflicts.WithLabelValues("update")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/krisefikser.v1.InventoryService/GetReadiness", "ok")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestNew_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
