package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_AddedAndRemoved(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Added(2, 2)
	m.Added(1, 3)
	m.Removed(ReasonManual, 1, 2)
	m.Removed(ReasonExpired, 2, 0)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.added))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.removed.WithLabelValues(ReasonManual)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.removed.WithLabelValues(ReasonExpired)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.active))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Added(1, 1)
		m.Removed(ReasonManual, 1, 0)
	})
}

func TestServeListener_ExposesMetricsUntilCancel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Added(2, 2)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- ServeListener(ctx, ln, reg, zerolog.Nop()) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "passing_thoughts_added_total 2")
	assert.Contains(t, string(body), "passing_thoughts_active 2")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not stop after cancel")
	}
}

func TestServe_BadAddr(t *testing.T) {
	err := Serve(context.Background(), "not-an-address", prometheus.NewRegistry(), zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on")
}
