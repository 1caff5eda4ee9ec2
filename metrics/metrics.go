// Package metrics exposes Prometheus instruments for the thought list.
package metrics

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Removal reasons used as the "reason" label.
const (
	ReasonManual  = "manual"
	ReasonExpired = "expired"
)

// Metrics groups the instruments. A nil *Metrics is valid and records nothing.
type Metrics struct {
	added   prometheus.Counter
	removed *prometheus.CounterVec
	active  prometheus.Gauge
}

// New registers the instruments with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		added: f.NewCounter(prometheus.CounterOpts{
			Namespace: "passing_thoughts",
			Name:      "added_total",
			Help:      "Thoughts accepted into the list.",
		}),
		removed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "passing_thoughts",
			Name:      "removed_total",
			Help:      "Thoughts removed from the list, by reason.",
		}, []string{"reason"}),
		active: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "passing_thoughts",
			Name:      "active",
			Help:      "Thoughts currently in the list.",
		}),
	}
}

// Added records n new thoughts and the resulting list length.
func (m *Metrics) Added(n, active int) {
	if m == nil {
		return
	}
	m.added.Add(float64(n))
	m.active.Set(float64(active))
}

// Removed records n thoughts removed for reason and the resulting list length.
func (m *Metrics) Removed(reason string, n, active int) {
	if m == nil {
		return
	}
	m.removed.WithLabelValues(reason).Add(float64(n))
	m.active.Set(float64(active))
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, log zerolog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", addr)
	}
	return ServeListener(ctx, ln, g, log)
}

// ServeListener exposes /metrics on ln until ctx is cancelled. ln is closed on return.
func ServeListener(ctx context.Context, ln net.Listener, g prometheus.Gatherer, log zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	addr := ln.Addr().String()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("metrics listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown metrics server")
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrapf(err, "serve metrics on %s", addr)
	}
}
