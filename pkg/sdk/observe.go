package carelens

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	frames     prometheus.Counter
	version    prometheus.Gauge
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "carelens",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK operations by type and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "carelens",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"operation"}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "carelens",
			Subsystem: "sdk",
			Name:      "frames_delivered_total",
			Help:      "Frames delivered to subscribers.",
		}),
		version: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "carelens",
			Subsystem: "sdk",
			Name:      "state_version",
			Help:      "Latest state version produced by the session.",
		}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.frames); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.version); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("carelens: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("carelens: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for SDK operations.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m}, nil
}

// withSession tags every log line with the session id.
func (o *observer) withSession(id string) *observer {
	if o == nil || o.logger == nil {
		return o
	}
	return &observer{logger: o.logger.With("session", id), metrics: o.metrics}
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger != nil {
		if err != nil {
			o.logger.Warn("operation failed", "op", op, "duration", dur, "error", err)
		} else {
			o.logger.Debug("operation completed", "op", op, "duration", dur)
		}
	}
}

// stateChanged records a new state version.
func (o *observer) stateChanged(s State) {
	if o == nil {
		return
	}
	if o.metrics != nil {
		o.metrics.version.Set(float64(s.Version))
	}
	if o.logger != nil {
		o.logger.Debug("state changed",
			"version", s.Version,
			"county", s.Selection.CountyKey,
			"provider", s.Selection.ProviderKey,
			"top_n", s.Filter.TopN,
		)
	}
}

// frameDelivered counts a frame handed to a subscriber.
func (o *observer) frameDelivered() {
	if o == nil || o.metrics == nil {
		return
	}
	o.metrics.frames.Inc()
}
