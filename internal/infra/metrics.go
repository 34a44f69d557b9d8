package infra

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks feed and bridge activity.
// Atomic counters back Snapshot; the same values are mirrored into a private Prometheus registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Counters
	ticksTotal     atomic.Uint64
	updatesEmitted atomic.Uint64
	updatesApplied atomic.Uint64
	updatesDropped atomic.Uint64

	// Latency tracking
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64

	// Gauges
	subscribers atomic.Int32
	feedRunning atomic.Int32 // 1 = running, 0 = stopped

	registry     *prometheus.Registry
	ticks        prometheus.Counter
	emitted      prometheus.Counter
	applied      prometheus.Counter
	dropped      prometheus.Counter
	tickDuration prometheus.Histogram
	subsGauge    prometheus.Gauge
	runningGauge prometheus.Gauge
}

// NewMetrics creates a Metrics instance with its collectors registered on a fresh registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "token_pulse"
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ticks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "ticks_total",
			Help:      "Total number of feed ticks that emitted a batch",
		}),
		emitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "updates_emitted_total",
			Help:      "Total number of price updates emitted by the feed",
		}),
		applied: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bridge",
			Name:      "updates_applied_total",
			Help:      "Total number of price updates applied to the store",
		}),
		dropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bridge",
			Name:      "updates_dropped_total",
			Help:      "Total number of price updates whose token could not be resolved",
		}),
		tickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "tick_duration_seconds",
			Help:      "Time spent generating and dispatching one batch",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		subsGauge: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "subscribers",
			Help:      "Current number of batch subscribers",
		}),
		runningGauge: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "running",
			Help:      "1 while the feed ticker is active",
		}),
	}
}

// Registry exposes the Prometheus registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordTick records one emitted batch with its dispatch latency.
func (m *Metrics) RecordTick(batchSize int, latency time.Duration) {
	if m == nil {
		return
	}
	m.ticksTotal.Add(1)
	m.updatesEmitted.Add(uint64(batchSize))
	m.latencySumNs.Add(latency.Nanoseconds())
	m.latencyCount.Add(1)

	if m.registry != nil {
		m.ticks.Inc()
		m.emitted.Add(float64(batchSize))
		m.tickDuration.Observe(latency.Seconds())
	}
}

// RecordApplied records updates written to the store.
func (m *Metrics) RecordApplied(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.updatesApplied.Add(uint64(n))
	if m.registry != nil {
		m.applied.Add(float64(n))
	}
}

// RecordDropped records updates that referenced an unknown token.
func (m *Metrics) RecordDropped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.updatesDropped.Add(uint64(n))
	if m.registry != nil {
		m.dropped.Add(float64(n))
	}
}

// SetSubscribers sets the current subscriber count.
func (m *Metrics) SetSubscribers(count int) {
	if m == nil {
		return
	}
	m.subscribers.Store(int32(count))
	if m.registry != nil {
		m.subsGauge.Set(float64(count))
	}
}

// SetFeedRunning sets the feed state (true = running).
func (m *Metrics) SetFeedRunning(running bool) {
	if m == nil {
		return
	}
	var v int32
	if running {
		v = 1
	}
	m.feedRunning.Store(v)
	if m.registry != nil {
		m.runningGauge.Set(float64(v))
	}
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	TicksTotal     uint64
	UpdatesEmitted uint64
	UpdatesApplied uint64
	UpdatesDropped uint64
	AvgTickNs      int64
	Subscribers    int32
	FeedRunning    bool
	Timestamp      time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{Timestamp: time.Now()}
	}

	var avgLatency int64
	count := m.latencyCount.Load()
	if count > 0 {
		avgLatency = m.latencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		TicksTotal:     m.ticksTotal.Load(),
		UpdatesEmitted: m.updatesEmitted.Load(),
		UpdatesApplied: m.updatesApplied.Load(),
		UpdatesDropped: m.updatesDropped.Load(),
		AvgTickNs:      avgLatency,
		Subscribers:    m.subscribers.Load(),
		FeedRunning:    m.feedRunning.Load() == 1,
		Timestamp:      time.Now(),
	}
}
