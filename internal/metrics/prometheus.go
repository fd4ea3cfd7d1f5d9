package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMetrics wraps prometheus collectors for a simulation run.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	invocationsTotal *prometheus.CounterVec
	hitsTotal        *prometheus.CounterVec
	missesTotal      *prometheus.CounterVec
	capacityMisses   *prometheus.CounterVec
	evictionsTotal   *prometheus.CounterVec

	memUsed     prometheus.Gauge
	memCapacity prometheus.Gauge
	poolSize    prometheus.Gauge
}

// InitPrometheus builds a PrometheusMetrics registry under namespace,
// which prefixes every metric name. The run command passes the
// configured metrics namespace ("cachesim" by default).
func InitPrometheus(namespace string) *PrometheusMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	pm := &PrometheusMetrics{
		registry: registry,

		invocationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invocations_total",
				Help:      "Total number of invocations observed, by kind",
			},
			[]string{"kind"},
		),
		hitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "hits_total",
				Help:      "Total number of warm-container hits, by kind",
			},
			[]string{"kind"},
		),
		missesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "misses_total",
				Help:      "Total number of cold misses, by kind",
			},
			[]string{"kind"},
		),
		capacityMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "capacity_misses_total",
				Help:      "Total number of capacity misses (admission refused), by kind",
			},
			[]string{"kind"},
		),
		evictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "evictions_total",
				Help:      "Total number of containers evicted, by kind",
			},
			[]string{"kind"},
		),
		memUsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pool_mem_used_bytes",
			Help:      "Memory currently occupied by the container pool",
		}),
		memCapacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pool_mem_capacity_bytes",
			Help:      "Fixed memory capacity of the container pool",
		}),
		poolSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pool_size",
			Help:      "Number of containers currently in the pool",
		}),
	}

	registry.MustRegister(
		pm.invocationsTotal, pm.hitsTotal, pm.missesTotal,
		pm.capacityMisses, pm.evictionsTotal,
		pm.memUsed, pm.memCapacity, pm.poolSize,
	)
	return pm
}

// RecordHit increments the hit and invocation counters for kind.
func (pm *PrometheusMetrics) RecordHit(kind string) {
	pm.invocationsTotal.WithLabelValues(kind).Inc()
	pm.hitsTotal.WithLabelValues(kind).Inc()
}

// RecordMiss increments the miss and invocation counters for kind.
func (pm *PrometheusMetrics) RecordMiss(kind string) {
	pm.invocationsTotal.WithLabelValues(kind).Inc()
	pm.missesTotal.WithLabelValues(kind).Inc()
}

// RecordCapacityMiss increments the capacity-miss and invocation
// counters for kind.
func (pm *PrometheusMetrics) RecordCapacityMiss(kind string) {
	pm.invocationsTotal.WithLabelValues(kind).Inc()
	pm.capacityMisses.WithLabelValues(kind).Inc()
}

// RecordEviction increments the eviction counter for kind.
func (pm *PrometheusMetrics) RecordEviction(kind string) {
	pm.evictionsTotal.WithLabelValues(kind).Inc()
}

// SetPoolGauges updates the pool-wide gauges.
func (pm *PrometheusMetrics) SetPoolGauges(memUsed, memCapacity, poolSize int) {
	pm.memUsed.Set(float64(memUsed))
	pm.memCapacity.Set(float64(memCapacity))
	pm.poolSize.Set(float64(poolSize))
}

// Handler returns an http.Handler that serves the registry in the
// Prometheus exposition format.
func (pm *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(pm.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, e.g. to register
// additional collectors from a driver program.
func (pm *PrometheusMetrics) Registry() *prometheus.Registry {
	return pm.registry
}
