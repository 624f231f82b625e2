package cmd

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tamirms/permsort"
)

// benchMetrics accumulates per-strategy counters for a bench run and writes
// them in the Prometheus text format for a node_exporter textfile collector.
type benchMetrics struct {
	registry   *prometheus.Registry
	runs       *prometheus.CounterVec
	swaps      *prometheus.CounterVec
	seeks      *prometheus.CounterVec
	setupSeeks *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	maxRSS     prometheus.Gauge
}

func newBenchMetrics() *benchMetrics {
	m := &benchMetrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "permbench",
			Name:      "runs_total",
			Help:      "Completed in-place sort runs.",
		}, []string{"strategy"}),
		swaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "permbench",
			Name:      "swaps_total",
			Help:      "Record swaps performed.",
		}, []string{"strategy"}),
		seeks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "permbench",
			Name:      "seeks_total",
			Help:      "Seeks issued by record reads and writes.",
		}, []string{"strategy"}),
		setupSeeks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "permbench",
			Name:      "setup_seeks_total",
			Help:      "Seeks issued while opening stores.",
		}, []string{"strategy"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "permbench",
			Name:      "sort_duration_seconds",
			Help:      "Time spent in SortInPlace.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 14),
		}, []string{"strategy", "pow"}),
		maxRSS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "permbench",
			Name:      "max_rss_bytes",
			Help:      "Peak resident set size of the bench process.",
		}),
	}
	m.registry.MustRegister(m.runs, m.swaps, m.seeks, m.setupSeeks, m.duration, m.maxRSS)
	return m
}

func (m *benchMetrics) observe(strategy, pow string, st permsort.Stats) {
	m.runs.WithLabelValues(strategy).Inc()
	m.swaps.WithLabelValues(strategy).Add(float64(st.Swaps))
	m.seeks.WithLabelValues(strategy).Add(float64(st.Store.Seeks))
	m.setupSeeks.WithLabelValues(strategy).Add(float64(st.Store.SetupSeeks))
	m.duration.WithLabelValues(strategy, pow).Observe(st.Elapsed.Seconds())
}

func (m *benchMetrics) write(path string) error {
	m.maxRSS.Set(float64(maxRSS()))
	return prometheus.WriteToTextfile(path, m.registry)
}
