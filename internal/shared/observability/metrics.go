package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "symfind_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"dialect"})

	WalkDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "symfind_walk_seconds",
		Help:    "Time spent in the binding-collection walk of one file.",
		Buckets: prometheus.DefBuckets,
	})

	FilesProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "symfind_files_processed_total",
		Help: "Total number of files handled, by outcome (ok, failed, skipped).",
	}, []string{"outcome"})

	BindingsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "symfind_bindings_total",
		Help: "Total number of bindings created across all walks.",
	})

	ReferencesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "symfind_references_total",
		Help: "Total number of name references, by resolution (resolved, unresolved).",
	}, []string{"resolution"})

	HeapAllocBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "symfind_heap_alloc_bytes",
		Help: "Heap allocated after the most recent walk.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "symfind_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)

// WriteMetricsFile dumps the default registry in the node_exporter textfile format.
func WriteMetricsFile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
