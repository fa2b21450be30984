package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	FilesScannedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "typelint_files_scanned_total",
		Help: "Total number of source files read and analyzed.",
	})

	FilesSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "typelint_files_skipped_total",
		Help: "Total number of enumerated files that could not be read.",
	})

	ViolationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "typelint_violations_total",
		Help: "Total number of violations reported, by check.",
	}, []string{"check"})

	DuplicateMatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "typelint_duplicate_matches_total",
		Help: "Total number of structural duplicate matches, by match kind.",
	}, []string{"kind"})

	TypeDefinitionsExtracted = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "typelint_type_definitions",
		Help: "Number of composite type declarations extracted in the last run.",
	})

	PhaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "typelint_phase_seconds",
		Help:    "Time spent in each analysis phase.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	WatchEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "typelint_watch_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)

// WriteTextfile dumps the default registry in Prometheus text format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
