package domain

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	m "gooze.dev/pkg/mutest/internal/model"
)

var (
	mutantsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mutest",
		Name:      "mutants_total",
		Help:      "Mutants executed, by category and terminal status.",
	}, []string{"category", "status"})

	mutantDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "mutest",
		Name:      "mutant_duration_seconds",
		Help:      "Wall time of one test command run against a mutant.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})

	baselineDuration = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mutest",
		Name:      "baseline_duration_seconds",
		Help:      "Wall time of the last unmutated test suite run.",
	})
)

func observeMutant(mutant m.Mutant) {
	mutantsTotal.WithLabelValues(mutant.Category.String(), mutant.Status.String()).Inc()

	if mutant.Status != m.StatusSkipped {
		mutantDuration.Observe(mutant.Duration.Seconds())
	}
}

// WriteMetrics exports the collected metrics in the Prometheus text format,
// for the node exporter textfile collector.
func WriteMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}

	return nil
}
