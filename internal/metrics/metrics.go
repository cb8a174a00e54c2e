// Package metrics exposes Prometheus collectors for ledger runs.
//
// The CLI is a batch job, so collectors live on a private registry and are
// written once in text exposition format for a node_exporter textfile
// collector to pick up.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mmynk/housesplit/internal/calculator"
	"github.com/mmynk/housesplit/internal/daterange"
	"github.com/mmynk/housesplit/internal/models"
)

const namespace = "housesplit"

// Recorder holds the collectors for one process.
type Recorder struct {
	registry *prometheus.Registry

	entries  *prometheus.CounterVec
	runs     prometheus.Counter
	failures *prometheus.CounterVec
	duration prometheus.Histogram
	balance  *prometheus.GaugeVec
}

// New registers every collector on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		entries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entries_processed_total",
			Help:      "Ledger entries allocated, by kind.",
		}, []string{"kind"}),
		runs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_runs_total",
			Help:      "Completed ledger runs.",
		}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_failures_total",
			Help:      "Ledger runs aborted, by error class.",
		}, []string{"class"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ledger_run_duration_seconds",
			Help:      "Time spent allocating and folding a ledger.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		balance: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "participant_balance_dollars",
			Help:      "Final signed balance per participant; positive means they owe.",
		}, []string{"house", "participant"}),
	}
}

// Registry returns the private registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveEntry counts one allocated entry.
func (r *Recorder) ObserveEntry(kind models.EntryKind) {
	r.entries.WithLabelValues(string(kind)).Inc()
}

// ObserveRun counts a completed run and its duration.
func (r *Recorder) ObserveRun(d time.Duration) {
	r.runs.Inc()
	r.duration.Observe(d.Seconds())
}

// ObserveFailure counts an aborted run under its error class.
func (r *Recorder) ObserveFailure(err error) {
	r.failures.WithLabelValues(Classify(err)).Inc()
}

// SetBalances replaces the balance gauges of a house with the given totals.
func (r *Recorder) SetBalances(house string, total models.Dues) {
	r.balance.DeletePartialMatch(prometheus.Labels{"house": house})
	for _, name := range total.Names() {
		r.balance.WithLabelValues(house, name).Set(total[name].InexactFloat64())
	}
}

// WriteToTextfile writes every collector to path atomically.
func (r *Recorder) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

// Classify names the error class used as a failure label.
func Classify(err error) string {
	switch {
	case errors.Is(err, calculator.ErrUnderOccupancy):
		return "under_occupancy"
	case errors.Is(err, calculator.ErrPartialResidency):
		return "partial_residency"
	case errors.Is(err, calculator.ErrReconciliation):
		return "reconciliation"
	case errors.Is(err, calculator.ErrNoParticipants):
		return "no_participants"
	case errors.Is(err, daterange.ErrUnboundedRange):
		return "unbounded_range"
	case errors.Is(err, models.ErrMalformedEntry):
		return "malformed_entry"
	case errors.Is(err, models.ErrInvalidHouse):
		return "invalid_house"
	default:
		return "other"
	}
}
