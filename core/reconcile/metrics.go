package reconcile

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lead_sync_runs_total",
		Help: "Total number of reconcile runs by outcome",
	}, []string{"outcome"})

	syncRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lead_sync_records_total",
		Help: "Records mutated by reconcile, by phase",
	}, []string{"phase"})

	syncRecordErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lead_sync_record_errors_total",
		Help: "Per-record storage failures during reconcile, by phase",
	}, []string{"phase"})

	syncSkippedRowsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lead_sync_skipped_rows_total",
		Help: "Snapshot rows dropped during validation",
	})

	syncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lead_sync_duration_seconds",
		Help:    "Wall-clock duration of reconcile runs",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
	})
)

const (
	outcomeOK      = "ok"
	outcomePartial = "partial"
	outcomeFailed  = "failed"
)

func observeResult(res SyncResult, outcome string) {
	syncRunsTotal.WithLabelValues(outcome).Inc()
	syncRecordsTotal.WithLabelValues(string(PhaseCreate)).Add(float64(res.Created))
	syncRecordsTotal.WithLabelValues(string(PhaseUpdate)).Add(float64(res.Updated))
	syncRecordsTotal.WithLabelValues(string(PhaseDelete)).Add(float64(res.Deleted))
	syncSkippedRowsTotal.Add(float64(res.Skipped))
	for _, e := range res.Errors {
		syncRecordErrorsTotal.WithLabelValues(string(e.Phase)).Inc()
	}
}
