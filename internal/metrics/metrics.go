package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrJamesThe3rd/cruce/internal/reconcile"
)

const namespace = "cruce"

// Reconciliation records join counters and run outcomes. A nil
// *Reconciliation is valid and records nothing.
type Reconciliation struct {
	joinRecords   *prometheus.CounterVec
	discrepancies prometheus.Counter
	runDuration   *prometheus.HistogramVec
	runs          *prometheus.CounterVec
	importRecords *prometheus.CounterVec
	jobs          *prometheus.CounterVec
}

// NewReconciliation registers the reconciliation metrics on reg.
func NewReconciliation(reg prometheus.Registerer) *Reconciliation {
	if reg == nil {
		return &Reconciliation{}
	}

	joinRecords := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "join_records_total",
		Help:      "Orders processed by the reconciliation join, by match kind.",
	}, []string{"kind"})
	discrepancies := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "discrepancies_total",
		Help:      "Cross-match rows flagged with a discrepancy.",
	})
	runDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of reconciliation runs in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "runs_total",
		Help:      "Finished reconciliation runs by outcome.",
	}, []string{"outcome"})
	importRecords := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_records_total",
		Help:      "Platform records imported into reports.",
	}, []string{"platform", "result"})

	jobs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "worker",
		Name:      "jobs_total",
		Help:      "Queued run jobs handled by the worker pool, by outcome.",
	}, []string{"outcome"})

	reg.MustRegister(joinRecords, discrepancies, runDuration, runs, importRecords, jobs)

	return &Reconciliation{
		joinRecords:   joinRecords,
		discrepancies: discrepancies,
		runDuration:   runDuration,
		runs:          runs,
		importRecords: importRecords,
		jobs:          jobs,
	}
}

// ObserveJoin implements reconcile.JoinObserver.
func (m *Reconciliation) ObserveJoin(stats reconcile.JoinStats) {
	if m == nil || m.joinRecords == nil {
		return
	}

	m.joinRecords.WithLabelValues("orders").Add(float64(stats.Orders))
	m.joinRecords.WithLabelValues("payment").Add(float64(stats.PaymentMatches))
	m.joinRecords.WithLabelValues("second_payment").Add(float64(stats.SecondPaymentMatches))
	m.joinRecords.WithLabelValues("fulfillment").Add(float64(stats.FulfillmentMatches))
	m.joinRecords.WithLabelValues("secondary_oms").Add(float64(stats.SecondaryOMSMatches))
	m.joinRecords.WithLabelValues("normalization_failure").Add(float64(stats.NormalizationFailures))
	m.joinRecords.WithLabelValues("transaction_fallback").Add(float64(stats.TransactionIDFallbacks))
	m.discrepancies.Add(float64(stats.Discrepancies))
}

// ObserveRun records how long a run took and whether it succeeded.
func (m *Reconciliation) ObserveRun(duration time.Duration, ok bool) {
	if m == nil || m.runs == nil {
		return
	}

	outcome := "success"
	if !ok {
		outcome = "failure"
	}

	m.runDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	m.runs.WithLabelValues(outcome).Inc()
}

// ObserveImport counts the records stored and skipped for one report import.
func (m *Reconciliation) ObserveImport(source string, stored, skipped int) {
	if m == nil || m.importRecords == nil {
		return
	}

	m.importRecords.WithLabelValues(normalizeLabel(source), "stored").Add(float64(stored))
	m.importRecords.WithLabelValues(normalizeLabel(source), "skipped").Add(float64(skipped))
}

// ObserveJob counts one queued job handled by a worker.
func (m *Reconciliation) ObserveJob(outcome string) {
	if m == nil || m.jobs == nil {
		return
	}

	m.jobs.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}

	return v
}
