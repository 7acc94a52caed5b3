package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "hipaaguard"
)

var (
	scanDurationBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300}

	// Scan Metrics
	ScanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scan_duration_seconds",
		Help:      "Time taken for a compliance scan to complete.",
		Buckets:   scanDurationBuckets,
	}, []string{"project_id"})

	ScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scans_total",
		Help:      "Count of scan executions.",
	}, []string{"project_id", "status"})

	ComplianceScore = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "compliance_score",
		Help:      "Compliance score of the most recent completed scan.",
	}, []string{"project_id"})

	// Inventory Metrics
	AssetsScanned = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "assets_scanned",
		Help:      "Number of assets in the most recent inventory.",
	}, []string{"project_id"})

	AssetsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assets_skipped_total",
		Help:      "Count of malformed assets skipped during evaluation.",
	}, []string{"project_id"})

	// Rules Engine Metrics
	ViolationsFound = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "violations_found",
		Help:      "Violations found by the most recent scan, by severity.",
	}, []string{"project_id", "severity"})

	RulePredicateErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rule_predicate_errors_total",
		Help:      "Count of contained rule predicate failures.",
	}, []string{"project_id"})
)
