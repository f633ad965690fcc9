package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Rule evaluation metrics
	RuleEvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_rule_evaluations_total",
			Help: "Total number of rule evaluations by outcome",
		},
		[]string{"outcome"},
	)

	// Unpack metrics
	UnpackDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "burrow_unpack_duration_seconds",
			Help:    "Time taken to unpack a set of name/value blocks in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	UnpackBlocksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_unpack_blocks_total",
			Help: "Total number of blocks seen by the unpacker by result",
		},
		[]string{"result"},
	)

	// Schema registry metrics
	SchemaValidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_schema_validations_total",
			Help: "Total number of document validations by outcome",
		},
		[]string{"outcome"},
	)

	SchemaUpgradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_schema_upgrades_total",
			Help: "Total number of document upgrades by outcome",
		},
		[]string{"outcome"},
	)

	SchemaUpgradeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "burrow_schema_upgrade_duration_seconds",
			Help:    "Time taken to upgrade a document in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Constraint query metrics
	ConstraintQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_constraint_queries_total",
			Help: "Total number of constraint queries by kind",
		},
		[]string{"kind"},
	)

	// Configuration store metrics
	StoreCommitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "burrow_store_commits_total",
			Help: "Total number of configuration document commits",
		},
	)

	StoreQueriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "burrow_store_queries_total",
			Help: "Total number of configuration store queries",
		},
	)

	// Attribute store metrics
	AttributeOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_attribute_operations_total",
			Help: "Total number of attribute store operations by type",
		},
		[]string{"op"},
	)
)

// Label values for RuleEvaluationsTotal.
const (
	OutcomeSatisfied   = "satisfied"
	OutcomeUnsatisfied = "unsatisfied"
	OutcomeError       = "error"
)

// Label values for UnpackBlocksTotal.
const (
	BlockApplied = "applied"
	BlockSkipped = "skipped"
	BlockInvalid = "invalid"
)

func init() {
	// Register all metrics
	prometheus.MustRegister(RuleEvaluationsTotal)
	prometheus.MustRegister(UnpackDuration)
	prometheus.MustRegister(UnpackBlocksTotal)
	prometheus.MustRegister(SchemaValidationsTotal)
	prometheus.MustRegister(SchemaUpgradesTotal)
	prometheus.MustRegister(SchemaUpgradeDuration)
	prometheus.MustRegister(ConstraintQueriesTotal)
	prometheus.MustRegister(StoreCommitsTotal)
	prometheus.MustRegister(StoreQueriesTotal)
	prometheus.MustRegister(AttributeOpsTotal)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
