/*
Package metrics provides Prometheus instrumentation for burrow.

All collectors are package-level and registered with the default Prometheus
registry at init time, so importing any instrumented burrow package is enough
to expose its series. A process hosting burrow mounts Handler() on its HTTP
mux; the CLI only increments counters and leaves exposition to the host.

# Collectors

Counters and histograms:

	burrow_rule_evaluations_total{outcome}     rule evaluations (satisfied/unsatisfied/error)
	burrow_unpack_duration_seconds             time to unpack a block set
	burrow_unpack_blocks_total{result}         blocks applied/skipped/invalid
	burrow_schema_validations_total{outcome}   document validations
	burrow_schema_upgrades_total{outcome}      document upgrades
	burrow_schema_upgrade_duration_seconds     time to upgrade a document
	burrow_constraint_queries_total{kind}      constraint queries by kind
	burrow_store_commits_total                 configuration document commits
	burrow_store_queries_total                 configuration store queries
	burrow_attribute_operations_total{op}      attribute store operations

Scrape-time gauges come from Collector, which reads live state from the
schema registry and attribute store through small interfaces:

	burrow_schema_versions
	burrow_schema_registry_initialized
	burrow_attribute_nodes

# Usage

Mounting the handler in a host process:

	http.Handle("/metrics", metrics.Handler())

Registering the state collector:

	prometheus.MustRegister(metrics.NewCollector(registry, attrStore))

Timing an operation:

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.UnpackDuration)

# See Also

  - pkg/nvpair: observes unpack duration and block outcomes
  - pkg/schema: observes validation and upgrade outcomes
  - pkg/constraint: observes query counts by kind
*/
package metrics
