package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RegistryStats is the view of the schema registry the collector reads.
type RegistryStats interface {
	Initialized() bool
	Len() int
}

// NodeLister is the view of the attribute store the collector reads.
type NodeLister interface {
	Nodes() ([]string, error)
}

var (
	descSchemaVersions = prometheus.NewDesc(
		"burrow_schema_versions",
		"Number of schema versions in the registry catalog",
		nil, nil,
	)
	descRegistryInitialized = prometheus.NewDesc(
		"burrow_schema_registry_initialized",
		"Whether the schema registry is initialized (1) or torn down (0)",
		nil, nil,
	)
	descAttributeNodes = prometheus.NewDesc(
		"burrow_attribute_nodes",
		"Number of nodes known to the attribute store",
		nil, nil,
	)
)

// Collector exports gauges describing long-lived burrow state at scrape time.
// Either source may be nil; its series are simply omitted.
type Collector struct {
	registry RegistryStats
	attrs    NodeLister
}

// NewCollector creates a collector reading from the given sources
func NewCollector(registry RegistryStats, attrs NodeLister) *Collector {
	return &Collector{
		registry: registry,
		attrs:    attrs,
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- descSchemaVersions
	ch <- descRegistryInitialized
	ch <- descAttributeNodes
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c.registry != nil {
		initialized := 0.0
		if c.registry.Initialized() {
			initialized = 1.0
		}
		ch <- prometheus.MustNewConstMetric(descRegistryInitialized, prometheus.GaugeValue, initialized)
		ch <- prometheus.MustNewConstMetric(descSchemaVersions, prometheus.GaugeValue, float64(c.registry.Len()))
	}

	if c.attrs != nil {
		nodes, err := c.attrs.Nodes()
		if err != nil {
			return
		}
		ch <- prometheus.MustNewConstMetric(descAttributeNodes, prometheus.GaugeValue, float64(len(nodes)))
	}
}
