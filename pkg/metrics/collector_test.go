package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistry struct {
	initialized bool
	size        int
}

func (f *fakeRegistry) Initialized() bool { return f.initialized }
func (f *fakeRegistry) Len() int          { return f.size }

type fakeAttrs struct {
	nodes []string
	err   error
}

func (f *fakeAttrs) Nodes() ([]string, error) { return f.nodes, f.err }

func collect(c *Collector) []prometheus.Metric {
	ch := make(chan prometheus.Metric, 16)
	c.Collect(ch)
	close(ch)

	var out []prometheus.Metric
	for m := range ch {
		out = append(out, m)
	}
	return out
}

func TestCollectorDescribe(t *testing.T) {
	c := NewCollector(&fakeRegistry{}, &fakeAttrs{})

	ch := make(chan *prometheus.Desc, 16)
	c.Describe(ch)
	close(ch)

	var descs []*prometheus.Desc
	for d := range ch {
		descs = append(descs, d)
	}
	assert.Len(t, descs, 3)
}

func TestCollectorCollect(t *testing.T) {
	reg := &fakeRegistry{initialized: true, size: 5}
	attrs := &fakeAttrs{nodes: []string{"alpha", "beta"}}

	metrics := collect(NewCollector(reg, attrs))
	require.Len(t, metrics, 3)
}

func TestCollectorNilSources(t *testing.T) {
	// Either source may be absent in a partial host.
	assert.Empty(t, collect(NewCollector(nil, nil)))
	assert.Len(t, collect(NewCollector(&fakeRegistry{size: 2}, nil)), 2)
}

func TestCollectorRegisters(t *testing.T) {
	// A fresh registry accepts the collector and serves a scrape.
	reg := prometheus.NewRegistry()
	err := reg.Register(NewCollector(&fakeRegistry{initialized: true, size: 3}, &fakeAttrs{nodes: []string{"alpha"}}))
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 3)
}
