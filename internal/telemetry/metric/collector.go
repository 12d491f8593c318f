package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/tcplink/internal/core/domain"
)

var allStates = []domain.State{
	domain.StateIdle,
	domain.StateConnecting,
	domain.StateOpen,
	domain.StateStale,
}

// Collector exports the connection manager state at scrape time.
type Collector struct {
	snapshot func() domain.Snapshot
	state    *prometheus.Desc
}

// NewCollector creates a collector reading state from snapshot, which
// must not block.
func NewCollector(snapshot func() domain.Snapshot) *Collector {
	return &Collector{
		snapshot: snapshot,
		state: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "session", "state"),
			"Connection manager state; 1 for the current state.",
			[]string{"state"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.state
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	current := c.snapshot().State
	for _, s := range allStates {
		v := 0.0
		if s == current {
			v = 1
		}
		ch <- prometheus.MustNewConstMetric(c.state, prometheus.GaugeValue, v, string(s))
	}
}

// Register adds c to r.
func (r *Registry) Register(c prometheus.Collector) error {
	return r.reg.Register(c)
}
