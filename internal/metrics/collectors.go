package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PhaseSource reports the current fetch phase of every analysis domain
type PhaseSource interface {
	Phases() map[string]string
}

// PhaseCollector exposes the live phase of each domain's fetch controller as
// a one-hot gauge: sentiguard_fetch_phase{domain="news",phase="loading"} 1
type PhaseCollector struct {
	source PhaseSource
	phases []string
	phase  *prometheus.Desc
}

// NewPhaseCollector creates a collector over source. phases lists every phase
// name so inactive phases report 0 instead of disappearing.
func NewPhaseCollector(source PhaseSource, phases []string) *PhaseCollector {
	return &PhaseCollector{
		source: source,
		phases: phases,
		phase: prometheus.NewDesc(
			"sentiguard_fetch_phase",
			"Current fetch controller phase per domain (1 = active)",
			[]string{"domain", "phase"}, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *PhaseCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.phase
}

// Collect implements prometheus.Collector
func (c *PhaseCollector) Collect(ch chan<- prometheus.Metric) {
	for domain, current := range c.source.Phases() {
		for _, phase := range c.phases {
			value := 0.0
			if phase == current {
				value = 1
			}
			ch <- prometheus.MustNewConstMetric(c.phase, prometheus.GaugeValue, value, domain, phase)
		}
	}
}
