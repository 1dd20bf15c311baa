package callstack

import (
	"github.com/prometheus/client_golang/prometheus"
)

// profileCollector exports a Profile as Prometheus counters. Values are
// read at scrape time, so the collector never falls behind the table.
type profileCollector struct {
	profile *Profile
	calls   *prometheus.Desc
	seconds *prometheus.Desc
	dropped *prometheus.Desc
}

// Collector returns a [prometheus.Collector] exposing the profile as
//
//	<namespace>_callsite_calls_total{site}
//	<namespace>_callsite_seconds_total{site}
//	<namespace>_callsite_dropped_total
//
// Register it with a registry of your choice:
//
//	reg.MustRegister(profile.Collector("sys"))
func (p *Profile) Collector(namespace string) prometheus.Collector {
	return &profileCollector{
		profile: p,
		calls: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "callsite", "calls_total"),
			"Number of completed calls per tracked call site.",
			[]string{"site"}, nil,
		),
		seconds: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "callsite", "seconds_total"),
			"Cumulative time spent in each tracked call site.",
			[]string{"site"}, nil,
		),
		dropped: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "callsite", "dropped_total"),
			"Observations ignored because the profile table was full.",
			nil, nil,
		),
	}
}

func (c *profileCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.calls
	ch <- c.seconds
	ch <- c.dropped
}

func (c *profileCollector) Collect(ch chan<- prometheus.Metric) {
	for _, e := range c.profile.Entries() {
		ch <- prometheus.MustNewConstMetric(c.calls, prometheus.CounterValue, float64(e.Calls), e.Site)
		ch <- prometheus.MustNewConstMetric(c.seconds, prometheus.CounterValue, e.Elapsed.Seconds(), e.Site)
	}
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(c.profile.Dropped()))
}
