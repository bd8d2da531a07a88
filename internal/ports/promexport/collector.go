// Package promexport publishes profiling statistics as Prometheus metrics.
// Values are read from the set at scrape time; nothing is cached here.
package promexport

import (
	"github.com/fllarpy/camprobe/profiling"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "camprobe"

var _ prometheus.Collector = (*Collector)(nil)

type Collector struct {
	set *profiling.Set

	runs *prometheus.Desc
	sum  *prometheus.Desc
	mean *prometheus.Desc
	min  *prometheus.Desc
	max  *prometheus.Desc
}

func NewCollector(set *profiling.Set) *Collector {
	labels := []string{"region"}
	return &Collector{
		set: set,
		runs: prometheus.NewDesc(prometheus.BuildFQName(namespace, "region", "runs_total"),
			"Completed start/stop brackets per code region.", labels, nil),
		// The accumulator wraps at 2^32, so it goes out as a gauge: a counter
		// would read every wrap as a reset.
		sum: prometheus.NewDesc(prometheus.BuildFQName(namespace, "region", "duration_accumulated_microseconds"),
			"Accumulated duration per code region. Wraps at 2^32.", labels, nil),
		mean: prometheus.NewDesc(prometheus.BuildFQName(namespace, "region", "duration_mean_microseconds"),
			"Mean bracket duration per code region.", labels, nil),
		min: prometheus.NewDesc(prometheus.BuildFQName(namespace, "region", "duration_min_microseconds"),
			"Shortest bracket duration per code region.", labels, nil),
		max: prometheus.NewDesc(prometheus.BuildFQName(namespace, "region", "duration_max_microseconds"),
			"Longest bracket duration per code region.", labels, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.runs
	ch <- c.sum
	ch <- c.mean
	ch <- c.min
	ch <- c.max
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, s := range c.set.Snapshot() {
		ch <- prometheus.MustNewConstMetric(c.runs, prometheus.CounterValue, float64(s.Runs), s.Label)
		ch <- prometheus.MustNewConstMetric(c.sum, prometheus.GaugeValue, float64(s.Sum), s.Label)
		ch <- prometheus.MustNewConstMetric(c.mean, prometheus.GaugeValue, float64(s.Mean), s.Label)
		ch <- prometheus.MustNewConstMetric(c.min, prometheus.GaugeValue, float64(s.Min), s.Label)
		ch <- prometheus.MustNewConstMetric(c.max, prometheus.GaugeValue, float64(s.Max), s.Label)
	}
}
