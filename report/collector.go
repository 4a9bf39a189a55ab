package report

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector adapts a Bundle into a prometheus.Collector, so a driver that
// wants a /metrics endpoint can register it without this package forcing a
// global registry: the core returns plain Bundle values; this type is an
// optional adapter, never auto-registered.
type Collector struct {
	algorithm string
	bundle    Bundle
}

// NewCollector returns a Collector that reports bundle's fields under the
// given algorithm label (e.g. "ldmr", "spf", "ecmp").
func NewCollector(algorithm string, bundle Bundle) *Collector {
	return &Collector{algorithm: algorithm, bundle: bundle}
}

var (
	successRateDesc = prometheus.NewDesc(
		"ldmr_success_rate", "Fraction of demands with at least one path.",
		[]string{"algorithm"}, nil)
	totalPathsDesc = prometheus.NewDesc(
		"ldmr_total_paths", "Total paths returned across all demands.",
		[]string{"algorithm"}, nil)
	meanPathsPerDemandDesc = prometheus.NewDesc(
		"ldmr_mean_paths_per_demand", "Mean path count per successful demand.",
		[]string{"algorithm"}, nil)
	meanPathDelayDesc = prometheus.NewDesc(
		"ldmr_mean_path_delay_ms", "Mean path delay in milliseconds.",
		[]string{"algorithm"}, nil)
	maxPathDelayDesc = prometheus.NewDesc(
		"ldmr_max_path_delay_ms", "Maximum path delay in milliseconds.",
		[]string{"algorithm"}, nil)
	meanComputationTimeDesc = prometheus.NewDesc(
		"ldmr_mean_computation_time_ms", "Mean per-demand computation time.",
		[]string{"algorithm"}, nil)
	meanLinkUsageDesc = prometheus.NewDesc(
		"ldmr_mean_link_usage", "Mean usage counter across links touched this run.",
		[]string{"algorithm"}, nil)
	maxLinkUsageDesc = prometheus.NewDesc(
		"ldmr_max_link_usage", "Maximum usage counter across links touched this run.",
		[]string{"algorithm"}, nil)
	disjointRateDesc = prometheus.NewDesc(
		"ldmr_disjoint_rate", "Fraction of multi-path results that passed the disjointness audit.",
		[]string{"algorithm"}, nil)
)

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- successRateDesc
	ch <- totalPathsDesc
	ch <- meanPathsPerDemandDesc
	ch <- meanPathDelayDesc
	ch <- maxPathDelayDesc
	ch <- meanComputationTimeDesc
	ch <- meanLinkUsageDesc
	ch <- maxLinkUsageDesc
	ch <- disjointRateDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	b := c.bundle
	ch <- prometheus.MustNewConstMetric(successRateDesc, prometheus.GaugeValue, b.SuccessRate, c.algorithm)
	ch <- prometheus.MustNewConstMetric(totalPathsDesc, prometheus.GaugeValue, float64(b.TotalPaths), c.algorithm)
	ch <- prometheus.MustNewConstMetric(meanPathsPerDemandDesc, prometheus.GaugeValue, b.MeanPathsPerDemand, c.algorithm)
	ch <- prometheus.MustNewConstMetric(meanPathDelayDesc, prometheus.GaugeValue, b.MeanPathDelayMs, c.algorithm)
	ch <- prometheus.MustNewConstMetric(maxPathDelayDesc, prometheus.GaugeValue, b.MaxPathDelayMs, c.algorithm)
	ch <- prometheus.MustNewConstMetric(meanComputationTimeDesc, prometheus.GaugeValue, b.MeanComputationTimeMs, c.algorithm)
	ch <- prometheus.MustNewConstMetric(meanLinkUsageDesc, prometheus.GaugeValue, b.MeanLinkUsage, c.algorithm)
	ch <- prometheus.MustNewConstMetric(maxLinkUsageDesc, prometheus.GaugeValue, float64(b.MaxLinkUsage), c.algorithm)
	ch <- prometheus.MustNewConstMetric(disjointRateDesc, prometheus.GaugeValue, b.Disjointness.DisjointRate, c.algorithm)
}
