// Package prometheus adapts a hdrhistogram.Histogram to the
// prometheus.Collector interface. This is the concrete home for the
// "collaborator interface" the core package describes only in the
// abstract: it reads ValueAtPercentile at a set of checkpoints and the
// conversion ratio without the core package importing anything
// I/O-related.
package prometheus

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/latencyhq/hdrhistogram"
)

// defaultPercentiles mirrors the checkpoint set most latency dashboards
// chart; callers that need a different set can build their own Collector
// with WithPercentiles.
var defaultPercentiles = []float64{50, 90, 95, 99, 99.9}

// Collector exposes a *hdrhistogram.Histogram's summary statistics
// (min, max, mean, stddev, and a fixed set of percentiles) as Prometheus
// gauges, scaled by the histogram's ConversionRatio.
type Collector struct {
	h           *hdrhistogram.Histogram
	namespace   string
	subsystem   string
	name        string
	help        string
	percentiles []float64

	minDesc    *prometheus.Desc
	maxDesc    *prometheus.Desc
	meanDesc   *prometheus.Desc
	stddevDesc *prometheus.Desc
	countDesc  *prometheus.Desc
	quantDesc  *prometheus.Desc
}

// Option configures a Collector.
type Option func(*Collector)

// WithPercentiles overrides the default percentile checkpoints reported
// by the collector.
func WithPercentiles(percentiles ...float64) Option {
	return func(c *Collector) { c.percentiles = percentiles }
}

// WithNamespace sets the Prometheus metric namespace prefix.
func WithNamespace(namespace string) Option {
	return func(c *Collector) { c.namespace = namespace }
}

// WithSubsystem sets the Prometheus metric subsystem prefix.
func WithSubsystem(subsystem string) Option {
	return func(c *Collector) { c.subsystem = subsystem }
}

// NewCollector builds a prometheus.Collector wrapping h. name becomes the
// base of every exported metric name (e.g. "request_latency_seconds").
func NewCollector(h *hdrhistogram.Histogram, name, help string, opts ...Option) *Collector {
	c := &Collector{
		h:           h,
		name:        name,
		help:        help,
		percentiles: defaultPercentiles,
	}
	for _, opt := range opts {
		opt(c)
	}

	fq := func(suffix string) string {
		return prometheus.BuildFQName(c.namespace, c.subsystem, c.name+"_"+suffix)
	}

	c.minDesc = prometheus.NewDesc(fq("min"), help+" (minimum)", nil, nil)
	c.maxDesc = prometheus.NewDesc(fq("max"), help+" (maximum)", nil, nil)
	c.meanDesc = prometheus.NewDesc(fq("mean"), help+" (mean)", nil, nil)
	c.stddevDesc = prometheus.NewDesc(fq("stddev"), help+" (standard deviation)", nil, nil)
	c.countDesc = prometheus.NewDesc(fq("count"), help+" (sample count)", nil, nil)
	c.quantDesc = prometheus.NewDesc(fq("quantile"), help+" (value at quantile)", []string{"quantile"}, nil)

	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.minDesc
	ch <- c.maxDesc
	ch <- c.meanDesc
	ch <- c.stddevDesc
	ch <- c.countDesc
	ch <- c.quantDesc
}

// Collect implements prometheus.Collector. It reads the histogram's
// current (possibly in-flight, per hdrhistogram's relaxed read contract)
// state and scales every value except the sample count by ConversionRatio
// before exporting it.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ratio := c.h.ConversionRatio()

	emit := func(desc *prometheus.Desc, raw int64, labelValues ...string) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(raw)*ratio, labelValues...)
	}

	emit(c.minDesc, c.h.Min())
	emit(c.maxDesc, c.h.Max())
	ch <- prometheus.MustNewConstMetric(c.meanDesc, prometheus.GaugeValue, c.h.Mean()*ratio)
	ch <- prometheus.MustNewConstMetric(c.stddevDesc, prometheus.GaugeValue, c.h.StdDev()*ratio)
	ch <- prometheus.MustNewConstMetric(c.countDesc, prometheus.GaugeValue, float64(c.h.TotalCount()))

	for _, p := range c.percentiles {
		emit(c.quantDesc, c.h.ValueAtPercentile(p), formatQuantile(p))
	}
}

func formatQuantile(p float64) string {
	return fmt.Sprintf("%g", p/100)
}
