// Package prometheus exports aiofile operation metrics through the Prometheus
// client library.
//
//	c, err := prometheus.NewCollector(prom.DefaultRegisterer, "myapp")
//	d, _ := aiofile.NewLocalDriver(aiofile.WithMetricsCollector(c))
package prometheus

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/aiofile"
)

var _ aiofile.MetricsCollector = (*Collector)(nil)

// Collector implements aiofile.MetricsCollector.
type Collector struct {
	ops     *prom.CounterVec
	bytes   *prom.CounterVec
	latency *prom.HistogramVec
	closes  prom.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewCollector(reg prom.Registerer, namespace string) (*Collector, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}

	c := &Collector{
		ops: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Subsystem: "aiofile",
			Name:      "operations_total",
			Help:      "Completed file operations",
		}, []string{"op", "status"}),
		bytes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Subsystem: "aiofile",
			Name:      "bytes_total",
			Help:      "Bytes transferred by successful reads and writes",
		}, []string{"op"}),
		latency: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Subsystem: "aiofile",
			Name:      "operation_latency_seconds",
			Help:      "Latency of file operations from issue to completion",
			Buckets:   prom.ExponentialBuckets(0.00005, 4, 10),
		}, []string{"op"}),
		closes: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Subsystem: "aiofile",
			Name:      "closes_total",
			Help:      "Released file handles",
		}),
	}

	for _, col := range []prom.Collector{c.ops, c.bytes, c.latency, c.closes} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *Collector) record(op string, n int, d time.Duration, err error) {
	c.ops.WithLabelValues(op, status(err)).Inc()
	c.latency.WithLabelValues(op).Observe(d.Seconds())
	if err == nil && n > 0 {
		c.bytes.WithLabelValues(op).Add(float64(n))
	}
}

// RecordRead implements aiofile.MetricsCollector.
func (c *Collector) RecordRead(bytes int, d time.Duration, err error) {
	c.record("read", bytes, d, err)
}

// RecordWrite implements aiofile.MetricsCollector.
func (c *Collector) RecordWrite(bytes int, d time.Duration, err error) {
	c.record("write", bytes, d, err)
}

// RecordTruncate implements aiofile.MetricsCollector.
func (c *Collector) RecordTruncate(d time.Duration, err error) {
	c.record("truncate", 0, d, err)
}

// RecordClose implements aiofile.MetricsCollector.
func (c *Collector) RecordClose(d time.Duration) {
	c.closes.Inc()
	c.latency.WithLabelValues("close").Observe(d.Seconds())
}
