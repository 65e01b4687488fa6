// File created by olandr (c) 2025.
// Use of this source code is governed by the MIT license that can be
// found in the LICENSE file.

// Package metrics exports the counters of a pollwatch.Watcher to Prometheus.
package metrics

import (
	"github.com/olandr/pollwatch"
	"github.com/prometheus/client_golang/prometheus"
)

// Source provides the counters to export. *pollwatch.Watcher implements it.
type Source interface {
	Metrics() pollwatch.Metrics
}

// Collector is a prometheus.Collector reading a Source on every scrape.
type Collector struct {
	source Source

	pollers          *prometheus.Desc
	cycles           *prometheus.Desc
	events           *prometheus.Desc
	listErrors       *prometheus.Desc
	callbackFailures *prometheus.Desc
	dropped          *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a Collector. The root label is attached to every
// metric so several watchers can share a registry.
func NewCollector(source Source, root string) *Collector {
	labels := prometheus.Labels{"root": root}
	desc := func(name, help string, variable ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("pollwatch", "", name), help, variable, labels)
	}
	return &Collector{
		source:           source,
		pollers:          desc("active_pollers", "Number of directories currently polled."),
		cycles:           desc("poll_cycles_total", "Number of poll cycles run by all pollers."),
		events:           desc("events_total", "Number of events detected.", "op"),
		listErrors:       desc("list_errors_total", "Number of directory listings which failed."),
		callbackFailures: desc("callback_failures_total", "Number of callbacks which panicked."),
		dropped:          desc("events_dropped_total", "Number of events dropped because the sink channel was full."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.pollers
	ch <- c.cycles
	ch <- c.events
	ch <- c.listErrors
	ch <- c.callbackFailures
	ch <- c.dropped
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	m := c.source.Metrics()
	ch <- prometheus.MustNewConstMetric(c.pollers, prometheus.GaugeValue, float64(m.ActivePollers))
	ch <- prometheus.MustNewConstMetric(c.cycles, prometheus.CounterValue, float64(m.Cycles))
	ch <- prometheus.MustNewConstMetric(c.events, prometheus.CounterValue, float64(m.Created), "create")
	ch <- prometheus.MustNewConstMetric(c.events, prometheus.CounterValue, float64(m.Modified), "write")
	ch <- prometheus.MustNewConstMetric(c.events, prometheus.CounterValue, float64(m.Deleted), "remove")
	ch <- prometheus.MustNewConstMetric(c.listErrors, prometheus.CounterValue, float64(m.ListErrors))
	ch <- prometheus.MustNewConstMetric(c.callbackFailures, prometheus.CounterValue, float64(m.CallbackFailures))
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(m.Dropped))
}
