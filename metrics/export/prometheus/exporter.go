package prometheus

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	goAuthState "github.com/MrEthical07/goAuthState"
	"github.com/MrEthical07/goAuthState/metrics/export/internaldefs"
)

// Source is what the collector reads on every scrape.
type Source interface {
	MetricsSnapshot() goAuthState.MetricsSnapshot
	AuditDropped() uint64
}

type counterDesc struct {
	id   goAuthState.MetricID
	desc *prom.Desc
}

// Collector adapts engine counters to a prometheus.Collector. Values are
// read from the engine at scrape time.
type Collector struct {
	source       Source
	counters     []counterDesc
	histograms   []counterDesc
	auditDropped *prom.Desc
}

var _ prom.Collector = (*Collector)(nil)

// NewCollector reads from engine.
func NewCollector(engine *goAuthState.Engine) *Collector {
	return NewCollectorFromSource(engine)
}

func NewCollectorFromSource(source Source) *Collector {
	c := &Collector{
		source:       source,
		auditDropped: prom.NewDesc(internaldefs.AuditDroppedName, internaldefs.AuditDroppedHelp, nil, nil),
	}
	for _, def := range internaldefs.CounterDefs {
		c.counters = append(c.counters, counterDesc{id: def.ID, desc: prom.NewDesc(def.Name, def.Help, nil, nil)})
	}
	for _, def := range internaldefs.HistogramDefs {
		c.histograms = append(c.histograms, counterDesc{id: def.ID, desc: prom.NewDesc(def.Name, def.Help, nil, nil)})
	}
	return c
}

func (c *Collector) Describe(ch chan<- *prom.Desc) {
	for _, d := range c.counters {
		ch <- d.desc
	}
	for _, d := range c.histograms {
		ch <- d.desc
	}
	ch <- c.auditDropped
}

func (c *Collector) Collect(ch chan<- prom.Metric) {
	if c.source == nil {
		return
	}
	snap := c.source.MetricsSnapshot()
	for _, d := range c.counters {
		ch <- prom.MustNewConstMetric(d.desc, prom.CounterValue, float64(snap.Counters[d.id]))
	}
	for _, d := range c.histograms {
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(snap.Histograms[d.id]))
		buckets := make(map[float64]uint64, len(internaldefs.HistogramUpperBounds))
		for i, bound := range internaldefs.HistogramUpperBounds {
			buckets[bound] = cumulative[i]
		}
		// Per-sample durations are not retained, so the sum is unknown.
		ch <- prom.MustNewConstHistogram(d.desc, cumulative[internaldefs.BucketCount-1], 0, buckets)
	}
	ch <- prom.MustNewConstMetric(c.auditDropped, prom.CounterValue, float64(c.source.AuditDropped()))
}

// Handler serves the collector from a private registry.
func Handler(c *Collector) http.Handler {
	reg := prom.NewRegistry()
	reg.MustRegister(c)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
