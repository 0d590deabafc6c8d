// Package metrics exposes Prometheus metrics for the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type BuildInfo struct {
	Version string
	Env     string
}

type Provider struct {
	reg *prometheus.Registry
}

func Init(build BuildInfo) *Provider {
	reg := prometheus.NewRegistry()

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	info := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "firehistory_build_info",
			Help: "Build info for this binary (value is always 1).",
		},
		[]string{"version", "env"},
	)
	reg.MustRegister(info)
	if build.Version == "" {
		build.Version = "dev"
	}
	info.WithLabelValues(build.Version, build.Env).Set(1)

	return &Provider{reg: reg}
}

func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{})
}

func (p *Provider) Register(cs ...prometheus.Collector) {
	for _, c := range cs {
		p.reg.MustRegister(c)
	}
}

// Dashboard holds the collectors recorded by the dashboard and assistant.
// A nil *Dashboard records nothing.
type Dashboard struct {
	queryDuration     *prometheus.HistogramVec
	rowsReturned      prometheus.Histogram
	filteredRows      prometheus.Histogram
	geometrySkipped   prometheus.Counter
	assistantOutcomes *prometheus.CounterVec
}

func NewDashboard(p *Provider) *Dashboard {
	d := &Dashboard{
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "firehistory_query_duration_seconds",
			Help:    "Latency of analytical database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query", "outcome"}),
		rowsReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "firehistory_proximity_rows",
			Help:    "Rows returned by the station proximity join.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		filteredRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "firehistory_filtered_rows",
			Help:    "Rows left after the burn status and fire age filters.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		geometrySkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "firehistory_geometry_skipped_total",
			Help: "Fires left off the map for missing or malformed boundaries.",
		}),
		assistantOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "firehistory_assistant_requests_total",
			Help: "Assistant questions by outcome.",
		}, []string{"outcome"}),
	}
	if p != nil {
		p.Register(d.queryDuration, d.rowsReturned, d.filteredRows, d.geometrySkipped, d.assistantOutcomes)
	}
	return d
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (d *Dashboard) ObserveQuery(query string, err error, seconds float64) {
	if d == nil {
		return
	}
	d.queryDuration.WithLabelValues(query, outcome(err)).Observe(seconds)
}

func (d *Dashboard) ObserveRows(proximity, filtered int) {
	if d == nil {
		return
	}
	d.rowsReturned.Observe(float64(proximity))
	d.filteredRows.Observe(float64(filtered))
}

func (d *Dashboard) AddGeometrySkipped(n int) {
	if d == nil || n <= 0 {
		return
	}
	d.geometrySkipped.Add(float64(n))
}

// Assistant outcomes
const (
	AssistantAnswered   = "answered"
	AssistantCached     = "cached"
	AssistantBadSQL     = "query_failed"
	AssistantCompletion = "completion_failed"
)

func (d *Dashboard) IncAssistant(outcome string) {
	if d == nil {
		return
	}
	d.assistantOutcomes.WithLabelValues(outcome).Inc()
}
