// Package metrics exposes Prometheus counters for the directory service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics surface used by the seed client, session manager
// and service layer.
type Recorder interface {
	RecordSeedFetch(duration time.Duration, err error)
	RecordSeedCacheHit()
	RecordSearch(matches int)
	RecordInsert(accepted bool)
	SetActiveSessions(n int)
}

// Collector is the Prometheus implementation of Recorder
type Collector struct {
	seedSuccess    prometheus.Counter
	seedFail       prometheus.Counter
	seedLatency    prometheus.Histogram
	seedCacheHits  prometheus.Counter
	searches       prometheus.Counter
	searchMatches  prometheus.Histogram
	inserts        *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

// NewCollector creates a Collector and registers it with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		seedSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "user_directory_seed_fetch_success_total",
			Help: "Successful seed fetches",
		}),
		seedFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "user_directory_seed_fetch_fail_total",
			Help: "Failed seed fetches",
		}),
		seedLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "user_directory_seed_fetch_latency_seconds",
			Help:    "Seed fetch latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		seedCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "user_directory_seed_cache_hits_total",
			Help: "Seeds served from the process-wide cache",
		}),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "user_directory_searches_total",
			Help: "Directory searches",
		}),
		searchMatches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "user_directory_search_matches",
			Help:    "Rows returned per search",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		inserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "user_directory_inserts_total",
			Help: "Insert attempts by outcome",
		}, []string{"outcome"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "user_directory_active_sessions",
			Help: "Sessions currently held in memory",
		}),
	}

	reg.MustRegister(
		c.seedSuccess,
		c.seedFail,
		c.seedLatency,
		c.seedCacheHits,
		c.searches,
		c.searchMatches,
		c.inserts,
		c.activeSessions,
	)

	return c
}

// RecordSeedFetch records one seed fetch and its outcome
func (c *Collector) RecordSeedFetch(duration time.Duration, err error) {
	c.seedLatency.Observe(duration.Seconds())
	if err != nil {
		c.seedFail.Inc()
		return
	}
	c.seedSuccess.Inc()
}

func (c *Collector) RecordSeedCacheHit() {
	c.seedCacheHits.Inc()
}

func (c *Collector) RecordSearch(matches int) {
	c.searches.Inc()
	c.searchMatches.Observe(float64(matches))
}

func (c *Collector) RecordInsert(accepted bool) {
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	c.inserts.WithLabelValues(outcome).Inc()
}

func (c *Collector) SetActiveSessions(n int) {
	c.activeSessions.Set(float64(n))
}

// Handler returns the Prometheus scrape handler for gatherer
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards all measurements
type Nop struct{}

func (Nop) RecordSeedFetch(time.Duration, error) {}
func (Nop) RecordSeedCacheHit() {}
func (Nop) RecordSearch(int) {}
func (Nop) RecordInsert(bool) {}
func (Nop) SetActiveSessions(int) {}

var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = Nop{}
)
