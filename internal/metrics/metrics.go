// Package metrics collects and exposes Prometheus metrics for the
// newsletter service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface the service layers use to record events.
type Recorder interface {
	RecordNewsletterGenerated()
	RecordCacheHit()
	RecordConflictRecovered()
	RecordEmailSent(simulated bool)
	RecordSubscription(status string)
}

// Collector implements Recorder on Prometheus counters.
type Collector struct {
	generated     prometheus.Counter
	cacheHits     prometheus.Counter
	conflicts     prometheus.Counter
	emails        *prometheus.CounterVec
	subscriptions *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		generated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trendletter_newsletters_generated_total",
			Help: "Newsletters generated and inserted into the cache",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trendletter_newsletter_cache_hits_total",
			Help: "Newsletter requests served from the weekly cache",
		}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trendletter_newsletter_conflicts_recovered_total",
			Help: "Concurrent generation races resolved by re-reading the winner",
		}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendletter_emails_total",
			Help: "Emails dispatched, by delivery mode",
		}, []string{"mode"}),
		subscriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trendletter_subscriptions_total",
			Help: "Subscription requests, by outcome status",
		}, []string{"status"}),
	}

	reg.MustRegister(
		c.generated,
		c.cacheHits,
		c.conflicts,
		c.emails,
		c.subscriptions,
	)

	return c
}

// RecordNewsletterGenerated counts a freshly generated newsletter.
func (c *Collector) RecordNewsletterGenerated() {
	c.generated.Inc()
}

// RecordCacheHit counts a newsletter served from the cache.
func (c *Collector) RecordCacheHit() {
	c.cacheHits.Inc()
}

// RecordConflictRecovered counts a lost insert race that was recovered.
func (c *Collector) RecordConflictRecovered() {
	c.conflicts.Inc()
}

// RecordEmailSent counts a dispatched email by delivery mode.
func (c *Collector) RecordEmailSent(simulated bool) {
	mode := "real"
	if simulated {
		mode = "simulated"
	}
	c.emails.WithLabelValues(mode).Inc()
}

// RecordSubscription counts a subscription request by outcome.
func (c *Collector) RecordSubscription(status string) {
	c.subscriptions.WithLabelValues(status).Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop is a Recorder that discards every event. Useful for CLI paths and
// tests that don't assert on metrics.
type Nop struct{}

func (Nop) RecordNewsletterGenerated()       {}
func (Nop) RecordCacheHit()                  {}
func (Nop) RecordConflictRecovered()         {}
func (Nop) RecordEmailSent(simulated bool)   {}
func (Nop) RecordSubscription(status string) {}
