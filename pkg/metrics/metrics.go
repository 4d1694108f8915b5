// Package metrics exposes Prometheus collectors for the directory cache.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Fetch outcomes recorded on restaurants_remote_fetches_total.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Collectors groups the counters updated by the directory service. A nil
// *Collectors is valid and records nothing.
type Collectors struct {
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	RemoteFetches      *prometheus.CounterVec
	StoreWriteFailures prometheus.Counter
}

// New creates the collectors and registers them with reg when reg is non-nil.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "restaurants_cache_hits_total",
			Help: "Resolves answered from the local store.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "restaurants_cache_misses_total",
			Help: "Resolves that fell back to the remote endpoint.",
		}),
		RemoteFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "restaurants_remote_fetches_total",
			Help: "Remote collection fetches by outcome.",
		}, []string{"outcome"}),
		StoreWriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "restaurants_store_write_failures_total",
			Help: "Background cache population attempts that failed.",
		}),
	}
	if reg != nil {
		reg.MustRegister(c.CacheHits, c.CacheMisses, c.RemoteFetches, c.StoreWriteFailures)
	}
	return c
}

func (c *Collectors) Hit() {
	if c != nil {
		c.CacheHits.Inc()
	}
}

func (c *Collectors) Miss() {
	if c != nil {
		c.CacheMisses.Inc()
	}
}

// Fetched records the outcome of one remote fetch.
func (c *Collectors) Fetched(err error) {
	if c == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	c.RemoteFetches.WithLabelValues(outcome).Inc()
}

func (c *Collectors) WriteFailed() {
	if c != nil {
		c.StoreWriteFailures.Inc()
	}
}
