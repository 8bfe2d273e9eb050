package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records quote pipeline health. Fallback counters are the
// operator signal that a quote was priced from best-guess configuration.
type PricingMetrics struct {
	quoteDuration prometheus.Histogram
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter
	fallbacks     *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	quoteDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "quote_pricing_duration_seconds",
		Help:    "Duration of full quote pricing computations.",
		Buckets: prometheus.DefBuckets,
	})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "exchange_rate_cache_hits",
		Help: "Exchange rate cache hits.",
	})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "exchange_rate_cache_misses",
		Help: "Exchange rate cache misses.",
	})
	fallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_fallback_total",
		Help: "Pricing computations that degraded to a fallback value.",
	}, []string{"component"})
	reg.MustRegister(quoteDuration, cacheHits, cacheMisses, fallbacks)
	return &PricingMetrics{
		quoteDuration: quoteDuration,
		cacheHits:     cacheHits,
		cacheMisses:   cacheMisses,
		fallbacks:     fallbacks,
	}
}

// ObserveQuoteDuration records the duration of one pricing run.
func (p *PricingMetrics) ObserveQuoteDuration(duration time.Duration) {
	if p == nil || p.quoteDuration == nil {
		return
	}
	p.quoteDuration.Observe(duration.Seconds())
}

// IncCacheHit increments the rate cache hit counter.
func (p *PricingMetrics) IncCacheHit() {
	if p == nil || p.cacheHits == nil {
		return
	}
	p.cacheHits.Inc()
}

// IncCacheMiss increments the rate cache miss counter.
func (p *PricingMetrics) IncCacheMiss() {
	if p == nil || p.cacheMisses == nil {
		return
	}
	p.cacheMisses.Inc()
}

// IncFallback increments the fallback counter for the named component.
func (p *PricingMetrics) IncFallback(component string) {
	if p == nil || p.fallbacks == nil {
		return
	}
	if component == "" {
		component = "unknown"
	}
	p.fallbacks.WithLabelValues(component).Inc()
}
