package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart dispatch, checkout and selector activity.
type CartMetrics struct {
	actions          *prometheus.CounterVec
	checkouts        *prometheus.CounterVec
	checkoutDuration prometheus.Histogram
	lines            prometheus.Gauge
	units            prometheus.Gauge
	selectorCache    *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_actions_total",
		Help: "Actions dispatched to the cart store.",
	}, []string{"action"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_checkouts_total",
		Help: "Completed checkout attempts by outcome.",
	}, []string{"outcome"})
	checkoutDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cart_checkout_duration_seconds",
		Help:    "Time spent waiting on the checkout transport.",
		Buckets: prometheus.DefBuckets,
	})
	lines := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cart_lines",
		Help: "Distinct products currently in the cart.",
	})
	units := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cart_units",
		Help: "Total item quantity currently in the cart.",
	})
	selectorCache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_selector_cache_total",
		Help: "Derived view lookups by selector and cache result.",
	}, []string{"selector", "result"})
	reg.MustRegister(actions, checkouts, checkoutDuration, lines, units, selectorCache)
	return &CartMetrics{
		actions:          actions,
		checkouts:        checkouts,
		checkoutDuration: checkoutDuration,
		lines:            lines,
		units:            units,
		selectorCache:    selectorCache,
	}
}

// IncAction counts a dispatched action.
func (c *CartMetrics) IncAction(action string) {
	if c == nil || c.actions == nil {
		return
	}
	c.actions.WithLabelValues(normalizeLabel(action)).Inc()
}

// ObserveCheckout records the outcome and transport latency of a checkout.
func (c *CartMetrics) ObserveCheckout(outcome string, duration time.Duration) {
	if c == nil || c.checkouts == nil {
		return
	}
	c.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
	c.checkoutDuration.Observe(duration.Seconds())
}

// SetContents publishes the current cart size.
func (c *CartMetrics) SetContents(lines, units int) {
	if c == nil || c.lines == nil {
		return
	}
	c.lines.Set(float64(lines))
	c.units.Set(float64(units))
}

// SelectorHit counts a memoized selector result served from cache.
func (c *CartMetrics) SelectorHit(selector string) {
	c.selector(selector, "hit")
}

// SelectorMiss counts a selector recomputation.
func (c *CartMetrics) SelectorMiss(selector string) {
	c.selector(selector, "miss")
}

func (c *CartMetrics) selector(selector, result string) {
	if c == nil || c.selectorCache == nil {
		return
	}
	c.selectorCache.WithLabelValues(normalizeLabel(selector), result).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
