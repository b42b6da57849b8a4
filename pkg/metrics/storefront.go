package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storefront"

// Outcome labels shared by the counters below.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

// Branding lookup results.
const (
	LookupHit      = "hit"
	LookupRedis    = "redis"
	LookupDatabase = "database"
	LookupDefault  = "default"
	LookupError    = "error"
)

// Storefront records checkout, notification and branding cache activity.
type Storefront struct {
	ordersPlaced     prometheus.Counter
	checkoutDuration *prometheus.HistogramVec
	notifications    *prometheus.CounterVec
	brandingLookups  *prometheus.CounterVec
}

// NewStorefront registers the storefront metrics on the provided registerer.
// A nil registerer yields a recorder whose methods are no-ops.
func NewStorefront(reg prometheus.Registerer) *Storefront {
	if reg == nil {
		return &Storefront{}
	}
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Orders persisted by checkout.",
	})
	checkoutDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "checkout_duration_seconds",
		Help:      "Duration of order placement in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_notifications_total",
		Help:      "Order confirmation emails by outcome.",
	}, []string{"outcome"})
	brandingLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "branding_lookups_total",
		Help:      "Branding logo lookups by resolution source.",
	}, []string{"result"})
	reg.MustRegister(ordersPlaced, checkoutDuration, notifications, brandingLookups)
	return &Storefront{
		ordersPlaced:     ordersPlaced,
		checkoutDuration: checkoutDuration,
		notifications:    notifications,
		brandingLookups:  brandingLookups,
	}
}

// IncOrdersPlaced counts a persisted order.
func (s *Storefront) IncOrdersPlaced() {
	if s == nil || s.ordersPlaced == nil {
		return
	}
	s.ordersPlaced.Inc()
}

// ObserveCheckout records how long an order placement took.
func (s *Storefront) ObserveCheckout(outcome string, duration time.Duration) {
	if s == nil || s.checkoutDuration == nil {
		return
	}
	s.checkoutDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncNotification counts a confirmation email attempt.
func (s *Storefront) IncNotification(outcome string) {
	if s == nil || s.notifications == nil {
		return
	}
	s.notifications.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncBrandingLookup counts how a logo lookup was resolved.
func (s *Storefront) IncBrandingLookup(result string) {
	if s == nil || s.brandingLookups == nil {
		return
	}
	s.brandingLookups.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
