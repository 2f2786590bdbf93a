package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records the storefront state machine activity we alert
// on: how location fixes resolve, how often carts get cleared, and what the
// checkout funnel looks like.
type StorefrontMetrics struct {
	locationResolutions *prometheus.CounterVec
	cartClears          *prometheus.CounterVec
	shopSwitchPrompts   prometheus.Counter
	checkoutDetours     *prometheus.CounterVec
	checkoutSubmissions *prometheus.CounterVec
	checkoutDuration    prometheus.Histogram
}

// NewStorefrontMetrics registers the storefront metrics on the provided
// registerer. A nil registerer yields a no-op recorder.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	locationResolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "location_resolutions",
		Help: "Location resolutions by source and availability outcome.",
	}, []string{"source", "availability"})
	cartClears := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_clears",
		Help: "Cart clears by reason.",
	}, []string{"reason"})
	shopSwitchPrompts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_shop_switch_prompts",
		Help: "Shop switch confirmations prompted to the shopper.",
	})
	checkoutDetours := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_detours",
		Help: "Checkout entries redirected away by the navigation policy.",
	}, []string{"target"})
	checkoutSubmissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_submissions",
		Help: "Checkout submissions by result.",
	}, []string{"result"})
	checkoutDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(locationResolutions, cartClears, shopSwitchPrompts, checkoutDetours, checkoutSubmissions, checkoutDuration)
	return &StorefrontMetrics{
		locationResolutions: locationResolutions,
		cartClears:          cartClears,
		shopSwitchPrompts:   shopSwitchPrompts,
		checkoutDetours:     checkoutDetours,
		checkoutSubmissions: checkoutSubmissions,
		checkoutDuration:    checkoutDuration,
	}
}

// IncLocationResolution counts one resolution attempt by source and outcome.
func (m *StorefrontMetrics) IncLocationResolution(source, availability string) {
	if m == nil || m.locationResolutions == nil {
		return
	}
	m.locationResolutions.WithLabelValues(normalizeLabel(source), normalizeLabel(availability)).Inc()
}

// IncCartClear counts one cart clear for the given reason.
func (m *StorefrontMetrics) IncCartClear(reason string) {
	if m == nil || m.cartClears == nil {
		return
	}
	m.cartClears.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncShopSwitchPrompt counts one shop switch confirmation prompt.
func (m *StorefrontMetrics) IncShopSwitchPrompt() {
	if m == nil || m.shopSwitchPrompts == nil {
		return
	}
	m.shopSwitchPrompts.Inc()
}

// IncCheckoutDetour counts one navigation detour away from checkout.
func (m *StorefrontMetrics) IncCheckoutDetour(target string) {
	if m == nil || m.checkoutDetours == nil {
		return
	}
	m.checkoutDetours.WithLabelValues(normalizeLabel(target)).Inc()
}

// IncCheckoutSubmission counts one checkout submission by result.
func (m *StorefrontMetrics) IncCheckoutSubmission(result string) {
	if m == nil || m.checkoutSubmissions == nil {
		return
	}
	m.checkoutSubmissions.WithLabelValues(normalizeLabel(result)).Inc()
}

// ObserveCheckoutDuration records how long a checkout submission took.
func (m *StorefrontMetrics) ObserveCheckoutDuration(duration time.Duration) {
	if m == nil || m.checkoutDuration == nil {
		return
	}
	m.checkoutDuration.Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
