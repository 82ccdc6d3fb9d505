package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// QuoteMetrics counts quote outcomes and observes discount component sizes.
type QuoteMetrics struct {
	Requests *prometheus.CounterVec
	Discount *prometheus.HistogramVec
}

// NewQuoteMetrics registers the quote collectors on reg (the default registerer when nil).
func NewQuoteMetrics(namespace string, reg prometheus.Registerer) *QuoteMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &QuoteMetrics{
		Requests: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_requests_total",
			Help:      "Count of discount quote computations by mode and outcome.",
		}, []string{"coupon_mode", "ontop_mode", "result"})),
		Discount: register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_discount_amount",
			Help:      "Distribution of computed discount amounts per campaign.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		}, []string{"component"})),
	}
}

// ObserveResult increments the outcome counter. Safe on a nil receiver.
func (m *QuoteMetrics) ObserveResult(couponMode, onTopMode, result string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(couponMode, onTopMode, result).Inc()
}

// ObserveDiscount records one discount component. Safe on a nil receiver.
func (m *QuoteMetrics) ObserveDiscount(component string, amount float64) {
	if m == nil {
		return
	}
	m.Discount.WithLabelValues(component).Observe(amount)
}
