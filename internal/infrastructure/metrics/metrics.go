package metrics

import (
	"net/http"

	"gymbook-promotions/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the promotion engine collectors.
type Metrics struct {
	quotes *prometheus.CounterVec
	offers prometheus.Histogram
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gymbook",
			Subsystem: "promotions",
			Name:      "quotes_total",
			Help:      "Checkout quotes by outcome. reason is empty for valid quotes.",
		}, []string{"valid", "reason"}),
		offers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gymbook",
			Subsystem: "promotions",
			Name:      "offers_per_package",
			Help:      "Number of applicable promotions returned for a package listing.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20},
		}),
	}
	reg.MustRegister(m.quotes, m.offers)
	return m
}

func (m *Metrics) ObserveQuote(result domain.DiscountResult) {
	valid := "true"
	if !result.IsValid {
		valid = "false"
	}
	m.quotes.WithLabelValues(valid, string(result.Reason)).Inc()
}

func (m *Metrics) ObserveOffers(n int) {
	m.offers.Observe(float64(n))
}

// Handler exposes everything gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
