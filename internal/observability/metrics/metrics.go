package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking wizard funnel.
type BookingMetrics struct {
	slotFetchTotal   *prometheus.CounterVec
	slotFetchLatency prometheus.Histogram
	staleDiscarded   prometheus.Counter
	submissionsTotal *prometheus.CounterVec
	lookupTotal      *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		slotFetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barberly",
			Subsystem: "booking",
			Name:      "slot_fetch_total",
			Help:      "Total availability fetches against the appointment API",
		}, []string{"status"}),
		slotFetchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "barberly",
			Subsystem: "booking",
			Name:      "slot_fetch_latency_seconds",
			Help:      "Latency of availability fetches",
			Buckets:   prometheus.DefBuckets,
		}),
		staleDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "barberly",
			Subsystem: "booking",
			Name:      "stale_slot_responses_total",
			Help:      "Availability responses discarded because the selection changed mid-flight",
		}),
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barberly",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Total booking submissions",
		}, []string{"status"}),
		lookupTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "barberly",
			Subsystem: "booking",
			Name:      "customer_lookup_total",
			Help:      "Total customer phone lookups",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.slotFetchTotal, m.slotFetchLatency, m.staleDiscarded, m.submissionsTotal, m.lookupTotal)
	return m
}

func (m *BookingMetrics) ObserveSlotFetch(status string, seconds float64) {
	if m == nil {
		return
	}
	m.slotFetchTotal.WithLabelValues(status).Inc()
	m.slotFetchLatency.Observe(seconds)
}

func (m *BookingMetrics) ObserveStaleDiscard() {
	if m == nil {
		return
	}
	m.staleDiscarded.Inc()
}

func (m *BookingMetrics) ObserveSubmission(status string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveLookup(result string) {
	if m == nil {
		return
	}
	m.lookupTotal.WithLabelValues(result).Inc()
}
