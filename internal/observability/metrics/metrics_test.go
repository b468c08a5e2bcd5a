package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)
	m.ObserveSlotFetch("ok", 0.25)
	m.ObserveSlotFetch("error", 0.5)
	m.ObserveStaleDiscard()
	m.ObserveSubmission("ok")
	m.ObserveLookup("found")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	if got := counterValue(families, "barberly_booking_slot_fetch_total", "status", "ok"); got != 1 {
		t.Errorf("slot_fetch_total{status=ok} = %v, want 1", got)
	}
	if got := counterValue(families, "barberly_booking_stale_slot_responses_total", "", ""); got != 1 {
		t.Errorf("stale_slot_responses_total = %v, want 1", got)
	}
	if got := counterValue(families, "barberly_booking_submissions_total", "status", "ok"); got != 1 {
		t.Errorf("submissions_total{status=ok} = %v, want 1", got)
	}
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveSlotFetch("ok", 0.1)
	m.ObserveStaleDiscard()
	m.ObserveSubmission("error")
	m.ObserveLookup("miss")
}

func counterValue(families []*dto.MetricFamily, name, labelName, labelValue string) float64 {
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if labelName == "" {
				return metric.GetCounter().GetValue()
			}
			for _, label := range metric.GetLabel() {
				if label.GetName() == labelName && label.GetValue() == labelValue {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return -1
}
