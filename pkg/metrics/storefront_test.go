package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestStorefrontMetricsExports(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewStorefrontMetrics(reg)

	metrics.IncLocationResolution("browser", "available")
	metrics.IncLocationResolution("centroid", "out_of_area")
	metrics.IncCartClear("session_loss")
	metrics.IncShopSwitchPrompt()
	metrics.IncCheckoutDetour("profile")
	metrics.IncCheckoutSubmission("placed")
	metrics.ObserveCheckoutDuration(120 * time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "location_resolutions", "source", "browser"); err != nil {
		t.Fatalf("fetch location resolutions: %v", err)
	} else if got != 1 {
		t.Fatalf("expected browser resolutions=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "cart_clears", "reason", "session_loss"); err != nil {
		t.Fatalf("fetch cart clears: %v", err)
	} else if got != 1 {
		t.Fatalf("expected session_loss clears=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "checkout_detours", "target", "profile"); err != nil {
		t.Fatalf("fetch detours: %v", err)
	} else if got != 1 {
		t.Fatalf("expected profile detours=1, got %f", got)
	}

	if mf := findMetricFamily(mfs, "cart_shop_switch_prompts"); mf == nil {
		t.Fatalf("shop switch prompt counter not exported")
	} else if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected prompt counter=1, got %f", got)
	}

	if mf := findMetricFamily(mfs, "checkout_duration_seconds"); mf == nil {
		t.Fatalf("checkout duration histogram not exported")
	} else if sum := mf.GetMetric()[0].GetHistogram().GetSampleSum(); sum <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", sum)
	}
}

func TestStorefrontMetricsNilRegisterer(t *testing.T) {
	metrics := NewStorefrontMetrics(nil)
	metrics.IncLocationResolution("browser", "available")
	metrics.IncCartClear("sign_out")
	metrics.IncShopSwitchPrompt()
	metrics.IncCheckoutDetour("cart")
	metrics.IncCheckoutSubmission("rejected")
	metrics.ObserveCheckoutDuration(time.Second)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
