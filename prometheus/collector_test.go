package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/latencyhq/hdrhistogram"
)

func TestCollectorExportsSummaryStats(t *testing.T) {
	h, err := hdrhistogram.New(1, 3_600_000_000, 3)
	if err != nil {
		t.Fatal(err)
	}
	for v := int64(1); v <= 1000; v++ {
		h.RecordValue(v)
	}

	c := NewCollector(h, "latency_us", "request latency in microseconds")

	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	count := testutil.CollectAndCount(c)
	// min, max, mean, stddev, count, and one quantile gauge per default
	// percentile checkpoint.
	want := 5 + len(defaultPercentiles)
	if count != want {
		t.Fatalf("CollectAndCount() = %d, want %d", count, want)
	}
}

func TestCollectorAppliesConversionRatio(t *testing.T) {
	h, err := hdrhistogram.New(1, 1_000_000, 3)
	if err != nil {
		t.Fatal(err)
	}
	h.RecordValue(1000)
	h.SetConversionRatio(0.001) // nanoseconds -> microseconds

	c := NewCollector(h, "latency", "latency")

	reg := prometheusRegistryWith(t, c)
	metrics, err := testutil.GatherAndCount(reg)
	if err != nil {
		t.Fatal(err)
	}
	if metrics == 0 {
		t.Fatal("expected at least one metric to be gathered")
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() != "latency_max" {
			continue
		}
		found = true
		got := mf.GetMetric()[0].GetGauge().GetValue()
		if want := float64(h.Max()) * 0.001; got != want {
			t.Fatalf("latency_max = %v, want %v (Max() scaled by the conversion ratio)", got, want)
		}
	}
	if !found {
		t.Fatal("latency_max was not gathered")
	}
}

func prometheusRegistryWith(t *testing.T, c prometheus.Collector) *prometheus.Registry {
	t.Helper()
	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	return reg
}
