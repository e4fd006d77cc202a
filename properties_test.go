package hdrhistogram

import (
	"math/rand"
	"sync"
	"testing"
)

// TestConservation checks that after recording N values, TotalCount == N
// and the sum of every counts-array slot equals N.
func TestConservation(t *testing.T) {
	h, err := New(1, 1_000_000, 3)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(1))
	const n = 5000
	for i := 0; i < n; i++ {
		h.RecordValue(rng.Int63n(1_000_000) + 1)
	}

	if h.TotalCount() != n {
		t.Fatalf("TotalCount() = %d, want %d", h.TotalCount(), n)
	}

	var sum int64
	it := NewAllValuesIterator(h)
	for it.Next() {
		sum += it.Count()
	}
	if sum != n {
		t.Fatalf("sum of counts = %d, want %d", sum, n)
	}
}

// TestErrorBound checks that the relative width of every recorded value's
// equivalence range is within the histogram's stated precision.
func TestErrorBound(t *testing.T) {
	const sigFigs = 3
	h, err := New(1, 3_600_000_000, sigFigs)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 2000; i++ {
		v := rng.Int63n(3_600_000_000) + 1
		width := h.HighestEquivalentValue(v) - h.LowestEquivalentValue(v)
		relErr := float64(width) / float64(v)
		if relErr > 1e-3 {
			t.Fatalf("value %d: relative error %v exceeds 10^-%d", v, relErr, sigFigs)
		}
	}
}

// TestIndexRoundTrip checks that mapping a value to its counts-array
// index and back to a value maps to the same index again.
func TestIndexRoundTrip(t *testing.T) {
	h, err := New(1, 1_000_000, 3)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 2000; i++ {
		v := rng.Int63n(1_000_000) + 1
		idx := h.countsIndexFor(v)
		roundTripped := h.countsIndexFor(h.ValueAtIndex(idx))
		if roundTripped != idx {
			t.Fatalf("value %d: index round-trip %d != %d", v, roundTripped, idx)
		}
	}
}

// TestValueEquivalenceRoundTrip checks that v is equivalent to its own
// lowest equivalent value.
func TestValueEquivalenceRoundTrip(t *testing.T) {
	h, err := New(1, 1_000_000, 3)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 2000; i++ {
		v := rng.Int63n(1_000_000) + 1
		if !h.ValuesAreEquivalent(v, h.LowestEquivalentValue(v)) {
			t.Fatalf("value %d is not equivalent to its own lowest equivalent", v)
		}
	}
}

// TestPercentileMonotonicity checks that percentiles are non-decreasing
// as p increases.
func TestPercentileMonotonicity(t *testing.T) {
	h, err := New(1, 1_000_000, 3)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 5000; i++ {
		h.RecordValue(rng.Int63n(1_000_000) + 1)
	}

	prev := h.ValueAtPercentile(0)
	for p := 1.0; p <= 100; p++ {
		v := h.ValueAtPercentile(p)
		if v < prev {
			t.Fatalf("ValueAtPercentile(%v) = %d < previous %d", p, v, prev)
		}
		prev = v
	}
}

// TestPercentileBounds checks the 0th and 100th percentile boundary cases.
func TestPercentileBounds(t *testing.T) {
	h, err := New(1, 1_000_000, 3)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(6))
	for i := 0; i < 5000; i++ {
		h.RecordValue(rng.Int63n(1_000_000) + 1)
	}

	if got, want := h.ValueAtPercentile(0), h.Min(); got != want {
		t.Fatalf("ValueAtPercentile(0) = %d, want Min() = %d", got, want)
	}
	if got, want := h.ValueAtPercentile(100), h.HighestEquivalentValue(h.Max()); got != want {
		t.Fatalf("ValueAtPercentile(100) = %d, want HighestEquivalentValue(Max()) = %d", got, want)
	}
}

// TestIteratorCompleteness checks that the recorded-values iterator's
// step counts sum to the histogram's total count.
func TestIteratorCompleteness(t *testing.T) {
	h, err := New(1, 1_000_000, 3)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 5000; i++ {
		h.RecordValue(rng.Int63n(1_000_000) + 1)
	}

	var sum int64
	it := NewRecordedValuesIterator(h)
	for it.Next() {
		sum += it.CountAddedInThisIterationStep()
	}
	if sum != h.TotalCount() {
		t.Fatalf("sum of recorded-iterator steps = %d, want %d", sum, h.TotalCount())
	}
}

// TestMergePreservation checks that merging into an empty histogram with
// identical geometry drops nothing and preserves the total count.
func TestMergePreservation(t *testing.T) {
	src, err := New(1, 1_000_000, 3)
	if err != nil {
		t.Fatal(err)
	}
	dst, err := New(1, 1_000_000, 3)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(8))
	for i := 0; i < 5000; i++ {
		src.RecordValue(rng.Int63n(1_000_000) + 1)
	}

	dropped := dst.Add(src)
	if dropped != 0 {
		t.Fatalf("dropped = %d, want 0 for identical geometry", dropped)
	}
	if dst.TotalCount() != src.TotalCount() {
		t.Fatalf("dst.TotalCount() = %d, want %d", dst.TotalCount(), src.TotalCount())
	}
}

// TestCoordinatedOmissionExpansion checks that recording a corrected value
// that is k multiples of the expected interval backfills exactly k samples
// (see also TestRecordCorrectedValueExpansionCount in hdrhistogram_test.go).
func TestCoordinatedOmissionExpansion(t *testing.T) {
	h, err := New(1, 1_000_000, 3)
	if err != nil {
		t.Fatal(err)
	}
	const expectedInterval = 50
	const k = 11
	h.RecordCorrectedValue(k*expectedInterval, expectedInterval)
	if h.TotalCount() != k {
		t.Fatalf("TotalCount() = %d, want %d", h.TotalCount(), k)
	}
}

// TestConcurrentRecording checks that T goroutines each recording M values
// yield TotalCount == T*M, exercising the lock-free counts/total/min/max
// path.
func TestConcurrentRecording(t *testing.T) {
	h, err := New(1, 1_000_000, 3)
	if err != nil {
		t.Fatal(err)
	}

	const goroutines = 16
	const perGoroutine = 2000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < perGoroutine; i++ {
				h.RecordValue(rng.Int63n(1_000_000) + 1)
			}
		}(int64(g))
	}
	wg.Wait()

	want := int64(goroutines * perGoroutine)
	if h.TotalCount() != want {
		t.Fatalf("TotalCount() = %d, want %d", h.TotalCount(), want)
	}

	var sum int64
	it := NewAllValuesIterator(h)
	for it.Next() {
		sum += it.Count()
	}
	if sum != want {
		t.Fatalf("sum of counts = %d, want %d", sum, want)
	}
}
