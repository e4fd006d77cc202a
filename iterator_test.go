package hdrhistogram

import "testing"

func TestPercentileIteratorEmitsHundredExactlyOnce(t *testing.T) {
	h, err := New(1, 1_000_000, 3)
	if err != nil {
		t.Fatal(err)
	}
	for v := int64(1); v <= 1000; v++ {
		h.RecordValue(v)
	}

	it := NewPercentileIterator(h, 5)
	var hundreds int
	var last float64
	for it.Next() {
		if it.Percentile() < last {
			t.Fatalf("percentile went backwards: %v after %v", it.Percentile(), last)
		}
		last = it.Percentile()
		if it.Percentile() == 100 {
			hundreds++
		}
	}
	if hundreds != 1 {
		t.Fatalf("100th percentile emitted %d times, want exactly 1", hundreds)
	}
	if last != 100 {
		t.Fatalf("last percentile emitted = %v, want 100", last)
	}
}

func TestLogIteratorCoversFullRange(t *testing.T) {
	h, err := New(1, 1_000_000, 3)
	if err != nil {
		t.Fatal(err)
	}
	for v := int64(1); v <= 1_000_000; v += 137 {
		h.RecordValue(v)
	}

	it := NewLogIterator(h, 1, 2.0)
	var sum int64
	var lastTo int64
	for it.Next() {
		if it.ValueIteratedTo() < lastTo {
			t.Fatalf("ValueIteratedTo went backwards: %d after %d", it.ValueIteratedTo(), lastTo)
		}
		lastTo = it.ValueIteratedTo()
		sum += it.CountAddedInThisIterationStep()
	}
	if sum != h.TotalCount() {
		t.Fatalf("log iterator step sum = %d, want %d", sum, h.TotalCount())
	}
}

func TestAllValuesIteratorVisitsEveryIndex(t *testing.T) {
	h, err := New(1, 1000, 2)
	if err != nil {
		t.Fatal(err)
	}
	h.RecordValue(1)
	h.RecordValue(1000)

	it := NewAllValuesIterator(h)
	var visited int64
	for it.Next() {
		visited++
	}
	if visited != int64(h.countsLen) {
		t.Fatalf("visited %d indices, want %d", visited, h.countsLen)
	}
}

func TestValueIteratedFromToAreMonotonic(t *testing.T) {
	h, err := New(1, 1000, 3)
	if err != nil {
		t.Fatal(err)
	}
	for v := int64(1); v <= 1000; v++ {
		h.RecordValue(v)
	}

	it := NewRecordedValuesIterator(h)
	var prevTo int64
	for it.Next() {
		if it.ValueIteratedFrom() != prevTo {
			t.Fatalf("ValueIteratedFrom() = %d, want %d (previous ValueIteratedTo)", it.ValueIteratedFrom(), prevTo)
		}
		if it.ValueIteratedTo() < it.ValueIteratedFrom() {
			t.Fatalf("ValueIteratedTo() = %d < ValueIteratedFrom() = %d", it.ValueIteratedTo(), it.ValueIteratedFrom())
		}
		prevTo = it.ValueIteratedTo()
	}
}
