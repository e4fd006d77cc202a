package hdrhistogram

import (
	"math"
	"sync/atomic"
)

// Readers are not synchronized with concurrent recorders: they observe
// whatever partial state is visible and may miss in-flight updates.

// Min returns the lowest equivalent value of the smallest non-zero
// recorded value, or the sentinel 2^63-1 if nothing has been recorded yet.
func (h *Histogram) Min() int64 {
	v := atomic.LoadInt64(&h.minValue)
	if v == minValueSentinel {
		return v
	}
	return h.LowestEquivalentValue(v)
}

// Max returns the highest equivalent value of the largest recorded value,
// or 0 if nothing has been recorded yet.
func (h *Histogram) Max() int64 {
	v := atomic.LoadInt64(&h.maxValue)
	if v == 0 {
		return 0
	}
	return h.HighestEquivalentValue(v)
}

// CountAtValue returns the number of recorded samples whose value falls in
// v's equivalence range.
func (h *Histogram) CountAtValue(v int64) int64 {
	idx := h.countsIndexFor(v)
	if idx < 0 || idx >= int64(h.countsLen) {
		return 0
	}
	return h.CountAtIndex(idx)
}

// CountAtIndex returns the raw counts-array value at a counts-array index,
// as obtained from an iterator or from countsIndexFor.
func (h *Histogram) CountAtIndex(index int64) int64 {
	return atomic.LoadInt64(&h.counts[index])
}

// ValueAtPercentile returns the value at or below which p percent (clamped
// to [0,100]) of recorded samples fall. Ties are broken by the smallest
// satisfying index, and the target count is computed with round-half-up
// at the 0.5 boundary to match the reference implementation's
// `+ 0.5` truncation.
func (h *Histogram) ValueAtPercentile(p float64) int64 {
	if p > 100 {
		p = 100
	}
	if p < 0 {
		p = 0
	}

	total := atomic.LoadInt64(&h.totalCount)
	if total == 0 {
		return 0
	}

	countAtPercentile := int64((p/100.0)*float64(total) + 0.5)
	if countAtPercentile < 1 {
		countAtPercentile = 1
	}

	var runningTotal int64
	for idx := int64(0); idx < int64(h.countsLen); idx++ {
		runningTotal += h.CountAtIndex(idx)
		if runningTotal >= countAtPercentile {
			value := h.ValueAtIndex(idx)
			if p == 0 {
				return h.LowestEquivalentValue(value)
			}
			return h.HighestEquivalentValue(value)
		}
	}

	return h.Max()
}

// Mean returns the approximate arithmetic mean of the recorded values,
// computed as the count-weighted sum of each bucket's median equivalent
// value. It returns 0 when the histogram is empty.
func (h *Histogram) Mean() float64 {
	total := atomic.LoadInt64(&h.totalCount)
	if total == 0 {
		return 0
	}

	var sum float64
	for idx := int64(0); idx < int64(h.countsLen); idx++ {
		count := h.CountAtIndex(idx)
		if count == 0 {
			continue
		}
		value := h.ValueAtIndex(idx)
		sum += float64(count) * float64(h.MedianEquivalentValue(value))
	}
	return sum / float64(total)
}

// StdDev returns the approximate standard deviation of the recorded
// values, using the same median-equivalent weighting as Mean. It returns 0
// when the histogram is empty.
func (h *Histogram) StdDev() float64 {
	total := atomic.LoadInt64(&h.totalCount)
	if total == 0 {
		return 0
	}

	mean := h.Mean()

	var geometricDevTotal float64
	for idx := int64(0); idx < int64(h.countsLen); idx++ {
		count := h.CountAtIndex(idx)
		if count == 0 {
			continue
		}
		value := h.ValueAtIndex(idx)
		dev := float64(h.MedianEquivalentValue(value)) - mean
		geometricDevTotal += dev * dev * float64(count)
	}

	return math.Sqrt(geometricDevTotal / float64(total))
}
