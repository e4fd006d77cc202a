package hdrhistogram

import "sync/atomic"

// Counts and totalCount use relaxed read-modify-write (Go's sync/atomic
// functions on amd64/arm64 provide at least this), while minValue/maxValue
// use a CAS retry loop that always re-reads the current value on a failed
// compare, so a concurrent writer publishing a newer extremum is never
// clobbered.

// RecordValue records a single occurrence of v, returning false without
// modifying the histogram if v exceeds HighestTrackableValue. Values below
// LowestTrackableValue are not rejected: they are counted into the lowest
// equivalence range, since the codec maps any 0 <= v < lowest into bucket 0.
func (h *Histogram) RecordValue(v int64) bool {
	return h.RecordValues(v, 1)
}

// RecordValues records n occurrences of v. It returns false, leaving the
// histogram unchanged, if v is negative or exceeds HighestTrackableValue.
func (h *Histogram) RecordValues(v, n int64) bool {
	if v < 0 || v > h.highestTrackableValue {
		return false
	}

	idx := h.countsIndexFor(v)
	if idx < 0 || idx >= int64(h.countsLen) {
		return false
	}

	atomic.AddInt64(&h.counts[idx], n)
	atomic.AddInt64(&h.totalCount, n)

	if v != 0 {
		h.updateMinValue(v)
	}
	h.updateMaxValue(v)

	return true
}

// RecordCorrectedValue records v, then -- if expectedInterval > 0 and v
// exceeds it -- synthesises the additional samples a coordinated-omission
// analysis implies: a single long measurement means the producer was
// blocked, so the samples that would have been recorded on schedule during
// the stall are backfilled at v-expectedInterval, v-2*expectedInterval, ...
// down to (but not below) expectedInterval.
func (h *Histogram) RecordCorrectedValue(v, expectedInterval int64) bool {
	return h.RecordCorrectedValues(v, 1, expectedInterval)
}

// RecordCorrectedValues is RecordCorrectedValue for n occurrences of v: n
// copies of v are recorded, and n copies of each synthesised backfill
// value are recorded alongside them.
func (h *Histogram) RecordCorrectedValues(v, n, expectedInterval int64) bool {
	if !h.RecordValues(v, n) {
		return false
	}

	if expectedInterval <= 0 || v <= expectedInterval {
		return true
	}

	for missingValue := v - expectedInterval; missingValue >= expectedInterval; missingValue -= expectedInterval {
		if !h.RecordValues(missingValue, n) {
			return false
		}
	}

	return true
}

// updateMinValue keeps minValue as the smallest non-zero value ever passed
// to RecordValue[s] (callers skip this for v == 0), retrying the CAS until
// it either wins or observes that another goroutine already recorded a
// value <= v.
func (h *Histogram) updateMinValue(v int64) {
	for {
		current := atomic.LoadInt64(&h.minValue)
		if v >= current {
			return
		}
		if atomic.CompareAndSwapInt64(&h.minValue, current, v) {
			return
		}
		// Lost the race: re-read and re-test rather than blindly
		// retrying with the stale `current`, so a newer, smaller
		// extremum published by another goroutine is never clobbered.
	}
}

// updateMaxValue is the mirror of updateMinValue for the running maximum.
func (h *Histogram) updateMaxValue(v int64) {
	for {
		current := atomic.LoadInt64(&h.maxValue)
		if v <= current {
			return
		}
		if atomic.CompareAndSwapInt64(&h.maxValue, current, v) {
			return
		}
	}
}
