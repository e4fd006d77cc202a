package hdrhistogram

import (
	"math"
	"sync/atomic"
)

// This file implements the iterator framework: a generic cursor plus five
// strategy variants. All variants are finite and non-restartable --
// reinitialise (call the matching New*Iterator constructor again) to
// rewind.
//
// Iterators snapshot totalCount at construction time and are not live
// under concurrent updates: readers accept a relaxed view of the
// histogram rather than a consistent snapshot.

// iterator is the shared cursor embedded by every variant. It tracks the
// current counts-array index, the running cumulative count, and the
// lowest/highest/median equivalents of the value at that index, so every
// variant can expose ValueIteratedFrom/ValueIteratedTo uniformly.
type iterator struct {
	h *Histogram

	countsIndex     int64
	totalCount      int64 // snapshot taken at initialisation
	count           int64
	cumulativeCount int64
	value           int64

	highestEquivalentValue int64
	lowestEquivalentValue  int64
	medianEquivalentValue  int64

	valueIteratedFrom int64
	valueIteratedTo   int64
}

func newIterator(h *Histogram) iterator {
	return iterator{
		h:           h,
		countsIndex: -1,
		totalCount:  atomic.LoadInt64(&h.totalCount),
	}
}

// Count returns the raw counts-array value at the cursor's current index.
func (it *iterator) Count() int64 { return it.count }

// CumulativeCount returns the running sum of counts up to and including
// the cursor's current index.
func (it *iterator) CumulativeCount() int64 { return it.cumulativeCount }

// Value returns the lowest value represented by the cursor's current
// index.
func (it *iterator) Value() int64 { return it.value }

// HighestEquivalentValue returns the highest value equivalent to Value().
func (it *iterator) HighestEquivalentValue() int64 { return it.highestEquivalentValue }

// LowestEquivalentValue returns the lowest value equivalent to Value().
func (it *iterator) LowestEquivalentValue() int64 { return it.lowestEquivalentValue }

// MedianEquivalentValue returns the midpoint of Value()'s equivalence
// range.
func (it *iterator) MedianEquivalentValue() int64 { return it.medianEquivalentValue }

// ValueIteratedFrom returns the highest equivalent of the previously
// emitted step (0 before the first step).
func (it *iterator) ValueIteratedFrom() int64 { return it.valueIteratedFrom }

// ValueIteratedTo returns the highest equivalent of the current step.
func (it *iterator) ValueIteratedTo() int64 { return it.valueIteratedTo }

// advance moves the raw counts-array cursor forward by one slot,
// refreshing count/cumulativeCount/value and the equivalent-value triple.
// It returns false once the index runs past the end of the counts array.
func (it *iterator) advance() bool {
	it.countsIndex++
	if it.countsIndex >= int64(it.h.countsLen) {
		return false
	}

	it.count = it.h.CountAtIndex(it.countsIndex)
	it.cumulativeCount += it.count
	it.value = it.h.ValueAtIndex(it.countsIndex)
	it.lowestEquivalentValue = it.h.LowestEquivalentValue(it.value)
	it.highestEquivalentValue = it.h.HighestEquivalentValue(it.value)
	it.medianEquivalentValue = it.h.MedianEquivalentValue(it.value)
	return true
}

// ---------------------------------------------------------------------
// All-indices iterator
// ---------------------------------------------------------------------

// AllValuesIterator walks every counts-array index in order, including
// zero-count slots.
type AllValuesIterator struct {
	iterator
}

// NewAllValuesIterator constructs an iterator over every index of h.
func NewAllValuesIterator(h *Histogram) *AllValuesIterator {
	return &AllValuesIterator{iterator: newIterator(h)}
}

// Next advances the cursor to the next counts-array index. It returns
// false once every index has been visited.
func (it *AllValuesIterator) Next() bool {
	if it.countsIndex >= int64(it.h.countsLen)-1 {
		return false
	}
	it.valueIteratedFrom = it.valueIteratedTo
	if !it.advance() {
		return false
	}
	it.valueIteratedTo = it.highestEquivalentValue
	return true
}

// ---------------------------------------------------------------------
// Recorded-only iterator
// ---------------------------------------------------------------------

// RecordedValuesIterator walks only the counts-array indices with a
// non-zero count, exposing the count added at each step.
type RecordedValuesIterator struct {
	iterator
	countAddedInThisIterationStep int64
}

// NewRecordedValuesIterator constructs an iterator over the non-zero
// indices of h.
func NewRecordedValuesIterator(h *Histogram) *RecordedValuesIterator {
	return &RecordedValuesIterator{iterator: newIterator(h)}
}

// CountAddedInThisIterationStep returns the non-zero count just crossed by
// the most recent Next call.
func (it *RecordedValuesIterator) CountAddedInThisIterationStep() int64 {
	return it.countAddedInThisIterationStep
}

// Next advances to the next non-zero counts-array index. It returns false
// once no non-zero index remains.
func (it *RecordedValuesIterator) Next() bool {
	for it.countsIndex < int64(it.h.countsLen)-1 {
		it.valueIteratedFrom = it.valueIteratedTo
		if !it.advance() {
			return false
		}
		if it.count != 0 {
			it.countAddedInThisIterationStep = it.count
			it.valueIteratedTo = it.highestEquivalentValue
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------
// Linear iterator
// ---------------------------------------------------------------------

// LinearIterator groups the counts-array into equal-sized value buckets of
// width valueUnitsPerBucket, emitting the accumulated count for each.
type LinearIterator struct {
	iterator
	valueUnitsPerBucket                     int64
	countAddedInThisIterationStep           int64
	countAtLastReport                       int64
	nextValueReportingLevel                 int64
	nextValueReportingLevelLowestEquivalent int64
}

// NewLinearIterator constructs a linear iterator stepping by
// valueUnitsPerBucket.
func NewLinearIterator(h *Histogram, valueUnitsPerBucket int64) *LinearIterator {
	it := &LinearIterator{
		iterator:                newIterator(h),
		valueUnitsPerBucket:     valueUnitsPerBucket,
		nextValueReportingLevel: valueUnitsPerBucket,
	}
	it.nextValueReportingLevelLowestEquivalent = h.LowestEquivalentValue(it.nextValueReportingLevel)
	return it
}

// CountAddedInThisIterationStep returns the count accumulated in the most
// recently emitted linear step.
func (it *LinearIterator) CountAddedInThisIterationStep() int64 {
	return it.countAddedInThisIterationStep
}

// Next advances to the next value-unit-wide step. It returns false once
// the reporting level has passed the histogram's maximum and every count
// has been consumed.
func (it *LinearIterator) Next() bool {
	if it.countsIndex != -1 &&
		it.nextValueReportingLevel > it.h.Max() &&
		it.cumulativeCount >= it.totalCount {
		return false
	}

	if it.countsIndex == -1 {
		if !it.advance() {
			return false
		}
	}
	for it.value < it.nextValueReportingLevelLowestEquivalent {
		if !it.advance() {
			break
		}
	}

	it.valueIteratedFrom = it.valueIteratedTo
	it.countAddedInThisIterationStep = it.cumulativeCount - it.countAtLastReport
	it.countAtLastReport = it.cumulativeCount
	it.valueIteratedTo = it.h.HighestEquivalentValue(it.nextValueReportingLevel)

	it.nextValueReportingLevel += it.valueUnitsPerBucket
	it.nextValueReportingLevelLowestEquivalent = it.h.LowestEquivalentValue(it.nextValueReportingLevel)

	return true
}

// ---------------------------------------------------------------------
// Logarithmic iterator
// ---------------------------------------------------------------------

// LogIterator groups the counts-array into exponentially growing value
// buckets: the first bucket has width valueUnitsFirstBucket, and each
// subsequent reporting level is logBase times the previous one.
type LogIterator struct {
	iterator
	valueUnitsFirstBucket                   float64
	logBase                                 float64
	countAddedInThisIterationStep           int64
	countAtLastReport                       int64
	nextValueReportingLevel                 float64
	nextValueReportingLevelLowestEquivalent int64
}

// NewLogIterator constructs a logarithmic iterator with the given first
// bucket width and growth base.
func NewLogIterator(h *Histogram, valueUnitsFirstBucket int64, logBase float64) *LogIterator {
	it := &LogIterator{
		iterator:                newIterator(h),
		valueUnitsFirstBucket:   float64(valueUnitsFirstBucket),
		logBase:                 logBase,
		nextValueReportingLevel: float64(valueUnitsFirstBucket),
	}
	it.nextValueReportingLevelLowestEquivalent = h.LowestEquivalentValue(int64(it.nextValueReportingLevel))
	return it
}

// CountAddedInThisIterationStep returns the count accumulated in the most
// recently emitted logarithmic step.
func (it *LogIterator) CountAddedInThisIterationStep() int64 {
	return it.countAddedInThisIterationStep
}

// Next advances to the next exponentially-sized step. It returns false
// once the reporting level has passed the histogram's maximum and every
// count has been consumed.
func (it *LogIterator) Next() bool {
	if it.countsIndex != -1 &&
		int64(it.nextValueReportingLevel) > it.h.Max() &&
		it.cumulativeCount >= it.totalCount {
		return false
	}

	if it.countsIndex == -1 {
		if !it.advance() {
			return false
		}
	}
	for it.value < it.nextValueReportingLevelLowestEquivalent {
		if !it.advance() {
			break
		}
	}

	it.valueIteratedFrom = it.valueIteratedTo
	it.countAddedInThisIterationStep = it.cumulativeCount - it.countAtLastReport
	it.countAtLastReport = it.cumulativeCount
	it.valueIteratedTo = it.h.HighestEquivalentValue(int64(it.nextValueReportingLevel))

	it.nextValueReportingLevel *= it.logBase
	it.nextValueReportingLevelLowestEquivalent = it.h.LowestEquivalentValue(int64(it.nextValueReportingLevel))

	return true
}

// ---------------------------------------------------------------------
// Percentile iterator
// ---------------------------------------------------------------------

// PercentileIterator walks the counts array emitting one step per
// percentile checkpoint, halving the remaining distance to 100% every
// ticksPerHalfDistance steps, using the canonical
// 2^floor(log2(halving-distance)) tick formula; naive linear percentile
// stepping is not equivalent.
type PercentileIterator struct {
	iterator
	ticksPerHalfDistance   int32
	percentileToIterateTo  float64
	percentile             float64
	seenLastValue          bool
}

// NewPercentileIterator constructs a percentile iterator emitting
// ticksPerHalfDistance checkpoints between each halving of the remaining
// distance to the 100th percentile.
func NewPercentileIterator(h *Histogram, ticksPerHalfDistance int32) *PercentileIterator {
	return &PercentileIterator{
		iterator:             newIterator(h),
		ticksPerHalfDistance: ticksPerHalfDistance,
	}
}

// Percentile returns the percentile checkpoint emitted by the most recent
// Next call.
func (it *PercentileIterator) Percentile() float64 { return it.percentile }

// Next advances to the next percentile checkpoint. The 100th percentile
// is guaranteed to be emitted exactly once, even if the underlying counts
// are exhausted earlier.
func (it *PercentileIterator) Next() bool {
	if !(it.cumulativeCount < it.totalCount) {
		if it.seenLastValue {
			return false
		}
		it.seenLastValue = true
		it.percentile = 100
		it.valueIteratedFrom = it.valueIteratedTo
		if it.countsIndex >= 0 {
			it.valueIteratedTo = it.highestEquivalentValue
		}
		return true
	}

	if it.countsIndex == -1 && !it.advance() {
		return false
	}

	for {
		currentPercentile := (100.0 * float64(it.cumulativeCount)) / float64(it.totalCount)
		if it.count != 0 && it.percentileToIterateTo <= currentPercentile {
			it.valueIteratedFrom = it.valueIteratedTo
			it.valueIteratedTo = it.highestEquivalentValue
			it.percentile = it.percentileToIterateTo

			// 2^floor(log2(halving distance)) tick formula, reproduced
			// exactly for compatibility with other HDR histogram ports.
			halfDistance := math.Pow(2, math.Floor(math.Log(100.0/(100.0-it.percentileToIterateTo))/math.Log(2))+1)
			percentileReportingTicks := float64(it.ticksPerHalfDistance) * halfDistance
			it.percentileToIterateTo += 100.0 / percentileReportingTicks
			return true
		}
		if !it.advance() {
			return false
		}
	}
}
