// Package hdrhistogram provides a fixed-memory, lock-free-recording
// implementation of Gil Tene's High Dynamic Range Histogram. It records
// 64-bit integer samples (typically latencies) across a wide value range
// while guaranteeing a bounded relative error at every magnitude.
//
// The bucketing scheme, codec, and iterator protocols are ports of the
// reference hdr_histogram C implementation; see DESIGN.md for the mapping
// between this package's files and that source.
package hdrhistogram

import (
	"sync/atomic"
)

// minValueSentinel is the initial value of minValue: the largest possible
// int64, so that the first recorded value always wins the CAS race.
const minValueSentinel = int64(1)<<63 - 1

// Histogram is a lossy, fixed-memory data structure used to record the
// distribution of non-normally distributed data (like latency) with a high
// degree of accuracy and a bounded degree of relative error.
//
// Field layout follows the reference implementation's three cache-line
// grouping: geometry is write-once and read by every recorder without
// contention; total/conversion and min/max are each written by every
// recording goroutine and are padded apart so that hot writers of one
// group don't invalidate the other group's cache line.
type Histogram struct {
	// --- cache line 1: write-once geometry -------------------------------
	lowestTrackableValue        int64
	highestTrackableValue       int64
	unitMagnitude               int64
	significantFigures          int64
	subBucketHalfCountMagnitude int32
	subBucketHalfCount          int32
	subBucketMask               int64
	subBucketCount              int32
	bucketCount                 int32
	// normalizingIndexOffset supports shifted/wrapped views of the counts
	// array (used by time-windowed companions). The core always leaves it
	// at 0. countsIndex applies it when mapping a value to a slot;
	// ValueAtIndex, CountAtIndex and the iterators take raw counts-array
	// positions and do not apply it.
	normalizingIndexOffset int32
	countsLen              int32
	counts                 []int64

	_ [48]byte // pad: keep conversionRatio/totalCount off the geometry line

	// --- cache line 2: conversion + total --------------------------------
	conversionRatio float64
	totalCount      int64

	_ [48]byte // pad: keep min/max off the total-count line

	// --- cache line 3: concurrently-updated extrema ----------------------
	minValue int64
	maxValue int64
}

// New allocates and initializes a Histogram capable of tracking values in
// [lowestTrackableValue, highestTrackableValue] with the given number of
// significant decimal digits of precision (1-5).
//
// New is the Go-idiomatic equivalent of hdr_init: since Go has a garbage
// collector, there is no allocator-capability parameter and no separate
// Close/hdr_close step; the Histogram is reclaimed like any other value.
// MemorySize reports the same byte estimate hdr_get_memory_size would.
func New(lowestTrackableValue, highestTrackableValue int64, significantFigures int) (*Histogram, error) {
	cfg, err := calculateBucketConfig(lowestTrackableValue, highestTrackableValue, significantFigures)
	if err != nil {
		return nil, err
	}

	h := &Histogram{
		lowestTrackableValue:        cfg.lowestTrackableValue,
		highestTrackableValue:       cfg.highestTrackableValue,
		unitMagnitude:               cfg.unitMagnitude,
		significantFigures:          cfg.significantFigures,
		subBucketHalfCountMagnitude: cfg.subBucketHalfCountMagnitude,
		subBucketHalfCount:          cfg.subBucketHalfCount,
		subBucketMask:               cfg.subBucketMask,
		subBucketCount:              cfg.subBucketCount,
		bucketCount:                 cfg.bucketCount,
		countsLen:                   cfg.countsLen,
		counts:                      make([]int64, cfg.countsLen),
		conversionRatio:             1.0,
		minValue:                    minValueSentinel,
		maxValue:                    0,
	}
	return h, nil
}

// MemorySize returns an estimate of the number of bytes allocated to the
// histogram, mirroring hdr_get_memory_size. It does not account for slice
// header overhead, which is small, constant, and compiler-specific.
func (h *Histogram) MemorySize() int {
	const fixedOverhead = 9*8 + 6*4 + 2*48 // nine 8-byte fields + six int32 fields + two 48-byte pads
	return fixedOverhead + len(h.counts)*8
}

// LowestTrackableValue returns the geometry parameter fixed at construction.
func (h *Histogram) LowestTrackableValue() int64 { return h.lowestTrackableValue }

// HighestTrackableValue returns the geometry parameter fixed at construction.
func (h *Histogram) HighestTrackableValue() int64 { return h.highestTrackableValue }

// SignificantFigures returns the geometry parameter fixed at construction.
func (h *Histogram) SignificantFigures() int64 { return h.significantFigures }

// SetConversionRatio sets the scalar multiplier applied at print/output
// time by collaborators (e.g. the Prometheus adapter). It does not affect
// recording or querying, which always operate in raw recorded units.
func (h *Histogram) SetConversionRatio(ratio float64) { h.conversionRatio = ratio }

// ConversionRatio returns the current output scalar, 1.0 by default.
func (h *Histogram) ConversionRatio() float64 { return h.conversionRatio }

// Reset deletes all recorded values and restores the histogram to its
// initial empty state. Reset is a single-owner operation: it is not safe
// to call concurrently with RecordValue/RecordValues on the same
// histogram.
func (h *Histogram) Reset() {
	h.totalCount = 0
	for i := range h.counts {
		h.counts[i] = 0
	}
	h.minValue = minValueSentinel
	h.maxValue = 0
	h.resetInternalCounters()
}

// resetInternalCounters recomputes any state derived from
// normalizingIndexOffset. It is the Go analogue of
// hdr_reset_internal_counters. This package has no serialization format,
// so the hook stays internal and is only invoked by Reset.
func (h *Histogram) resetInternalCounters() {
	// normalizingIndexOffset is always 0 in the core; nothing to
	// recompute yet. The hook exists so callers of Reset don't need to
	// change when a windowed companion starts setting a non-zero offset.
}

// TotalCount returns the number of samples recorded so far. It is read
// with relaxed atomic semantics, consistent with the package's overall
// eventual-consistency contract under concurrent recording.
func (h *Histogram) TotalCount() int64 {
	return atomic.LoadInt64(&h.totalCount)
}
