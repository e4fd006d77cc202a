package hdrhistogram

// This file implements the index/value codec: the hot-path translation
// between a recorded value and its slot in the counts array, and the
// equivalence-range primitives built on top of it.

// countsIndexFor returns the counts-array slot that v maps to, or a value
// outside [0, countsLen) if v is out of range. Callers must range-check
// the result; countsIndexFor itself never panics.
func (h *Histogram) countsIndexFor(v int64) int64 {
	bucketIdx := h.getBucketIndex(v)
	subBucketIdx := h.getSubBucketIdx(v, bucketIdx)
	return h.countsIndex(bucketIdx, subBucketIdx)
}

// countsIndex folds a (bucketIdx, subBucketIdx) pair into a counts-array
// slot, applying normalizingIndexOffset and wrapping modulo countsLen so a
// future shifted/wrapped view (see Histogram.normalizingIndexOffset) can
// reuse this codec unchanged.
func (h *Histogram) countsIndex(bucketIdx, subBucketIdx int32) int64 {
	bucketBaseIdx := (bucketIdx + 1) << uint(h.subBucketHalfCountMagnitude)
	offsetInBucket := subBucketIdx - h.subBucketHalfCount
	idx := int64(bucketBaseIdx+offsetInBucket) + int64(h.normalizingIndexOffset)
	if h.normalizingIndexOffset == 0 {
		return idx
	}
	n := int64(h.countsLen)
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

// getBucketIndex returns the index of the smallest bucket whose top covers
// v. It is the leading-zero-count trick from the reference implementation:
// bitLen(v | subBucketMask) is the position of the highest set bit once
// the sub-bucket's own bits are masked in.
func (h *Histogram) getBucketIndex(v int64) int32 {
	pow2Ceiling := bitLen(v | h.subBucketMask)
	return int32(pow2Ceiling - h.unitMagnitude - int64(h.subBucketHalfCountMagnitude+1))
}

func (h *Histogram) getSubBucketIdx(v int64, bucketIdx int32) int32 {
	return int32(v >> uint(int64(bucketIdx)+h.unitMagnitude))
}

// valueFromIndex reconstructs the lowest value mapping to (bucketIdx,
// subBucketIdx) -- the inverse of getBucketIndex/getSubBucketIdx.
func (h *Histogram) valueFromIndex(bucketIdx, subBucketIdx int32) int64 {
	return int64(subBucketIdx) << uint(int64(bucketIdx)+h.unitMagnitude)
}

// ValueAtIndex returns the lowest value represented by the given raw
// counts-array index.
func (h *Histogram) ValueAtIndex(index int64) int64 {
	bucketIdx := int32(index>>uint(h.subBucketHalfCountMagnitude)) - 1
	subBucketIdx := int32(index&int64(h.subBucketHalfCount-1)) + h.subBucketHalfCount

	if bucketIdx < 0 {
		subBucketIdx -= h.subBucketHalfCount
		bucketIdx = 0
	}
	return h.valueFromIndex(bucketIdx, subBucketIdx)
}

// sizeOfEquivalentValueRange returns the width of the equivalence range
// containing v: every value in [lowestEquivalentValue(v),
// lowestEquivalentValue(v)+size) maps to the same counts-array index.
func (h *Histogram) sizeOfEquivalentValueRange(v int64) int64 {
	bucketIdx := h.getBucketIndex(v)
	subBucketIdx := h.getSubBucketIdx(v, bucketIdx)
	adjustedBucket := bucketIdx
	if subBucketIdx >= h.subBucketCount {
		adjustedBucket++
	}
	return int64(1) << uint(h.unitMagnitude+int64(adjustedBucket))
}

// SizeOfEquivalentValueRange exports sizeOfEquivalentValueRange.
func (h *Histogram) SizeOfEquivalentValueRange(v int64) int64 {
	return h.sizeOfEquivalentValueRange(v)
}

// LowestEquivalentValue returns the lowest value equivalent to v: the one
// whose lowest-equivalent computation round-trips through the codec.
func (h *Histogram) LowestEquivalentValue(v int64) int64 {
	bucketIdx := h.getBucketIndex(v)
	subBucketIdx := h.getSubBucketIdx(v, bucketIdx)
	return h.valueFromIndex(bucketIdx, subBucketIdx)
}

// NextNonEquivalentValue returns the smallest value that is *not*
// equivalent to v.
func (h *Histogram) NextNonEquivalentValue(v int64) int64 {
	return h.LowestEquivalentValue(v) + h.sizeOfEquivalentValueRange(v)
}

// HighestEquivalentValue returns the largest value equivalent to v.
func (h *Histogram) HighestEquivalentValue(v int64) int64 {
	return h.NextNonEquivalentValue(v) - 1
}

// MedianEquivalentValue returns the midpoint of v's equivalence range,
// used by Mean/StdDev to weight each bucket by a representative value.
func (h *Histogram) MedianEquivalentValue(v int64) int64 {
	return h.LowestEquivalentValue(v) + (h.sizeOfEquivalentValueRange(v) >> 1)
}

// ValuesAreEquivalent reports whether a and b map to the same counts-array
// index -- i.e. whether recordings of a and b are indistinguishable at
// this histogram's resolution.
func (h *Histogram) ValuesAreEquivalent(a, b int64) bool {
	return h.LowestEquivalentValue(a) == h.LowestEquivalentValue(b)
}

// bitLen returns the position (1-based) of the highest set bit in x, i.e.
// floor(log2(x))+1 for x > 0. It is a branchy binary-search implementation
// ported from the reference Go port rather than math/bits.Len64, kept
// purely for bit-for-bit fidelity with the upstream bucketing arithmetic.
func bitLen(x int64) (n int64) {
	for ; x >= 0x8000; x >>= 16 {
		n += 16
	}
	if x >= 0x80 {
		x >>= 8
		n += 8
	}
	if x >= 0x8 {
		x >>= 4
		n += 4
	}
	if x >= 0x2 {
		x >>= 2
		n += 2
	}
	if x >= 0x1 {
		n++
	}
	return
}
