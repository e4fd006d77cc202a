package hdrhistogram

// This file implements merging: copying the recorded occurrences of one
// histogram into another, handling range mismatch and optional
// coordinated-omission backfill on the way in.

// Add merges every recorded sample from src into h, re-indexing each
// source bucket's representative value into h's own geometry. Samples
// whose value falls outside h's [LowestTrackableValue,
// HighestTrackableValue] band are dropped; Add returns the number of
// dropped sample *occurrences* (not distinct source indices), which is
// the reading of hdr_add's imprecise doc comment that preserves P8 (no
// drops -> dst.TotalCount grows by exactly src.TotalCount) when the two
// histograms share a range.
func (h *Histogram) Add(src *Histogram) (dropped int64) {
	it := NewRecordedValuesIterator(src)
	for it.Next() {
		v := it.Value()
		c := it.Count()
		if !h.RecordValues(v, c) {
			dropped += c
		}
	}
	return dropped
}

// AddWhileCorrectingForCoordinatedOmission merges src into h as Add does,
// except each source sample is re-recorded through the corrected path:
// every occurrence is expanded into its coordinated-omission backfill
// before being folded into h. The expanded synthetic samples count toward
// h's total; dropped reports the number of source occurrences that fell
// outside h's range. The synthetic samples of a dropped occurrence are
// neither recorded nor counted in dropped.
func (h *Histogram) AddWhileCorrectingForCoordinatedOmission(src *Histogram, expectedInterval int64) (dropped int64) {
	it := NewRecordedValuesIterator(src)
	for it.Next() {
		v := it.Value()
		c := it.Count()
		for i := int64(0); i < c; i++ {
			if !h.RecordCorrectedValue(v, expectedInterval) {
				dropped++
			}
		}
	}
	return dropped
}
