package hdrhistogram

import (
	"math"

	"github.com/zeebo/errs"
)

// Errs is the error class for all construction-time failures raised by this
// package. Recording and merge errors are reported as return values instead,
// per the hot-path/boundary split: construction failures are rare and worth
// the allocation of a wrapped error, per-sample failures are not.
var Errs = errs.Class("hdrhistogram")

// bucketConfig holds the geometric parameters derived from a histogram's
// construction arguments. It is computed once, at New, and never mutated
// afterwards.
type bucketConfig struct {
	lowestTrackableValue        int64
	highestTrackableValue       int64
	unitMagnitude               int64
	significantFigures          int64
	subBucketHalfCountMagnitude int32
	subBucketHalfCount          int32
	subBucketMask               int64
	subBucketCount              int32
	bucketCount                 int32
	countsLen                   int32
}

// calculateBucketConfig derives the sub-bucket and bucket geometry for a
// histogram tracking values in [lowest, highest] with the given number of
// significant decimal digits. It mirrors hdr_calculate_bucket_config from
// the reference C implementation: the magnitude arithmetic must be done
// exactly this way (including the float32 downcast below) to keep bucket
// boundaries bit-for-bit compatible with histograms built elsewhere.
func calculateBucketConfig(lowestTrackableValue, highestTrackableValue int64, significantFigures int) (*bucketConfig, error) {
	if lowestTrackableValue < 1 {
		return nil, Errs.New("lowestTrackableValue must be >= 1 (was %d)", lowestTrackableValue)
	}
	if highestTrackableValue < 2*lowestTrackableValue {
		return nil, Errs.New("highestTrackableValue must be >= 2*lowestTrackableValue (was %d, lowest %d)",
			highestTrackableValue, lowestTrackableValue)
	}
	if significantFigures < 1 || significantFigures > 5 {
		return nil, Errs.New("significantFigures must be in [1,5] (was %d)", significantFigures)
	}

	largestValueWithSingleUnitResolution := 2 * power(10, int64(significantFigures))

	// Shoving these through float32 keeps the magnitude calculation
	// identical to histograms produced by other language ports for the
	// same inputs.
	a := float32(math.Log(float64(largestValueWithSingleUnitResolution)))
	b := float32(math.Log(2))
	subBucketCountMagnitude := int32(math.Ceil(float64(a / b)))

	subBucketHalfCountMagnitude := subBucketCountMagnitude
	if subBucketHalfCountMagnitude < 1 {
		subBucketHalfCountMagnitude = 1
	}
	subBucketHalfCountMagnitude--

	unitMagnitude := int32(math.Floor(math.Log(float64(lowestTrackableValue)) / math.Log(2)))
	if unitMagnitude < 0 {
		unitMagnitude = 0
	}

	subBucketCount := int32(math.Pow(2, float64(subBucketHalfCountMagnitude)+1))
	subBucketHalfCount := subBucketCount / 2
	subBucketMask := int64(subBucketCount-1) << uint(unitMagnitude)

	// Determine the number of buckets needed so the top of the last bucket
	// covers highestTrackableValue without overflow.
	trackableValue := int64(subBucketCount-1) << uint(unitMagnitude)
	bucketsNeeded := int32(1)
	for trackableValue < highestTrackableValue {
		trackableValue <<= 1
		bucketsNeeded++
	}

	bucketCount := bucketsNeeded
	countsLen := (bucketCount + 1) * (subBucketCount / 2)

	return &bucketConfig{
		lowestTrackableValue:        lowestTrackableValue,
		highestTrackableValue:       highestTrackableValue,
		unitMagnitude:               int64(unitMagnitude),
		significantFigures:          int64(significantFigures),
		subBucketHalfCountMagnitude: subBucketHalfCountMagnitude,
		subBucketHalfCount:          subBucketHalfCount,
		subBucketMask:               subBucketMask,
		subBucketCount:              subBucketCount,
		bucketCount:                 bucketCount,
		countsLen:                   countsLen,
	}, nil
}

func power(base, exp int64) (n int64) {
	n = 1
	for exp > 0 {
		n *= base
		exp--
	}
	return
}
