// Package align computes the overlapping time window between two
// independently-clocked streams and crops sample data to it.
package align

import (
	"errors"
	"fmt"
	"sort"
)

// ErrEmptyAlignment indicates that the marker span and the bioelectric
// timestamp vector share no samples. Zero overlap is always reported, never
// silently clamped to an empty recording.
var ErrEmptyAlignment = errors.New("empty alignment window")

// SearchLeft returns the index of the first element in the ascending slice
// ts that is >= v, i.e. the left-biased insertion point for v.
func SearchLeft(ts []float64, v float64) int {
	return sort.SearchFloat64s(ts, v)
}

// SearchRight returns the index of the first element in the ascending slice
// ts that is > v, i.e. the right-biased insertion point for v.
func SearchRight(ts []float64, v float64) int {
	return sort.Search(len(ts), func(i int) bool { return ts[i] > v })
}

// Window locates the crop bounds [lo, hi) into the bioelectric timestamp
// vector covered by the marker stream's span. The window includes every
// bioelectric sample at or after the first marker timestamp and before the
// right-biased insertion point of the last one.
func Window(eegTS, markerTS []float64) (lo, hi int, err error) {
	if len(markerTS) == 0 {
		return 0, 0, fmt.Errorf("%w: marker stream has no timestamps", ErrEmptyAlignment)
	}
	if len(eegTS) == 0 {
		return 0, 0, fmt.Errorf("%w: bioelectric stream has no timestamps", ErrEmptyAlignment)
	}

	tStart := markerTS[0]
	tEnd := markerTS[len(markerTS)-1]
	lo = SearchLeft(eegTS, tStart)
	hi = SearchRight(eegTS, tEnd)
	if lo >= hi {
		return 0, 0, fmt.Errorf("%w: markers span [%.3f, %.3f], bioelectric data spans [%.3f, %.3f]",
			ErrEmptyAlignment, tStart, tEnd, eegTS[0], eegTS[len(eegTS)-1])
	}
	return lo, hi, nil
}

// CropMatrix slices the given rows of a channels x samples matrix to the
// column window [lo, hi). Rows are copied so the result does not alias the
// source stream's backing arrays.
func CropMatrix(data [][]float64, rows []int, lo, hi int) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		row := make([]float64, hi-lo)
		copy(row, data[r][lo:hi])
		out[i] = row
	}
	return out
}

// CropTimestamps copies the timestamp window [lo, hi).
func CropTimestamps(ts []float64, lo, hi int) []float64 {
	out := make([]float64, hi-lo)
	copy(out, ts[lo:hi])
	return out
}
