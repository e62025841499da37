// Package recording defines the assembled per-file recording handed to the
// dataset writer, and the amplitude normalization applied on the way in.
package recording

import (
	"fmt"
	"math"

	"github.com/JVHannila/MoBI-project/pkg/mobi/annotate"
	"github.com/JVHannila/MoBI-project/pkg/mobi/montage"
)

// Amplifiers in the field disagree about units: some containers store
// microvolts, some volts. Anything with a maximum absolute amplitude above
// scaleThreshold is taken to be microvolt-scale and converted to volts.
const (
	scaleThreshold = 1e-3
	microvoltScale = 1e-6
)

// Recording is one temporally consistent, channel-separated recording ready
// for export. It is assembled once per source file and immutable afterwards.
type Recording struct {
	Labels      []string
	Data        [][]float64 // channels x samples, volts
	Timestamps  []float64   // recording clock, seconds; Timestamps[0] is the time origin
	SampleRate  float64
	Montage     *montage.Montage
	Annotations []annotate.Annotation
	LineFreq    float64
	Scaled      bool // true when the microvolt heuristic fired
	SourceFile  string
}

// New validates the structural invariants and wraps the cropped data in a
// Recording. The data matrix must already be row-sliced to the label list
// and column-cropped to the timestamp vector.
func New(labels []string, data [][]float64, timestamps []float64, sampleRate float64) (*Recording, error) {
	if len(data) != len(labels) {
		return nil, fmt.Errorf("recording: %d data rows for %d labels", len(data), len(labels))
	}
	if len(timestamps) == 0 {
		return nil, fmt.Errorf("recording: empty timestamp vector")
	}
	for i, row := range data {
		if len(row) != len(timestamps) {
			return nil, fmt.Errorf("recording: channel %q has %d samples for %d timestamps",
				labels[i], len(row), len(timestamps))
		}
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("recording: non-positive sample rate %g", sampleRate)
	}
	return &Recording{
		Labels:     labels,
		Data:       data,
		Timestamps: timestamps,
		SampleRate: sampleRate,
	}, nil
}

// TimeOrigin is the absolute timestamp of the first cropped sample. All
// annotation onsets are relative to it.
func (r *Recording) TimeOrigin() float64 {
	return r.Timestamps[0]
}

// Duration is the recording length in seconds, from the first cropped
// sample to the last.
func (r *Recording) Duration() float64 {
	return r.Timestamps[len(r.Timestamps)-1] - r.Timestamps[0]
}

// NumSamples returns the cropped sample count per channel.
func (r *Recording) NumSamples() int {
	return len(r.Timestamps)
}

// MaxAbs returns the maximum absolute amplitude across all channels.
func (r *Recording) MaxAbs() float64 {
	maxAbs := 0.0
	for _, row := range r.Data {
		for _, v := range row {
			if a := math.Abs(v); a > maxAbs {
				maxAbs = a
			}
		}
	}
	return maxAbs
}

// NormalizeAmplitude applies the microvolt heuristic once: when the maximum
// absolute amplitude exceeds 1e-3 the whole matrix is multiplied by 1e-6.
// The check is condition-gated but the conversion itself is one-shot, so
// callers must not invoke it twice.
func (r *Recording) NormalizeAmplitude() {
	if r.MaxAbs() <= scaleThreshold {
		return
	}
	for _, row := range r.Data {
		for i := range row {
			row[i] *= microvoltScale
		}
	}
	r.Scaled = true
}

// SetAnnotations attaches the annotation list after verifying every onset
// falls inside the recording.
func (r *Recording) SetAnnotations(annotations []annotate.Annotation) error {
	duration := r.Duration()
	for _, a := range annotations {
		if a.Onset < 0 || a.Onset > duration {
			return fmt.Errorf("recording: annotation %q onset %.3f outside [0, %.3f]", a.Description, a.Onset, duration)
		}
	}
	r.Annotations = annotations
	return nil
}
