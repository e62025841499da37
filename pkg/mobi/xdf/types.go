// Package xdf holds the in-memory model of a multi-stream recording
// container and the stream-role classifier. Parsing the container format
// itself is the job of an external loader; this package only defines what a
// loaded stream looks like.
package xdf

import "fmt"

// Channel describes one row of a stream's sample matrix.
type Channel struct {
	Label string // unique within a stream
	Unit  string // optional, e.g. "microvolts"
	// Raw location strings from the container metadata, in millimeters.
	// Empty when the recording carries no digitized positions. Parsing is
	// deferred to the montage builder so a malformed value can be skipped
	// per channel instead of failing the load.
	LocX, LocY, LocZ string
}

// HasLocation reports whether all three coordinate fields are present.
func (c Channel) HasLocation() bool {
	return c.LocX != "" && c.LocY != "" && c.LocZ != ""
}

// Stream is one independently-clocked channel group from a container file.
// For numeric streams Samples is channels x samples and every row matches
// the Channels slice by index. Marker streams carry their payloads in
// Payloads instead and leave Samples nil.
type Stream struct {
	Type          string
	Name          string
	Channels      []Channel
	Samples       [][]float64
	Payloads      []string
	Timestamps    []float64
	NominalRate   float64
	EffectiveRate float64
}

// SampleRate returns the effective rate when the loader measured one,
// falling back to the declared nominal rate.
func (s *Stream) SampleRate() float64 {
	if s.EffectiveRate > 0 {
		return s.EffectiveRate
	}
	return s.NominalRate
}

// Labels returns the channel labels in declaration order.
func (s *Stream) Labels() []string {
	labels := make([]string, len(s.Channels))
	for i, ch := range s.Channels {
		labels[i] = ch.Label
	}
	return labels
}

// Validate checks the structural invariants of a numeric stream: every
// sample-matrix row matches a declared channel and every column has a
// timestamp.
func (s *Stream) Validate() error {
	if len(s.Samples) != len(s.Channels) {
		return fmt.Errorf("stream %q: %d sample rows for %d channels", s.Name, len(s.Samples), len(s.Channels))
	}
	for i, row := range s.Samples {
		if len(row) != len(s.Timestamps) {
			return fmt.Errorf("stream %q: channel %q has %d samples for %d timestamps",
				s.Name, s.Channels[i].Label, len(row), len(s.Timestamps))
		}
	}
	return nil
}
