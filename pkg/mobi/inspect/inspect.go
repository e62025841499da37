// Package inspect builds diagnostic reports for multi-stream container
// files: per-stream metadata, timing consistency, and a mains-interference
// estimate for the bioelectric stream. It is the textual replacement for
// eyeballing a recording in a plot window.
package inspect

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/JVHannila/MoBI-project/pkg/mobi/xdf"
)

// StreamInfo summarizes one stream of a container.
type StreamInfo struct {
	Name          string
	Type          string
	Role          xdf.Role
	NumChannels   int
	NominalRate   float64
	EffectiveRate float64
	NumSamples    int
	SpanStart     float64
	SpanEnd       float64
}

// Report is the full diagnostic picture of one container file.
type Report struct {
	Path             string
	Streams          []StreamInfo
	HasBioelectric   bool
	HasMarkers       bool
	LineNoiseHz      float64
	LineNoiseKnown   bool
	MarkerOverlapSec float64
}

// Build inspects a loaded stream list. Classification failures are not
// errors here: a report for a file missing a stream role is exactly what a
// debugging session needs to see.
func Build(path string, streams []*xdf.Stream) *Report {
	report := &Report{Path: path}

	sel, _ := xdf.Classify(streams)
	report.HasBioelectric = sel.Bioelectric != nil
	report.HasMarkers = sel.Markers != nil

	for _, s := range streams {
		info := StreamInfo{
			Name:          s.Name,
			Type:          s.Type,
			NumChannels:   len(s.Channels),
			NominalRate:   s.NominalRate,
			EffectiveRate: effectiveRate(s),
			NumSamples:    len(s.Timestamps),
		}
		if len(s.Timestamps) > 0 {
			info.SpanStart = s.Timestamps[0]
			info.SpanEnd = s.Timestamps[len(s.Timestamps)-1]
		}
		switch s {
		case sel.Bioelectric:
			info.Role = xdf.RoleBioelectric
		case sel.Markers:
			info.Role = xdf.RoleMarker
		}
		report.Streams = append(report.Streams, info)
	}

	if sel.Bioelectric != nil && sel.Markers != nil {
		report.MarkerOverlapSec = overlap(sel.Bioelectric.Timestamps, sel.Markers.Timestamps)
	}
	if sel.Bioelectric != nil && len(sel.Bioelectric.Samples) > 0 {
		report.LineNoiseHz, report.LineNoiseKnown = LineNoiseEstimate(
			sel.Bioelectric.Samples[0], sel.Bioelectric.SampleRate())
	}
	return report
}

// effectiveRate measures the realized sample rate from the timestamp
// vector, falling back to the stream's own declared rates.
func effectiveRate(s *xdf.Stream) float64 {
	if len(s.Timestamps) > 1 {
		span := s.Timestamps[len(s.Timestamps)-1] - s.Timestamps[0]
		if span > 0 {
			return float64(len(s.Timestamps)-1) / span
		}
	}
	return s.SampleRate()
}

// overlap returns the length in seconds of the intersection of two
// timestamp spans, zero when disjoint.
func overlap(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	lo := a[0]
	if b[0] > lo {
		lo = b[0]
	}
	hi := a[len(a)-1]
	if b[len(b)-1] < hi {
		hi = b[len(b)-1]
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// String renders the report for terminal output.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Container: %s\n", r.Path)
	fmt.Fprintf(&b, "Streams: %d\n", len(r.Streams))
	for i, s := range r.Streams {
		fmt.Fprintf(&b, "\n  Stream %d:\n", i+1)
		fmt.Fprintf(&b, "    Name: %s\n", s.Name)
		fmt.Fprintf(&b, "    Type: %s\n", s.Type)
		if s.Role != xdf.RoleUnclassified {
			fmt.Fprintf(&b, "    Role: %s\n", s.Role)
		}
		fmt.Fprintf(&b, "    Channels: %d\n", s.NumChannels)
		fmt.Fprintf(&b, "    Nominal rate: %.2f Hz\n", s.NominalRate)
		fmt.Fprintf(&b, "    Effective rate: %.2f Hz\n", s.EffectiveRate)
		fmt.Fprintf(&b, "    Samples: %s\n", humanize.Comma(int64(s.NumSamples)))
		if s.NumSamples > 0 {
			fmt.Fprintf(&b, "    Span: [%.3f, %.3f] s\n", s.SpanStart, s.SpanEnd)
		}
	}
	b.WriteString("\n")
	if !r.HasBioelectric || !r.HasMarkers {
		b.WriteString("WARNING: could not identify both a bioelectric and a marker stream.\n")
	} else {
		fmt.Fprintf(&b, "Marker/bioelectric overlap: %.3f s\n", r.MarkerOverlapSec)
	}
	if r.LineNoiseKnown {
		fmt.Fprintf(&b, "Estimated mains interference: %.1f Hz\n", r.LineNoiseHz)
	}
	return b.String()
}
