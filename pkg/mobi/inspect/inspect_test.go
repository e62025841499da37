package inspect

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JVHannila/MoBI-project/pkg/mobi/xdf"
)

func testStreams(t *testing.T) []*xdf.Stream {
	t.Helper()
	const rate = 500.0
	n := 4096
	ts := make([]float64, n)
	row := make([]float64, n)
	for i := range ts {
		ts[i] = 10.0 + float64(i)/rate
		row[i] = math.Sin(2 * math.Pi * 50 * float64(i) / rate)
	}
	eeg := &xdf.Stream{
		Type:        "EEG",
		Name:        "BrainAmp",
		NominalRate: rate,
		Channels:    []xdf.Channel{{Label: "Fp1"}},
		Samples:     [][]float64{row},
		Timestamps:  ts,
	}
	markers := &xdf.Stream{
		Type:       "Markers",
		Name:       "events",
		Payloads:   []string{"a", "b"},
		Timestamps: []float64{11.0, 15.0},
	}
	return []*xdf.Stream{eeg, markers}
}

func TestBuildReport(t *testing.T) {
	report := Build("recording.xdf", testStreams(t))

	assert.True(t, report.HasBioelectric)
	assert.True(t, report.HasMarkers)
	require.Len(t, report.Streams, 2)

	eeg := report.Streams[0]
	assert.Equal(t, xdf.RoleBioelectric, eeg.Role)
	assert.Equal(t, 1, eeg.NumChannels)
	assert.Equal(t, 4096, eeg.NumSamples)
	assert.InDelta(t, 500.0, eeg.EffectiveRate, 0.5)
	assert.InDelta(t, 10.0, eeg.SpanStart, 1e-9)

	assert.Equal(t, xdf.RoleMarker, report.Streams[1].Role)

	// Markers [11,15] inside the bioelectric span: 4 s of overlap.
	assert.InDelta(t, 4.0, report.MarkerOverlapSec, 1e-6)

	require.True(t, report.LineNoiseKnown)
	assert.InDelta(t, 50.0, report.LineNoiseHz, 1.0)
}

func TestBuildReportMissingRole(t *testing.T) {
	streams := testStreams(t)[:1] // bioelectric only
	report := Build("recording.xdf", streams)

	assert.True(t, report.HasBioelectric)
	assert.False(t, report.HasMarkers)
	assert.Contains(t, report.String(), "WARNING")
}

func TestReportString(t *testing.T) {
	out := Build("recording.xdf", testStreams(t)).String()
	assert.Contains(t, out, "recording.xdf")
	assert.Contains(t, out, "BrainAmp")
	assert.Contains(t, out, "Role: bioelectric")
	assert.Contains(t, out, "4,096")
	assert.Contains(t, out, "mains interference")
}

func TestOverlapDisjoint(t *testing.T) {
	assert.Equal(t, 0.0, overlap([]float64{0, 10}, []float64{20, 30}))
	assert.Equal(t, 0.0, overlap(nil, []float64{1}))
}
