package recording

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JVHannila/MoBI-project/pkg/mobi/annotate"
)

func newTestRecording(t *testing.T, data [][]float64) *Recording {
	t.Helper()
	labels := make([]string, len(data))
	for i := range labels {
		labels[i] = string(rune('A' + i))
	}
	ts := make([]float64, len(data[0]))
	for i := range ts {
		ts[i] = 100.0 + float64(i)*0.01
	}
	rec, err := New(labels, data, ts, 100)
	require.NoError(t, err)
	return rec
}

func TestNewValidatesShape(t *testing.T) {
	ts := []float64{0, 0.01}

	_, err := New([]string{"Fp1"}, [][]float64{{1, 2}, {3, 4}}, ts, 100)
	assert.Error(t, err, "row count must match label count")

	_, err = New([]string{"Fp1"}, [][]float64{{1, 2, 3}}, ts, 100)
	assert.Error(t, err, "row length must match timestamp count")

	_, err = New([]string{"Fp1"}, [][]float64{{}}, nil, 100)
	assert.Error(t, err, "empty timestamps rejected")

	_, err = New([]string{"Fp1"}, [][]float64{{1, 2}}, ts, 0)
	assert.Error(t, err, "non-positive rate rejected")
}

func TestTimeOriginAndDuration(t *testing.T) {
	rec := newTestRecording(t, [][]float64{{1, 2, 3, 4, 5}})
	assert.Equal(t, 100.0, rec.TimeOrigin())
	assert.InDelta(t, 0.04, rec.Duration(), 1e-12)
	assert.Equal(t, 5, rec.NumSamples())
}

func TestNormalizeAmplitudeScalesMicrovoltData(t *testing.T) {
	// Max absolute amplitude 2e-3 exceeds the threshold: everything is
	// interpreted as microvolts and converted to volts.
	rec := newTestRecording(t, [][]float64{{2e-3, -1e-3}, {5e-4, 0}})
	rec.NormalizeAmplitude()

	assert.True(t, rec.Scaled)
	assert.InDelta(t, 2e-9, rec.Data[0][0], 1e-21)
	assert.InDelta(t, -1e-9, rec.Data[0][1], 1e-21)
	assert.InDelta(t, 5e-10, rec.Data[1][0], 1e-22)
}

func TestNormalizeAmplitudeLeavesVoltDataAlone(t *testing.T) {
	rec := newTestRecording(t, [][]float64{{5e-7, -3e-7}})
	rec.NormalizeAmplitude()

	assert.False(t, rec.Scaled)
	assert.Equal(t, 5e-7, rec.Data[0][0])
	assert.Equal(t, -3e-7, rec.Data[0][1])
}

func TestSetAnnotationsBounds(t *testing.T) {
	rec := newTestRecording(t, [][]float64{{1, 2, 3, 4, 5}}) // duration 0.04s

	require.NoError(t, rec.SetAnnotations([]annotate.Annotation{
		{Onset: 0, Description: "start"},
		{Onset: 0.04, Description: "end"},
	}))
	assert.Len(t, rec.Annotations, 2)

	err := rec.SetAnnotations([]annotate.Annotation{{Onset: 0.05, Description: "late"}})
	assert.Error(t, err)

	err = rec.SetAnnotations([]annotate.Annotation{{Onset: -0.01, Description: "early"}})
	assert.Error(t, err)
}

func TestMaxAbs(t *testing.T) {
	rec := newTestRecording(t, [][]float64{{-4, 1}, {2, 3}})
	assert.Equal(t, 4.0, rec.MaxAbs())
}
