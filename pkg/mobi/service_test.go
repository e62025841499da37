package mobi

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JVHannila/MoBI-project/pkg/logger"
	"github.com/JVHannila/MoBI-project/pkg/mobi/bids"
	"github.com/JVHannila/MoBI-project/pkg/mobi/catalog"
	"github.com/JVHannila/MoBI-project/pkg/mobi/montage"
	"github.com/JVHannila/MoBI-project/pkg/mobi/recording"
	"github.com/JVHannila/MoBI-project/pkg/mobi/xdf"
)

func quietLogger() Logger {
	return logger.New(logger.Config{Level: logger.FATAL, Output: io.Discard})
}

// testStreams builds a synthetic container: a bioelectric stream with two
// electrodes and one accelerometer channel at 100 Hz over [0, 1)s, and a
// marker stream spanning [0.2, 0.5]s.
func testStreams() []*xdf.Stream {
	n := 100
	ts := make([]float64, n)
	fp1 := make([]float64, n)
	cz := make([]float64, n)
	acc := make([]float64, n)
	for i := 0; i < n; i++ {
		ts[i] = float64(i) * 0.01
		fp1[i] = 20.0 // microvolt-scale, triggers amplitude normalization
		cz[i] = -15.0
		acc[i] = 9.81
	}
	eeg := &xdf.Stream{
		Type:        "EEG",
		Name:        "BrainAmp",
		NominalRate: 100,
		Channels: []xdf.Channel{
			{Label: "Fp1", LocX: "-27.0", LocY: "83.0", LocZ: "-3.0"},
			{Label: "AccX"},
			{Label: "Cz", LocX: "0.0", LocY: "0.0", LocZ: "95.0"},
		},
		Samples:    [][]float64{fp1, acc, cz},
		Timestamps: ts,
	}
	markers := &xdf.Stream{
		Type:       "Markers",
		Name:       "events",
		Payloads:   []string{"start", "<ecode>17</ecode>", "end"},
		Timestamps: []float64{0.2, 0.35, 0.5},
	}
	return []*xdf.Stream{eeg, markers}
}

type fakeLoader struct {
	streams map[string][]*xdf.Stream
	err     map[string]error
}

func (f *fakeLoader) Load(path string) ([]*xdf.Stream, error) {
	base := filepath.Base(path)
	if err := f.err[base]; err != nil {
		return nil, err
	}
	if streams, ok := f.streams[base]; ok {
		return streams, nil
	}
	return nil, fmt.Errorf("%w: unexpected path %s", xdf.ErrCorruptSource, path)
}

type fakeWriter struct {
	written []bids.Path
	recs    []*recording.Recording
	anons   []*Anonymize
	failOn  string // basename that fails to write
}

func (f *fakeWriter) Write(rec *recording.Recording, dest bids.Path, anon *Anonymize) error {
	if f.failOn != "" && dest.Basename() == f.failOn {
		return fmt.Errorf("disk full")
	}
	f.written = append(f.written, dest)
	f.recs = append(f.recs, rec)
	f.anons = append(f.anons, anon)
	return nil
}

func newTestService(t *testing.T, loader Loader, writer Writer, extra ...Option) Service {
	t.Helper()
	opts := append([]Option{
		WithLoader(loader),
		WithWriter(writer),
		WithLogger(quietLogger()),
	}, extra...)
	service, err := NewService(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { service.Close() })
	return service
}

func TestConvertFile(t *testing.T) {
	loader := &fakeLoader{streams: map[string][]*xdf.Stream{"rec.json": testStreams()}}
	writer := &fakeWriter{}
	service := newTestService(t, loader, writer)

	dest := bids.Path{Subject: "P01", Session: "01", Task: "NaturalWalk", Datatype: "eeg", Root: t.TempDir()}
	result := service.ConvertFile(context.Background(), "rec.json", dest)

	require.NoError(t, result.Err)
	assert.Equal(t, StatusConverted, result.Status)
	require.Len(t, writer.written, 1)

	rec := result.Recording
	require.NotNil(t, rec)

	// Kinematic channels are gone, order preserved.
	assert.Equal(t, []string{"Fp1", "Cz"}, rec.Labels)

	// Cropped to the marker span [0.2, 0.5]: samples 20..50 inclusive.
	assert.Equal(t, 31, rec.NumSamples())
	assert.InDelta(t, 0.2, rec.TimeOrigin(), 1e-9)
	for _, row := range rec.Data {
		assert.Len(t, row, len(rec.Timestamps))
	}

	// Microvolt heuristic fired: 20 uV became 2e-5 V.
	assert.True(t, rec.Scaled)
	assert.InDelta(t, 2e-5, rec.Data[0][0], 1e-15)

	// Embedded montage covers only bioelectric channels, mm converted to m.
	require.NotNil(t, rec.Montage)
	assert.Len(t, rec.Montage.Positions, 2)
	assert.InDelta(t, 0.095, rec.Montage.Positions["Cz"][2], 1e-12)

	// All three markers fall inside the window; the coded one normalized.
	require.Len(t, rec.Annotations, 3)
	assert.Equal(t, "Event_17", rec.Annotations[1].Description)
	duration := rec.Duration()
	for _, a := range rec.Annotations {
		assert.GreaterOrEqual(t, a.Onset, 0.0)
		assert.LessOrEqual(t, a.Onset, duration)
	}

	assert.Equal(t, DefaultLineFreq, rec.LineFreq)
}

func TestConvertFilePresetMontage(t *testing.T) {
	loader := &fakeLoader{streams: map[string][]*xdf.Stream{"rec.json": testStreams()}}
	writer := &fakeWriter{}
	service := newTestService(t, loader, writer, WithPresetMontage(montage.ProX64()))

	result := service.ConvertFile(context.Background(), "rec.json", bids.Path{Subject: "P01"})
	require.NoError(t, result.Err)

	// The preset is restricted to the recording's bioelectric labels.
	require.NotNil(t, result.Recording.Montage)
	assert.Len(t, result.Recording.Montage.Positions, 2)
	assert.Contains(t, result.Recording.Montage.Positions, "Fp1")
	assert.Contains(t, result.Recording.Montage.Positions, "Cz")
}

func TestConvertFileFailureClasses(t *testing.T) {
	noMarkers := testStreams()[:1]
	disjoint := testStreams()
	disjoint[1].Timestamps = []float64{20, 25, 30}

	loader := &fakeLoader{
		streams: map[string][]*xdf.Stream{
			"no-markers.json": noMarkers,
			"disjoint.json":   disjoint,
		},
		err: map[string]error{
			"corrupt.json": fmt.Errorf("%w: truncated chunk", xdf.ErrCorruptSource),
		},
	}
	service := newTestService(t, loader, &fakeWriter{})

	tests := []struct {
		path string
		want string
	}{
		{"no-markers.json", "missing-stream"},
		{"disjoint.json", "empty-alignment"},
		{"corrupt.json", "corrupt-source"},
	}
	for _, tt := range tests {
		result := service.ConvertFile(context.Background(), tt.path, bids.Path{Subject: "P01"})
		assert.Equal(t, StatusFailed, result.Status, tt.path)
		assert.Equal(t, tt.want, result.FailureClass(), tt.path)
	}
}

func TestConvertFileWriteError(t *testing.T) {
	loader := &fakeLoader{streams: map[string][]*xdf.Stream{"rec.json": testStreams()}}
	service := newTestService(t, loader, &fakeWriter{failOn: "sub-P01"})

	result := service.ConvertFile(context.Background(), "rec.json", bids.Path{Subject: "P01"})
	assert.Equal(t, StatusFailed, result.Status)
	assert.ErrorIs(t, result.Err, ErrWrite)
	assert.Equal(t, "write-error", result.FailureClass())
}

// batchFixture lays out a source tree for two subjects and seeds the fake
// loader: P01 has a good recording and a corrupt one, P02 has a good
// recording under a task-name variation.
func batchFixture(t *testing.T) (Manifest, *fakeLoader) {
	t.Helper()
	root := t.TempDir()
	touch := func(subject, task string) {
		dir := filepath.Join(root, "sub-"+subject, "brain")
		require.NoError(t, os.MkdirAll(dir, 0755))
		name := fmt.Sprintf("sub-%s_task-%s_eeg.xdf", subject, task)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	touch("P01", "natural-walk")
	touch("P01", "treadmill-walk-fast")
	touch("P02", "sitting-eyes-closed-before")

	manifest := Manifest{
		Subjects:    []string{"P01", "P02"},
		Tasks:       []string{"natural-walk", "sitting-eyes-closed", "treadmill-walk-fast"},
		Session:     "01",
		SourceRoot:  root,
		DatasetRoot: filepath.Join(root, "out"),
		Exclude:     map[string][]string{"P02": {"treadmill-walk-fast"}},
		TaskVariations: map[string][]string{
			"sitting-eyes-closed": {"sitting-eyes-closed-before", "sitting-eyes-closed-after"},
		},
	}

	loader := &fakeLoader{
		streams: map[string][]*xdf.Stream{
			"sub-P01_task-natural-walk_eeg.xdf":               testStreams(),
			"sub-P02_task-sitting-eyes-closed-before_eeg.xdf": testStreams(),
		},
		err: map[string]error{
			"sub-P01_task-treadmill-walk-fast_eeg.xdf": fmt.Errorf("%w: truncated chunk", xdf.ErrCorruptSource),
		},
	}
	return manifest, loader
}

func TestConvertBatch(t *testing.T) {
	manifest, loader := batchFixture(t)
	writer := &fakeWriter{}
	service := newTestService(t, loader, writer)

	summary, err := service.ConvertBatch(context.Background(), manifest)
	require.NoError(t, err)

	// P01: natural-walk ok, sitting-eyes-closed missing, treadmill corrupt.
	// P02: natural-walk missing, sitting-eyes-closed via variation ok,
	// treadmill excluded.
	assert.Equal(t, 3, summary.Attempted)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 2, summary.Missing)
	assert.Equal(t, 1, summary.Excluded)
	assert.InDelta(t, 66.7, summary.SuccessRate(), 0.1)

	require.Len(t, writer.written, 2)
	assert.Equal(t, "sub-P01_ses-01_task-NaturalWalk_eeg", writer.written[0].Basename())
	// The variation's own name feeds the dataset task entity.
	assert.Equal(t, "sub-P02_ses-01_task-SittingEyesClosedBefore_eeg", writer.written[1].Basename())

	// One corrupt file does not abort the rest of the batch.
	var corrupt *FileResult
	for i := range summary.Results {
		if summary.Results[i].Status == StatusFailed {
			corrupt = &summary.Results[i]
		}
	}
	require.NotNil(t, corrupt)
	assert.Equal(t, "corrupt-source", corrupt.FailureClass())
	assert.Contains(t, corrupt.SourcePath, "treadmill-walk-fast")
}

func TestConvertBatchDryRun(t *testing.T) {
	manifest, loader := batchFixture(t)
	writer := &fakeWriter{}
	service := newTestService(t, loader, writer, WithDryRun(true))

	summary, err := service.ConvertBatch(context.Background(), manifest)
	require.NoError(t, err)

	// Assembly still runs, so broken inputs are still reported.
	assert.Equal(t, 3, summary.Attempted)
	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Empty(t, writer.written)

	pending := 0
	for i := range summary.Results {
		if summary.Results[i].Status == StatusPending {
			pending++
		}
	}
	assert.Equal(t, 2, pending)
}

func TestConvertBatchMissingSourceRootIsFatal(t *testing.T) {
	manifest, loader := batchFixture(t)
	manifest.SourceRoot = filepath.Join(manifest.SourceRoot, "does-not-exist")
	service := newTestService(t, loader, &fakeWriter{})

	_, err := service.ConvertBatch(context.Background(), manifest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source root")
}

func TestConvertBatchJournalsToCatalog(t *testing.T) {
	manifest, loader := batchFixture(t)
	writer := &fakeWriter{}

	client, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.sqlite3"))
	require.NoError(t, err)
	service := newTestService(t, loader, writer, WithCatalog(client))

	summary, err := service.ConvertBatch(context.Background(), manifest)
	require.NoError(t, err)
	require.NotEmpty(t, summary.RunID)

	run, err := client.Run(summary.RunID)
	require.NoError(t, err)
	require.NotNil(t, run.FinishedAt)
	assert.Equal(t, 3, run.Attempted)
	assert.Equal(t, 2, run.Succeeded)
	assert.Equal(t, 1, run.Failed)

	convs, err := client.Conversions(summary.RunID)
	require.NoError(t, err)
	require.Len(t, convs, 3) // attempted files only
	statuses := map[string]int{}
	for _, conv := range convs {
		statuses[conv.Status]++
	}
	assert.Equal(t, 2, statuses["converted"])
	assert.Equal(t, 1, statuses["corrupt-source"])
}

func TestConvertBatchAnonymizer(t *testing.T) {
	manifest, loader := batchFixture(t)
	manifest.Anonymize = true
	manifest.DaysbackBuffer = 2117
	writer := &fakeWriter{}

	service := newTestService(t, loader, writer, WithAnonymizer(
		func(recs []*RecordingItem) (int, error) { return 100, nil },
	))

	_, err := service.ConvertBatch(context.Background(), manifest)
	require.NoError(t, err)
	require.Len(t, writer.anons, 2)
	for _, anon := range writer.anons {
		require.NotNil(t, anon)
		assert.Equal(t, 2217, anon.Daysback)
	}
}

func TestConvertBatchWriteFailureIsolated(t *testing.T) {
	manifest, loader := batchFixture(t)
	writer := &fakeWriter{failOn: "sub-P01_ses-01_task-NaturalWalk_eeg"}
	service := newTestService(t, loader, writer)

	summary, err := service.ConvertBatch(context.Background(), manifest)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 2, summary.Failed)

	for _, result := range summary.Results {
		if result.Err != nil && result.FailureClass() == "write-error" {
			assert.Equal(t, "P01", result.Subject)
		}
	}
}

func TestNewServiceRequiresWriter(t *testing.T) {
	_, err := NewService(WithLogger(quietLogger()))
	assert.Error(t, err)
}
