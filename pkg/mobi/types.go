package mobi

import (
	"errors"

	"github.com/JVHannila/MoBI-project/pkg/mobi/align"
	"github.com/JVHannila/MoBI-project/pkg/mobi/bids"
	"github.com/JVHannila/MoBI-project/pkg/mobi/recording"
	"github.com/JVHannila/MoBI-project/pkg/mobi/xdf"
)

// ErrWrite tags failures raised by the external dataset writer so the
// batch summary can classify them.
var ErrWrite = errors.New("write error")

// Status is the outcome class of one subject/task slot in a batch.
type Status int

const (
	// StatusPending: assembled but not yet handed to the writer.
	StatusPending Status = iota
	// StatusConverted: assembled and handed to the writer successfully.
	StatusConverted
	// StatusExcluded: listed in the manifest's exclusion table, never attempted.
	StatusExcluded
	// StatusMissingSource: no container file found for the task or any
	// registered variation.
	StatusMissingSource
	// StatusFailed: the per-file pipeline or the writer reported an error.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusConverted:
		return "converted"
	case StatusExcluded:
		return "excluded"
	case StatusMissingSource:
		return "missing-source"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FileResult is the explicit per-file outcome of the pipeline: either a
// successfully assembled recording or a tagged failure reason. It replaces
// exception-driven control flow with a value the batch loop can aggregate.
type FileResult struct {
	Subject    string
	Task       string // acquisition task name, possibly a variation
	SourcePath string
	Dest       bids.Path
	Status     Status
	Err        error
	Recording  *recording.Recording
}

// FailureClass names the error taxonomy bucket of a failed result, for
// logs and the catalog.
func (r FileResult) FailureClass() string {
	switch {
	case r.Err == nil:
		return ""
	case errors.Is(r.Err, xdf.ErrMissingStream):
		return "missing-stream"
	case errors.Is(r.Err, xdf.ErrCorruptSource):
		return "corrupt-source"
	case errors.Is(r.Err, align.ErrEmptyAlignment):
		return "empty-alignment"
	case errors.Is(r.Err, ErrWrite):
		return "write-error"
	default:
		return "error"
	}
}

// RecordingItem pairs an assembled recording with its destination while the
// batch holds it between the prepare and export phases.
type RecordingItem struct {
	Recording *recording.Recording
	Dest      bids.Path
}

// BatchSummary aggregates a whole manifest run.
type BatchSummary struct {
	RunID     string // catalog run identifier, empty when journaling is off
	Attempted int    // files that reached the per-file pipeline
	Succeeded int
	Failed    int
	Missing   int // subject/task slots with no source file
	Excluded  int
	Results   []FileResult
}

// SuccessRate returns the percentage of attempted files that converted.
func (s *BatchSummary) SuccessRate() float64 {
	if s.Attempted == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Attempted) * 100
}
