package mobi

import (
	"context"

	"github.com/JVHannila/MoBI-project/pkg/mobi/bids"
	"github.com/JVHannila/MoBI-project/pkg/mobi/catalog"
	"github.com/JVHannila/MoBI-project/pkg/mobi/inspect"
	"github.com/JVHannila/MoBI-project/pkg/mobi/recording"
	"github.com/JVHannila/MoBI-project/pkg/mobi/xdf"
)

// Service is the conversion pipeline's public surface.
type Service interface {
	// ConvertBatch runs the full manifest: discover every subject/task
	// source file, assemble recordings, and export them. Per-file failures
	// are captured in the summary; only a missing source root aborts the
	// batch.
	ConvertBatch(ctx context.Context, manifest Manifest) (*BatchSummary, error)
	// ConvertFile assembles and exports a single container file.
	ConvertFile(ctx context.Context, path string, dest bids.Path) FileResult
	// Inspect builds a diagnostic report for one container file without
	// converting it.
	Inspect(ctx context.Context, path string) (*inspect.Report, error)
	Close() error
}

// Loader is the external container-parser collaborator: it turns one
// on-disk multi-stream container into loaded streams.
type Loader interface {
	Load(path string) ([]*xdf.Stream, error)
}

// LoaderFunc adapts a plain function to the Loader interface.
type LoaderFunc func(path string) ([]*xdf.Stream, error)

func (f LoaderFunc) Load(path string) ([]*xdf.Stream, error) { return f(path) }

// Writer is the external dataset-writer collaborator: it owns the on-disk
// layout and encoding of the exported recording. A nil anonymize descriptor
// means the recording is written with its original dates.
type Writer interface {
	Write(rec *recording.Recording, dest bids.Path, anon *Anonymize) error
}

// Anonymize is the descriptor forwarded to the writer when the manifest
// requests anonymized output. Daysback is the date-shift offset in days.
type Anonymize struct {
	Daysback int
}

// Catalog receives per-file outcomes for the persistent conversion journal.
// It is satisfied by *catalog.Client; a nil catalog disables journaling.
type Catalog interface {
	BeginRun() (string, error)
	FinishRun(runID string, attempted, succeeded, failed int) error
	RecordConversion(conv catalog.Conversion) (string, error)
	Close() error
}

// Logger is the minimal logging surface the pipeline needs.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
