package mobi

import (
	"context"
	"fmt"

	"github.com/JVHannila/MoBI-project/pkg/logger"
	"github.com/JVHannila/MoBI-project/pkg/mobi/align"
	"github.com/JVHannila/MoBI-project/pkg/mobi/annotate"
	"github.com/JVHannila/MoBI-project/pkg/mobi/bids"
	"github.com/JVHannila/MoBI-project/pkg/mobi/catalog"
	"github.com/JVHannila/MoBI-project/pkg/mobi/channels"
	"github.com/JVHannila/MoBI-project/pkg/mobi/inspect"
	"github.com/JVHannila/MoBI-project/pkg/mobi/montage"
	"github.com/JVHannila/MoBI-project/pkg/mobi/recording"
	"github.com/JVHannila/MoBI-project/pkg/mobi/xdf"
)

// mobiService is the default implementation of the Service interface.
type mobiService struct {
	loader  Loader
	writer  Writer
	catalog Catalog
	log     Logger
	config  *Config
}

func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}
	if cfg.Loader == nil {
		cfg.Loader = LoaderFunc(xdf.LoadJSON)
	}
	if cfg.Writer == nil {
		return nil, fmt.Errorf("a dataset writer is required")
	}

	cat := cfg.Catalog
	if cat == nil && cfg.CatalogPath != "" {
		opened, err := catalog.Open(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog: %w", err)
		}
		cat = opened
	}

	return &mobiService{
		loader:  cfg.Loader,
		writer:  cfg.Writer,
		catalog: cat,
		log:     cfg.Logger,
		config:  cfg,
	}, nil
}

// ConvertBatch runs a manifest in two phases, mirroring the acquisition
// workflow: first every source file is located, loaded and assembled into a
// recording; then the assembled recordings are exported one by one. A
// failure in either phase is confined to its file.
func (s *mobiService) ConvertBatch(ctx context.Context, manifest Manifest) (*BatchSummary, error) {
	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	if err := manifest.CheckRoots(); err != nil {
		return nil, err
	}

	lineFreq := manifest.LineFreq
	if lineFreq == 0 {
		lineFreq = s.config.LineFreq
	}

	summary := &BatchSummary{}
	if s.catalog != nil {
		runID, err := s.catalog.BeginRun()
		if err != nil {
			return nil, fmt.Errorf("failed to begin catalog run: %w", err)
		}
		summary.RunID = runID
	}

	// Phase 1: collect and assemble.
	s.log.Infof("Collecting and loading source files...")
	var prepared []*RecordingItem
	var preparedResults []int // indices into summary.Results

	for _, subject := range manifest.Subjects {
		s.log.Infof("Processing subject: %s", subject)
		subjectDir := manifest.SubjectDir(subject)

		for _, task := range manifest.Tasks {
			if err := ctx.Err(); err != nil {
				return summary, err
			}

			result := FileResult{Subject: subject, Task: task}
			if manifest.Excluded(subject, task) {
				s.log.Infof("  %s/%s: excluded by manifest", subject, task)
				result.Status = StatusExcluded
				summary.Excluded++
				summary.Results = append(summary.Results, result)
				continue
			}

			path, actualTask, ok := bids.FindSourceFile(subjectDir, subject, task, manifest.TaskVariations)
			if !ok {
				s.log.Warnf("  %s/%s: no source file found", subject, task)
				result.Status = StatusMissingSource
				summary.Missing++
				summary.Results = append(summary.Results, result)
				continue
			}

			result.Task = actualTask
			result.SourcePath = path
			result.Dest = bids.Path{
				Subject:  subject,
				Session:  manifest.Session,
				Task:     bids.TaskName(actualTask),
				Datatype: "eeg",
				Root:     manifest.DatasetRoot,
			}

			summary.Attempted++
			rec, err := s.assemble(path, lineFreq)
			if err != nil {
				s.log.Errorf("  [!!] %s: %v", path, err)
				result.Status = StatusFailed
				result.Err = err
				summary.Failed++
				summary.Results = append(summary.Results, result)
				s.journal(summary.RunID, result)
				continue
			}

			s.log.Infof("  [OK] ready for export: %s", result.Dest)
			result.Status = StatusPending
			result.Recording = rec
			prepared = append(prepared, &RecordingItem{Recording: rec, Dest: result.Dest})
			summary.Results = append(summary.Results, result)
			preparedResults = append(preparedResults, len(summary.Results)-1)
		}
	}

	s.log.Infof("Collected %d recordings for export.", len(prepared))

	if s.config.DryRun {
		s.log.Infof("Dry run: skipping export of %d recordings.", len(prepared))
		if s.catalog != nil {
			if err := s.catalog.FinishRun(summary.RunID, summary.Attempted, summary.Succeeded, summary.Failed); err != nil {
				s.log.Warnf("Could not finalize catalog run: %v", err)
			}
		}
		s.logSummary(summary)
		return summary, nil
	}

	// Anonymization offset is computed across the whole batch so every
	// recording shifts by the same amount.
	var anon *Anonymize
	if manifest.Anonymize {
		if s.config.Anonymizer == nil {
			s.log.Warnf("Anonymization requested but no anonymizer is configured; writing original dates.")
		} else if daysback, err := s.config.Anonymizer(prepared); err != nil {
			s.log.Warnf("Could not calculate anonymization offset: %v", err)
		} else {
			anon = &Anonymize{Daysback: daysback + manifest.DaysbackBuffer}
			s.log.Infof("Anonymization: daysback = %d days", anon.Daysback)
		}
	}

	// Phase 2: export.
	for i, item := range prepared {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		idx := preparedResults[i]
		result := &summary.Results[idx]

		if err := s.writer.Write(item.Recording, item.Dest, anon); err != nil {
			wrapped := fmt.Errorf("%w: %s: %v", ErrWrite, item.Dest, err)
			s.log.Errorf("  [!!] export failed: %v", wrapped)
			result.Status = StatusFailed
			result.Err = wrapped
			summary.Failed++
			s.journal(summary.RunID, *result)
			continue
		}

		s.log.Infof("  [OK] exported %s", item.Dest)
		result.Status = StatusConverted
		summary.Succeeded++
		s.journal(summary.RunID, *result)
	}

	if s.catalog != nil {
		if err := s.catalog.FinishRun(summary.RunID, summary.Attempted, summary.Succeeded, summary.Failed); err != nil {
			s.log.Warnf("Could not finalize catalog run: %v", err)
		}
	}

	s.logSummary(summary)
	return summary, nil
}

// ConvertFile runs the per-file pipeline for a single container and exports
// the result immediately.
func (s *mobiService) ConvertFile(ctx context.Context, path string, dest bids.Path) FileResult {
	result := FileResult{Subject: dest.Subject, Task: dest.Task, SourcePath: path, Dest: dest}
	if err := ctx.Err(); err != nil {
		result.Status = StatusFailed
		result.Err = err
		return result
	}

	rec, err := s.assemble(path, s.config.LineFreq)
	if err != nil {
		result.Status = StatusFailed
		result.Err = err
		return result
	}
	if err := s.writer.Write(rec, dest, nil); err != nil {
		result.Status = StatusFailed
		result.Err = fmt.Errorf("%w: %s: %v", ErrWrite, dest, err)
		return result
	}
	result.Status = StatusConverted
	result.Recording = rec
	return result
}

// assemble is the per-file pipeline: load, classify, separate, align, crop,
// normalize, attach montage and annotations.
func (s *mobiService) assemble(path string, lineFreq float64) (*recording.Recording, error) {
	// 1. Load the container through the external parser.
	streams, err := s.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	// 2. Select the bioelectric and marker streams.
	sel, err := xdf.Classify(streams)
	if err != nil {
		return nil, err
	}
	eeg, markers := sel.Bioelectric, sel.Markers
	if err := eeg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", xdf.ErrCorruptSource, err)
	}

	// 3. Drop the headset's kinematic channels.
	bioLabels, bioIndices := channels.Separate(eeg.Labels())
	if len(bioLabels) == 0 {
		return nil, fmt.Errorf("%w: stream %q has no bioelectric channels", xdf.ErrCorruptSource, eeg.Name)
	}

	// 4. Crop to the marker span.
	lo, hi, err := align.Window(eeg.Timestamps, markers.Timestamps)
	if err != nil {
		return nil, err
	}
	data := align.CropMatrix(eeg.Samples, bioIndices, lo, hi)
	timestamps := align.CropTimestamps(eeg.Timestamps, lo, hi)

	// 5. Assemble and normalize amplitudes.
	rec, err := recording.New(bioLabels, data, timestamps, eeg.SampleRate())
	if err != nil {
		return nil, err
	}
	rec.SourceFile = path
	rec.LineFreq = lineFreq
	rec.NormalizeAmplitude()
	if rec.Scaled {
		s.log.Debugf("Scaled %s from microvolt to volt amplitudes", path)
	}

	// 6. Attach sensor positions: a preset layout when configured,
	// otherwise whatever the recording's own metadata yields.
	if s.config.Preset != nil {
		rec.Montage = s.config.Preset.Subset(bioLabels)
	} else {
		m, skipped := montage.FromStream(eeg, bioLabels)
		for _, coordErr := range skipped {
			s.log.Warnf("      %v", coordErr)
		}
		if m != nil {
			rec.Montage = m
			s.log.Infof("      Applied montage from embedded metadata (%d channels).", len(m.Positions))
		}
	}

	// 7. Extract annotations on the cropped timeline.
	annotations := annotate.Extract(markers.Timestamps, markers.Payloads, rec.TimeOrigin(), rec.Duration())
	if err := rec.SetAnnotations(annotations); err != nil {
		return nil, err
	}
	s.log.Infof("      Added %d valid annotations.", len(annotations))

	return rec, nil
}

// Inspect builds a diagnostic report for one container file.
func (s *mobiService) Inspect(ctx context.Context, path string) (*inspect.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	streams, err := s.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return inspect.Build(path, streams), nil
}

func (s *mobiService) Close() error {
	if s.catalog != nil {
		return s.catalog.Close()
	}
	return nil
}

// journal records a per-file outcome when a catalog is wired.
func (s *mobiService) journal(runID string, result FileResult) {
	if s.catalog == nil || runID == "" {
		return
	}
	conv := catalog.Conversion{
		RunID:      runID,
		Subject:    result.Subject,
		Session:    result.Dest.Session,
		Task:       result.Task,
		SourceFile: result.SourcePath,
		Status:     result.Status.String(),
	}
	if result.Err != nil {
		conv.Status = result.FailureClass()
		conv.ErrorText = result.Err.Error()
	}
	if rec := result.Recording; rec != nil {
		conv.NumChannels = len(rec.Labels)
		conv.NumSamples = rec.NumSamples()
		conv.DurationSec = rec.Duration()
	}
	if _, err := s.catalog.RecordConversion(conv); err != nil {
		s.log.Warnf("Could not journal %s/%s: %v", result.Subject, result.Task, err)
	}
}

func (s *mobiService) logSummary(summary *BatchSummary) {
	s.log.Infof("============================================================")
	s.log.Infof("CONVERSION SUMMARY")
	s.log.Infof("============================================================")
	s.log.Infof("Total files processed: %d", summary.Attempted)
	s.log.Infof("Successful conversions: %d", summary.Succeeded)
	s.log.Infof("Failed conversions: %d", summary.Failed)
	if summary.Missing > 0 {
		s.log.Infof("Missing source files: %d", summary.Missing)
	}
	if summary.Excluded > 0 {
		s.log.Infof("Excluded by manifest: %d", summary.Excluded)
	}
	if summary.Attempted > 0 {
		s.log.Infof("Success rate: %.1f%%", summary.SuccessRate())
	}
}
