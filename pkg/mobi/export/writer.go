// Package export provides a minimal reference dataset writer. The
// production pipeline injects the site's own structured-dataset writer; this
// one keeps the CLI usable end to end by laying out one directory per
// subject/session with plain sidecar files next to a raw sample dump.
package export

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JVHannila/MoBI-project/pkg/mobi"
	"github.com/JVHannila/MoBI-project/pkg/mobi/bids"
	"github.com/JVHannila/MoBI-project/pkg/mobi/recording"
	"github.com/JVHannila/MoBI-project/pkg/utils"
)

// Writer implements mobi.Writer with a TSV/JSON sidecar layout.
type Writer struct {
	// Overwrite allows replacing files from a previous run.
	Overwrite bool
}

type sidecar struct {
	SamplingFrequency float64 `json:"sampling_frequency"`
	LineFrequency     float64 `json:"line_frequency"`
	ChannelCount      int     `json:"channel_count"`
	SampleCount       int     `json:"sample_count"`
	DurationSec       float64 `json:"duration_sec"`
	Scaled            bool    `json:"amplitude_scaled"`
	SourceFile        string  `json:"source_file"`
	AnonymizeDaysback *int    `json:"anonymize_daysback,omitempty"`
}

// Write lays the recording out under dest.Dir() as a raw little-endian
// float64 dump plus channels, events and electrodes tables and a JSON
// sidecar.
func (w *Writer) Write(rec *recording.Recording, dest bids.Path, anon *mobi.Anonymize) error {
	dir := dest.Dir()
	if err := utils.MakeDir(dir); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}
	base := filepath.Join(dir, dest.Basename())

	dataPath := base + ".dat"
	if !w.Overwrite && utils.FileExists(dataPath) {
		return fmt.Errorf("refusing to overwrite %s", dataPath)
	}

	if err := w.writeData(dataPath, rec); err != nil {
		return err
	}
	if err := w.writeChannels(base+"_channels.tsv", rec); err != nil {
		return err
	}
	if err := w.writeEvents(base+"_events.tsv", rec); err != nil {
		return err
	}
	if rec.Montage != nil {
		if err := rec.Montage.Save(base + "_electrodes.tsv"); err != nil {
			return err
		}
	}
	return w.writeSidecar(base+".json", rec, anon)
}

// writeData dumps the sample matrix channel-major as little-endian float64.
func (w *Writer) writeData(path string, rec *recording.Recording) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create data file: %w", err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	for _, row := range rec.Data {
		if err := binary.Write(buf, binary.LittleEndian, row); err != nil {
			return fmt.Errorf("write data file: %w", err)
		}
	}
	return buf.Flush()
}

func (w *Writer) writeChannels(path string, rec *recording.Recording) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create channels table: %w", err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	fmt.Fprintln(buf, "name\ttype\tunits")
	for _, label := range rec.Labels {
		fmt.Fprintf(buf, "%s\tEEG\tV\n", label)
	}
	return buf.Flush()
}

func (w *Writer) writeEvents(path string, rec *recording.Recording) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create events table: %w", err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	fmt.Fprintln(buf, "onset\tduration\tdescription")
	for _, a := range rec.Annotations {
		fmt.Fprintf(buf, "%.6f\t%.6f\t%s\n", a.Onset, a.Duration, a.Description)
	}
	return buf.Flush()
}

func (w *Writer) writeSidecar(path string, rec *recording.Recording, anon *mobi.Anonymize) error {
	sc := sidecar{
		SamplingFrequency: rec.SampleRate,
		LineFrequency:     rec.LineFreq,
		ChannelCount:      len(rec.Labels),
		SampleCount:       rec.NumSamples(),
		DurationSec:       rec.Duration(),
		Scaled:            rec.Scaled,
		SourceFile:        rec.SourceFile,
	}
	if anon != nil {
		sc.AnonymizeDaysback = &anon.Daysback
	}

	raw, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode sidecar: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}
	return nil
}
