package mobi

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/JVHannila/MoBI-project/pkg/utils"
)

// Manifest is the immutable description of one batch: which subjects and
// tasks to convert, where the sources live, and where the dataset goes. It
// is passed into the pipeline entry point rather than read from globals so
// runs are isolated and repeatable.
type Manifest struct {
	Subjects    []string `toml:"subjects"`
	Tasks       []string `toml:"tasks"`
	Session     string   `toml:"session"`
	SourceRoot  string   `toml:"source_root"`
	DatasetRoot string   `toml:"dataset_root"`
	// Exclude lists task names to skip per subject, e.g. recordings known
	// to be unusable.
	Exclude map[string][]string `toml:"exclude"`
	// TaskVariations registers alternate acquisition task names tried
	// when the primary filename is absent.
	TaskVariations map[string][]string `toml:"task_variations"`
	Anonymize      bool                `toml:"anonymize"`
	DaysbackBuffer int                 `toml:"daysback_buffer"`
	LineFreq       float64             `toml:"line_freq"`
}

// LoadManifest reads and validates a TOML batch manifest.
func LoadManifest(path string) (Manifest, error) {
	var m Manifest
	raw, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("read manifest: %w", err)
	}
	if err := toml.Unmarshal(raw, &m); err != nil {
		return m, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return m, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Validate checks the fields a batch cannot run without.
func (m Manifest) Validate() error {
	if len(m.Subjects) == 0 {
		return fmt.Errorf("no subjects listed")
	}
	if len(m.Tasks) == 0 {
		return fmt.Errorf("no tasks listed")
	}
	if m.SourceRoot == "" {
		return fmt.Errorf("source_root is required")
	}
	if m.DatasetRoot == "" {
		return fmt.Errorf("dataset_root is required")
	}
	return nil
}

// Excluded reports whether the manifest skips this subject/task pair.
func (m Manifest) Excluded(subject, task string) bool {
	for _, t := range m.Exclude[subject] {
		if t == task {
			return true
		}
	}
	return false
}

// SubjectDir returns the directory holding a subject's container files.
// The acquisition layout nests them under a per-subject "brain" directory.
func (m Manifest) SubjectDir(subject string) string {
	return filepath.Join(m.SourceRoot, fmt.Sprintf("sub-%s", subject), "brain")
}

// CheckRoots verifies the source root exists. A missing top-level input
// directory is fatal before any file is attempted.
func (m Manifest) CheckRoots() error {
	if !utils.DirExists(m.SourceRoot) {
		return fmt.Errorf("source root does not exist: %s", m.SourceRoot)
	}
	return nil
}
