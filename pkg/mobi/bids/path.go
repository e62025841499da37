// Package bids models the destination descriptor consumed by the dataset
// writer and the filename conventions used to discover source recordings.
package bids

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Path identifies where one recording lands in the structured dataset.
type Path struct {
	Subject  string
	Session  string
	Task     string
	Datatype string
	Root     string
}

// Basename returns the entity-chained file stem, e.g.
// "sub-P01_ses-01_task-NaturalWalk_eeg".
func (p Path) Basename() string {
	parts := []string{fmt.Sprintf("sub-%s", p.Subject)}
	if p.Session != "" {
		parts = append(parts, fmt.Sprintf("ses-%s", p.Session))
	}
	if p.Task != "" {
		parts = append(parts, fmt.Sprintf("task-%s", p.Task))
	}
	if p.Datatype != "" {
		parts = append(parts, p.Datatype)
	}
	return strings.Join(parts, "_")
}

// Dir returns the directory the recording's files belong in under Root.
func (p Path) Dir() string {
	dir := filepath.Join(p.Root, fmt.Sprintf("sub-%s", p.Subject))
	if p.Session != "" {
		dir = filepath.Join(dir, fmt.Sprintf("ses-%s", p.Session))
	}
	if p.Datatype != "" {
		dir = filepath.Join(dir, p.Datatype)
	}
	return dir
}

func (p Path) String() string { return p.Basename() }

// TaskName converts a hyphenated acquisition task name to the dataset's
// PascalCase form: "treadmill-walk-fast" becomes "TreadmillWalkFast".
func TaskName(task string) string {
	var b strings.Builder
	for _, word := range strings.Split(task, "-") {
		if word == "" {
			continue
		}
		b.WriteString(strings.ToUpper(word[:1]))
		b.WriteString(word[1:])
	}
	return b.String()
}

// SourceFilename is the primary filename convention for a subject/task
// recording in the source tree.
func SourceFilename(subject, task string) string {
	return fmt.Sprintf("sub-%s_task-%s_eeg.xdf", subject, task)
}

// FindSourceFile locates the container file for a subject and task inside
// dir. The primary filename is tried first; when absent, each registered
// task-name variation is tried in order. It returns the path found and the
// actual task name it corresponds to, or ok=false when nothing matches.
func FindSourceFile(dir, subject, task string, variations map[string][]string) (path, actualTask string, ok bool) {
	primary := filepath.Join(dir, SourceFilename(subject, task))
	if fileExists(primary) {
		return primary, task, true
	}
	for _, variant := range variations[task] {
		candidate := filepath.Join(dir, SourceFilename(subject, variant))
		if fileExists(candidate) {
			return candidate, variant, true
		}
	}
	return "", "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
