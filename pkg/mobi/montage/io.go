package montage

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Reserved row names for fiducial landmarks in a digitization file.
const (
	rowLPA    = "LPA"
	rowRPA    = "RPA"
	rowNasion = "Nasion"
)

// Save writes the montage as a tab-separated digitization file with a
// name/x/y/z header, fiducials first, then channels in sorted order.
// A montage saved once can be reloaded and applied across a whole batch.
func (m *Montage) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create digitization file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "name\tx\ty\tz")
	if m.Fiducials != nil {
		writeRow(w, rowLPA, m.Fiducials.LPA)
		writeRow(w, rowRPA, m.Fiducials.RPA)
		writeRow(w, rowNasion, m.Fiducials.Nasion)
	}
	labels := m.Labels()
	sort.Strings(labels)
	for _, label := range labels {
		writeRow(w, label, m.Positions[label])
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write digitization file: %w", err)
	}
	return nil
}

func writeRow(w *bufio.Writer, name string, pos [3]float64) {
	fmt.Fprintf(w, "%s\t%.9f\t%.9f\t%.9f\n", name, pos[0], pos[1], pos[2])
}

// Load reads a digitization file written by Save.
func Load(path string) (*Montage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open digitization file: %w", err)
	}
	defer f.Close()

	m := &Montage{Positions: make(map[string][3]float64)}
	var fid Fiducials
	var fidRows int

	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if first {
			first = false
			if strings.HasPrefix(line, "name\t") {
				continue
			}
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 4 {
			return nil, fmt.Errorf("digitization file %s: malformed row %q", path, line)
		}
		var pos [3]float64
		for i := 0; i < 3; i++ {
			pos[i], err = strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("digitization file %s: row %q: %w", path, fields[0], err)
			}
		}
		switch fields[0] {
		case rowLPA:
			fid.LPA = pos
			fidRows++
		case rowRPA:
			fid.RPA = pos
			fidRows++
		case rowNasion:
			fid.Nasion = pos
			fidRows++
		default:
			m.Positions[fields[0]] = pos
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read digitization file: %w", err)
	}
	if fidRows == 3 {
		m.Fiducials = &fid
	}
	return m, nil
}
