package xdf

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrCorruptSource indicates that a container file could not be decoded.
var ErrCorruptSource = errors.New("corrupt source")

// The JSON interchange container mirrors the stream dumps produced by the
// acquisition tooling: one object per stream with metadata, a sample matrix
// in samples x channels orientation (row per timestamp, as recorded), and a
// timestamp vector. Marker streams carry string payloads instead of numbers.
type jsonContainer struct {
	Streams []jsonStream `json:"streams"`
}

type jsonStream struct {
	Type          string        `json:"type"`
	Name          string        `json:"name"`
	NominalRate   float64       `json:"nominal_srate"`
	EffectiveRate float64       `json:"effective_srate"`
	Channels      []jsonChannel `json:"channels"`
	TimeSeries    [][]float64   `json:"time_series"`
	Payloads      []string      `json:"payloads"`
	Timestamps    []float64     `json:"time_stamps"`
}

type jsonChannel struct {
	Label    string        `json:"label"`
	Unit     string        `json:"unit"`
	Location *jsonLocation `json:"location"`
}

type jsonLocation struct {
	X string `json:"x"`
	Y string `json:"y"`
	Z string `json:"z"`
}

// LoadJSON reads a JSON interchange container from disk and returns its
// streams with sample matrices transposed to channels x samples. Decode
// failures are reported as ErrCorruptSource so the batch loop can classify
// them; structural inconsistencies inside a decoded stream are too.
func LoadJSON(path string) ([]*Stream, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read container: %w", err)
	}

	var container jsonContainer
	if err := json.Unmarshal(raw, &container); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSource, err)
	}
	if len(container.Streams) == 0 {
		return nil, fmt.Errorf("%w: container holds no streams", ErrCorruptSource)
	}

	streams := make([]*Stream, 0, len(container.Streams))
	for i, js := range container.Streams {
		s := &Stream{
			Type:          js.Type,
			Name:          js.Name,
			NominalRate:   js.NominalRate,
			EffectiveRate: js.EffectiveRate,
			Payloads:      js.Payloads,
			Timestamps:    js.Timestamps,
		}
		for _, jc := range js.Channels {
			ch := Channel{Label: jc.Label, Unit: jc.Unit}
			if jc.Location != nil {
				ch.LocX, ch.LocY, ch.LocZ = jc.Location.X, jc.Location.Y, jc.Location.Z
			}
			s.Channels = append(s.Channels, ch)
		}
		if len(js.TimeSeries) > 0 {
			s.Samples = transpose(js.TimeSeries, len(s.Channels))
			if err := s.Validate(); err != nil {
				return nil, fmt.Errorf("%w: stream %d: %v", ErrCorruptSource, i, err)
			}
		}
		streams = append(streams, s)
	}
	return streams, nil
}

// transpose converts a samples x channels matrix to channels x samples.
func transpose(rows [][]float64, nchan int) [][]float64 {
	out := make([][]float64, nchan)
	for c := range out {
		out[c] = make([]float64, len(rows))
	}
	for t, row := range rows {
		for c := 0; c < nchan && c < len(row); c++ {
			out[c][t] = row[c]
		}
	}
	return out
}
