package montage

import (
	"fmt"
	"strconv"

	"github.com/JVHannila/MoBI-project/pkg/mobi/xdf"
)

// CoordinateError reports one channel whose embedded location metadata
// could not be parsed. It is recoverable: the builder skips the channel and
// continues.
type CoordinateError struct {
	Label string
	Err   error
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("channel %q: malformed coordinates: %v", e.Label, e.Err)
}

func (e *CoordinateError) Unwrap() error { return e.Err }

// FromStream builds a montage from the per-channel location metadata
// embedded in a recording, restricted to the given bioelectric labels.
// Coordinates arrive in millimeters and are converted to meters. Channels
// with missing locations are ignored; channels with malformed locations are
// collected in skipped so the caller can warn about them. When no channel
// yields a valid position the montage is nil, not an error, so a recording
// without spatial metadata can still be exported.
func FromStream(s *xdf.Stream, bioLabels []string) (m *Montage, skipped []*CoordinateError) {
	wanted := make(map[string]struct{}, len(bioLabels))
	for _, label := range bioLabels {
		wanted[label] = struct{}{}
	}

	positions := make(map[string][3]float64)
	for _, ch := range s.Channels {
		if _, ok := wanted[ch.Label]; !ok {
			continue
		}
		if !ch.HasLocation() {
			continue
		}
		pos, err := parseLocation(ch)
		if err != nil {
			skipped = append(skipped, &CoordinateError{Label: ch.Label, Err: err})
			continue
		}
		positions[ch.Label] = pos
	}

	if len(positions) == 0 {
		return nil, skipped
	}
	return &Montage{Positions: positions}, skipped
}

func parseLocation(ch xdf.Channel) ([3]float64, error) {
	var pos [3]float64
	for i, raw := range []string{ch.LocX, ch.LocY, ch.LocZ} {
		mm, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return pos, err
		}
		pos[i] = mm / 1000.0
	}
	return pos, nil
}
