package xdf

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingStream indicates that a required stream role could not be filled
// from the container's stream list.
var ErrMissingStream = errors.New("missing stream")

// Role tags a stream with the part it plays in the conversion.
type Role int

const (
	RoleUnclassified Role = iota
	RoleBioelectric
	RoleMarker
)

func (r Role) String() string {
	switch r {
	case RoleBioelectric:
		return "bioelectric"
	case RoleMarker:
		return "marker"
	default:
		return "unclassified"
	}
}

const (
	bioelectricTag = "eeg"
	markerTag      = "marker"
)

// Selection is the result of classifying a container's streams.
type Selection struct {
	Bioelectric *Stream
	Markers     *Stream
}

// Classify selects the bioelectric and marker streams from a container's
// stream list. Matching is a case-insensitive substring test, first against
// the declared type tag of every stream and only then against the declared
// name tag of streams the first pass left unclaimed. Within a pass the first
// matching stream wins. Type-tag matches always take precedence over
// name-tag matches, so a stream typed "EEG" beats one merely named
// "eeg-backup" regardless of list order.
func Classify(streams []*Stream) (Selection, error) {
	var sel Selection

	for _, s := range streams {
		switch roleOfTag(s.Type) {
		case RoleBioelectric:
			if sel.Bioelectric == nil {
				sel.Bioelectric = s
			}
		case RoleMarker:
			if sel.Markers == nil {
				sel.Markers = s
			}
		}
	}

	// Name-tag fallback for roles the type tags left unfilled.
	for _, s := range streams {
		if s == sel.Bioelectric || s == sel.Markers {
			continue
		}
		switch roleOfTag(s.Name) {
		case RoleBioelectric:
			if sel.Bioelectric == nil {
				sel.Bioelectric = s
			}
		case RoleMarker:
			if sel.Markers == nil {
				sel.Markers = s
			}
		}
	}

	if sel.Bioelectric == nil {
		return sel, fmt.Errorf("%w: no stream matched type or name tag %q", ErrMissingStream, bioelectricTag)
	}
	if sel.Markers == nil {
		return sel, fmt.Errorf("%w: no stream matched type or name tag %q", ErrMissingStream, markerTag)
	}
	return sel, nil
}

func roleOfTag(tag string) Role {
	lowered := strings.ToLower(tag)
	switch {
	case strings.Contains(lowered, bioelectricTag):
		return RoleBioelectric
	case strings.Contains(lowered, markerTag):
		return RoleMarker
	default:
		return RoleUnclassified
	}
}
