// Package annotate converts raw marker payloads into structured event
// annotations on a recording's own timeline.
package annotate

import (
	"fmt"
	"regexp"
)

// Annotation is one structured event: onset in seconds relative to the
// recording start, a duration (zero for point events), and a description.
type Annotation struct {
	Onset       float64
	Duration    float64
	Description string
}

// Payloads wrap numeric event codes in an ecode element; everything else is
// free text passed through verbatim.
var eventCodePattern = regexp.MustCompile(`<ecode>(\d+)</ecode>`)

// Describe normalizes a marker payload: a payload carrying an embedded
// event code becomes "Event_<code>", any other payload is used as-is.
func Describe(payload string) string {
	if match := eventCodePattern.FindStringSubmatch(payload); match != nil {
		return fmt.Sprintf("Event_%s", match[1])
	}
	return payload
}

// Extract converts marker timestamps and payloads into annotations relative
// to the recording's time origin, dropping markers that fall outside
// [0, maxTime]. Marker order is preserved, so chronological input stays
// chronological.
func Extract(timestamps []float64, payloads []string, origin, maxTime float64) []Annotation {
	annotations := make([]Annotation, 0, len(timestamps))
	for i, ts := range timestamps {
		onset := ts - origin
		if onset < 0 || onset > maxTime {
			continue
		}
		payload := ""
		if i < len(payloads) {
			payload = payloads[i]
		}
		annotations = append(annotations, Annotation{
			Onset:       onset,
			Duration:    0,
			Description: Describe(payload),
		})
	}
	return annotations
}
