// Package channels partitions a stream's channel labels into semantic
// groups. Mobile recordings interleave bioelectric electrodes with the
// headset's inertial sensors in one stream; only the electrodes belong in
// the exported recording.
package channels

// kinematic is the fixed vocabulary of motion-sensor labels the headset
// embeds in its bioelectric stream: accelerometer and gyroscope axes plus
// the orientation quaternion.
var kinematic = map[string]struct{}{
	"AccX": {}, "AccY": {}, "AccZ": {},
	"GyroX": {}, "GyroY": {}, "GyroZ": {},
	"QuatW": {}, "QuatX": {}, "QuatY": {}, "QuatZ": {},
}

// IsKinematic reports whether a label names a motion-sensor channel.
func IsKinematic(label string) bool {
	_, ok := kinematic[label]
	return ok
}

// Separate splits the full label list into the bioelectric sublist and the
// positional indices of those labels in the original ordering, preserving
// declaration order. The indices select sample-matrix rows before cropping.
func Separate(labels []string) (bioelectric []string, indices []int) {
	for i, label := range labels {
		if IsKinematic(label) {
			continue
		}
		bioelectric = append(bioelectric, label)
		indices = append(indices, i)
	}
	return bioelectric, indices
}

// Kinematic returns the motion-sensor sublist and indices, the complement
// of Separate.
func Kinematic(labels []string) (motion []string, indices []int) {
	for i, label := range labels {
		if !IsKinematic(label) {
			continue
		}
		motion = append(motion, label)
		indices = append(indices, i)
	}
	return motion, indices
}
