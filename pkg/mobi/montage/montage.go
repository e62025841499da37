// Package montage builds channel-label to 3-D sensor position maps, either
// analytically from a known cap design or from per-recording embedded
// metadata, and persists them as digitization files.
package montage

// HeadRadius is the idealized spherical head radius in meters used for the
// fiducial landmarks.
const HeadRadius = 0.095

// Fiducials are the anatomical landmarks anchoring a layout's coordinate
// frame: left/right pre-auricular points and the nasion.
type Fiducials struct {
	LPA    [3]float64
	RPA    [3]float64
	Nasion [3]float64
}

// IdealFiducials places the landmarks on a sphere of the given radius:
// LPA at (-r,0,0), RPA at (+r,0,0), nasion at (0,+r,0).
func IdealFiducials(radius float64) Fiducials {
	return Fiducials{
		LPA:    [3]float64{-radius, 0, 0},
		RPA:    [3]float64{radius, 0, 0},
		Nasion: [3]float64{0, radius, 0},
	}
}

// Montage maps channel labels to positions in a head-centered frame where
// +X is right, +Y is anterior and +Z is superior, all in meters. Fiducials
// are optional; layouts recovered from embedded recording metadata carry
// none.
type Montage struct {
	Positions map[string][3]float64
	Fiducials *Fiducials
}

// Labels returns the channel labels present in the montage, in no
// particular order.
func (m *Montage) Labels() []string {
	labels := make([]string, 0, len(m.Positions))
	for label := range m.Positions {
		labels = append(labels, label)
	}
	return labels
}

// Subset returns a copy restricted to the given labels. Labels absent from
// the montage are ignored.
func (m *Montage) Subset(labels []string) *Montage {
	sub := &Montage{Positions: make(map[string][3]float64), Fiducials: m.Fiducials}
	for _, label := range labels {
		if pos, ok := m.Positions[label]; ok {
			sub.Positions[label] = pos
		}
	}
	return sub
}
