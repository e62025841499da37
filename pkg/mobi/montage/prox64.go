package montage

import "math"

// polar is a cap-sheet coordinate pair in degrees. Theta runs from
// posterior (+90) through the vertex (0) to anterior (-90); phi runs from
// left (-90) to right (+90).
type polar struct {
	Theta, Phi float64
}

// proX64Coords transcribes the manufacturer's coordinate sheet for the
// PROX-64 cap. The sheet labels the DRL and CMS amplifier electrodes "Fpz"
// and "FCz"; those two entries are renamed here so the montage does not
// collide with the standard 10-10 positions of the same name.
var proX64Coords = map[string]polar{
	"Fp1": {-90, -72}, "Fp2": {90, 72}, "F3": {-60, -51},
	"F4": {60, 51}, "C3": {-45, 0}, "C4": {45, 0},
	"P3": {-60, 51}, "P4": {60, -51}, "O1": {-90, 72},
	"O2": {90, -72}, "F7": {-90, -36}, "F8": {90, 36},
	"T7": {-90, 0}, "T8": {90, 0}, "P7": {-90, 36},
	"P8": {90, -36}, "AFz": {67, 90}, "Fz": {45, 90},
	"Cz": {0, 0}, "Pz": {45, -90}, "FC1": {-31, -46},
	"FC2": {31, 46}, "CP1": {-31, 46}, "CP2": {31, -46},
	"FC5": {-69, -21}, "FC6": {69, 21}, "CP5": {-69, 21},
	"CP6": {69, -21}, "FT9": {-113, -18}, "FT10": {113, 18},
	"TP7": {-90, 18}, "TP8": {90, -18}, "F1": {-49, -68},
	"F2": {49, 68}, "C1": {-23, 0}, "C2": {23, 0},
	"P1": {-49, 68}, "P2": {49, -68}, "AF3": {-74, -68},
	"AF4": {74, 68}, "FC3": {-49, -29}, "FC4": {49, 29},
	"CP3": {-49, 29}, "CP4": {49, -29}, "PO3": {-74, 68},
	"PO4": {74, -68}, "F5": {-74, -41}, "F6": {74, 41},
	"C5": {-68, 0}, "C6": {68, 0}, "P5": {-74, 41},
	"P6": {74, -41}, "AF7": {-90, -54}, "AF8": {90, 54},
	"FT7": {-90, -18}, "FT8": {90, 18}, "TP9": {-113, 18},
	"TP10": {113, -18}, "PO7": {-90, 54}, "PO8": {90, -54},
	"PO9": {-113, 54}, "PO10": {113, -54}, "CPz": {22, -90},
	"POz": {67, -90}, "FpCz_DRL": {90, 90}, "FCz_CMS": {23, 90},
}

// sphericalToCartesian maps a cap-sheet angle pair onto the unit sphere in
// the head-centered frame.
func sphericalToCartesian(p polar) [3]float64 {
	thetaRad := p.Theta * math.Pi / 180
	phiRad := p.Phi * math.Pi / 180
	return [3]float64{
		math.Sin(thetaRad) * math.Cos(phiRad),
		math.Sin(thetaRad) * math.Sin(phiRad),
		math.Cos(thetaRad),
	}
}

// ProX64 builds the analytic montage for the PROX-64 cap from the
// manufacturer's spherical coordinate sheet, with idealized fiducials on a
// spherical head model.
func ProX64() *Montage {
	positions := make(map[string][3]float64, len(proX64Coords))
	for label, p := range proX64Coords {
		positions[label] = sphericalToCartesian(p)
	}
	fid := IdealFiducials(HeadRadius)
	return &Montage{Positions: positions, Fiducials: &fid}
}
