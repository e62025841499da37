package inspect

import (
	"errors"
	"math"

	"github.com/mjibson/go-dsp/fft"
)

const (
	// Welch segmentation defaults. A 1024-sample Hamming window with 50%
	// overlap resolves mains interference at any common recording rate.
	WindowSize = 1024
	HopSize    = 512
)

// Hamming returns an n-point Hamming window.
func Hamming(n int) []float64 {
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		w[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// PowerSpectrum estimates the one-sided power spectral density of samples
// by Welch's method: windowed overlapping segments, FFT per segment,
// averaged squared magnitudes. The returned slice has WindowSize/2 bins;
// bin k corresponds to frequency k*sampleRate/WindowSize.
func PowerSpectrum(samples []float64, sampleRate float64) ([]float64, error) {
	if len(samples) < WindowSize {
		return nil, errors.New("input shorter than analysis window")
	}
	if sampleRate <= 0 {
		return nil, errors.New("non-positive sample rate")
	}

	window := Hamming(WindowSize)
	half := WindowSize / 2
	psd := make([]float64, half)
	segments := 0

	frame := make([]float64, WindowSize)
	for start := 0; start+WindowSize <= len(samples); start += HopSize {
		copy(frame, samples[start:start+WindowSize])
		for i := range frame {
			frame[i] *= window[i]
		}
		spectrum := fft.FFTReal(frame)
		for k := 0; k < half; k++ {
			re := real(spectrum[k])
			im := imag(spectrum[k])
			psd[k] += re*re + im*im
		}
		segments++
	}

	for k := range psd {
		psd[k] /= float64(segments)
	}
	return psd, nil
}

// LineNoiseEstimate locates the dominant spectral peak in the mains band
// (45-65 Hz) of the given samples and returns its frequency in Hz. The
// second return is false when the band is empty at this sample rate or the
// input is too short to analyze.
func LineNoiseEstimate(samples []float64, sampleRate float64) (float64, bool) {
	psd, err := PowerSpectrum(samples, sampleRate)
	if err != nil {
		return 0, false
	}

	binWidth := sampleRate / float64(WindowSize)
	loBin := int(math.Ceil(45.0 / binWidth))
	hiBin := int(math.Floor(65.0 / binWidth))
	if hiBin >= len(psd) {
		hiBin = len(psd) - 1
	}
	if loBin > hiBin || loBin < 0 {
		return 0, false
	}

	peakBin := loBin
	for k := loBin + 1; k <= hiBin; k++ {
		if psd[k] > psd[peakBin] {
			peakBin = k
		}
	}
	return float64(peakBin) * binWidth, true
}
