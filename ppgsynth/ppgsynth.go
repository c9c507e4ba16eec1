// Package ppgsynth generates PPG-like test waveforms: a pulse train at a
// fixed heart rate with optional Gaussian noise and slow baseline wander.
// It is deliberately simple and not clinical; it exists to drive the
// replay tools and the end-to-end tests with a known ground truth.
package ppgsynth

import (
	"math"
	"math/rand"
)

// Waveform shapes.
const (
	Sine     = "sine"
	Triangle = "triangle"
)

// Generator produces one sample per Next call and advances its phase by
// BPM/60/SampleRateHz per call.
type Generator struct {
	SampleRateHz float64
	BPM          float64
	Amplitude    float64
	Baseline     float64
	NoiseSD      float64
	WanderAmp    float64
	WanderHz     float64
	Shape        string

	phase   float64
	elapsed float64
	rng     *rand.Rand
}

// New returns a sine generator with the given rate and a seeded noise
// source, so identical seeds give identical waveforms.
func New(sampleRateHz, bpm, amplitude, noiseSD float64, seed int64) *Generator {
	return &Generator{
		SampleRateHz: sampleRateHz,
		BPM:          bpm,
		Amplitude:    amplitude,
		NoiseSD:      noiseSD,
		Shape:        Sine,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

// Next returns the next sample value and advances time.
func (g *Generator) Next() float64 {
	cycleHz := g.BPM / 60.0
	g.phase += cycleHz / g.SampleRateHz
	if g.phase >= 1.0 {
		g.phase -= 1.0
	}
	g.elapsed += 1.0 / g.SampleRateHz

	var pulse float64
	switch g.Shape {
	case Triangle:
		// Peak at phase 0.5, linear flanks in [-1, 1].
		pulse = 1.0 - 4.0*math.Abs(g.phase-0.5)
	default:
		pulse = math.Sin(2.0 * math.Pi * g.phase)
	}

	v := g.Baseline + g.Amplitude*pulse

	if g.WanderAmp != 0 && g.WanderHz != 0 {
		v += g.WanderAmp * math.Sin(2.0*math.Pi*g.WanderHz*g.elapsed)
	}

	if g.NoiseSD > 0 {
		v += g.rng.NormFloat64() * g.NoiseSD
	}

	return v
}

// Series returns n consecutive samples.
func (g *Generator) Series(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}
