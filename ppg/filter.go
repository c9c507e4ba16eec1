package ppg

import (
	"fmt"
	"math"

	"github.com/jfcg/butter"
)

// BandPass isolates the pulsatile (AC) component of the raw stream: a
// single-pole high-pass removes baseline drift from finger repositioning
// and exposure changes, and a single-pole low-pass removes frame noise
// above the cardiac band.
type BandPass struct {
	hp butter.Filter
	lp butter.Filter

	hpWC float64
	lpWC float64
}

// NewBandPass builds the filter pair for the given corners. The corner
// frequencies are converted to normalized angular frequencies the same way
// for any sample rate, so identical input sequences filter identically.
func NewBandPass(highPassHz, lowPassHz, sampleRateHz float64) (*BandPass, error) {
	wcBase := 2.0 * math.Pi / sampleRateHz

	hpWC := highPassHz * wcBase
	lpWC := lowPassHz * wcBase

	hp := butter.NewHighPass1(hpWC)
	if hp == nil {
		return nil, fmt.Errorf("ppg: invalid high-pass filter (attempted wc=%f, but expect .0001 < wc && wc < 3.1415)", hpWC)
	}

	lp := butter.NewLowPass1(lpWC)
	if lp == nil {
		return nil, fmt.Errorf("ppg: invalid low-pass filter (attempted wc=%f, but expect .0001 < wc && wc < 3.1415)", lpWC)
	}

	return &BandPass{hp: hp, lp: lp, hpWC: hpWC, lpWC: lpWC}, nil
}

// Filter advances the filter by one sample. Inputs must be finite; the
// pipeline guards that at the ingest boundary.
func (b *BandPass) Filter(raw float64) float64 {
	return b.hp.Next(b.lp.Next(raw))
}

// Reset discards all recursive state by rebuilding both stages, so a
// finger-loss gap cannot leak a step transient into the next session and
// be miscounted as a beat. The corners were validated at construction, so
// the rebuilt filters are never nil.
func (b *BandPass) Reset() {
	b.hp = butter.NewHighPass1(b.hpWC)
	b.lp = butter.NewLowPass1(b.lpWC)
}
