package ppg

import "fmt"

// Params holds every tunable constant of the pipeline. The zero value is
// not usable; start from DefaultParams and override fields as needed.
// Configure applies a new Params to a live pipeline without losing state
// unless buffer shapes change.
type Params struct {
	// Nominal sample rate, used only to place the band-pass corners. The
	// interval math itself always uses sample timestamps.
	SampleRateHz float64

	// Band-pass corners for the cardiac band.
	HighPassHz float64
	LowPassHz  float64

	// WindowCapacity is the filtered-sample ring size. ThresholdLookback
	// is how many of the newest samples feed the adaptive threshold; it is
	// clamped to the number buffered. MinTrackingSamples is how many
	// samples must be buffered before detection starts.
	WindowCapacity     int
	ThresholdLookback  int
	MinTrackingSamples int

	// ThresholdFraction is k in the adaptive threshold min + range*k.
	// ProminenceFraction is p in the prominence gate prominence > range*p.
	// RangeFloor rejects everything when the lookback range is below it.
	ThresholdFraction  float64
	ProminenceFraction float64
	RangeFloor         float64

	// RefractoryMS is the minimum spacing between accepted peaks.
	RefractoryMS float64

	// Bounded history capacities.
	PeakHistory int
	RRHistory   int

	// Physiological RR bounds; intervals outside are discarded silently.
	RRMinMS float64
	RRMaxMS float64

	// Minimum interval counts before a BPM or HRV value is reported.
	MinRRForBPM int
	MinRRForHRV int

	// BPMAlpha weights the previous smoothed BPM. BPMDecayPerTick is the
	// multiplicative decay applied while no finger is present; once the
	// decayed value drops below BPMZeroFloor it snaps to exactly zero.
	BPMAlpha        float64
	BPMDecayPerTick float64
	BPMZeroFloor    float64

	// Quality scorer tuning. ExpectedRange is the filtered peak-to-peak
	// amplitude that earns full amplitude credit; ExpectedPeakCount is the
	// buffered-peak count that earns full rate credit; CVCeiling is the
	// RR coefficient of variation that zeroes the regularity component.
	QualityAlpha      float64
	ExpectedRange     float64
	ExpectedPeakCount int
	CVCeiling         float64
}

// DefaultParams returns the tuning used by the shipped tools: a 0.5-4 Hz
// band at 30 Hz, k=0.5, p=0.05, and a 350 ms refractory interval.
//
// p=0.05 rather than the 0.15 sometimes quoted for sharper waveforms: the
// prominence window only spans +-3 samples, so at 30 Hz a sinusoidal pulse
// rises just 0.27x its amplitude above the window edges at 72 BPM and
// 0.19x at 60 BPM, and anything above p=0.095 rejects legitimate slow
// pulses outright.
func DefaultParams() Params {
	return Params{
		SampleRateHz: 30,
		HighPassHz:   0.5,
		LowPassHz:    4.0,

		WindowCapacity:     256,
		ThresholdLookback:  64,
		MinTrackingSamples: 30,

		ThresholdFraction:  0.5,
		ProminenceFraction: 0.05,
		RangeFloor:         0.02,

		RefractoryMS: 350,

		PeakHistory: 20,
		RRHistory:   12,

		RRMinMS: 300,
		RRMaxMS: 2000,

		MinRRForBPM: 2,
		MinRRForHRV: 3,

		BPMAlpha:        0.8,
		BPMDecayPerTick: 0.95,
		BPMZeroFloor:    1.0,

		QualityAlpha:      0.7,
		ExpectedRange:     0.1,
		ExpectedPeakCount: 8,
		CVCeiling:         0.25,
	}
}

// Validate reports the first implausible setting found.
func (p Params) Validate() error {
	switch {
	case p.SampleRateHz <= 0:
		return fmt.Errorf("ppg: sample rate must be positive, got %f", p.SampleRateHz)
	case p.HighPassHz <= 0 || p.LowPassHz <= p.HighPassHz:
		return fmt.Errorf("ppg: band [%f, %f] Hz is not a valid cardiac band", p.HighPassHz, p.LowPassHz)
	case p.LowPassHz >= p.SampleRateHz/2:
		return fmt.Errorf("ppg: low-pass corner %f Hz is at or above Nyquist for %f Hz sampling", p.LowPassHz, p.SampleRateHz)
	case p.WindowCapacity < 7:
		return fmt.Errorf("ppg: window capacity %d is below the 7-sample local-maximum test", p.WindowCapacity)
	case p.ThresholdLookback < 7 || p.ThresholdLookback > p.WindowCapacity:
		return fmt.Errorf("ppg: threshold lookback %d must be within [7, %d]", p.ThresholdLookback, p.WindowCapacity)
	case p.MinTrackingSamples < 7 || p.MinTrackingSamples > p.WindowCapacity:
		return fmt.Errorf("ppg: minimum tracking samples %d must be within [7, %d]", p.MinTrackingSamples, p.WindowCapacity)
	case p.ThresholdFraction <= 0 || p.ThresholdFraction >= 1:
		return fmt.Errorf("ppg: threshold fraction %f must be in (0, 1)", p.ThresholdFraction)
	case p.ProminenceFraction <= 0 || p.ProminenceFraction >= 1:
		return fmt.Errorf("ppg: prominence fraction %f must be in (0, 1)", p.ProminenceFraction)
	case p.RangeFloor < 0:
		return fmt.Errorf("ppg: range floor %f must not be negative", p.RangeFloor)
	case p.RefractoryMS <= 0:
		return fmt.Errorf("ppg: refractory interval %f ms must be positive", p.RefractoryMS)
	case p.PeakHistory < 2 || p.RRHistory < 2:
		return fmt.Errorf("ppg: peak history %d and RR history %d must each hold at least 2 entries", p.PeakHistory, p.RRHistory)
	case p.RRMinMS <= 0 || p.RRMaxMS <= p.RRMinMS:
		return fmt.Errorf("ppg: RR bounds [%f, %f] ms are not ordered", p.RRMinMS, p.RRMaxMS)
	case p.MinRRForBPM < 1 || p.MinRRForHRV < 2:
		return fmt.Errorf("ppg: minimum RR counts (%d for BPM, %d for HRV) are too small", p.MinRRForBPM, p.MinRRForHRV)
	case p.BPMAlpha <= 0 || p.BPMAlpha >= 1:
		return fmt.Errorf("ppg: BPM smoothing alpha %f must be in (0, 1)", p.BPMAlpha)
	case p.BPMDecayPerTick <= 0 || p.BPMDecayPerTick >= 1:
		return fmt.Errorf("ppg: BPM decay %f per tick must be in (0, 1)", p.BPMDecayPerTick)
	case p.BPMZeroFloor <= 0:
		return fmt.Errorf("ppg: BPM zero floor %f must be positive", p.BPMZeroFloor)
	case p.QualityAlpha <= 0 || p.QualityAlpha >= 1:
		return fmt.Errorf("ppg: quality smoothing alpha %f must be in (0, 1)", p.QualityAlpha)
	case p.ExpectedRange <= 0 || p.ExpectedPeakCount < 1 || p.CVCeiling <= 0:
		return fmt.Errorf("ppg: quality expectations (range %f, peaks %d, CV ceiling %f) must be positive", p.ExpectedRange, p.ExpectedPeakCount, p.CVCeiling)
	}

	return nil
}
