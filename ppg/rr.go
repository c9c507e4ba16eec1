package ppg

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Aggregator turns accepted peaks into RR intervals and a smoothed BPM.
// Intervals outside the physiological bounds are dropped silently, not
// clamped: a clamped-but-wrong interval is worse than an absence.
type Aggregator struct {
	params Params

	rr []float64

	lastPeakTS  uint64
	hasLastPeak bool

	raw      float64
	smoothed float64

	// reseed is set when the history is cleared on finger loss. The next
	// raw estimate then replaces the decayed display value outright:
	// blending against a value that is decaying toward zero would only
	// slow reacquisition, and the cleared history means the new raw value
	// owes nothing to the old session.
	reseed bool
}

// NewAggregator returns an empty aggregator.
func NewAggregator(params Params) *Aggregator {
	return &Aggregator{
		params: params,
		rr:     make([]float64, 0, params.RRHistory),
	}
}

// AddPeak derives an RR interval from the previous accepted peak and
// buffers it when physiologically plausible.
func (a *Aggregator) AddPeak(pk Peak) {
	if !a.hasLastPeak {
		a.lastPeakTS = pk.TimestampMS
		a.hasLastPeak = true
		return
	}

	interval := float64(pk.TimestampMS - a.lastPeakTS)
	a.lastPeakTS = pk.TimestampMS

	if interval < a.params.RRMinMS || interval > a.params.RRMaxMS {
		return
	}

	a.rr = append(a.rr, interval)
	if len(a.rr) > a.params.RRHistory {
		a.rr = a.rr[1:]
	}
}

// Estimate recomputes the BPM from the buffered intervals. The raw value
// is 60000 over the median interval; the median resists the outliers that
// a missed or doubled beat injects into a buffer this small.
func (a *Aggregator) Estimate(tsMS uint64) BPMEstimate {
	if len(a.rr) >= a.params.MinRRForBPM {
		median, err := stats.Median(a.rr)
		if err == nil && median > 0 {
			a.raw = 60000.0 / median

			if a.smoothed == 0 || a.reseed {
				a.smoothed = a.raw
				a.reseed = false
			} else {
				a.smoothed = a.smoothed*a.params.BPMAlpha + a.raw*(1-a.params.BPMAlpha)
			}
		}
	}

	return BPMEstimate{
		Raw:         a.raw,
		Smoothed:    a.smoothed,
		TimestampMS: tsMS,
	}
}

// Decay is applied once per tick while no finger is present: the display
// value shrinks multiplicatively instead of snapping to zero, then snaps
// once it falls below the floor so the reading terminates at exactly 0.
func (a *Aggregator) Decay() {
	a.smoothed *= a.params.BPMDecayPerTick
	if a.smoothed < a.params.BPMZeroFloor {
		a.smoothed = 0
	}
	a.raw = 0
}

// Smoothed returns the current display BPM.
func (a *Aggregator) Smoothed() float64 {
	return a.smoothed
}

// RRIntervals returns a copy of the buffered intervals, oldest first.
func (a *Aggregator) RRIntervals() []float64 {
	if len(a.rr) == 0 {
		return nil
	}
	out := make([]float64, len(a.rr))
	copy(out, a.rr)
	return out
}

// HRV computes mean, standard deviation, coefficient of variation, and
// RMSSD over the buffered intervals. Everything is zero below the minimum
// interval count.
func (a *Aggregator) HRV() HRVStats {
	if len(a.rr) < a.params.MinRRForHRV {
		return HRVStats{}
	}

	mean, err := stats.Mean(a.rr)
	if err != nil || mean <= 0 {
		return HRVStats{}
	}

	sd, err := stats.StandardDeviation(a.rr)
	if err != nil {
		return HRVStats{}
	}

	var sumSq float64
	for i := 1; i < len(a.rr); i++ {
		d := a.rr[i] - a.rr[i-1]
		sumSq += d * d
	}
	rmssd := math.Sqrt(sumSq / float64(len(a.rr)-1))

	return HRVStats{
		MeanMS:  mean,
		SDMS:    sd,
		CV:      sd / mean,
		RMSSDMS: rmssd,
	}
}

// ClearHistory drops the RR buffer and the peak linkage when the finger
// gate opens, but keeps the smoothed value so Decay can wind it down
// without a visible snap. The next raw estimate re-seeds the smoothing.
func (a *Aggregator) ClearHistory() {
	a.rr = a.rr[:0]
	a.hasLastPeak = false
	a.lastPeakTS = 0
	a.raw = 0
	a.reseed = true
}

// Reset returns the aggregator to its freshly constructed state.
func (a *Aggregator) Reset() {
	a.rr = a.rr[:0]
	a.hasLastPeak = false
	a.lastPeakTS = 0
	a.raw = 0
	a.smoothed = 0
	a.reseed = false
}

func (a *Aggregator) configure(params Params) {
	a.params = params
	for len(a.rr) > a.params.RRHistory {
		a.rr = a.rr[1:]
	}
}
