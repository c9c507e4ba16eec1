package ppg

import (
	"github.com/carbocation/runningvariance"
	"github.com/montanaflynn/stats"
)

// Component weights. They sum to 100 and each component clamps to its own
// share, so no single input can push the score past its allotment.
const (
	weightAmplitude  = 40.0
	weightPeakRate   = 30.0
	weightRegularity = 30.0
)

// Scorer combines signal amplitude, detected-peak rate, and RR regularity
// into a 0-100 confidence value. The running amplitude statistics double
// as a motion-artifact estimate: a window range far outside the session's
// own distribution is most likely finger movement, not pulse.
type Scorer struct {
	params Params

	amp      *runningvariance.RunningStat
	smoothed float64
}

// NewScorer returns a scorer with no history.
func NewScorer(params Params) *Scorer {
	return &Scorer{
		params: params,
		amp:    runningvariance.NewRunningStat(),
	}
}

// Score folds one tick's observations into the smoothed confidence and
// returns it. It reports 0 whenever the finger is absent, regardless of
// stale buffered peaks.
func (s *Scorer) Score(signalRange float64, peakCount int, rrIntervals []float64, fingerPresent bool) float64 {
	if !fingerPresent {
		s.smoothed = 0
		return 0
	}

	s.amp.Push(signalRange)

	ampScore := weightAmplitude * clamp01(signalRange/s.params.ExpectedRange)
	rateScore := weightPeakRate * clamp01(float64(peakCount)/float64(s.params.ExpectedPeakCount))

	var regScore float64
	if len(rrIntervals) >= s.params.MinRRForHRV {
		mean, errM := stats.Mean(rrIntervals)
		sd, errS := stats.StandardDeviation(rrIntervals)
		if errM == nil && errS == nil && mean > 0 {
			cv := sd / mean
			regScore = weightRegularity * clamp01(1-cv/s.params.CVCeiling)
		}
	}

	instant := ampScore + rateScore + regScore

	// Motion artifact: a range more than three session standard deviations
	// from the session mean is treated as movement and halves the tick.
	if s.amp.N >= 30 {
		if sd := s.amp.StandardDeviation(); sd > 0 {
			dev := signalRange - s.amp.Mean()
			if dev < 0 {
				dev = -dev
			}
			if dev > 3*sd {
				instant *= 0.5
			}
		}
	}

	if s.smoothed == 0 {
		s.smoothed = instant
	} else {
		s.smoothed = s.smoothed*s.params.QualityAlpha + instant*(1-s.params.QualityAlpha)
	}

	return s.smoothed
}

// Smoothed returns the current confidence without updating it.
func (s *Scorer) Smoothed() float64 {
	return s.smoothed
}

// Reset drops the smoothed value and the session amplitude statistics.
func (s *Scorer) Reset() {
	s.amp = runningvariance.NewRunningStat()
	s.smoothed = 0
}

func (s *Scorer) configure(params Params) {
	s.params = params
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
