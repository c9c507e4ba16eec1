package ppg

import (
	"math"

	"github.com/carbocation/pfx"
)

// Pipeline owns every stateful piece of the estimator and wires them in
// one direction: ingest guard -> band-pass -> peak detector -> RR/BPM
// aggregator -> confidence scorer. One Output is emitted per ingested
// sample. A single Reset reinitializes every field, so no partial-reset
// state can survive a session boundary.
//
// The pipeline is single-stream and not safe for concurrent use; a capture
// thread should hand samples over via its own queue.
type Pipeline struct {
	params Params

	filter   *BandPass
	detector *PeakDetector
	agg      *Aggregator
	scorer   *Scorer

	lastTS uint64
	hasTS  bool

	fingerDown bool

	diag Diagnostics
}

// NewPipeline validates params and builds a pipeline in the searching
// state.
func NewPipeline(params Params) (*Pipeline, error) {
	if err := params.Validate(); err != nil {
		return nil, pfx.Err(err)
	}

	filter, err := NewBandPass(params.HighPassHz, params.LowPassHz, params.SampleRateHz)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return &Pipeline{
		params:   params,
		filter:   filter,
		detector: NewPeakDetector(params),
		agg:      NewAggregator(params),
		scorer:   NewScorer(params),
	}, nil
}

// Process ingests one sample and returns the pipeline's view after it.
// Non-finite values and non-increasing timestamps are dropped at this
// boundary and counted; they never reach the filter. A sample without
// finger presence decays the displayed BPM and zeroes the confidence.
func (p *Pipeline) Process(s Sample) Output {
	if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
		p.diag.DroppedNonFinite++
		return p.snapshot(s.TimestampMS, 0, false)
	}

	if p.hasTS && s.TimestampMS <= p.lastTS {
		p.diag.DroppedStaleTS++
		return p.snapshot(s.TimestampMS, 0, false)
	}
	p.lastTS = s.TimestampMS
	p.hasTS = true
	p.diag.Ingested++

	if !s.FingerPresent {
		p.diag.NoFingerTicks++

		if p.fingerDown {
			// Transition to searching: the next contact starts cold.
			p.fingerDown = false
			p.filter.Reset()
			p.detector.Reset()
			p.agg.ClearHistory()
		}

		p.agg.Decay()
		p.scorer.Score(0, 0, nil, false)

		return p.snapshot(s.TimestampMS, 0, false)
	}

	p.fingerDown = true

	filtered := p.filter.Filter(s.Value)

	pk, isPeak := p.detector.Process(FilteredSample{
		Raw:         s.Value,
		Filtered:    filtered,
		TimestampMS: s.TimestampMS,
	})

	if isPeak {
		p.agg.AddPeak(pk)
		p.agg.Estimate(s.TimestampMS)
	}

	p.scorer.Score(p.detector.SignalRange(), p.detector.PeakCount(), p.agg.RRIntervals(), true)

	return p.snapshot(s.TimestampMS, filtered, isPeak)
}

// snapshot assembles the externally consumed record from current state.
func (p *Pipeline) snapshot(tsMS uint64, filtered float64, isPeak bool) Output {
	return Output{
		TimestampMS:   tsMS,
		FilteredValue: filtered,
		IsPeak:        isPeak,
		BPM:           uint32(math.Round(p.agg.Smoothed())),
		Confidence:    p.scorer.Smoothed(),
		RRIntervalsMS: p.agg.RRIntervals(),
		HRV:           p.agg.HRV(),
		Tracking:      p.detector.Tracking(),
	}
}

// Reset clears filter memory, peak history, RR history, smoothed BPM and
// confidence, and the ingest bookkeeping, synchronously and atomically
// from the caller's perspective. Resetting a fresh pipeline is a no-op.
func (p *Pipeline) Reset() {
	p.filter.Reset()
	p.detector.Reset()
	p.agg.Reset()
	p.scorer.Reset()
	p.lastTS = 0
	p.hasTS = false
	p.fingerDown = false
	p.diag = Diagnostics{}
}

// Configure applies new tuning without re-instantiating the pipeline.
// Running state survives except where shapes changed: a new band or
// sample rate rebuilds (and thereby clears) the filter, and a smaller
// window or history capacity evicts oldest entries.
func (p *Pipeline) Configure(params Params) error {
	if err := params.Validate(); err != nil {
		return pfx.Err(err)
	}

	if params.HighPassHz != p.params.HighPassHz ||
		params.LowPassHz != p.params.LowPassHz ||
		params.SampleRateHz != p.params.SampleRateHz {
		filter, err := NewBandPass(params.HighPassHz, params.LowPassHz, params.SampleRateHz)
		if err != nil {
			return pfx.Err(err)
		}
		p.filter = filter
	}

	p.detector.configure(params)
	p.agg.configure(params)
	p.scorer.configure(params)
	p.params = params

	return nil
}

// Params returns the active tuning.
func (p *Pipeline) Params() Params {
	return p.params
}

// Diagnostics returns the ingest-boundary counters.
func (p *Pipeline) Diagnostics() Diagnostics {
	return p.diag
}
