package ppg

// localWindow is the odd-length neighborhood for the local-maximum test.
// The candidate is its center, so detection lags the signal by three
// samples (~100 ms at 30 Hz).
const localWindow = 7

// PeakDetector finds local maxima of the filtered signal consistent with a
// heartbeat. It is implicitly a two-state machine: "searching" until the
// window holds MinTrackingSamples, then "tracking". Reset returns it to
// searching with cold buffers.
type PeakDetector struct {
	params Params
	win    *Window

	lastPeakTS  uint64
	hasLastPeak bool

	peaks []Peak
}

// NewPeakDetector returns a detector in the searching state. The params
// are assumed validated by the pipeline.
func NewPeakDetector(params Params) *PeakDetector {
	return &PeakDetector{
		params: params,
		win:    NewWindow(params.WindowCapacity),
		peaks:  make([]Peak, 0, params.PeakHistory),
	}
}

// Process buffers one filtered sample and reports the accepted peak, if
// any. A candidate must, in order: be a strict local maximum against the
// three preceding samples and >= the three following (the asymmetric
// tie-break favors the earlier sample of a flat top), sit on a window with
// at least RangeFloor of spread, clear the adaptive amplitude threshold,
// fall outside the refractory interval of the last accepted peak, and
// rise at least range*p above the lower window edge.
func (d *PeakDetector) Process(s FilteredSample) (Peak, bool) {
	d.win.Push(s)

	if d.win.Len() < d.params.MinTrackingSamples || d.win.Len() < localWindow {
		return Peak{}, false
	}

	local := d.win.Recent(localWindow)
	center := local[localWindow/2]

	for i := 0; i < localWindow/2; i++ {
		if center.Filtered <= local[i].Filtered {
			return Peak{}, false
		}
	}
	for i := localWindow/2 + 1; i < localWindow; i++ {
		if center.Filtered < local[i].Filtered {
			return Peak{}, false
		}
	}

	min, max := d.win.Range(d.params.ThresholdLookback)
	rng := max - min

	// A flat or noise-only signal has no pulsatile component to find.
	if rng < d.params.RangeFloor {
		return Peak{}, false
	}

	if center.Filtered < min+rng*d.params.ThresholdFraction {
		return Peak{}, false
	}

	if d.hasLastPeak {
		if float64(center.TimestampMS-d.lastPeakTS) < d.params.RefractoryMS {
			return Peak{}, false
		}
	}

	edge := local[0].Filtered
	if local[localWindow-1].Filtered < edge {
		edge = local[localWindow-1].Filtered
	}
	prominence := center.Filtered - edge
	if prominence <= rng*d.params.ProminenceFraction {
		return Peak{}, false
	}

	pk := Peak{
		TimestampMS: center.TimestampMS,
		Amplitude:   center.Filtered,
		Prominence:  prominence,
	}

	d.peaks = append(d.peaks, pk)
	if len(d.peaks) > d.params.PeakHistory {
		d.peaks = d.peaks[1:]
	}

	d.lastPeakTS = pk.TimestampMS
	d.hasLastPeak = true

	return pk, true
}

// Tracking reports whether enough samples are buffered for detection.
func (d *PeakDetector) Tracking() bool {
	return d.win.Len() >= d.params.MinTrackingSamples && d.win.Len() >= localWindow
}

// PeakCount returns the number of peaks in the bounded history.
func (d *PeakDetector) PeakCount() int {
	return len(d.peaks)
}

// SignalRange returns the min-to-max spread of the threshold lookback.
func (d *PeakDetector) SignalRange() float64 {
	min, max := d.win.Range(d.params.ThresholdLookback)
	return max - min
}

// Reset transitions back to searching: the window, the peak history, and
// the refractory timer all clear, so detection starts cold when samples
// return.
func (d *PeakDetector) Reset() {
	d.win.Reset()
	d.peaks = d.peaks[:0]
	d.lastPeakTS = 0
	d.hasLastPeak = false
}

// configure swaps tuning in place. Buffers are rebuilt only when their
// capacities changed.
func (d *PeakDetector) configure(params Params) {
	rebuildWindow := params.WindowCapacity != d.params.WindowCapacity

	d.params = params

	if rebuildWindow {
		d.win = NewWindow(params.WindowCapacity)
	}
	for len(d.peaks) > d.params.PeakHistory {
		d.peaks = d.peaks[1:]
	}
}
