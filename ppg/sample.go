package ppg

// Sample is one scalar reading from the frame source. Value is the mean
// color-channel intensity of the fingertip region for one camera frame.
type Sample struct {
	Value         float64
	TimestampMS   uint64
	FingerPresent bool
}

// FilteredSample pairs a raw sample with its band-passed value.
type FilteredSample struct {
	Raw         float64
	Filtered    float64
	TimestampMS uint64
}

// Peak is a local maximum of the filtered signal that passed all gating
// rules. Never mutated after creation.
type Peak struct {
	TimestampMS uint64
	Amplitude   float64
	Prominence  float64
}

// BPMEstimate is the aggregator's view of the current heart rate. Smoothed
// is an exponential blend of Raw with the previous Smoothed value, so it
// stays continuous across frames.
type BPMEstimate struct {
	Raw         float64
	Smoothed    float64
	Confidence  float64
	TimestampMS uint64
}

// HRVStats summarizes the spread of the current RR-interval buffer. All
// fields are zero when fewer than the minimum number of intervals exist.
type HRVStats struct {
	MeanMS  float64
	SDMS    float64
	CV      float64
	RMSSDMS float64
}

// Output is emitted once per ingested sample.
type Output struct {
	TimestampMS   uint64
	FilteredValue float64
	IsPeak        bool
	BPM           uint32
	Confidence    float64 // 0-100
	RRIntervalsMS []float64
	HRV           HRVStats
	Tracking      bool
}

// Diagnostics counts samples dropped at the ingest boundary. Dropped
// samples never reach the filter.
type Diagnostics struct {
	Ingested         uint64
	DroppedNonFinite uint64
	DroppedStaleTS   uint64
	NoFingerTicks    uint64
}
