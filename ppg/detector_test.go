package ppg

import (
	"math"
	"math/rand"
	"testing"
)

// feedSine pushes n sinusoid samples at the given rate straight into the
// detector and returns every accepted peak.
func feedSine(d *PeakDetector, bpm, amplitude, fs float64, n int, startMS float64) []Peak {
	var peaks []Peak
	stepMS := 1000.0 / fs

	for i := 0; i < n; i++ {
		phase := bpm / 60.0 * float64(i) / fs
		v := amplitude * math.Sin(2*math.Pi*phase)

		pk, ok := d.Process(FilteredSample{
			Raw:         v,
			Filtered:    v,
			TimestampMS: uint64(math.Round(startMS + float64(i)*stepMS)),
		})
		if ok {
			peaks = append(peaks, pk)
		}
	}

	return peaks
}

func TestDetectorRejectsFlatSignal(t *testing.T) {
	d := NewPeakDetector(DefaultParams())

	for i := 0; i < 300; i++ {
		if _, ok := d.Process(FilteredSample{Filtered: 0.42, TimestampMS: uint64(i) * 33}); ok {
			t.Fatalf("flat signal produced a peak at sample %d", i)
		}
	}
}

func TestDetectorRejectsBelowRangeFloor(t *testing.T) {
	d := NewPeakDetector(DefaultParams())

	// Amplitude 0.005 gives a 0.01 range, below the 0.02 floor.
	if peaks := feedSine(d, 72, 0.005, 30, 300, 0); len(peaks) != 0 {
		t.Fatalf("sub-floor signal produced %d peaks", len(peaks))
	}
}

func TestDetectorSinePeriodicity(t *testing.T) {
	for _, bpm := range []float64{60, 72, 90, 120} {
		d := NewPeakDetector(DefaultParams())
		peaks := feedSine(d, bpm, 0.1, 30, 300, 0)

		if len(peaks) < 5 {
			t.Fatalf("%1.0f BPM: only %d peaks in 10 s", bpm, len(peaks))
		}

		expected := 60000.0 / bpm
		tolerance := 1000.0/30.0 + 1 // one sample, plus timestamp rounding

		for i := 1; i < len(peaks); i++ {
			interval := float64(peaks[i].TimestampMS - peaks[i-1].TimestampMS)
			if math.Abs(interval-expected) > tolerance {
				t.Fatalf("%1.0f BPM: interval %f ms departs from %f by more than %f",
					bpm, interval, expected, tolerance)
			}
		}
	}
}

func TestDetectorRefractoryInvariant(t *testing.T) {
	params := DefaultParams()
	d := NewPeakDetector(params)

	// A noisy random walk tries hard to trigger double counting.
	rng := rand.New(rand.NewSource(3))
	value := 0.0
	var last uint64
	var have bool

	for i := 0; i < 5000; i++ {
		value += rng.NormFloat64() * 0.05

		pk, ok := d.Process(FilteredSample{Filtered: value, TimestampMS: uint64(i) * 33})
		if !ok {
			continue
		}

		if have {
			if spacing := float64(pk.TimestampMS - last); spacing < params.RefractoryMS {
				t.Fatalf("peaks %d ms apart, refractory is %f ms", int(spacing), params.RefractoryMS)
			}
		}
		last = pk.TimestampMS
		have = true
	}
}

func TestDetectorColdStartAfterReset(t *testing.T) {
	params := DefaultParams()
	d := NewPeakDetector(params)

	feedSine(d, 72, 0.1, 30, 300, 0)
	if d.PeakCount() == 0 {
		t.Fatal("expected peaks before reset")
	}

	d.Reset()

	if d.PeakCount() != 0 {
		t.Fatalf("peak history survived Reset: %d", d.PeakCount())
	}
	if d.Tracking() {
		t.Fatal("detector still tracking after Reset")
	}

	// No detection may happen until the buffer refills.
	stepMS := 1000.0 / 30.0
	for i := 0; i < params.MinTrackingSamples-1; i++ {
		phase := 72.0 / 60.0 * float64(i) / 30.0
		v := 0.1 * math.Sin(2*math.Pi*phase)
		if _, ok := d.Process(FilteredSample{Filtered: v, TimestampMS: uint64(20000 + float64(i)*stepMS)}); ok {
			t.Fatalf("detection at sample %d while buffer below minimum", i)
		}
	}
}
