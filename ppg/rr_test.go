package ppg

import (
	"math"
	"testing"
)

// addIntervals feeds peaks spaced by the given intervals, starting at ts.
func addIntervals(a *Aggregator, startMS uint64, intervalsMS ...float64) {
	ts := startMS
	a.AddPeak(Peak{TimestampMS: ts})
	for _, iv := range intervalsMS {
		ts += uint64(iv)
		a.AddPeak(Peak{TimestampMS: ts})
	}
}

func TestAggregatorDiscardsImplausibleIntervals(t *testing.T) {
	for _, tc := range []struct {
		intervals []float64
		kept      int
	}{
		{[]float64{833, 833, 833}, 3},
		// All below the lower bound.
		{[]float64{100, 200, 299}, 0},
		// All above the upper bound.
		{[]float64{2500, 3000}, 0},
		// Mixed plausible and implausible.
		{[]float64{833, 2500, 850, 120}, 2},
		// Bounds are inclusive.
		{[]float64{300, 2000}, 2},
	} {
		a := NewAggregator(DefaultParams())
		addIntervals(a, 0, tc.intervals...)

		rr := a.RRIntervals()
		if len(rr) != tc.kept {
			t.Fatalf("intervals %v: kept %d, expected %d (%v)", tc.intervals, len(rr), tc.kept, rr)
		}
		for _, iv := range rr {
			if iv < 300 || iv > 2000 {
				t.Fatalf("out-of-bounds interval %f ms survived filtering", iv)
			}
		}
	}
}

func TestAggregatorMedianBPM(t *testing.T) {
	a := NewAggregator(DefaultParams())

	// The 1800 ms outlier (a missed beat) must not drag the median.
	addIntervals(a, 0, 800, 850, 900, 1800)

	est := a.Estimate(5000)
	expected := 60000.0 / 875.0 // median of {800, 850, 900, 1800}
	if math.Abs(est.Raw-expected) > 0.01 {
		t.Fatalf("raw BPM: got %f, expected %f", est.Raw, expected)
	}
}

func TestAggregatorInsufficientData(t *testing.T) {
	a := NewAggregator(DefaultParams())

	if est := a.Estimate(0); est.Raw != 0 || est.Smoothed != 0 {
		t.Fatalf("empty aggregator reported %+v", est)
	}

	addIntervals(a, 0, 833) // one interval, below MinRRForBPM
	if est := a.Estimate(1000); est.Raw != 0 || est.Smoothed != 0 {
		t.Fatalf("single interval reported %+v", est)
	}

	if hrv := a.HRV(); hrv != (HRVStats{}) {
		t.Fatalf("HRV below minimum interval count: %+v", hrv)
	}
}

func TestAggregatorSmoothingContinuity(t *testing.T) {
	params := DefaultParams()
	a := NewAggregator(params)

	addIntervals(a, 0, 833, 833, 833)
	first := a.Estimate(3000)
	if first.Smoothed != first.Raw {
		t.Fatalf("first estimate should seed smoothing: raw %f, smoothed %f", first.Raw, first.Smoothed)
	}

	// A faster raw value moves the smoothed one only by (1-alpha).
	addIntervals(a, 10000, 600, 600, 600, 600, 600, 600, 600, 600, 600, 600, 600, 600)
	second := a.Estimate(20000)

	expected := first.Smoothed*params.BPMAlpha + second.Raw*(1-params.BPMAlpha)
	if math.Abs(second.Smoothed-expected) > 0.01 {
		t.Fatalf("smoothed: got %f, expected %f", second.Smoothed, expected)
	}
}

func TestAggregatorDecayReachesExactlyZero(t *testing.T) {
	a := NewAggregator(DefaultParams())
	addIntervals(a, 0, 833, 833, 833)
	a.Estimate(3000)

	prev := a.Smoothed()
	if prev == 0 {
		t.Fatal("expected a nonzero smoothed BPM before decay")
	}

	reachedZero := false
	for i := 0; i < 300; i++ {
		a.Decay()
		cur := a.Smoothed()
		if cur > prev {
			t.Fatalf("decay increased the estimate: %f -> %f", prev, cur)
		}
		prev = cur
		if cur == 0 {
			reachedZero = true
			break
		}
	}

	if !reachedZero {
		t.Fatalf("smoothed BPM never reached zero, stuck at %f", prev)
	}

	a.Decay()
	if a.Smoothed() != 0 {
		t.Fatal("decay moved the estimate off zero")
	}
}

func TestAggregatorReseedAfterHistoryClear(t *testing.T) {
	a := NewAggregator(DefaultParams())

	addIntervals(a, 0, 833, 833, 833)
	a.Estimate(3000)

	a.ClearHistory()
	if got := a.RRIntervals(); got != nil {
		t.Fatalf("RR history survived ClearHistory: %v", got)
	}

	// Partial decay, then a new session at 90 BPM.
	for i := 0; i < 30; i++ {
		a.Decay()
	}
	addIntervals(a, 60000, 667, 667)

	est := a.Estimate(62000)
	if est.Smoothed != est.Raw {
		t.Fatalf("post-gap estimate should re-seed, got raw %f smoothed %f", est.Raw, est.Smoothed)
	}
	if math.Abs(est.Raw-60000.0/667.0) > 0.01 {
		t.Fatalf("post-gap raw BPM: got %f", est.Raw)
	}
}

func TestAggregatorHRV(t *testing.T) {
	a := NewAggregator(DefaultParams())
	addIntervals(a, 0, 800, 900, 1000)

	hrv := a.HRV()
	if math.Abs(hrv.MeanMS-900) > 1e-9 {
		t.Fatalf("HRV mean: got %f, expected 900", hrv.MeanMS)
	}
	if hrv.SDMS <= 0 || hrv.CV <= 0 {
		t.Fatalf("HRV spread should be positive: %+v", hrv)
	}
	if math.Abs(hrv.CV-hrv.SDMS/hrv.MeanMS) > 1e-12 {
		t.Fatalf("CV inconsistent with SD/mean: %+v", hrv)
	}
	if math.Abs(hrv.RMSSDMS-100) > 1e-9 {
		t.Fatalf("RMSSD: got %f, expected 100", hrv.RMSSDMS)
	}
}
