package ppg

import (
	"math"
	"math/rand"
	"testing"
)

func TestBandPassRejectsInvalidCorners(t *testing.T) {
	if _, err := NewBandPass(0.5, 20, 30); err == nil {
		t.Fatal("expected error for low-pass corner above Nyquist-safe range")
	}
	if _, err := NewBandPass(0.00001, 4, 30); err == nil {
		t.Fatal("expected error for high-pass corner below the filter's wc floor")
	}
}

func TestBandPassRemovesDC(t *testing.T) {
	bp, err := NewBandPass(0.5, 4, 30)
	if err != nil {
		t.Fatal(err)
	}

	var out float64
	for i := 0; i < 300; i++ {
		out = bp.Filter(5.0)
	}

	if math.Abs(out) > 1e-6 {
		t.Fatalf("constant input should settle to zero, got %g after 300 samples", out)
	}
}

func TestBandPassStaysFinite(t *testing.T) {
	bp, err := NewBandPass(0.5, 4, 30)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10000; i++ {
		out := bp.Filter(rng.NormFloat64() * 1e6)
		if math.IsNaN(out) || math.IsInf(out, 0) {
			t.Fatalf("non-finite output at sample %d: %g", i, out)
		}
	}
}

func TestBandPassDeterministic(t *testing.T) {
	a, err := NewBandPass(0.5, 4, 30)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewBandPass(0.5, 4, 30)
	if err != nil {
		t.Fatal(err)
	}

	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 1000; i++ {
		v := rng.NormFloat64()
		if outA, outB := a.Filter(v), b.Filter(v); outA != outB {
			t.Fatalf("sample %d: identical inputs diverged, %g vs %g", i, outA, outB)
		}
	}
}

func TestBandPassResetClearsTransient(t *testing.T) {
	dirty, err := NewBandPass(0.5, 4, 30)
	if err != nil {
		t.Fatal(err)
	}
	fresh, err := NewBandPass(0.5, 4, 30)
	if err != nil {
		t.Fatal(err)
	}

	// Drive the first filter hard, then reset it. It must behave exactly
	// like a fresh filter afterwards.
	for i := 0; i < 100; i++ {
		dirty.Filter(1e3)
	}
	dirty.Reset()

	rng := rand.New(rand.NewSource(13))
	for i := 0; i < 500; i++ {
		v := rng.NormFloat64()
		if outDirty, outFresh := dirty.Filter(v), fresh.Filter(v); outDirty != outFresh {
			t.Fatalf("sample %d after Reset: %g vs fresh %g", i, outDirty, outFresh)
		}
	}
}
