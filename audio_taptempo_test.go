// audio_taptempo_test.go - Tap tempo estimator tests

package main

import (
	"math"
	"testing"
	"time"
)

// tapSequence feeds intervals (in seconds) after an initial anchor tap and
// returns the final estimate state.
func tapSequence(t *testing.T, tap *TapTempo, intervals []float64) (float64, bool) {
	t.Helper()

	now := time.Unix(1000, 0)
	bpm, ok := tap.TapAt(now)
	if ok {
		t.Fatalf("anchor tap produced an estimate: %v BPM", bpm)
	}

	for _, iv := range intervals {
		now = now.Add(time.Duration(iv * float64(time.Second)))
		bpm, ok = tap.TapAt(now)
	}
	return bpm, ok
}

func TestTapTempo_SteadyTaps(t *testing.T) {
	bpm, ok := tapSequence(t, NewTapTempo(), []float64{0.5, 0.5, 0.5})
	if !ok {
		t.Fatal("expected an estimate after three accepted intervals")
	}
	if math.Abs(bpm-120.0) > 1e-6 {
		t.Errorf("got %v BPM, want 120", bpm)
	}
}

func TestTapTempo_OutlierResets(t *testing.T) {
	cases := []struct {
		name      string
		intervals []float64
	}{
		{"long pause", []float64{0.5, 0.5, 2.0}},
		{"sudden rush", []float64{0.5, 0.5, 0.2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bpm, ok := tapSequence(t, NewTapTempo(), tc.intervals)
			if ok {
				t.Errorf("expected reset (no estimate), got %v BPM", bpm)
			}
		})
	}
}

func TestTapTempo_RecoversAfterReset(t *testing.T) {
	tap := NewTapTempo()

	// 2.0 resets; the two 0.4s intervals after it re-accumulate from the
	// reset tap's timestamp.
	bpm, ok := tapSequence(t, tap, []float64{0.5, 0.5, 2.0, 0.4, 0.4})
	if !ok {
		t.Fatal("expected an estimate after re-accumulation")
	}
	if math.Abs(bpm-150.0) > 1e-6 {
		t.Errorf("got %v BPM, want 150", bpm)
	}
}

func TestTapTempo_FirstTapHasNoEstimate(t *testing.T) {
	tap := NewTapTempo()
	if bpm, ok := tap.TapAt(time.Unix(1000, 0)); ok {
		t.Errorf("first tap produced an estimate: %v BPM", bpm)
	}
}

func TestTapTempo_GeometricMean(t *testing.T) {
	// 0.4 and 0.6 are within a factor of two of each other; the estimate is
	// 60/sqrt(0.24).
	bpm, ok := tapSequence(t, NewTapTempo(), []float64{0.4, 0.6})
	if !ok {
		t.Fatal("expected an estimate")
	}
	want := 60.0 / math.Sqrt(0.4*0.6)
	if math.Abs(bpm-want) > 1e-6 {
		t.Errorf("got %v BPM, want %v", bpm, want)
	}
}

func TestTapTempo_BoundaryRatioAccepted(t *testing.T) {
	// Exactly double the previous interval sits on the gate boundary and is
	// still accepted.
	_, ok := tapSequence(t, NewTapTempo(), []float64{0.5, 1.0})
	if !ok {
		t.Error("interval at exactly 2x should be accepted")
	}
}

func TestTapTempo_Reset(t *testing.T) {
	tap := NewTapTempo()
	if _, ok := tapSequence(t, tap, []float64{0.5, 0.5}); !ok {
		t.Fatal("expected an estimate before Reset")
	}

	tap.Reset()
	if bpm, ok := tap.TapAt(time.Unix(2000, 0)); ok {
		t.Errorf("tap after Reset produced an estimate: %v BPM", bpm)
	}
}
