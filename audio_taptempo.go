// audio_taptempo.go - Tap tempo estimation from inter-tap intervals

package main

import (
	"math"
	"time"
)

// Factor by which a new inter-tap interval may differ from the last accepted
// one before the estimator treats it as a tempo reset rather than jitter.
const TAP_OUTLIER_FACTOR = 2.0

// TapTempo infers a tempo from a sequence of tap timestamps. It keeps the
// accepted inter-tap intervals and reports the geometric mean as BPM;
// an interval more than a factor of two away from the last accepted one
// clears the sequence and restarts accumulation from that tap.
//
// The estimator knows nothing about audio. It is not safe for concurrent use.
type TapTempo struct {
	intervals []float64
	last      time.Time
}

func NewTapTempo() *TapTempo {
	return &TapTempo{}
}

// Tap records a tap at the current wall-clock time.
func (t *TapTempo) Tap() (float64, bool) {
	return t.TapAt(time.Now())
}

// TapAt records a tap at the given time and returns the tempo estimate in
// BPM. The second return is false while there is no estimate: on the first
// tap after construction or after an outlier reset.
func (t *TapTempo) TapAt(now time.Time) (float64, bool) {
	if t.last.IsZero() {
		t.last = now
		return 0, false
	}

	interval := now.Sub(t.last).Seconds()
	t.last = now

	if n := len(t.intervals); n > 0 {
		prev := t.intervals[n-1]
		if prev < interval/TAP_OUTLIER_FACTOR || prev > interval*TAP_OUTLIER_FACTOR {
			t.intervals = t.intervals[:0]
			return 0, false
		}
	}

	t.intervals = append(t.intervals, interval)
	return 60.0 / geometricMean(t.intervals), true
}

// Reset discards all accepted intervals and the last-tap anchor.
func (t *TapTempo) Reset() {
	t.intervals = t.intervals[:0]
	t.last = time.Time{}
}

// geometricMean of a non-empty slice. Computed in log space; tap intervals
// compose multiplicatively and a running product underflows for long runs.
func geometricMean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += math.Log(v)
	}
	return math.Exp(sum / float64(len(values)))
}
