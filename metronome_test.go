// metronome_test.go - Click schedule, parameter clamping and bar rendering tests

package main

import (
	"math"
	"testing"
)

func newTestMetronome(t *testing.T, sampleRate int) *Metronome {
	t.Helper()
	return NewMetronome(newTestMixer(t, sampleRate, 1))
}

func TestMetronome_Schedule(t *testing.T) {
	m := newTestMetronome(t, 48000)

	// Defaults: 120 BPM, 4 beats, quarter notes.
	playbacks, err := m.schedule()
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(playbacks) != 4 {
		t.Fatalf("got %d playbacks, want 4", len(playbacks))
	}

	// 48000 * 60 * 4 / 120 / 4 = 24000 samples between clicks.
	wantStarts := []uint64{0, 24000, 48000, 72000}
	for i, p := range playbacks {
		if p.start != wantStarts[i] {
			t.Errorf("playback %d start = %d, want %d", i, p.start, wantStarts[i])
		}
		if p.period != 96000 {
			t.Errorf("playback %d period = %d, want 96000", i, p.period)
		}
		if p.count != RepeatForever {
			t.Errorf("playback %d count = %d, want RepeatForever", i, p.count)
		}
	}
}

func TestMetronome_AccentPattern(t *testing.T) {
	m := newTestMetronome(t, 48000)
	if err := m.SetBeats(4); err != nil {
		t.Fatal(err)
	}

	playbacks, err := m.schedule()
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	// Downbeat high, odd beats low, remaining even beats mid. Asset
	// identity is enough; the clicks share no backing arrays.
	wantAssets := [][]float32{m.hi, m.lo, m.mid, m.lo}
	for i, p := range playbacks {
		if &p.samples[0] != &wantAssets[i][0] {
			t.Errorf("beat %d has wrong click asset", i)
		}
	}
}

func TestMetronome_TempoClamped(t *testing.T) {
	m := newTestMetronome(t, 48000)

	if err := m.SetTempo(1000); err != nil {
		t.Fatal(err)
	}
	if m.Tempo() != MAX_BPM {
		t.Errorf("tempo = %v, want %v", m.Tempo(), MAX_BPM)
	}

	if err := m.SetTempo(1); err != nil {
		t.Fatal(err)
	}
	if m.Tempo() != MIN_BPM {
		t.Errorf("tempo = %v, want %v", m.Tempo(), MIN_BPM)
	}
}

func TestMetronome_BeatsClamped(t *testing.T) {
	m := newTestMetronome(t, 48000)

	if err := m.SetBeats(40); err != nil {
		t.Fatal(err)
	}
	if m.Beats() != MAX_BEATS {
		t.Errorf("beats = %d, want %d", m.Beats(), MAX_BEATS)
	}

	if err := m.SetBeats(-1); err != nil {
		t.Fatal(err)
	}
	if m.Beats() != MIN_BEATS {
		t.Errorf("beats = %d, want %d", m.Beats(), MIN_BEATS)
	}
}

func TestMetronome_SubdivisionSnapsToNearest(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{4, 4},
		{8, 8},
		{6, 4}, // equidistant, earlier entry wins
		{10, 8},
		{0, 4},
		{100, 32},
	}

	for _, tc := range cases {
		m := newTestMetronome(t, 48000)
		if err := m.SetSubdivision(tc.in); err != nil {
			t.Fatal(err)
		}
		if m.Subdivision() != tc.want {
			t.Errorf("SetSubdivision(%d): got %d, want %d", tc.in, m.Subdivision(), tc.want)
		}
	}
}

func TestMetronome_VolumeClamped(t *testing.T) {
	m := newTestMetronome(t, 48000)

	if err := m.SetVolumeDB(100); err != nil {
		t.Fatal(err)
	}
	if m.VolumeDB() != MAX_VOLUME_DB {
		t.Errorf("volume = %v, want %v", m.VolumeDB(), MAX_VOLUME_DB)
	}

	if err := m.SetVolumeDB(-100); err != nil {
		t.Fatal(err)
	}
	if m.VolumeDB() != MIN_VOLUME_DB {
		t.Errorf("volume = %v, want %v", m.VolumeDB(), MIN_VOLUME_DB)
	}
}

func TestMetronome_FirstTapIsAnchorOnly(t *testing.T) {
	m := newTestMetronome(t, 48000)

	bpm, ok, err := m.Tap()
	if err != nil {
		t.Fatal(err)
	}
	if ok || bpm != 0 {
		t.Errorf("first tap: got (%v, %v), want (0, false)", bpm, ok)
	}
	if m.Tempo() != 120.0 {
		t.Errorf("tempo changed by anchor tap: %v", m.Tempo())
	}
}

func TestMetronome_ZeroBeatsSilencesMixer(t *testing.T) {
	m := newTestMetronome(t, 48000)

	if err := m.Apply(); err != nil {
		t.Fatal(err)
	}
	if err := m.SetBeats(0); err != nil {
		t.Fatal(err)
	}

	out := make([]float32, 1024)
	m.mixer.ReadFrames(out)

	assertBuffer(t, out, make([]float32, 1024))
	if n := m.mixer.ActivePlaybacks(); n != 0 {
		t.Errorf("active playbacks = %d, want 0", n)
	}
}

func TestMetronome_RendersBar(t *testing.T) {
	// Low rate keeps the bar small: 8000 * 60 * 4 / 120 / 4 = 4000
	// samples between clicks, 800-sample clicks, two beats per bar.
	m := newTestMetronome(t, 8000)
	if err := m.SetBeats(2); err != nil {
		t.Fatal(err)
	}

	out := make([]float32, 8000)
	m.mixer.ReadFrames(out)

	clickLen := len(m.hi)
	if clickLen != 800 {
		t.Fatalf("click length = %d, want 800", clickLen)
	}

	// Sample 0 of every click is sin(0) = 0; sample 1 is the first
	// audible one.
	if want := float32(math.Tanh(float64(m.hi[1]))); out[1] != want {
		t.Errorf("downbeat sample = %v, want %v", out[1], want)
	}
	if want := float32(math.Tanh(float64(m.lo[1]))); out[4001] != want {
		t.Errorf("second beat sample = %v, want %v", out[4001], want)
	}

	for _, i := range []int{800, 2000, 3999, 4800, 6000, 7999} {
		if out[i] != 0 {
			t.Errorf("out[%d] = %v, want silence between clicks", i, out[i])
		}
	}
}
