// metronome.go - Click scheduling: tempo/beats/subdivision to playback set

package main

import (
	"time"
)

const (
	CLICK_DURATION = 100 * time.Millisecond

	// Accent frequencies: A5 downbeat, E5 even beats, A4 odd beats.
	CLICK_FREQ_HI  = 880.0
	CLICK_FREQ_MID = 659.25
	CLICK_FREQ_LO  = 440.0

	MIN_BPM = 30.0
	MAX_BPM = 400.0

	MIN_BEATS = 0
	MAX_BEATS = 32

	MIN_VOLUME_DB = -36.0
	MAX_VOLUME_DB = 36.0
)

// Subdivisions selectable from the control surface, as note values
// (4 = quarter notes, 8 = eighths, ...).
var SUBDIVISIONS = []int{4, 8, 16, 32}

// Metronome is the configuration layer in front of the mixer. It holds the
// user-facing parameters, precomputes the three click assets once, and on
// every change replaces the mixer's whole playback set: one unbounded
// playback per beat, offset within the bar, repeating with the bar period.
//
// Runs entirely on the control context; everything it hands the mixer goes
// through the command queue.
type Metronome struct {
	mixer *Mixer
	tap   *TapTempo

	hi  []float32
	mid []float32
	lo  []float32

	bpm         float64
	beats       int
	subdivision int
	volumeDB    float64
}

func NewMetronome(mixer *Mixer) *Metronome {
	sr := mixer.SampleRate()
	return &Metronome{
		mixer:       mixer,
		tap:         NewTapTempo(),
		hi:          GenerateClick(sr, CLICK_DURATION, CLICK_FREQ_HI, 1.0),
		mid:         GenerateClick(sr, CLICK_DURATION, CLICK_FREQ_MID, 1.0),
		lo:          GenerateClick(sr, CLICK_DURATION, CLICK_FREQ_LO, 1.0),
		bpm:         120.0,
		beats:       4,
		subdivision: 4,
		volumeDB:    0.0,
	}
}

func (m *Metronome) Tempo() float64    { return m.bpm }
func (m *Metronome) Beats() int        { return m.beats }
func (m *Metronome) Subdivision() int  { return m.subdivision }
func (m *Metronome) VolumeDB() float64 { return m.volumeDB }

// SetTempo clamps to [MIN_BPM, MAX_BPM] and reschedules.
func (m *Metronome) SetTempo(bpm float64) error {
	m.bpm = clampFloat(bpm, MIN_BPM, MAX_BPM)
	return m.Apply()
}

// SetBeats clamps to [MIN_BEATS, MAX_BEATS] and reschedules. Zero beats is a
// legal silent bar.
func (m *Metronome) SetBeats(beats int) error {
	if beats < MIN_BEATS {
		beats = MIN_BEATS
	}
	if beats > MAX_BEATS {
		beats = MAX_BEATS
	}
	m.beats = beats
	return m.Apply()
}

// SetSubdivision snaps to the nearest entry in SUBDIVISIONS and reschedules.
func (m *Metronome) SetSubdivision(subdivision int) error {
	best := SUBDIVISIONS[0]
	for _, s := range SUBDIVISIONS {
		if abs(subdivision-s) < abs(subdivision-best) {
			best = s
		}
	}
	m.subdivision = best
	return m.Apply()
}

// SetVolumeDB clamps and forwards to the mixer. Volume changes do not touch
// the schedule.
func (m *Metronome) SetVolumeDB(db float64) error {
	m.volumeDB = clampFloat(db, MIN_VOLUME_DB, MAX_VOLUME_DB)
	return m.mixer.SetVolumeDB(float32(m.volumeDB))
}

// Tap feeds a tap event to the tempo estimator and, once it reports an
// estimate, adopts it as the new tempo.
func (m *Metronome) Tap() (float64, bool, error) {
	bpm, ok := m.tap.Tap()
	if !ok {
		return 0, false, nil
	}
	return bpm, true, m.SetTempo(bpm)
}

// Apply atomically replaces the mixer's playback set with the schedule for
// the current parameters. "Atomically" here is the mixer's guarantee: both
// commands are applied in the same render cycle drain, so no output buffer
// sees a partial schedule.
func (m *Metronome) Apply() error {
	playbacks, err := m.schedule()
	if err != nil {
		return err
	}
	if err := m.mixer.ClearPlaybacks(); err != nil {
		return err
	}
	if len(playbacks) == 0 {
		return nil
	}
	return m.mixer.AddPlaybacks(playbacks)
}

// subdivDuration returns the spacing between clicks in samples.
func (m *Metronome) subdivDuration() uint64 {
	return uint64(float64(m.mixer.SampleRate()) * 60.0 * 4.0 / m.bpm / float64(m.subdivision))
}

// BarDuration returns the bar period in samples for the current parameters.
func (m *Metronome) BarDuration() uint64 {
	return m.subdivDuration() * uint64(m.beats)
}

// schedule builds one playback per beat. Offsets and the bar period are in
// samples; the mixer anchors them to its clock at admission.
func (m *Metronome) schedule() ([]*Playback, error) {
	subdivDuration := m.subdivDuration()
	barDuration := subdivDuration * uint64(m.beats)

	playbacks := make([]*Playback, 0, m.beats)
	for i := 0; i < m.beats; i++ {
		samples := m.mid
		switch {
		case i == 0:
			samples = m.hi
		case i%2 == 1:
			samples = m.lo
		}

		p, err := NewPlayback(samples, uint64(i)*subdivDuration, barDuration, RepeatForever)
		if err != nil {
			return nil, err
		}
		playbacks = append(playbacks, p)
	}
	return playbacks, nil
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
