// audio_mixer.go - Real-time playback mixer and engine sample clock

/*
██████╗ ██╗   ██╗██╗     ███████╗███████╗    ███████╗███╗   ██╗ ██████╗ ██╗███╗   ██╗███████╗
██╔══██╗██║   ██║██║     ██╔════╝██╔════╝    ██╔════╝████╗  ██║██╔════╝ ██║████╗  ██║██╔════╝
██████╔╝██║   ██║██║     ███████╗█████╗      █████╗  ██╔██╗ ██║██║  ███╗██║██╔██╗ ██║█████╗
██╔═══╝ ██║   ██║██║     ╚════██║██╔══╝      ██╔══╝  ██║╚██╗██║██║   ██║██║██║╚██╗██║██╔══╝
██║     ╚██████╔╝███████╗███████║███████╗    ███████╗██║ ╚████║╚██████╔╝██║██║ ╚████║███████╗
╚═╝      ╚═════╝ ╚══════╝╚══════╝╚══════╝    ╚══════╝╚═╝  ╚═══╝ ╚═════╝ ╚═╝╚═╝  ╚═══╝╚══════╝

(c) 2025 - 2026 The Pulse Engine Authors
https://github.com/pulseforge/PulseEngine
License: GPLv3 or later
*/

package main

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

const (
	CMD_ADD_PLAYBACKS = iota
	CMD_CLEAR_PLAYBACKS
	CMD_SET_VOLUME
)

// Command queue sizing. The render context drains the whole queue every
// cycle and a full reschedule from the control surface is two commands, so
// the queue only fills if the render context has stalled entirely.
const MIXER_COMMAND_QUEUE_CAP = 256

// Scratch sizing for one render period (mono samples). Matches the largest
// period any backend requests; grown defensively if a backend asks for more.
const MIXER_SCRATCH_SAMPLES = 2 << 14

var (
	ErrMixerClosed      = errors.New("mixer: closed")
	ErrCommandQueueFull = errors.New("mixer: command queue full")
)

type mixerCommand struct {
	op        int
	playbacks []*Playback
	volume    float32
}

// Mixer owns the engine sample clock, the active playback set and the output
// volume. All three are touched only inside ReadFrames, which the audio
// backend invokes on its real-time callback; every cross-context mutation
// arrives through the command queue and is applied at the top of a cycle.
type Mixer struct {
	// Render-context state. Owned exclusively by ReadFrames.
	time      uint64
	volume    float32
	playbacks []*Playback
	mono      []float32

	sampleRate int
	channels   int

	commands chan mixerCommand
	closed   atomic.Bool

	output AudioOutput
	mutex  sync.Mutex // Setup/control operations only, never the render path
}

// NewMixer opens the given audio backend at the device sample rate and
// channel count and wires it to a new mixer. AUDIO_BACKEND_NONE builds a
// mixer with no device; callers drive ReadFrames themselves (offline
// rendering, tests).
func NewMixer(backend int, sampleRate int, channels int) (*Mixer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("mixer: invalid sample rate %d", sampleRate)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("mixer: invalid channel count %d", channels)
	}

	m := &Mixer{
		volume:     1.0,
		sampleRate: sampleRate,
		channels:   channels,
		commands:   make(chan mixerCommand, MIXER_COMMAND_QUEUE_CAP),
		mono:       make([]float32, MIXER_SCRATCH_SAMPLES),
	}

	output, err := NewAudioOutput(backend, m)
	if err != nil {
		return nil, err
	}
	m.output = output

	return m, nil
}

func (m *Mixer) SampleRate() int {
	return m.sampleRate
}

func (m *Mixer) Channels() int {
	return m.channels
}

// AddPlaybacks schedules playbacks asynchronously. Each playback's start,
// expressed by the caller as an offset relative to "now", is shifted by the
// engine clock when the render context admits it. A playback must only ever
// be submitted once.
func (m *Mixer) AddPlaybacks(playbacks []*Playback) error {
	return m.send(mixerCommand{op: CMD_ADD_PLAYBACKS, playbacks: playbacks})
}

// ClearPlaybacks empties the active set on the next render cycle.
func (m *Mixer) ClearPlaybacks() error {
	return m.send(mixerCommand{op: CMD_CLEAR_PLAYBACKS})
}

// SetVolumeDB sets the master volume in decibels. The dB value is converted
// to linear gain here, on the control side, so the render context only ever
// sees a ready-to-use factor.
func (m *Mixer) SetVolumeDB(db float32) error {
	gain := float32(math.Pow(10, float64(db)/20))
	return m.send(mixerCommand{op: CMD_SET_VOLUME, volume: gain})
}

// send is the only producer for the command queue. A failed send is an
// explicit error to the caller; the render context never learns about it.
func (m *Mixer) send(cmd mixerCommand) error {
	if m.closed.Load() {
		return ErrMixerClosed
	}
	select {
	case m.commands <- cmd:
		return nil
	default:
		return ErrCommandQueueFull
	}
}

// ReadFrames runs one render cycle into out, an interleaved buffer of
// len(out)/channels frames: drain commands, mix every active playback into
// the mono scratch, soft-clip, expand to the channel layout and advance the
// clock. Called by the audio backend on its callback; must not block and, in
// steady state, does not allocate.
func (m *Mixer) ReadFrames(out []float32) {
	frames := len(out) / m.channels

	// Should not happen after construction; backends request fixed periods.
	if frames > len(m.mono) {
		m.mono = make([]float32, frames)
	}
	mono := m.mono[:frames]

	m.drainCommands()

	for i := range mono {
		mono[i] = 0
	}

	kept := m.playbacks[:0]
	for _, p := range m.playbacks {
		if p.Read(m.time, mono) != READ_ENDED {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(m.playbacks); i++ {
		m.playbacks[i] = nil
	}
	m.playbacks = kept

	// Master volume and soft clip. tanh keeps quiet signals nearly linear
	// and bounds the sum of overlapping clicks smoothly.
	for i, s := range mono {
		mono[i] = float32(math.Tanh(float64(m.volume * s)))
	}

	m.time += uint64(frames)

	for f := 0; f < frames; f++ {
		base := f * m.channels
		for c := 0; c < m.channels; c++ {
			out[base+c] = mono[f]
		}
	}
	for i := frames * m.channels; i < len(out); i++ {
		out[i] = 0
	}
}

// drainCommands consumes every pending command in arrival order, then
// returns. Best effort: it never waits for a command.
func (m *Mixer) drainCommands() {
	for {
		select {
		case cmd := <-m.commands:
			switch cmd.op {
			case CMD_ADD_PLAYBACKS:
				for _, p := range cmd.playbacks {
					p.start += m.time
					m.playbacks = append(m.playbacks, p)
				}
			case CMD_CLEAR_PLAYBACKS:
				for i := range m.playbacks {
					m.playbacks[i] = nil
				}
				m.playbacks = m.playbacks[:0]
			case CMD_SET_VOLUME:
				m.volume = cmd.volume
			}
		default:
			return
		}
	}
}

// ActivePlaybacks reports the size of the active set. Render-context state:
// only meaningful from the goroutine driving ReadFrames (offline rendering
// and tests); never call it while a device backend is running.
func (m *Mixer) ActivePlaybacks() int {
	return len(m.playbacks)
}

// Time reports the engine sample clock. Same ownership caveat as
// ActivePlaybacks.
func (m *Mixer) Time() uint64 {
	return m.time
}

func (m *Mixer) Start() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.output != nil {
		m.output.Start()
	}
}

func (m *Mixer) Stop() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.output != nil {
		m.output.Stop()
	}
}

// Close tears the mixer down. Further command sends fail with
// ErrMixerClosed.
func (m *Mixer) Close() {
	m.closed.Store(true)
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.output != nil {
		m.output.Close()
	}
}
