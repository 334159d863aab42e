// audio_playback.go - Scheduled waveform playback on the engine sample clock

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
)

// Result of one Playback.Read call over a render window.
type ReadResult int

const (
	READ_OK              ReadResult = iota // Rendered (possibly nothing) into the window
	READ_NOT_YET_STARTED                   // Whole window precedes start; keep for later
	READ_ENDED                             // Window begins past the last sample; remove
)

// RepeatForever marks a playback that repeats until explicitly cleared.
const RepeatForever = -1

var (
	ErrNoSamples  = errors.New("playback: empty waveform asset")
	ErrZeroPeriod = errors.New("playback: repetition period must be positive when the playback repeats")
)

// Playback is one scheduled sounding of a waveform asset, optionally
// repeating on a fixed period. The samples slice is an immutable asset
// shared by reference; callers must never mutate it after NewPlayback.
//
// start is relative to the engine clock until the mixer admits the playback,
// at which point it is shifted by the clock value exactly once. Because of
// that shift a Playback must not be submitted to a mixer more than once.
type Playback struct {
	samples []float32
	start   uint64
	period  uint64
	count   int64 // RepeatForever, or the number of repeats after the first sounding
}

// NewPlayback builds a playback of samples beginning offset samples from the
// moment it is admitted, repeating every period samples. count is
// RepeatForever or the exact number of additional repeats.
//
// A zero period is only meaningful for a single shot (count == 0); combined
// with any repetition it would make the repetition walk degenerate, so it is
// rejected here rather than faulting on the render path.
func NewPlayback(samples []float32, offset uint64, period uint64, count int64) (*Playback, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	if period == 0 && count != 0 {
		return nil, ErrZeroPeriod
	}
	return &Playback{
		samples: samples,
		start:   offset,
		period:  period,
		count:   count,
	}, nil
}

// End returns the sample-clock index one past the playback's final sample.
// The second return is false for unbounded playbacks, which have no end.
func (p *Playback) End() (uint64, bool) {
	if p.count < 0 {
		return 0, false
	}
	return p.start + uint64(len(p.samples)) + p.period*uint64(p.count), true
}

// Read accumulates this playback's contribution to the half-open window
// [time, time+len(buffer)) into buffer. Existing buffer contents are added
// to, never overwritten, so simultaneously sounding playbacks superpose.
func (p *Playback) Read(time uint64, buffer []float32) ReadResult {
	timeEnd := time + uint64(len(buffer))

	if timeEnd < p.start {
		return READ_NOT_YET_STARTED
	}
	if end, bounded := p.End(); bounded && time >= end {
		return READ_ENDED
	}

	// First repetition that can still overlap the window.
	var rep uint64
	if time > p.start && p.period > 0 {
		rep = (time - p.start) / p.period
	}

	for {
		if p.count >= 0 && rep > uint64(p.count) {
			break
		}
		repTime := p.start + rep*p.period
		if repTime >= timeEnd {
			break
		}
		p.mix(int64(repTime)-int64(time), buffer)
		if p.period == 0 {
			break
		}
		rep++
	}

	return READ_OK
}

// mix adds the asset into out at the given signed sample offset, clipped at
// both source and destination bounds. No wraparound.
func (p *Playback) mix(offset int64, out []float32) {
	src := p.samples
	dst := out

	if offset < 0 {
		skip := -offset
		if skip >= int64(len(src)) {
			return
		}
		src = src[skip:]
	} else {
		if offset >= int64(len(dst)) {
			return
		}
		dst = dst[offset:]
	}

	n := len(src)
	if len(dst) < n {
		n = len(dst)
	}
	for i := 0; i < n; i++ {
		dst[i] += src[i]
	}
}
