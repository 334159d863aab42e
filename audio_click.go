// audio_click.go - Click waveform synthesis (decaying sine burst)

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
	"math"
	"time"
)

// CLICK_ENVELOPE_FLOOR is the envelope level of the final sample relative to
// the first (-40 dB). The geometric decay towards this floor is what makes
// the click percussive without an audible truncation transient.
const CLICK_ENVELOPE_FLOOR = 0.01

// GenerateClick synthesizes a decaying sine burst: duration*sampleRate
// samples of a freq Hz sine, amplitude scaled by gain and by an envelope
// that decays geometrically from 1.0 to CLICK_ENVELOPE_FLOOR.
//
// Pure and deterministic. Assets are precomputed once per click timbre, off
// the real-time path, and shared by reference across playbacks.
func GenerateClick(sampleRate int, duration time.Duration, freq float64, gain float64) []float32 {
	n := int(math.Round(duration.Seconds() * float64(sampleRate)))
	if n <= 0 {
		return nil
	}

	decay := math.Pow(CLICK_ENVELOPE_FLOOR, 1.0/float64(n))
	w := 2.0 * math.Pi * freq / float64(sampleRate)

	out := make([]float32, n)
	envelope := 1.0
	for i := range out {
		out[i] = float32(gain * envelope * math.Sin(w*float64(i)))
		envelope *= decay
	}
	return out
}
