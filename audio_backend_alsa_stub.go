//go:build !linux || headless

// audio_backend_alsa_stub.go - ALSA stub for platforms without libasound

package main

import "errors"

type ALSAPlayer struct{}

func NewALSAPlayer(sampleRate int, channels int) (*ALSAPlayer, error) {
	return nil, errors.New("ALSA backend is not available on this platform")
}

func (ap *ALSAPlayer) SetupPlayer(mixer *Mixer) {}

func (ap *ALSAPlayer) Start() {}

func (ap *ALSAPlayer) Stop() {}

func (ap *ALSAPlayer) Close() {}

func (ap *ALSAPlayer) IsStarted() bool { return false }
