// audio_output.go - Audio output backend interface and selection

package main

import "fmt"

// AudioOutput is implemented by all audio output backends. The backend owns
// the device stream and invokes Mixer.ReadFrames on its real-time cadence;
// the mixer never calls into the device directly.
type AudioOutput interface {
	// Start begins pulling render cycles from the mixer.
	Start()
	// Stop halts output without releasing the device.
	Stop()
	// Close releases the device.
	Close()
	// IsStarted returns true while the backend is running.
	IsStarted() bool
}

const (
	AUDIO_BACKEND_NONE = iota // No device; mixer driven manually
	AUDIO_BACKEND_OTO         // Pure Go oto/v3 backend (default)
	AUDIO_BACKEND_ALSA        // ALSA backend using cgo, Linux only
)

func NewAudioOutput(backend int, mixer *Mixer) (AudioOutput, error) {
	switch backend {
	case AUDIO_BACKEND_NONE:
		return nil, nil
	case AUDIO_BACKEND_OTO:
		player, err := NewOtoPlayer(mixer.SampleRate(), mixer.Channels())
		if err != nil {
			return nil, fmt.Errorf("audio output: %w", err)
		}
		player.SetupPlayer(mixer)
		return player, nil
	case AUDIO_BACKEND_ALSA:
		player, err := NewALSAPlayer(mixer.SampleRate(), mixer.Channels())
		if err != nil {
			return nil, fmt.Errorf("audio output: %w", err)
		}
		player.SetupPlayer(mixer)
		return player, nil
	}
	return nil, fmt.Errorf("audio output: unknown backend %d", backend)
}
