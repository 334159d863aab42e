//go:build linux && !headless

// audio_backend_alsa.go - ALSA audio output implementation

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

/*
#cgo LDFLAGS: -lasound
#include <alsa/asoundlib.h>
#include <stdlib.h>

static snd_pcm_t* openPCM(const char* device, int* err) {
    snd_pcm_t* handle;
    *err = snd_pcm_open(&handle, device, SND_PCM_STREAM_PLAYBACK, 0);
    return handle;
}

static int setupPCM(snd_pcm_t* handle, unsigned int rate, unsigned int channels) {
    snd_pcm_hw_params_t* params;
    int err;

    snd_pcm_hw_params_alloca(&params);
    err = snd_pcm_hw_params_any(handle, params);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_access(handle, params, SND_PCM_ACCESS_RW_INTERLEAVED);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_format(handle, params, SND_PCM_FORMAT_FLOAT);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_channels(handle, params, channels);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_rate(handle, params, rate, 0);
    if (err < 0) return err;

    err = snd_pcm_hw_params(handle, params);
    if (err < 0) return err;

    return snd_pcm_prepare(handle);
}

static int writePCM(snd_pcm_t* handle, float* buffer, int frames) {
    return snd_pcm_writei(handle, buffer, frames);
}

static void closePCM(snd_pcm_t* handle) {
    if (handle != NULL) {
        snd_pcm_drain(handle);
        snd_pcm_close(handle);
    }
}
*/
import "C"
import (
	"fmt"
	"os"
	"sync"
	"unsafe"
)

// Period size of the feeder loop, in frames.
const ALSA_PERIOD_FRAMES = 1024

// ALSAPlayer is a push-model device backend: a feeder goroutine runs one
// mixer render cycle per period and blocks on snd_pcm_writei for pacing.
type ALSAPlayer struct {
	handle   *C.snd_pcm_t
	mixer    *Mixer
	channels int
	started  bool
	playing  bool
	mutex    sync.Mutex
	samples  []float32
}

func NewALSAPlayer(sampleRate int, channels int) (*ALSAPlayer, error) {
	var err C.int
	device := C.CString("default")
	defer C.free(unsafe.Pointer(device))

	handle := C.openPCM(device, &err)
	if err < 0 {
		return nil, fmt.Errorf("failed to open PCM device: %s", C.GoString(C.snd_strerror(err)))
	}

	if err = C.setupPCM(handle, C.uint(sampleRate), C.uint(channels)); err < 0 {
		C.closePCM(handle)
		return nil, fmt.Errorf("failed to setup PCM: %s", C.GoString(C.snd_strerror(err)))
	}

	return &ALSAPlayer{
		handle:   handle,
		channels: channels,
		playing:  false,
		started:  false,
		samples:  make([]float32, ALSA_PERIOD_FRAMES*channels),
	}, nil
}

func (ap *ALSAPlayer) SetupPlayer(mixer *Mixer) {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	ap.mixer = mixer
}

func (ap *ALSAPlayer) IsStarted() bool {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	return ap.started
}

// feed drives render cycles until Stop or Close. Runs on its own goroutine;
// write errors are diagnostics only and never touch mixer state.
func (ap *ALSAPlayer) feed() {
	buf := make([]float32, ALSA_PERIOD_FRAMES*ap.channels)
	for {
		ap.mutex.Lock()
		playing, mixer := ap.playing, ap.mixer
		ap.mutex.Unlock()
		if !playing || mixer == nil {
			return
		}

		mixer.ReadFrames(buf)
		if err := ap.write(buf); err != nil {
			fmt.Fprintf(os.Stderr, "an error occurred on the output audio stream: %v\n", err)
		}
	}
}

func (ap *ALSAPlayer) write(samples []float32) error {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if !ap.playing || ap.handle == nil {
		return nil
	}

	copy(ap.samples, samples)
	nframes := C.int(len(samples) / ap.channels)
	frames := C.writePCM(ap.handle, (*C.float)(unsafe.Pointer(&ap.samples[0])), nframes)
	if frames < 0 {
		if frames == -C.EPIPE {
			C.snd_pcm_prepare(ap.handle)
			frames = C.writePCM(ap.handle, (*C.float)(unsafe.Pointer(&ap.samples[0])), nframes)
		}
		if frames < 0 {
			return fmt.Errorf("write failed: %s", C.GoString(C.snd_strerror(C.int(frames))))
		}
	}
	return nil
}

func (ap *ALSAPlayer) Start() {
	ap.mutex.Lock()
	if !ap.started {
		ap.started = true
		ap.playing = true
		go ap.feed()
	}
	ap.mutex.Unlock()
}

func (ap *ALSAPlayer) Stop() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if ap.playing {
		ap.playing = false
		ap.started = false
	}
}

func (ap *ALSAPlayer) Close() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if ap.handle != nil {
		ap.playing = false
		ap.started = false
		C.closePCM(ap.handle)
		ap.handle = nil
	}
}
