// audio_mixer_race_test.go - Concurrency stress between control and render threads

package main

import (
	"sync"
	"testing"
	"time"
)

// TestMixer_ConcurrentControlAndRender stresses the race between the
// control surface (AddPlaybacks, SetVolumeDB, ClearPlaybacks) and the
// render thread (ReadFrames). The test itself has no assertions - the
// race detector is the oracle.
// Run with: go test -race -run TestMixer_ConcurrentControlAndRender -count=1
func TestMixer_ConcurrentControlAndRender(t *testing.T) {
	m, err := NewMixer(AUDIO_BACKEND_NONE, 48000, 2)
	if err != nil {
		t.Fatalf("NewMixer: %v", err)
	}

	click := GenerateClick(48000, 10*time.Millisecond, 880.0, 0.5)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	// Goroutine 1: control-side writer - hammers the command queue.
	// Queue-full errors are expected under load and ignored.
	wg.Add(1)
	go func() {
		defer wg.Done()
		iter := 0
		for {
			select {
			case <-stop:
				return
			default:
			}
			p, err := NewPlayback(click, uint64(iter%4800), 24000, RepeatForever)
			if err != nil {
				t.Errorf("NewPlayback: %v", err)
				return
			}
			_ = m.AddPlaybacks([]*Playback{p})
			_ = m.SetVolumeDB(float32(iter%24) - 12)
			if iter%16 == 0 {
				_ = m.ClearPlaybacks()
			}
			iter++
		}
	}()

	// Goroutine 2: render thread - pulls audio in a loop.
	wg.Add(1)
	go func() {
		defer wg.Done()
		buf := make([]float32, 1024)
		for {
			select {
			case <-stop:
				return
			default:
			}
			m.ReadFrames(buf)
		}
	}()

	time.Sleep(100 * time.Millisecond)
	close(stop)
	wg.Wait()
}
