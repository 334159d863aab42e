// main.go - Metronome front end: flags, terminal control surface, WAV render

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
	"flag"
	"fmt"
	"os"
	"os/signal"

	wav "github.com/youpy/go-wav"
	"golang.org/x/term"
)

const (
	DEFAULT_SAMPLE_RATE = 48000
	DEFAULT_CHANNELS    = 2
)

// Frames rendered per chunk in WAV render mode.
const RENDER_CHUNK_FRAMES = 4096

func boilerPlate() {
	fmt.Println(`
██████╗ ██╗   ██╗██╗     ███████╗███████╗    ███████╗███╗   ██╗ ██████╗ ██╗███╗   ██╗███████╗
██╔══██╗██║   ██║██║     ██╔════╝██╔════╝    ██╔════╝████╗  ██║██╔════╝ ██║████╗  ██║██╔════╝
██████╔╝██║   ██║██║     ███████╗█████╗      █████╗  ██╔██╗ ██║██║  ███╗██║██╔██╗ ██║█████╗
██╔═══╝ ██║   ██║██║     ╚════██║██╔══╝      ██╔══╝  ██║╚██╗██║██║   ██║██║██║╚██╗██║██╔══╝
██║     ╚██████╔╝███████╗███████║███████╗    ███████╗██║ ╚████║╚██████╔╝██║██║ ╚████║███████╗
╚═╝      ╚═════╝ ╚══════╝╚══════╝╚══════╝    ╚══════╝╚═╝  ╚═══╝ ╚═════╝ ╚═╝╚═╝  ╚═══╝╚══════╝`)
	fmt.Println("\nA real-time metronome engine.")
	fmt.Println("(c) 2025 - 2026 The Pulse Engine Authors")
	fmt.Println("https://github.com/pulseforge/PulseEngine")
	fmt.Println("License: GPLv3 or later")
}

func main() {
	backendName := flag.String("backend", "oto", "Audio backend (oto or alsa)")
	bpm := flag.Float64("bpm", 120, "Tempo in beats per minute (30-400)")
	beats := flag.Int("beats", 4, "Beats per bar (0-32)")
	subdivision := flag.Int("subdiv", 4, "Subdivision note value (4, 8, 16 or 32)")
	volumeDB := flag.Float64("volume", 0, "Master volume in dB (-36..+36)")
	sampleRate := flag.Int("rate", DEFAULT_SAMPLE_RATE, "Output sample rate in Hz")
	renderPath := flag.String("render", "", "Render to a WAV file instead of playing")
	renderBars := flag.Int("bars", 4, "Number of bars to render with -render")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pulse [options]\n\nPlays a click track, or renders one to WAV with -render.\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pulse -bpm 96 -beats 3\n")
		fmt.Fprintf(os.Stderr, "  pulse -render click.wav -bars 8 -bpm 120\n")
	}
	flag.Parse()

	boilerPlate()

	if *renderPath != "" {
		if err := renderWAV(*renderPath, *sampleRate, *renderBars, *bpm, *beats, *subdivision, *volumeDB); err != nil {
			fmt.Printf("Render failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var backend int
	switch *backendName {
	case "oto":
		backend = AUDIO_BACKEND_OTO
	case "alsa":
		backend = AUDIO_BACKEND_ALSA
	default:
		fmt.Printf("Unknown backend %q\n", *backendName)
		os.Exit(1)
	}

	mixer, err := NewMixer(backend, *sampleRate, DEFAULT_CHANNELS)
	if err != nil {
		fmt.Printf("Failed to initialize audio: %v\n", err)
		os.Exit(1)
	}
	defer mixer.Close()

	met := NewMetronome(mixer)
	if err := configure(met, *bpm, *beats, *subdivision, *volumeDB); err != nil {
		fmt.Printf("Failed to configure metronome: %v\n", err)
		os.Exit(1)
	}

	mixer.Start()
	defer mixer.Stop()

	runInteractive(met)
	fmt.Println("\r")
}

func configure(met *Metronome, bpm float64, beats, subdivision int, volumeDB float64) error {
	if err := met.SetBeats(beats); err != nil {
		return err
	}
	if err := met.SetSubdivision(subdivision); err != nil {
		return err
	}
	if err := met.SetTempo(bpm); err != nil {
		return err
	}
	return met.SetVolumeDB(volumeDB)
}

// runInteractive reads single keys in raw mode. Falling back to a plain wait
// keeps non-tty invocations (pipes, service managers) working.
func runInteractive(met *Metronome) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Printf("No interactive terminal (%v); playing until interrupted.\n", err)
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt)
		<-quit
		return
	}
	defer term.Restore(fd, oldState)

	fmt.Print("\r\nspace tap tempo | +/- tempo | [/] volume | b beats | s subdivision | q quit\r\n")
	printStatus(met)

	buf := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(buf); err != nil {
			return
		}

		var cmdErr error
		switch buf[0] {
		case 'q', 3: // Ctrl-C arrives as a byte in raw mode
			return
		case ' ':
			_, _, cmdErr = met.Tap()
		case '+', '=':
			cmdErr = met.SetTempo(met.Tempo() + 1)
		case '-', '_':
			cmdErr = met.SetTempo(met.Tempo() - 1)
		case ']':
			cmdErr = met.SetVolumeDB(met.VolumeDB() + 1)
		case '[':
			cmdErr = met.SetVolumeDB(met.VolumeDB() - 1)
		case 'b':
			next := met.Beats() + 1
			if next > 12 {
				next = 1
			}
			cmdErr = met.SetBeats(next)
		case 's':
			cmdErr = met.SetSubdivision(nextSubdivision(met.Subdivision()))
		default:
			continue
		}

		if cmdErr != nil {
			fmt.Printf("\r\ncommand failed: %v\r\n", cmdErr)
			return
		}
		printStatus(met)
	}
}

func nextSubdivision(current int) int {
	for i, s := range SUBDIVISIONS {
		if s == current {
			return SUBDIVISIONS[(i+1)%len(SUBDIVISIONS)]
		}
	}
	return SUBDIVISIONS[0]
}

func printStatus(met *Metronome) {
	fmt.Printf("\r%6.1f BPM  %2d beats  1/%d  %+5.1f dB   ",
		met.Tempo(), met.Beats(), met.Subdivision(), met.VolumeDB())
}

// renderWAV writes bars of click track to a 16-bit mono WAV file, driving
// the mixer's render cycle directly with no device backend.
func renderWAV(path string, sampleRate int, bars int, bpm float64, beats, subdivision int, volumeDB float64) error {
	mixer, err := NewMixer(AUDIO_BACKEND_NONE, sampleRate, 1)
	if err != nil {
		return err
	}

	met := NewMetronome(mixer)
	if err := configure(met, bpm, beats, subdivision, volumeDB); err != nil {
		return err
	}

	totalFrames := int(met.BarDuration()) * bars
	if totalFrames <= 0 {
		return fmt.Errorf("nothing to render: %d beats, %d bars", beats, bars)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := wav.NewWriter(f, uint32(totalFrames), 1, uint32(sampleRate), 16)

	chunk := make([]float32, RENDER_CHUNK_FRAMES)
	samples := make([]wav.Sample, RENDER_CHUNK_FRAMES)

	for written := 0; written < totalFrames; {
		n := totalFrames - written
		if n > RENDER_CHUNK_FRAMES {
			n = RENDER_CHUNK_FRAMES
		}

		mixer.ReadFrames(chunk[:n])
		for i, v := range chunk[:n] {
			s := int(v * 32767)
			samples[i] = wav.Sample{Values: [2]int{s, s}}
		}
		if err := writer.WriteSamples(samples[:n]); err != nil {
			return err
		}
		written += n
	}

	fmt.Printf("Wrote %d frames (%d bars at %.1f BPM) to %s\n", totalFrames, bars, met.Tempo(), path)
	return nil
}
