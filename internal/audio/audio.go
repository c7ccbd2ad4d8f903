// Package audio is the sound backend collaborator: it is told when the
// sound timer transitions to/from zero and turns a looping tone on or off
// accordingly. Adapted from this repository's original VM.ManageAudio
// method, which decoded assets/beep.mp3 and played it once per pulse; this
// version holds a single looping Ctrl so a sustained sound timer produces a
// sustained tone instead of retriggering a one-shot sample every tick.
package audio

import (
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// Backend plays path in a loop, paused by default, and toggles pause state
// in response to sound-timer transitions.
type Backend struct {
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
}

// NewBackend opens path (an mp3), initializes the speaker at its sample
// rate, and starts the loop paused. On any failure it returns a nil Backend
// together with the error.
func NewBackend(path string) (*Backend, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		streamer.Close()
		return nil, err
	}

	loop := beep.Loop(-1, streamer)
	ctrl := &beep.Ctrl{Streamer: loop, Paused: true}
	speaker.Play(ctrl)

	return &Backend{streamer: streamer, ctrl: ctrl}, nil
}

// Run toggles the loop's pause state for every sound-timer transition
// received on sound until the channel is closed.
func (b *Backend) Run(sound <-chan bool) {
	for on := range sound {
		speaker.Lock()
		b.ctrl.Paused = !on
		speaker.Unlock()
	}
}

// Close releases the underlying mp3 stream.
func (b *Backend) Close() error {
	return b.streamer.Close()
}
