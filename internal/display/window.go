// Package display is the frame renderer and input source collaborator: a
// faiface/pixel window that rasterizes frame snapshots pulled off a channel
// and turns pixelgl key edges into emulator.KeyEvent values pushed onto
// another. Adapted from this repository's original internal/pixel package,
// which combined the same two responsibilities on one Window type.
package display

import (
	"fmt"
	"time"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"golang.org/x/image/colornames"

	"github.com/nibble8/chippy/internal/chip8"
	"github.com/nibble8/chippy/internal/emulator"
)

const (
	screenWidth  float64 = 1024
	screenHeight float64 = 768
	keyRepeatDur         = time.Second / 5
)

// Window embeds a pixelgl window, a hex-keypad key mapping, and repeat
// tickers for keys currently held down.
type Window struct {
	win      *pixelgl.Window
	keyMap   map[uint16]pixelgl.Button
	keysDown [chip8.NumKeys]*time.Ticker
}

// NewWindow creates and shows a pixelgl window sized for the CHIP-8 64x32
// display, scaled up for visibility, with the conventional hex-keypad
// layout mapped to a QWERTY keyboard.
func NewWindow(title string) (*Window, error) {
	cfg := pixelgl.WindowConfig{
		Title:  title,
		Bounds: pixel.R(0, 0, screenWidth, screenHeight),
		VSync:  true,
	}
	w, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating new window: %v", err)
	}
	return &Window{
		win: w,
		keyMap: map[uint16]pixelgl.Button{
			0x1: pixelgl.Key1, 0x2: pixelgl.Key2,
			0x3: pixelgl.Key3, 0xC: pixelgl.Key4,
			0x4: pixelgl.KeyQ, 0x5: pixelgl.KeyW,
			0x6: pixelgl.KeyE, 0xD: pixelgl.KeyR,
			0x7: pixelgl.KeyA, 0x8: pixelgl.KeyS,
			0x9: pixelgl.KeyD, 0xE: pixelgl.KeyF,
			0xA: pixelgl.KeyZ, 0x0: pixelgl.KeyX,
			0xB: pixelgl.KeyC, 0xF: pixelgl.KeyV,
		},
	}, nil
}

// Closed reports whether the user closed the window.
func (w *Window) Closed() bool {
	return w.win.Closed()
}

// Run pumps the window's event loop until the window is closed; it does not
// watch the interpreter's Running state. On each pass it draws the next
// frame waiting on frames (if any), otherwise just polls input, and always
// forwards key edges onto keys. Must run on the main thread via
// pixelgl.Run, like any pixelgl program.
func (w *Window) Run(frames <-chan chip8.Frame, keys chan<- emulator.KeyEvent) {
	for !w.win.Closed() {
		select {
		case f := <-frames:
			w.draw(f)
		default:
			w.win.UpdateInput()
		}
		w.pollKeys(keys)
	}
}

func (w *Window) draw(f chip8.Frame) {
	w.win.Clear(colornames.Black)
	imDraw := imdraw.New(nil)
	imDraw.Color = pixel.RGB(1, 1, 1)
	width, height := screenWidth/chip8.DisplayWidth, screenHeight/chip8.DisplayHeight

	for i := 0; i < chip8.DisplayWidth; i++ {
		for j := 0; j < chip8.DisplayHeight; j++ {
			if !f[(chip8.DisplayHeight-1-j)*chip8.DisplayWidth+i] {
				continue
			}
			imDraw.Push(pixel.V(width*float64(i), height*float64(j)))
			imDraw.Push(pixel.V(width*float64(i)+width, height*float64(j)+height))
			imDraw.Rectangle(0)
		}
	}

	imDraw.Draw(w.win)
	w.win.Update()
}

func (w *Window) pollKeys(keys chan<- emulator.KeyEvent) {
	for i, key := range w.keyMap {
		idx := uint8(i)
		switch {
		case w.win.JustPressed(key):
			if w.keysDown[idx] == nil {
				w.keysDown[idx] = time.NewTicker(keyRepeatDur)
			}
			send(keys, emulator.KeyEvent{Index: idx, Pressed: true})
		case w.win.JustReleased(key):
			if t := w.keysDown[idx]; t != nil {
				t.Stop()
				w.keysDown[idx] = nil
			}
			send(keys, emulator.KeyEvent{Index: idx, Pressed: false})
		}
	}
}

func send(keys chan<- emulator.KeyEvent, ev emulator.KeyEvent) {
	select {
	case keys <- ev:
	default:
	}
}
