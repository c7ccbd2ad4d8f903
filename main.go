package main

import (
	"github.com/faiface/pixel/pixelgl"

	"github.com/nibble8/chippy/cmd"
)

func main() {
	// pixelgl needs access to the main thread, so cobra's command dispatch
	// (which may open a pixelgl window from the run command) has to happen
	// inside pixelgl.Run.
	pixelgl.Run(cmd.Execute)
}
