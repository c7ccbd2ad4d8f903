// Package romload is the ROM loader collaborator: it reads a file from disk
// and hands the raw bytes to the core, which owns size validation.
package romload

import (
	"fmt"
	"os"
)

// Read returns the raw bytes of the ROM at path, wrapped with context on
// failure. It performs no size validation; CpuState.LoadROM does that.
func Read(path string) ([]byte, error) {
	rom, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rom %q: %w", path, err)
	}
	return rom, nil
}
