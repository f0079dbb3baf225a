package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

// Load opens an image and picks the loader by its content: files starting
// with the ELF magic are parsed as ELF, anything else as a cartridge ROM.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	magic := make([]byte, len(elfMagic))
	_, err = io.ReadFull(f, magic)
	_ = f.Close()
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	if bytes.Equal(magic, elfMagic) {
		return LoadELF(path)
	}
	return LoadROM(path)
}
