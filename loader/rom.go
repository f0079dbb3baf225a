package loader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// GBA cartridge layout.
const (
	// ROMBase is where the cartridge is mapped in the GBA address space.
	ROMBase = 0x08000000
	// MaxROMSize is the largest cartridge the address space can map.
	MaxROMSize = 32 * 1024 * 1024

	titleOffset   = 0xA0
	titleSize     = 12
	codeOffset    = 0xAC
	codeSize      = 6
	versionOffset = 0xBC
	headerSize    = 0xC0
)

// Header holds the identification fields of a GBA cartridge header.
type Header struct {
	Title string
	// Code is the four character game code followed by the two character
	// maker code.
	Code    string
	Version uint8
}

func (h Header) String() string {
	return fmt.Sprintf("Title: %s (%s, Rev.%02d)", h.Title, h.Code, h.Version)
}

// LoadROM reads a raw GBA cartridge image. The whole file is mapped as a
// single executable segment at ROMBase.
func LoadROM(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ROM file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadROM(f)
}

// ReadROM reads a raw GBA cartridge image from r. Data past MaxROMSize is
// ignored.
func ReadROM(r io.Reader) (*Program, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxROMSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM: %w", err)
	}

	if len(data) < headerSize {
		return nil, fmt.Errorf("ROM too small: got %d bytes, header needs %d", len(data), headerSize)
	}

	header := parseHeader(data)
	return &Program{
		Kind:       KindROM,
		EntryPoint: ROMBase,
		Segments: []Segment{{
			Addr:  ROMBase,
			Data:  data,
			Flags: SegmentFlagRead | SegmentFlagExecute,
		}},
		Header: &header,
	}, nil
}

func parseHeader(data []byte) Header {
	return Header{
		Title:   headerString(data[titleOffset : titleOffset+titleSize]),
		Code:    headerString(data[codeOffset : codeOffset+codeSize]),
		Version: data[versionOffset],
	}
}

// headerString returns the NUL terminated prefix of b.
func headerString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return strings.TrimRight(string(b), " ")
}
