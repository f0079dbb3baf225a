// Package loader provides loading of ARM program images for classification.
//
// Two image kinds are supported: 32-bit little-endian ARM ELF executables
// and raw Game Boy Advance cartridge ROMs.
package loader

import (
	"debug/elf"
	"fmt"
	"io"
)

// SegmentFlags represents memory protection flags for a segment.
type SegmentFlags uint32

const (
	// SegmentFlagExecute indicates the segment is executable.
	SegmentFlagExecute SegmentFlags = 1 << iota
	// SegmentFlagWrite indicates the segment is writable.
	SegmentFlagWrite
	// SegmentFlagRead indicates the segment is readable.
	SegmentFlagRead
)

// Kind identifies the container format of a loaded image.
type Kind uint8

// Image kinds.
const (
	KindROM Kind = iota
	KindELF
)

func (k Kind) String() string {
	switch k {
	case KindROM:
		return "rom"
	case KindELF:
		return "elf"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Segment represents a contiguous block of the image mapped at an address.
type Segment struct {
	// Addr is the address of the first byte of Data.
	Addr uint32
	// Data contains the segment contents from the file.
	Data []byte
	// Flags contains the segment protection flags.
	Flags SegmentFlags
}

// Executable reports whether the segment holds code.
func (s Segment) Executable() bool {
	return s.Flags&SegmentFlagExecute != 0
}

// Program represents a loaded image.
type Program struct {
	Kind Kind
	// EntryPoint is the address where execution begins, with the Thumb
	// bit cleared.
	EntryPoint uint32
	// EntryThumb is set when the entry point is in Thumb state.
	EntryThumb bool
	// Segments contains the loaded segments in file order.
	Segments []Segment
	// Header is only set for cartridge ROMs.
	Header *Header
}

// LoadELF parses a 32-bit ARM ELF executable.
func LoadELF(path string) (*Program, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ELF file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if f.Class != elf.ELFCLASS32 {
		return nil, fmt.Errorf("not a 32-bit ELF file")
	}

	if f.Machine != elf.EM_ARM {
		return nil, fmt.Errorf("not an ARM ELF file (machine type: %v)", f.Machine)
	}

	if f.Data != elf.ELFDATA2LSB {
		return nil, fmt.Errorf("not a little-endian ELF file")
	}

	prog := &Program{
		Kind:       KindELF,
		EntryPoint: uint32(f.Entry) &^ 1,
		EntryThumb: f.Entry&1 != 0,
	}

	for _, phdr := range f.Progs {
		if phdr.Type != elf.PT_LOAD {
			continue
		}

		data := make([]byte, phdr.Filesz)
		if phdr.Filesz > 0 {
			n, err := phdr.ReadAt(data, 0)
			if err != nil && err != io.EOF {
				return nil, fmt.Errorf("failed to read segment at 0x%x: %w", phdr.Vaddr, err)
			}
			if uint64(n) != phdr.Filesz {
				return nil, fmt.Errorf("short read for segment at 0x%x: got %d bytes, expected %d",
					phdr.Vaddr, n, phdr.Filesz)
			}
		}

		var flags SegmentFlags
		if phdr.Flags&elf.PF_X != 0 {
			flags |= SegmentFlagExecute
		}
		if phdr.Flags&elf.PF_W != 0 {
			flags |= SegmentFlagWrite
		}
		if phdr.Flags&elf.PF_R != 0 {
			flags |= SegmentFlagRead
		}

		prog.Segments = append(prog.Segments, Segment{
			Addr:  uint32(phdr.Vaddr),
			Data:  data,
			Flags: flags,
		})
	}

	return prog, nil
}
