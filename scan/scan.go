// Package scan classifies every instruction word of a loaded program image.
package scan

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/log"

	"github.com/rlopez44/cgba/insts"
	"github.com/rlopez44/cgba/loader"
)

// cancelCheckInterval is how many words are classified between context
// checks.
const cancelCheckInterval = 4096

// Classifier classifies a single instruction word.
type Classifier interface {
	Classify(isa insts.ISA, word uint32) insts.Category
}

// Entry is the classification of one word of the image.
type Entry struct {
	Addr     uint32
	Word     uint32
	Category insts.Category
}

// Report holds the result of scanning an image.
type Report struct {
	ISA insts.ISA
	// Words is the number of classified words, also counted when entries
	// are not recorded.
	Words     int
	Entries   []Entry
	Histogram map[insts.Category]int
}

// Scanner walks the executable segments of a program image.
type Scanner struct {
	classifier Classifier
	logger     *log.Logger

	isa     insts.ISA
	isaSet  bool
	listing bool
}

// Option is a functional option for configuring the Scanner.
type Option func(*Scanner)

// WithISA forces the instruction set used to classify the image.
func WithISA(isa insts.ISA) Option {
	return func(s *Scanner) {
		s.isa = isa
		s.isaSet = true
	}
}

// WithListing controls whether a per-word Entry is recorded. Without it
// only the histogram is filled, which keeps large images cheap to summarise.
func WithListing(enabled bool) Option {
	return func(s *Scanner) {
		s.listing = enabled
	}
}

// WithLogger sets the logger for progress and diagnostic messages.
func WithLogger(logger *log.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// New creates a new Scanner.
func New(classifier Classifier, opts ...Option) *Scanner {
	s := &Scanner{
		classifier: classifier,
		listing:    true,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = log.NewWithConfig(log.DefaultConfig())
	}

	return s
}

// Scan classifies every word of every executable segment of prog.
// Bytes at the end of a segment that do not fill a whole word are skipped.
func (s *Scanner) Scan(ctx context.Context, prog *loader.Program) (*Report, error) {
	isa := s.isa
	if !s.isaSet && prog.EntryThumb {
		isa = insts.ISAThumb
	}

	report := &Report{
		ISA:       isa,
		Histogram: make(map[insts.Category]int),
	}

	width := isa.Width()
	for _, seg := range prog.Segments {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scanning image: %w", err)
		}

		if !seg.Executable() {
			s.logger.Debug("Skipping non-executable segment",
				log.String("address", fmt.Sprintf("0x%08X", seg.Addr)))
			continue
		}

		count := len(seg.Data) / width
		s.logger.Debug("Scanning segment",
			log.String("address", fmt.Sprintf("0x%08X", seg.Addr)),
			log.String("isa", isa.String()),
			log.Int("words", count))

		for i := 0; i < count; i++ {
			if i%cancelCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return nil, fmt.Errorf("scanning segment at 0x%08X: %w", seg.Addr, err)
				}
			}

			offset := i * width
			word := readWord(seg.Data[offset:], width)
			cat := s.classifier.Classify(isa, word)

			if s.listing {
				report.Entries = append(report.Entries, Entry{
					Addr:     seg.Addr + uint32(offset),
					Word:     word,
					Category: cat,
				})
			}
			report.Histogram[cat]++
			report.Words++
		}
	}

	return report, nil
}

func readWord(b []byte, width int) uint32 {
	if width == 2 {
		return uint32(binary.LittleEndian.Uint16(b))
	}
	return binary.LittleEndian.Uint32(b)
}

// Illegal returns the number of words that matched no format.
func (r *Report) Illegal() int {
	n := 0
	for cat, count := range r.Histogram {
		if cat.IsIllegal() {
			n += count
		}
	}
	return n
}

// WriteListing writes one line per classified word.
func (r *Report) WriteListing(w io.Writer) error {
	digits := r.ISA.HexDigits()
	for _, e := range r.Entries {
		if _, err := fmt.Fprintf(w, "%08X  %0*X  %s\n", e.Addr, digits, e.Word, e.Category); err != nil {
			return fmt.Errorf("writing listing: %w", err)
		}
	}
	return nil
}

// WriteSummary writes the per-category counts in rule priority order.
// Categories that never matched are left out.
func (r *Report) WriteSummary(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s words: %d\n", r.ISA, r.Words); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	for _, cat := range insts.Categories(r.ISA) {
		count := r.Histogram[cat]
		if count == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "  %-40s %d\n", cat, count); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}
	return nil
}
