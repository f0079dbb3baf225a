// Package cli implements the decodeinst command line interface.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"

	"github.com/rlopez44/cgba/insts"
	"github.com/rlopez44/cgba/loader"
	"github.com/rlopez44/cgba/scan"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

const formatErrorMessage = "Incorrect instruction format. Expected 32-bit or 16-bit hex value"

// ErrInvalidFormat is returned for instruction strings that are neither 4
// nor 8 hex digits long.
var ErrInvalidFormat = errors.New("incorrect instruction format")

// Options holds the parsed command line.
type Options struct {
	Instruction string
	ScanFile    string

	Thumb   bool
	Summary bool
	Debug   bool
	Quiet   bool
	Version bool
}

// UsageError represents an error that should show usage information.
type UsageError struct {
	flags *flag.FlagSet
	msg   string
	err   error
}

func (e *UsageError) Error() string {
	if e.msg == "" {
		return "missing instruction argument"
	}
	return e.msg
}

func (e *UsageError) Unwrap() error {
	return e.err
}

// ShowUsage writes the usage text and flag defaults to w.
func (e *UsageError) ShowUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: decodeinst [options] <instruction>\n\n")
	fmt.Fprintf(w, "<instruction> is a 4 digit (Thumb) or 8 digit (ARM) hex value.\n\n")
	fmt.Fprintf(w, "Options:\n")
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
}

// ParseFlags parses the arguments following the program name.
func ParseFlags(args []string, stderr io.Writer) (Options, error) {
	flags := flag.NewFlagSet("decodeinst", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {}

	var opts Options
	flags.StringVar(&opts.ScanFile, "scan", "", "classify every word of a GBA ROM or ARM ELF image")
	flags.BoolVar(&opts.Thumb, "thumb", false, "classify the scanned image as Thumb code")
	flags.BoolVar(&opts.Summary, "summary", false, "print only the category counts of a scan")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&opts.Quiet, "q", false, "only log errors")
	flags.BoolVar(&opts.Version, "version", false, "print version information")

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error(), err: err}
	}

	rest := flags.Args()
	if opts.Version || opts.ScanFile != "" {
		return opts, nil
	}
	if len(rest) == 0 {
		return opts, &UsageError{flags: flags}
	}
	if len(rest) > 1 {
		return opts, &UsageError{
			flags: flags,
			msg:   fmt.Sprintf("unexpected argument %q after instruction", rest[1]),
		}
	}

	opts.Instruction = rest[0]
	return opts, nil
}

// ParseInstruction picks the instruction set from the digit count of s and
// parses it as an unsigned hex value.
func ParseInstruction(s string) (insts.ISA, uint32, error) {
	var isa insts.ISA
	switch len(s) {
	case insts.ISAThumb.HexDigits():
		isa = insts.ISAThumb
	case insts.ISAARM.HexDigits():
		isa = insts.ISAARM
	default:
		return 0, 0, fmt.Errorf("%w: %q has %d digits", ErrInvalidFormat, s, len(s))
	}

	value, err := strconv.ParseUint(s, 16, isa.Width()*8)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing instruction %q: %w", s, err)
	}
	return isa, uint32(value), nil
}

// App runs the command line tool.
type App struct {
	Stdout io.Writer
	Stderr io.Writer

	Version string
	Commit  string
	Date    string
}

// Run executes the command with the given arguments, not including the
// program name, and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	opts, err := ParseFlags(args, a.Stderr)
	if err != nil {
		var usageErr *UsageError
		if errors.As(err, &usageErr) {
			if errors.Is(err, flag.ErrHelp) {
				usageErr.ShowUsage(a.Stderr)
				return ExitOK
			}
			if usageErr.msg != "" {
				fmt.Fprintln(a.Stderr, usageErr.msg)
			}
			usageErr.ShowUsage(a.Stderr)
		} else {
			fmt.Fprintln(a.Stderr, err)
		}
		return ExitUsage
	}

	if opts.Version {
		fmt.Fprintf(a.Stdout, "decodeinst version %s\n", buildinfo.Version(a.Version, a.Commit, a.Date))
		return ExitOK
	}

	logger := CreateLogger(a.Stderr, opts.Debug, opts.Quiet)

	if opts.ScanFile != "" {
		if err := a.scanFile(ctx, logger, opts); err != nil {
			logger.Error("Scanning failed", log.String("file", opts.ScanFile), log.Err(err))
			return ExitError
		}
		return ExitOK
	}

	return a.classify(logger, opts.Instruction)
}

func (a *App) classify(logger *log.Logger, s string) int {
	isa, word, err := ParseInstruction(s)
	if err != nil {
		if errors.Is(err, ErrInvalidFormat) {
			fmt.Fprintln(a.Stderr, formatErrorMessage)
		} else {
			fmt.Fprintf(a.Stderr, "Invalid hex value: %s\n", s)
		}
		logger.Debug("Rejected instruction", log.Err(err))
		return ExitError
	}

	cat := insts.NewClassifier().Classify(isa, word)
	logger.Debug("Classified instruction",
		log.String("isa", isa.String()),
		log.String("word", fmt.Sprintf("0x%0*X", isa.HexDigits(), word)))

	fmt.Fprintf(a.Stdout, "%s: %s\n", isa, cat)
	return ExitOK
}

func (a *App) scanFile(ctx context.Context, logger *log.Logger, opts Options) error {
	prog, err := loader.Load(opts.ScanFile)
	if err != nil {
		return fmt.Errorf("loading image: %w", err)
	}

	logger.Info("Loaded image",
		log.String("file", opts.ScanFile),
		log.Stringer("kind", prog.Kind),
		log.Int("segments", len(prog.Segments)))
	if prog.Header != nil {
		logger.Info(prog.Header.String())
	}

	scanOpts := []scan.Option{
		scan.WithLogger(logger),
		scan.WithListing(!opts.Summary),
	}
	if opts.Thumb {
		scanOpts = append(scanOpts, scan.WithISA(insts.ISAThumb))
	}

	report, err := scan.New(insts.NewClassifier(), scanOpts...).Scan(ctx, prog)
	if err != nil {
		return err
	}

	if !opts.Summary {
		if err := report.WriteListing(a.Stdout); err != nil {
			return err
		}
	}
	if err := report.WriteSummary(a.Stdout); err != nil {
		return err
	}

	if n := report.Illegal(); n > 0 {
		logger.Debug("Image contains unclassified words", log.Int("count", n))
	}
	return nil
}
