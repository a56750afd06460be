// Package sink delivers formatted backtraces.
//
// A Sink receives Records, each holding one formatted trace. Several
// implementations are provided:
//
//   - Nop: discards everything
//   - StreamSink: writes each record immediately (file/stderr)
//   - RingSink: keeps the last N records in memory for crash dumps
//   - MultiSink: fans out to several sinks
//
// Sinks travel through the program via context:
//
//	ctx = sink.WithSink(ctx, s)
//	sink.FromContext(ctx).Write(rec)
package sink

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Sink is the main interface for emitting formatted traces.
type Sink interface {
	// Write records one trace. Must be goroutine-safe.
	Write(rec *Record)

	// Flush ensures all buffered records are written.
	Flush() error

	// Close flushes and releases resources.
	Close() error
}

// Mode determines how records are stored.
type Mode uint8

const (
	ModeStream Mode = iota + 1 // immediate write
	ModeRing                   // circular buffer
	ModeBoth                   // stream + ring
)

// String returns the string representation of Mode.
func (m Mode) String() string {
	switch m {
	case ModeStream:
		return "stream"
	case ModeRing:
		return "ring"
	case ModeBoth:
		return "both"
	default:
		return "unknown"
	}
}

// ParseMode converts a string to Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "stream":
		return ModeStream, nil
	case "ring":
		return ModeRing, nil
	case "both":
		return ModeBoth, nil
	default:
		return ModeStream, fmt.Errorf("invalid sink mode: %q (expected: stream|ring|both)", s)
	}
}

// DefaultRingSize is used when Config.RingSize is not positive.
const DefaultRingSize = 256

// Config holds sink configuration.
type Config struct {
	Mode       Mode                // storage mode
	Format     Format              // output format (FormatAuto for auto-detection)
	Output     io.Writer           // for stream mode, never closed (if nil, use OutputPath)
	OutputPath string              // alternative: file path ("-" for stdout)
	RingSize   int                 // for ring mode
	Highlight  func(string) string // decorates text-format stream output
}

// New creates a Sink based on Config. The second result is the ring of
// ModeRing/ModeBoth sinks, nil otherwise.
func New(cfg Config) (Sink, *RingSink, error) {
	if cfg.RingSize <= 0 {
		cfg.RingSize = DefaultRingSize
	}

	format := cfg.Format
	if format == FormatAuto {
		format = FormatText
		if strings.HasSuffix(cfg.OutputPath, ".ndjson") {
			format = FormatNDJSON
		}
	}

	switch cfg.Mode {
	case ModeStream:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, nil, err
		}
		return newStream(w, format, cfg.Highlight), nil, nil

	case ModeRing:
		ring := NewRingSink(cfg.RingSize)
		return ring, ring, nil

	case ModeBoth:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, nil, err
		}
		ring := NewRingSink(cfg.RingSize)
		return NewMultiSink(newStream(w, format, cfg.Highlight), ring), ring, nil

	default:
		return nil, nil, fmt.Errorf("unknown sink mode: %v", cfg.Mode)
	}
}

func newStream(w io.Writer, format Format, highlight func(string) string) *StreamSink {
	s := NewStreamSink(w, format)
	if highlight != nil {
		s.SetHighlight(highlight)
	}
	return s
}

// openOutput opens the output writer from config.
func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return unclosable{cfg.Output}, nil
	}

	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return unclosable{os.Stdout}, nil
	}

	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sink output: %w", err)
	}

	return f, nil
}

// unclosable hides the Close method of writers the sink does not own.
type unclosable struct {
	io.Writer
}
