package sink

import (
	"io"
	"sync"
)

// StreamSink writes records immediately to an io.Writer.
type StreamSink struct {
	mu        sync.Mutex
	w         io.Writer
	format    Format
	highlight func(string) string
	err       error // first write error
}

// NewStreamSink creates a new StreamSink.
func NewStreamSink(w io.Writer, format Format) *StreamSink {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamSink{w: w, format: format}
}

// SetHighlight installs fn to decorate the text of records written in text
// format (terminal colours). NDJSON output is never decorated.
func (s *StreamSink) SetHighlight(fn func(string) string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.highlight = fn
}

// Write writes a record to the output.
func (s *StreamSink) Write(rec *Record) {
	if rec.Seq == 0 {
		rec.Seq = NextSeq()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := rec
	if s.highlight != nil && s.format == FormatText {
		decorated := *rec
		decorated.Text = s.highlight(rec.Text)
		out = &decorated
	}

	if _, err := s.w.Write(FormatRecord(out, s.format)); err != nil && s.err == nil {
		s.err = err
	}
}

// Flush reports the first write error and flushes the writer if it
// supports it.
func (s *StreamSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	if flusher, ok := s.w.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}

// Close flushes and closes the writer if it implements io.Closer.
func (s *StreamSink) Close() error {
	err := s.Flush()
	if closer, ok := s.w.(io.Closer); ok {
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
