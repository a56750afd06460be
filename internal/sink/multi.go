package sink

import "errors"

// MultiSink fans out records to multiple sinks.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a new MultiSink that writes to all provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Write sends the record to all underlying sinks. Each sink gets its own
// copy so sequence numbers assigned downstream do not leak across sinks.
func (m *MultiSink) Write(rec *Record) {
	for _, s := range m.sinks {
		cp := *rec
		s.Write(&cp)
	}
}

// Flush flushes all underlying sinks.
func (m *MultiSink) Flush() error {
	var errs []error
	for _, s := range m.sinks {
		errs = append(errs, s.Flush())
	}
	return errors.Join(errs...)
}

// Close closes all underlying sinks.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.sinks {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
