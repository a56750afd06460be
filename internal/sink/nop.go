package sink

// nopSink discards records.
type nopSink struct{}

func (nopSink) Write(*Record) {}

func (nopSink) Flush() error { return nil }

func (nopSink) Close() error { return nil }

// Nop is the package-level singleton nop sink.
var Nop Sink = nopSink{}
