package sink

import (
	"io"
	"sync"
)

// RingSink keeps the last N records in memory (circular buffer).
type RingSink struct {
	mu       sync.RWMutex
	records  []Record
	capacity int
	head     int  // next write position
	full     bool // has wrapped around
}

// NewRingSink creates a new RingSink with specified capacity.
func NewRingSink(capacity int) *RingSink {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}

	return &RingSink{
		records:  make([]Record, capacity),
		capacity: capacity,
	}
}

// Write adds a record to the ring buffer.
func (s *RingSink) Write(rec *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *rec
	if stored.Seq == 0 {
		stored.Seq = NextSeq()
	}
	s.records[s.head] = stored
	s.head = (s.head + 1) % s.capacity

	if s.head == 0 {
		s.full = true
	}
}

// Snapshot returns a copy of all stored records in chronological order.
func (s *RingSink) Snapshot() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.full {
		result := make([]Record, s.head)
		copy(result, s.records[:s.head])
		return result
	}

	// wrapped: [head:capacity] + [0:head]
	result := make([]Record, s.capacity)
	copy(result, s.records[s.head:])
	copy(result[s.capacity-s.head:], s.records[:s.head])
	return result
}

// Dump writes all records to the provided writer in the specified format.
func (s *RingSink) Dump(w io.Writer, format Format) error {
	for _, rec := range s.Snapshot() {
		if _, err := w.Write(FormatRecord(&rec, format)); err != nil {
			return err
		}
	}
	return nil
}

// Flush is a no-op for RingSink since everything is in memory.
func (s *RingSink) Flush() error {
	return nil
}

// Close is a no-op for RingSink.
func (s *RingSink) Close() error {
	return nil
}
