package sink

import (
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"
)

// Record is one formatted trace.
type Record struct {
	Time   time.Time // when the trace was formatted
	Seq    uint64    // global sequence number (monotonic)
	Source string    // trace file path, or "capture" for live stacks
	Frames int       // number of rendered frames
	Text   string    // formatted trace
}

var globalSeq uint64

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 {
	return atomic.AddUint64(&globalSeq, 1)
}

// Format represents the output format for records.
type Format uint8

const (
	FormatAuto   Format = iota // derive from the output path
	FormatText                 // human-readable text
	FormatNDJSON               // newline-delimited JSON
)

// ParseFormat converts a string to Format.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, true
	case "text":
		return FormatText, true
	case "ndjson":
		return FormatNDJSON, true
	default:
		return FormatAuto, false
	}
}

// FormatRecord formats a record according to the specified format.
func FormatRecord(rec *Record, format Format) []byte {
	switch format {
	case FormatNDJSON:
		return formatNDJSON(rec)
	default:
		return formatText(rec)
	}
}

func formatNDJSON(rec *Record) []byte {
	type jsonRecord struct {
		Time   string `json:"time"`
		Seq    uint64 `json:"seq"`
		Source string `json:"source,omitempty"`
		Frames int    `json:"frames"`
		Text   string `json:"text"`
	}

	data, _ := json.Marshal(jsonRecord{
		Time:   rec.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:    rec.Seq,
		Source: rec.Source,
		Frames: rec.Frames,
		Text:   rec.Text,
	})
	data = append(data, '\n')
	return data
}

// formatText writes the trace as is, under a "==> source <==" header when
// the source is known.
func formatText(rec *Record) []byte {
	var sb strings.Builder
	if rec.Source != "" {
		sb.WriteString("==> ")
		sb.WriteString(rec.Source)
		sb.WriteString(" <==\n")
	}
	sb.WriteString(rec.Text)
	if rec.Text != "" && !strings.HasSuffix(rec.Text, "\n") {
		sb.WriteString("\n")
	}
	return []byte(sb.String())
}
