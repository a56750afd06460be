// Package tracefile stores materialized traces on disk.
//
// A trace file holds one document with a "frames" list. Each frame uses the
// attribute names of a classic backtrace array (function, class, type,
// object, args, file, line); arguments are tagged values:
//
//	{"frames": [
//	  {"function": "self"},
//	  {"class": "Cart", "type": "->", "function": "Add",
//	   "args": [{"kind": "string", "value": "sku-1"}, {"kind": "number", "value": "2"}],
//	   "file": "/srv/app/cart.go", "line": 41}
//	]}
//
// The same shape is accepted as JSON, YAML and MessagePack.
package tracefile

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"backtrace/internal/debug"
)

// Decode reads one trace document from r.
func Decode(r io.Reader, f Format) (debug.Trace, error) {
	var doc document
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode JSON trace: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode YAML trace: %w", err)
		}
	case FormatMsgpack:
		dec := msgpack.NewDecoder(r)
		dec.DisallowUnknownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode msgpack trace: %w", err)
		}
	default:
		return nil, ErrUnknownFormat
	}
	return toTrace(doc)
}

// Encode writes t to w as one document.
func Encode(w io.Writer, t debug.Trace, f Format) error {
	doc := fromTrace(t)
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(doc)
	default:
		return ErrUnknownFormat
	}
}

// Load reads the trace stored at path. FormatAuto picks the format from
// the file extension.
func Load(path string, f Format) (debug.Trace, error) {
	f, err := resolve(path, f)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace: %w", err)
	}
	defer file.Close()

	t, err := Decode(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Save writes t to path, replacing any existing file.
func Save(path string, t debug.Trace, f Format) (err error) {
	f, err = resolve(path, f)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trace: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := Encode(file, t, f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
