package tracefile

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format is the encoding of a trace file.
type Format uint8

const (
	FormatAuto    Format = iota // detect from the file extension
	FormatJSON                  // .json
	FormatYAML                  // .yaml, .yml
	FormatMsgpack               // .msgpack, .mpk
)

var (
	// ErrUnknownFormat is returned when no format is given and none can be
	// derived from the file name.
	ErrUnknownFormat = errors.New("unknown trace file format")
	// ErrBadValue is returned for frames or arguments that cannot be decoded.
	ErrBadValue = errors.New("malformed trace value")
)

// String returns the string representation of Format.
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// ParseFormat converts a string to Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mpk":
		return FormatMsgpack, nil
	default:
		return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|json|yaml|msgpack)", s)
	}
}

// DetectFormat derives the format from the extension of path.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	default:
		return FormatAuto, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
}

func resolve(path string, f Format) (Format, error) {
	if f != FormatAuto {
		return f, nil
	}
	return DetectFormat(path)
}
