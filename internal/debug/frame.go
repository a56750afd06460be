package debug

import (
	"fmt"
	"strings"
)

// CallType tells how a method was invoked.
type CallType uint8

const (
	CallNone     CallType = iota // not recorded
	CallInstance                 // method on a receiver, "->"
	CallStatic                   // type-level call, "::"
)

// String returns the string representation of CallType.
func (c CallType) String() string {
	switch c {
	case CallInstance:
		return "instance"
	case CallStatic:
		return "static"
	default:
		return ""
	}
}

// Separator returns the text placed between the type label and the
// function name. Unrecorded call types use the instance separator.
func (c CallType) Separator() string {
	if c == CallStatic {
		return "::"
	}
	return "->"
}

// ParseCallType accepts both the names ("instance", "static") and the
// separators ("->", "::"). The empty string yields CallNone.
func ParseCallType(s string) (CallType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return CallNone, nil
	case "instance", "->":
		return CallInstance, nil
	case "static", "::":
		return CallStatic, nil
	default:
		return CallNone, fmt.Errorf("invalid call type: %q (expected: instance|static|->|::)", s)
	}
}

// Object identifies the receiver of an instance call.
type Object struct {
	Type string // runtime type of the receiver
	ID   string // opaque token, unique per live instance
}

// Frame is one pending call. Empty strings and nil mean the attribute is
// absent.
type Frame struct {
	Function string   // invoked function or method name
	Class    string   // declaring type
	Call     CallType // how the method was invoked
	Object   *Object  // receiver, instance calls only
	Args     []Value  // argument previews
	File     string   // absolute source path
	Line     int      // 0 when unknown
}

// Trace is a call stack, innermost frame first. Index 0 is the frame that
// captured the stack.
type Trace []Frame
