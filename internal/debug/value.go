package debug

import "strconv"

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindOther    Kind = iota // anything without a rendering
	KindNull                 // nil / absent
	KindBool                 // true or false
	KindNumber               // integer or floating point
	KindString               // text
	KindSequence             // ordered list
	KindMapping              // ordered key/value pairs
	KindObject               // instance reference with identity token
	KindResource             // handle: file, socket, channel...
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "list"
	case KindMapping:
		return "map"
	case KindObject:
		return "object"
	case KindResource:
		return "resource"
	default:
		return "other"
	}
}

// ParseKind converts a kind name produced by Kind.String back to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "null":
		return KindNull, true
	case "bool":
		return KindBool, true
	case "number":
		return KindNumber, true
	case "string":
		return KindString, true
	case "list":
		return KindSequence, true
	case "map":
		return KindMapping, true
	case "object":
		return KindObject, true
	case "resource":
		return KindResource, true
	case "other":
		return KindOther, true
	default:
		return KindOther, false
	}
}

// Value is a captured argument. The zero Value is of KindOther.
type Value struct {
	kind    Kind
	text    string // bool/number text, string payload, object type, resource kind
	id      string // object identity token
	items   []Value
	entries []Entry
}

// Entry is one key/value pair of a mapping.
type Entry struct {
	Key   Value
	Value Value
}

func Null() Value { return Value{kind: KindNull} }

func Other() Value { return Value{} }

func Bool(b bool) Value {
	return Value{kind: KindBool, text: strconv.FormatBool(b)}
}

func Int(i int64) Value {
	return Value{kind: KindNumber, text: strconv.FormatInt(i, 10)}
}

func Uint(u uint64) Value {
	return Value{kind: KindNumber, text: strconv.FormatUint(u, 10)}
}

// Float uses the shortest decimal form that round-trips, without exponent.
func Float(f float64) Value {
	return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'f', -1, 64)}
}

// Number wraps decimal text that was already rendered elsewhere, e.g. decoded
// from a trace file. The text is not validated.
func Number(text string) Value {
	return Value{kind: KindNumber, text: text}
}

func String(s string) Value {
	return Value{kind: KindString, text: s}
}

func Seq(items ...Value) Value {
	return Value{kind: KindSequence, items: items}
}

func Map(entries ...Entry) Value {
	return Value{kind: KindMapping, entries: entries}
}

// Obj references an instance of typeName identified by id.
func Obj(typeName, id string) Value {
	return Value{kind: KindObject, text: typeName, id: id}
}

// Resource references an open handle of the given kind ("stream", "socket"...).
func Resource(kind string) Value {
	return Value{kind: KindResource, text: kind}
}

func (v Value) Kind() Kind { return v.kind }

// Text returns the scalar payload: "true"/"false" for bools, decimal text for
// numbers, the string itself, the object type or the resource kind.
func (v Value) Text() string { return v.text }

// ID returns the identity token of an object value.
func (v Value) ID() string { return v.id }

func (v Value) Items() []Value { return v.items }

func (v Value) Entries() []Entry { return v.entries }

// isList reports whether every key of a mapping is the integer equal to its
// position, in which case the mapping renders without keys.
func (v Value) isList() bool {
	for i, e := range v.entries {
		if e.Key.kind != KindNumber || e.Key.text != strconv.Itoa(i) {
			return false
		}
	}
	return true
}
