package tracefile

import (
	"fmt"
	"regexp"
	"strconv"

	"fortio.org/safecast"

	"backtrace/internal/debug"
)

// document is the on-disk shape shared by every format. Frame attributes
// keep the names of a classic backtrace array: function, class, type,
// object, args, file, line.
type document struct {
	Frames []wireFrame `json:"frames" yaml:"frames" msgpack:"frames"`
}

type wireFrame struct {
	Function string      `json:"function,omitempty" yaml:"function,omitempty" msgpack:"function,omitempty"`
	Class    string      `json:"class,omitempty" yaml:"class,omitempty" msgpack:"class,omitempty"`
	Type     string      `json:"type,omitempty" yaml:"type,omitempty" msgpack:"type,omitempty"`
	Object   *wireObject `json:"object,omitempty" yaml:"object,omitempty" msgpack:"object,omitempty"`
	Args     []wireValue `json:"args,omitempty" yaml:"args,omitempty" msgpack:"args,omitempty"`
	File     string      `json:"file,omitempty" yaml:"file,omitempty" msgpack:"file,omitempty"`
	Line     int64       `json:"line,omitempty" yaml:"line,omitempty" msgpack:"line,omitempty"`
}

type wireObject struct {
	Class string `json:"class" yaml:"class" msgpack:"class"`
	ID    string `json:"id" yaml:"id" msgpack:"id"`
}

// wireValue is a tagged argument: kind selects which other fields apply.
type wireValue struct {
	Kind    string      `json:"kind" yaml:"kind" msgpack:"kind"`
	Value   string      `json:"value,omitempty" yaml:"value,omitempty" msgpack:"value,omitempty"`
	ID      string      `json:"id,omitempty" yaml:"id,omitempty" msgpack:"id,omitempty"`
	Items   []wireValue `json:"items,omitempty" yaml:"items,omitempty" msgpack:"items,omitempty"`
	Entries []wireEntry `json:"entries,omitempty" yaml:"entries,omitempty" msgpack:"entries,omitempty"`
}

type wireEntry struct {
	Key   wireValue `json:"key" yaml:"key" msgpack:"key"`
	Value wireValue `json:"value" yaml:"value" msgpack:"value"`
}

// decimal accepts plain decimal numbers with an optional exponent.
var decimal = regexp.MustCompile(`^[-+]?(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?$`)

func toTrace(doc document) (debug.Trace, error) {
	trace := make(debug.Trace, len(doc.Frames))
	for i, wf := range doc.Frames {
		fr, err := toFrame(wf)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		trace[i] = fr
	}
	return trace, nil
}

func toFrame(wf wireFrame) (debug.Frame, error) {
	call, err := debug.ParseCallType(wf.Type)
	if err != nil {
		return debug.Frame{}, fmt.Errorf("%w: %w", ErrBadValue, err)
	}
	line, err := safecast.Conv[int](wf.Line)
	if err != nil {
		return debug.Frame{}, fmt.Errorf("%w: line %d: %w", ErrBadValue, wf.Line, err)
	}
	fr := debug.Frame{
		Function: wf.Function,
		Class:    wf.Class,
		Call:     call,
		File:     wf.File,
		Line:     line,
	}
	if wf.Object != nil {
		fr.Object = &debug.Object{Type: wf.Object.Class, ID: wf.Object.ID}
	}
	if len(wf.Args) > 0 {
		fr.Args = make([]debug.Value, len(wf.Args))
		for i, a := range wf.Args {
			v, err := toValue(a)
			if err != nil {
				return debug.Frame{}, fmt.Errorf("arg %d: %w", i, err)
			}
			fr.Args[i] = v
		}
	}
	return fr, nil
}

func toValue(wv wireValue) (debug.Value, error) {
	kind, ok := debug.ParseKind(wv.Kind)
	if !ok {
		return debug.Value{}, fmt.Errorf("%w: unknown kind %q", ErrBadValue, wv.Kind)
	}
	switch kind {
	case debug.KindNull:
		return debug.Null(), nil
	case debug.KindBool:
		b, err := strconv.ParseBool(wv.Value)
		if err != nil {
			return debug.Value{}, fmt.Errorf("%w: bool %q", ErrBadValue, wv.Value)
		}
		return debug.Bool(b), nil
	case debug.KindNumber:
		if !decimal.MatchString(wv.Value) {
			return debug.Value{}, fmt.Errorf("%w: number %q", ErrBadValue, wv.Value)
		}
		return debug.Number(wv.Value), nil
	case debug.KindString:
		return debug.String(wv.Value), nil
	case debug.KindSequence:
		items := make([]debug.Value, len(wv.Items))
		for i, it := range wv.Items {
			v, err := toValue(it)
			if err != nil {
				return debug.Value{}, err
			}
			items[i] = v
		}
		return debug.Seq(items...), nil
	case debug.KindMapping:
		entries := make([]debug.Entry, len(wv.Entries))
		for i, e := range wv.Entries {
			k, err := toValue(e.Key)
			if err != nil {
				return debug.Value{}, err
			}
			v, err := toValue(e.Value)
			if err != nil {
				return debug.Value{}, err
			}
			entries[i] = debug.Entry{Key: k, Value: v}
		}
		return debug.Map(entries...), nil
	case debug.KindObject:
		return debug.Obj(wv.Value, wv.ID), nil
	case debug.KindResource:
		return debug.Resource(wv.Value), nil
	default:
		return debug.Other(), nil
	}
}

func fromTrace(t debug.Trace) document {
	doc := document{Frames: make([]wireFrame, len(t))}
	for i, fr := range t {
		wf := wireFrame{
			Function: fr.Function,
			Class:    fr.Class,
			File:     fr.File,
			Line:     int64(fr.Line),
		}
		if fr.Call != debug.CallNone {
			wf.Type = fr.Call.Separator()
		}
		if fr.Object != nil {
			wf.Object = &wireObject{Class: fr.Object.Type, ID: fr.Object.ID}
		}
		for _, a := range fr.Args {
			wf.Args = append(wf.Args, fromValue(a))
		}
		doc.Frames[i] = wf
	}
	return doc
}

func fromValue(v debug.Value) wireValue {
	wv := wireValue{Kind: v.Kind().String()}
	switch v.Kind() {
	case debug.KindBool, debug.KindNumber, debug.KindString, debug.KindResource:
		wv.Value = v.Text()
	case debug.KindObject:
		wv.Value = v.Text()
		wv.ID = v.ID()
	case debug.KindSequence:
		for _, it := range v.Items() {
			wv.Items = append(wv.Items, fromValue(it))
		}
	case debug.KindMapping:
		for _, e := range v.Entries() {
			wv.Entries = append(wv.Entries, wireEntry{Key: fromValue(e.Key), Value: fromValue(e.Value)})
		}
	}
	return wv
}
