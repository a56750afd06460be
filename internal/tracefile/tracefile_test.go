package tracefile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"

	"backtrace/internal/debug"
)

var valueOpt = cmp.AllowUnexported(debug.Value{})

func wantTrace() debug.Trace {
	return debug.Trace{
		{Function: "self"},
		{
			Class:    "Cart",
			Function: "Add",
			Call:     debug.CallInstance,
			Object:   &debug.Object{Type: "Cart", ID: "c1"},
			Args: []debug.Value{
				debug.String("sku-1"),
				debug.Number("2"),
				debug.Map(debug.Entry{Key: debug.String("qty"), Value: debug.Number("2")}),
				debug.Null(),
				debug.Bool(true),
				debug.Resource("stream"),
				debug.Seq(debug.Number("1.5")),
			},
			File: "/srv/app/cart.go",
			Line: 41,
		},
		{Class: "Factory", Function: "make", Call: debug.CallStatic, File: "/srv/app/main.go"},
	}
}

const jsonTrace = `{"frames": [
  {"function": "self"},
  {"class": "Cart", "type": "->", "function": "Add",
   "object": {"class": "Cart", "id": "c1"},
   "args": [
     {"kind": "string", "value": "sku-1"},
     {"kind": "number", "value": "2"},
     {"kind": "map", "entries": [{"key": {"kind": "string", "value": "qty"}, "value": {"kind": "number", "value": "2"}}]},
     {"kind": "null"},
     {"kind": "bool", "value": "true"},
     {"kind": "resource", "value": "stream"},
     {"kind": "list", "items": [{"kind": "number", "value": "1.5"}]}
   ],
   "file": "/srv/app/cart.go", "line": 41},
  {"class": "Factory", "type": "static", "function": "make", "file": "/srv/app/main.go"}
]}`

const yamlTrace = `frames:
  - function: self
  - class: Cart
    type: "->"
    function: Add
    object: {class: Cart, id: c1}
    args:
      - {kind: string, value: sku-1}
      - {kind: number, value: "2"}
      - kind: map
        entries:
          - key: {kind: string, value: qty}
            value: {kind: number, value: "2"}
      - {kind: "null"}
      - {kind: bool, value: "true"}
      - {kind: resource, value: stream}
      - kind: list
        items:
          - {kind: number, value: "1.5"}
    file: /srv/app/cart.go
    line: 41
  - class: Factory
    type: "::"
    function: make
    file: /srv/app/main.go
`

func TestDecodeJSON(t *testing.T) {
	got, err := Decode(strings.NewReader(jsonTrace), FormatJSON)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(wantTrace(), got, valueOpt); diff != "" {
		t.Fatalf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeYAML(t *testing.T) {
	got, err := Decode(strings.NewReader(yamlTrace), FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(wantTrace(), got, valueOpt); diff != "" {
		t.Fatalf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestMsgpackPreservesTrace(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, wantTrace(), FormatMsgpack); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf, FormatMsgpack)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(wantTrace(), got, valueOpt); diff != "" {
		t.Fatalf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsMalformedValues(t *testing.T) {
	cases := map[string]string{
		"unknown kind": `{"frames": [{}, {"function": "f", "args": [{"kind": "tuple"}]}]}`,
		"bad number":   `{"frames": [{}, {"function": "f", "args": [{"kind": "number", "value": "two"}]}]}`,
		"nan number":   `{"frames": [{}, {"function": "f", "args": [{"kind": "number", "value": "NaN"}]}]}`,
		"inf number":   `{"frames": [{}, {"function": "f", "args": [{"kind": "number", "value": "-Inf"}]}]}`,
		"hex number":   `{"frames": [{}, {"function": "f", "args": [{"kind": "number", "value": "0x1p-2"}]}]}`,
		"bad bool":     `{"frames": [{}, {"function": "f", "args": [{"kind": "bool", "value": "yes"}]}]}`,
		"bad call":     `{"frames": [{}, {"function": "f", "class": "C", "type": "."}]}`,
		"nested":       `{"frames": [{}, {"function": "f", "args": [{"kind": "list", "items": [{"kind": "?"}]}]}]}`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(in), FormatJSON)
			if !errors.Is(err, ErrBadValue) {
				t.Fatalf("Decode error = %v, want ErrBadValue", err)
			}
		})
	}
}

func TestDecodeAcceptsDecimalNumbers(t *testing.T) {
	for _, num := range []string{"0", "-42", "+7", "2.50", ".5", "3.", "-1.5e3", "6E-2"} {
		in := `{"frames": [{}, {"function": "f", "args": [{"kind": "number", "value": "` + num + `"}]}]}`
		got, err := Decode(strings.NewReader(in), FormatJSON)
		if err != nil {
			t.Fatalf("Decode(%q): %v", num, err)
		}
		if text := got[1].Args[0].Text(); text != num {
			t.Fatalf("number text = %q, want %q", text, num)
		}
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	packed, err := msgpack.Marshal(map[string]any{
		"frames": []any{map[string]any{"fucntion": "x"}},
	})
	if err != nil {
		t.Fatalf("msgpack.Marshal: %v", err)
	}
	cases := []struct {
		format Format
		in     []byte
	}{
		{FormatJSON, []byte(`{"frames": [{"fucntion": "x"}]}`)},
		{FormatYAML, []byte("frames:\n  - fucntion: x\n")},
		{FormatMsgpack, packed},
	}
	for _, tc := range cases {
		t.Run(tc.format.String(), func(t *testing.T) {
			if _, err := Decode(bytes.NewReader(tc.in), tc.format); err == nil {
				t.Fatalf("expected error for unknown field")
			}
		})
	}
}

func TestSaveAndLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"trace.json", "trace.yml", "trace.msgpack"} {
		path := filepath.Join(dir, name)
		if err := Save(path, wantTrace(), FormatAuto); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
		got, err := Load(path, FormatAuto)
		if err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
		if diff := cmp.Diff(wantTrace(), got, valueOpt); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestLoadUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.txt")
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path, FormatAuto); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("Load error = %v, want ErrUnknownFormat", err)
	}
	// an explicit format wins over the extension
	if _, err := Load(path, FormatJSON); err != nil {
		t.Fatalf("Load with explicit format: %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"":        FormatAuto,
		"auto":    FormatAuto,
		"JSON":    FormatJSON,
		"yml":     FormatYAML,
		"msgpack": FormatMsgpack,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
}

func TestFormattedFromFile(t *testing.T) {
	tr, err := Decode(strings.NewReader(jsonTrace), FormatJSON)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	f := debug.New(debug.Config{RootPath: "/srv/app"})
	got := f.FormatTrace(tr, debug.Options{WithArgs: true})
	want := "#1 Cart#c1#->Add('sku-1', 2, array('qty' => 2), NULL, true, #[stream], array(1.5)) called at [cart.go:41]\n" +
		"#2 Factory::make() called at [main.go:0]\n"
	if got != want {
		t.Fatalf("FormatTrace =\n%s\nwant\n%s", got, want)
	}
}
