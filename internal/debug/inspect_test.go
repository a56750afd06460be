package debug

import (
	"net"
	"os"
	"strings"
	"testing"
)

type cart struct{ items int }

type pool struct{}

func (pool) ResourceKind() string { return "pool" }

func TestInspectRendersLikeOriginalCategories(t *testing.T) {
	var nilMap map[string]int
	var nilCart *cart
	ch := make(chan int)

	cases := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "NULL"},
		{"typed nil pointer", nilCart, "NULL"},
		{"nil map", nilMap, "NULL"},
		{"bool", true, "true"},
		{"int", 42, "42"},
		{"int8", int8(-3), "-3"},
		{"uint", uint16(9), "9"},
		{"float", 0.5, "0.5"},
		{"string", "hello", "'hello'"},
		{"bytes", []byte("raw"), "'raw'"},
		{"slice", []int{1, 2, 3}, "array(1, 2, 3)"},
		{"array", [2]string{"a", "b"}, "array('a', 'b')"},
		{"any slice", []any{nil, "x", 1.25}, "array(NULL, 'x', 1.25)"},
		{"map", map[string]int{"b": 2, "a": 1}, "array('a' => 1, 'b' => 2)"},
		{"int map from zero", map[int]string{1: "y", 0: "x"}, "array('x', 'y')"},
		{"int map", map[int]string{10: "y", 2: "x"}, "array(2 => 'x', 10 => 'y')"},
		{"channel", ch, "#[chan]"},
		{"func", func() {}, "#[func]"},
		{"file", os.Stdin, "#[stream]"},
		{"resource kinder", pool{}, "#[pool]"},
		{"complex", complex(1, 2), ""},
	}
	var r Renderer
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Render(Inspect(tc.in)); got != tc.want {
				t.Fatalf("Render(Inspect(%v)) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestInspectSocket(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	if got := Inspect(a); got.Kind() != KindResource || got.Text() != "socket" {
		t.Fatalf("Inspect(net.Conn) = %v %q", got.Kind(), got.Text())
	}

	var conn net.Conn = (*net.TCPConn)(nil)
	if got := Inspect(conn); got.Kind() != KindNull {
		t.Fatalf("Inspect(nil *net.TCPConn) = %v, want null", got.Kind())
	}
}

func TestInspectSelfReference(t *testing.T) {
	m := map[string]any{"n": 1}
	m["self"] = m
	got := (Renderer{}).Render(Inspect(m))
	if !strings.HasPrefix(got, "array('n' => 1, 'self' => &map[string]interface {}#") || !strings.HasSuffix(got, "#)") {
		t.Fatalf("Render(self map) = %q", got)
	}

	s := []any{"a", nil}
	s[1] = s
	got = (Renderer{}).Render(Inspect(s))
	if !strings.HasPrefix(got, "array('a', &[]interface {}#") || !strings.HasSuffix(got, "#)") {
		t.Fatalf("Render(self slice) = %q", got)
	}
}

func TestInspectSharedValueIsNotACycle(t *testing.T) {
	shared := []int{1, 2}
	got := (Renderer{}).Render(Inspect([]any{shared, shared}))
	if got != "array(array(1, 2), array(1, 2))" {
		t.Fatalf("Render = %q", got)
	}
}

func TestInspectObjectIdentity(t *testing.T) {
	c1, c2 := &cart{}, &cart{}

	v1 := Inspect(c1)
	if v1.Kind() != KindObject || v1.Text() != "debug.cart" {
		t.Fatalf("Inspect(*cart) = %v %q", v1.Kind(), v1.Text())
	}
	if v1.ID() == "" || v1.ID() != Inspect(c1).ID() {
		t.Fatalf("pointer identity is not stable: %q", v1.ID())
	}
	if v1.ID() == Inspect(c2).ID() {
		t.Fatalf("distinct instances share identity %q", v1.ID())
	}

	s1, s2 := Inspect(cart{}), Inspect(cart{})
	if s1.ID() == s2.ID() {
		t.Fatalf("struct values share identity %q", s1.ID())
	}
	if got := (Renderer{}).Render(s1); !strings.HasPrefix(got, "&debug.cart#v") {
		t.Fatalf("Render(struct) = %q", got)
	}
}

func TestArgs(t *testing.T) {
	args := Args(1, "x", nil)
	if len(args) != 3 {
		t.Fatalf("len(Args) = %d", len(args))
	}
	f := New(Config{RootPath: testRoot})
	got := f.FormatFrame(1, Frame{Function: "foo", Args: args}, true)
	if got != "#1 foo(1, 'x', NULL)" {
		t.Fatalf("FormatFrame = %q", got)
	}
}

func TestKindRoundTrip(t *testing.T) {
	for k := KindOther; k <= KindResource; k++ {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("tuple"); ok {
		t.Fatalf("ParseKind accepted unknown kind")
	}
}
