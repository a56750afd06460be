package debug

import (
	"cmp"
	"net"
	"os"
	"reflect"
	"slices"
	"strconv"
	"sync/atomic"
)

// ResourceKinder is implemented by values that should render as a handle
// rather than as an object.
type ResourceKinder interface {
	ResourceKind() string
}

var valueTokens uint64

// nextValueToken returns a token for instances that have no address.
func nextValueToken() string {
	return "v" + strconv.FormatUint(atomic.AddUint64(&valueTokens, 1), 10)
}

// Args inspects each argument in order.
func Args(vs ...any) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = Inspect(v)
	}
	return out
}

// Inspect classifies v into a Value.
//
// Handles (files, connections, channels, functions, unsafe pointers, and
// ResourceKinder implementations) become resources. Other pointers and
// structs become objects: pointers are identified by their address, values
// by a fresh process-unique token. Map entries are ordered by their
// rendered key. A map or slice that contains itself is shown as an object
// the second time it is reached.
func Inspect(v any) Value {
	var in inspector
	return in.any(v)
}

// inspector holds the maps and slices on the path being inspected.
type inspector struct {
	path map[uintptr]struct{}
}

func (in *inspector) any(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case ResourceKinder:
		if isNilPointer(v) {
			return Null()
		}
		return Resource(x.ResourceKind())
	case *os.File:
		if x == nil {
			return Null()
		}
		return Resource("stream")
	case net.Conn:
		if isNilPointer(v) {
			return Null()
		}
		return Resource("socket")
	case []byte:
		return String(string(x))
	}
	return in.value(reflect.ValueOf(v))
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func (in *inspector) value(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Invalid:
		return Null()
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float())
	case reflect.String:
		return String(rv.String())
	case reflect.Chan:
		return nilOr(rv, Resource("chan"))
	case reflect.Func:
		return nilOr(rv, Resource("func"))
	case reflect.UnsafePointer:
		return nilOr(rv, Resource("pointer"))
	case reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return in.elem(rv.Elem())
	case reflect.Slice:
		if rv.IsNil() {
			return Null()
		}
		return in.guard(rv, in.list)
	case reflect.Array:
		return in.list(rv)
	case reflect.Map:
		if rv.IsNil() {
			return Null()
		}
		return in.guard(rv, in.mapping)
	case reflect.Pointer:
		if rv.IsNil() {
			return Null()
		}
		return Obj(rv.Type().Elem().String(), addressToken(rv))
	case reflect.Struct:
		return Obj(rv.Type().String(), nextValueToken())
	default:
		// complex numbers
		return Other()
	}
}

func addressToken(rv reflect.Value) string {
	return strconv.FormatUint(uint64(rv.Pointer()), 16)
}

// guard runs fn unless the map or slice behind rv is already being
// inspected further up, in which case it becomes an object reference.
func (in *inspector) guard(rv reflect.Value, fn func(reflect.Value) Value) Value {
	if rv.Kind() == reflect.Slice && rv.Len() == 0 {
		return fn(rv)
	}
	p := rv.Pointer()
	if _, ok := in.path[p]; ok {
		return Obj(rv.Type().String(), addressToken(rv))
	}
	if in.path == nil {
		in.path = make(map[uintptr]struct{})
	}
	in.path[p] = struct{}{}
	defer delete(in.path, p)
	return fn(rv)
}

func nilOr(rv reflect.Value, v Value) Value {
	if rv.IsNil() {
		return Null()
	}
	return v
}

func (in *inspector) list(rv reflect.Value) Value {
	items := make([]Value, rv.Len())
	for i := range items {
		items[i] = in.elem(rv.Index(i))
	}
	return Seq(items...)
}

func (in *inspector) mapping(rv reflect.Value) Value {
	type keyed struct {
		sortKey string
		entry   Entry
	}
	var r Renderer
	pairs := make([]keyed, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := in.elem(iter.Key())
		pairs = append(pairs, keyed{
			sortKey: r.Render(k),
			entry:   Entry{Key: k, Value: in.elem(iter.Value())},
		})
	}
	slices.SortFunc(pairs, func(a, b keyed) int {
		ka, kb := a.entry.Key, b.entry.Key
		if ka.kind == KindNumber && kb.kind == KindNumber {
			x, _ := strconv.ParseFloat(ka.text, 64)
			y, _ := strconv.ParseFloat(kb.text, 64)
			if c := cmp.Compare(x, y); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.sortKey, b.sortKey)
	})
	entries := make([]Entry, len(pairs))
	for i, p := range pairs {
		entries[i] = p.entry
	}
	return Map(entries...)
}

// elem inspects a container element, going through the interface checks
// when the element can be exported so handle types are recognized.
func (in *inspector) elem(rv reflect.Value) Value {
	if rv.CanInterface() {
		return in.any(rv.Interface())
	}
	return in.value(rv)
}
