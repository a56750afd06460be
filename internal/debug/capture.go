package debug

import (
	"runtime"
	"strings"
)

// maxStackDepth bounds the number of frames Capture records.
const maxStackDepth = 64

// Capture returns the current goroutine's stack. Frame 0 is the function
// that called Capture, after dropping skip further frames.
//
// Go does not expose argument values or receivers of pending calls, so
// captured frames carry no Args and no Object.
func Capture(skip int) Trace {
	if skip < 0 {
		skip = 0
	}
	var pcs [maxStackDepth]uintptr
	// 0 is runtime.Callers, 1 is Capture
	n := runtime.Callers(skip+2, pcs[:])
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	trace := make(Trace, 0, n)
	for {
		frame, more := frames.Next()
		if frame.Function != "" {
			trace = append(trace, frameOf(frame))
		}
		if !more {
			break
		}
	}
	return trace
}

func frameOf(rf runtime.Frame) Frame {
	class, function, call := SplitSymbol(rf.Function)
	return Frame{
		Function: function,
		Class:    class,
		Call:     call,
		File:     rf.File,
		Line:     rf.Line,
	}
}

// SplitSymbol splits a Go symbol name into declaring type and function.
//
//	example.com/app.(*Cart).Add  -> "example.com/app.Cart", "Add", CallInstance
//	example.com/app.Cart.Total   -> "example.com/app.Cart", "Total", CallInstance
//	example.com/app.Run.func1    -> "", "example.com/app.Run.func1", CallNone
//	example.com/app.Run          -> "", "example.com/app.Run", CallNone
func SplitSymbol(symbol string) (class, function string, call CallType) {
	// the package path may contain dots, but never after its last slash
	slash := strings.LastIndexByte(symbol, '/')
	dot := strings.IndexByte(symbol[slash+1:], '.')
	if dot < 0 {
		return "", symbol, CallNone
	}
	pkg := symbol[:slash+1+dot]
	rest := symbol[slash+1+dot+1:]

	if strings.HasPrefix(rest, "(*") {
		end := strings.Index(rest, ").")
		if end < 0 {
			return "", symbol, CallNone
		}
		return pkg + "." + rest[2:end], rest[end+2:], CallInstance
	}

	typ, method, ok := cutDot(rest)
	if !ok || isClosure(method) || typ == "glob" {
		return "", symbol, CallNone
	}
	return pkg + "." + typ, method, CallInstance
}

// cutDot is strings.Cut on the first '.' outside of a type parameter list
// such as "Set[...]".
func cutDot(s string) (before, after string, found bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
		case '.':
			if depth == 0 {
				return s[:i], s[i+1:], true
			}
		}
	}
	return s, "", false
}

// isClosure reports whether a symbol segment names an anonymous function
// ("func1", "1", ".func2").
func isClosure(seg string) bool {
	seg = strings.TrimLeft(seg, ".")
	if strings.HasPrefix(seg, "func") {
		return true
	}
	return seg != "" && seg[0] >= '0' && seg[0] <= '9'
}
