package debug

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds formatter configuration.
type Config struct {
	RootPath  string // shortens file paths; "" uses RootPath()
	ArgLength int    // string argument limit; <= 0 uses DefaultArgLength
}

// Options selects the output shape of a single formatting call.
type Options struct {
	HTML     bool // wrap the output in <pre></pre>
	WithArgs bool // render argument previews
}

// Formatter renders traces. It holds no mutable state and is safe for
// concurrent use.
type Formatter struct {
	root     string
	renderer Renderer
}

// New creates a Formatter based on Config.
func New(cfg Config) *Formatter {
	root := cfg.RootPath
	if root == "" {
		root = RootPath()
	}
	return &Formatter{
		root:     root,
		renderer: Renderer{MaxLen: cfg.ArgLength},
	}
}

// Root returns the root path the formatter shortens locations against.
func (f *Formatter) Root() string { return f.root }

// Renderer returns the argument renderer used by the formatter.
func (f *Formatter) Renderer() Renderer { return f.renderer }

// NormalizeLocation returns "path:line" for a frame with a file, with the
// root path and one separator removed, or "" when the frame has no file.
//
// The root is searched anywhere in the path, not only at its start; once
// found, len(root)+1 leading bytes are dropped.
func (f *Formatter) NormalizeLocation(fr *Frame) string {
	if fr == nil || fr.File == "" {
		return ""
	}
	file := fr.File
	if f.root != "" && strings.Contains(file, f.root) {
		if cut := len(f.root) + 1; cut < len(file) {
			file = file[cut:]
		} else {
			file = ""
		}
	}
	return file + ":" + strconv.Itoa(fr.Line)
}

// FormatFrame renders frame i as "#i method called at [location]".
// Frame 0 belongs to the capturing call and renders as "".
func (f *Formatter) FormatFrame(i int, fr Frame, withArgs bool) string {
	if i == 0 {
		return ""
	}
	var sb strings.Builder
	f.writeFrame(&sb, i, &fr, withArgs)
	return sb.String()
}

func (f *Formatter) writeFrame(sb *strings.Builder, i int, fr *Frame, withArgs bool) {
	sb.WriteString("#")
	sb.WriteString(strconv.Itoa(i))
	sb.WriteString(" ")

	switch {
	case fr.Class != "" && fr.Function != "":
		if fr.Object != nil && fr.Object.Type != fr.Class {
			sb.WriteString(fr.Object.Type)
			sb.WriteString("[")
			sb.WriteString(fr.Class)
			sb.WriteString("]")
		} else {
			sb.WriteString(fr.Class)
		}
		if fr.Object != nil {
			sb.WriteString("#")
			sb.WriteString(fr.Object.ID)
			sb.WriteString("#")
		}
		sb.WriteString(fr.Call.Separator())
		f.writeCall(sb, fr, withArgs)
	case fr.Function != "":
		f.writeCall(sb, fr, withArgs)
	}

	if loc := f.NormalizeLocation(fr); loc != "" {
		sb.WriteString(" called at [")
		sb.WriteString(loc)
		sb.WriteString("]")
	}
}

func (f *Formatter) writeCall(sb *strings.Builder, fr *Frame, withArgs bool) {
	sb.WriteString(fr.Function)
	sb.WriteString("(")
	if withArgs {
		for i, arg := range fr.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.renderer.Render(arg))
		}
	}
	sb.WriteString(")")
}

// FormatTrace renders every frame after the first, one per line.
func (f *Formatter) FormatTrace(t Trace, opts Options) string {
	var sb strings.Builder
	if opts.HTML {
		sb.WriteString("<pre>")
	}
	for i := 1; i < len(t); i++ {
		f.writeFrame(&sb, i, &t[i], opts.WithArgs)
		sb.WriteString("\n")
	}
	if opts.HTML {
		sb.WriteString("</pre>")
	}
	return sb.String()
}

// WriteTrace writes the formatted trace to w.
func (f *Formatter) WriteTrace(w io.Writer, t Trace, opts Options) error {
	_, err := io.WriteString(w, f.FormatTrace(t, opts))
	return err
}

// Backtrace formats the stack of its caller. The frame of Backtrace itself
// is frame 0 and is left out.
func (f *Formatter) Backtrace(opts Options) string {
	return f.FormatTrace(Capture(0), opts)
}

// PrintBacktrace writes the stack of its caller to standard output.
func (f *Formatter) PrintBacktrace(opts Options) error {
	return f.WriteTrace(os.Stdout, Capture(0), opts)
}

var defaultFormatter = sync.OnceValue(func() *Formatter {
	return New(Config{})
})

// Default returns the formatter used by the package-level functions. It uses
// RootPath() and DefaultArgLength.
func Default() *Formatter {
	return defaultFormatter()
}

// FormatTrace formats t with the default formatter.
func FormatTrace(t Trace, opts Options) string {
	return Default().FormatTrace(t, opts)
}

// Backtrace formats the stack of its caller with the default formatter.
func Backtrace(opts Options) string {
	return Default().FormatTrace(Capture(0), opts)
}

// PrintBacktrace writes the stack of its caller to standard output.
func PrintBacktrace(opts Options) error {
	return Default().WriteTrace(os.Stdout, Capture(0), opts)
}
