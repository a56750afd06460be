// Package debug turns call stacks into readable text.
//
// A Trace is an ordered list of Frames, innermost first. Frame 0 is the
// function that captured the stack and is never rendered.
//
// # Usage
//
// Capture and print the current stack:
//
//	debug.PrintBacktrace(debug.Options{WithArgs: true})
//
// Format an already materialized trace with an explicit root path:
//
//	f := debug.New(debug.Config{RootPath: "/srv/app"})
//	out := f.FormatTrace(trace, debug.Options{HTML: true, WithArgs: true})
//
// # Output
//
// Each frame becomes one line. A captured method call has no arguments or
// receiver, since Go does not expose them:
//
//	#1 app.Cart->Add() called at [cart/cart.go:41]
//
// A frame built by hand can carry both:
//
//	#1 app.Cart#c000012345#->Add(&app.Item#c000054321#, 2) called at [cart/cart.go:41]
//
// File paths are shortened against the root path (see RootPath) and string
// arguments are cut to Config.ArgLength characters.
//
// # Arguments
//
// Arguments are carried as Value, a closed variant over null, bool, number,
// string, sequence, mapping, object, resource and other. Inspect builds a
// Value from an arbitrary Go value at the boundary where frames are captured.
package debug
