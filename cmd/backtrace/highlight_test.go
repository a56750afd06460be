package main

import (
	"regexp"
	"strings"
	"testing"

	"github.com/fatih/color"
)

var ansi = regexp.MustCompile("\x1b\\[[0-9;]*m")

func withColor(t *testing.T, on bool) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = !on
	t.Cleanup(func() { color.NoColor = orig })
}

func TestHighlightTraceNoColor(t *testing.T) {
	withColor(t, false)
	in := "#1 main() called at [main.go:3]\n"
	if got := highlightTrace(in); got != in {
		t.Fatalf("highlightTrace = %q, want unchanged", got)
	}
}

func TestHighlightTraceKeepsText(t *testing.T) {
	withColor(t, true)
	in := "<pre>#1 app.Server->Handle('GET', 2) called at [server.go:41]\n" +
		"#2 run()\n" +
		"#3 log(' called at [x]') called at [log.go:9]\n" +
		"</pre>"
	got := highlightTrace(in)
	if got == in {
		t.Fatalf("expected escape sequences in %q", got)
	}
	if plain := ansi.ReplaceAllString(got, ""); plain != in {
		t.Fatalf("stripped output = %q, want %q", plain, in)
	}
}

func TestHighlightLineLocation(t *testing.T) {
	withColor(t, true)
	got := highlightLine("#3 log(' called at [x]') called at [log.go:9]")
	want := locationColor.Sprint("log.go:9")
	if !strings.Contains(got, want) {
		t.Fatalf("location not highlighted as a unit: %q", got)
	}
	if strings.Contains(got, locationColor.Sprint("x]') called at [log.go:9")) {
		t.Fatalf("marker inside an argument was taken as the location: %q", got)
	}
}

func TestHighlightLineIgnoresOtherLines(t *testing.T) {
	withColor(t, true)
	for _, line := range []string{"", "==> a.json <==", "# comment", "#"} {
		if got := highlightLine(line); got != line {
			t.Errorf("highlightLine(%q) = %q, want unchanged", line, got)
		}
	}
}
