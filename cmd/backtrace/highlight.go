package main

import (
	"strings"

	"github.com/fatih/color"
)

var (
	frameIndexColor = color.New(color.FgYellow, color.Bold)
	frameCallColor  = color.New(color.FgWhite)
	locationColor   = color.New(color.FgCyan)
)

const calledAt = " called at ["

// highlightTrace colours the index, call and location of every frame line.
// Lines that do not start with "#N " are left alone.
func highlightTrace(text string) string {
	if color.NoColor {
		return text
	}
	lines := strings.SplitAfter(text, "\n")
	for i, line := range lines {
		body := strings.TrimSuffix(line, "\n")
		lines[i] = highlightLine(body) + line[len(body):]
	}
	return strings.Join(lines, "")
}

func highlightLine(line string) string {
	index, rest, ok := strings.Cut(line, " ")
	if !ok || len(index) < 2 || index[0] != '#' {
		return line
	}

	call, loc := rest, ""
	// string arguments may contain the marker, the location never does
	if at := strings.LastIndex(rest, calledAt); at >= 0 && strings.HasSuffix(rest, "]") {
		call = rest[:at]
		loc = rest[at+len(calledAt) : len(rest)-1]
	}

	var sb strings.Builder
	sb.WriteString(frameIndexColor.Sprint(index))
	sb.WriteString(" ")
	sb.WriteString(frameCallColor.Sprint(call))
	if loc != "" {
		sb.WriteString(calledAt)
		sb.WriteString(locationColor.Sprint(loc))
		sb.WriteString("]")
	}
	return sb.String()
}
