package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"

	"backtrace/internal/config"
)

func TestApplyColor(t *testing.T) {
	withColor(t, false)
	var buf bytes.Buffer

	applyColor(config.ColorOn, &buf)
	if color.NoColor {
		t.Fatalf("ColorOn left colour disabled")
	}
	applyColor(config.ColorOff, &buf)
	if !color.NoColor {
		t.Fatalf("ColorOff left colour enabled")
	}
	color.NoColor = false
	applyColor(config.ColorAuto, &buf)
	if !color.NoColor {
		t.Fatalf("auto mode enabled colour for a non-terminal writer")
	}
}
