// Package config loads .backtrace.toml.
//
// The file is looked up from the working directory upwards:
//
//	[format]
//	root = "/srv/app"   # shortens file paths
//	arg_length = 24     # string argument limit
//	html = false
//	with_args = true
//
//	[output]
//	color = "auto"      # auto|on|off
//
// Values left out of the file keep their defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"backtrace/internal/debug"
)

// FileName is the name searched for by Find.
const FileName = ".backtrace.toml"

// Config is the merged configuration.
type Config struct {
	Path   string // file the values came from, "" for defaults
	Format FormatConfig
	Output OutputConfig
}

type FormatConfig struct {
	Root      string `toml:"root"`
	ArgLength int    `toml:"arg_length"`
	HTML      bool   `toml:"html"`
	WithArgs  bool   `toml:"with_args"`
}

type OutputConfig struct {
	Color string `toml:"color"`
}

type fileConfig struct {
	Format FormatConfig `toml:"format"`
	Output OutputConfig `toml:"output"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Format: FormatConfig{
			ArgLength: debug.DefaultArgLength,
			WithArgs:  true,
		},
		Output: OutputConfig{Color: "auto"},
	}
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the nearest config file above startDir, or
// returns Default when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load reads the file at path on top of Default.
func Load(path string) (Config, error) {
	fc := fileConfig{
		Format: Default().Format,
		Output: Default().Output,
	}
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if meta.IsDefined("format", "arg_length") && fc.Format.ArgLength <= 0 {
		return Config{}, fmt.Errorf("%s: [format].arg_length must be positive", path)
	}
	if meta.IsDefined("format", "root") {
		root := strings.TrimSpace(fc.Format.Root)
		if root != "" && !filepath.IsAbs(root) {
			// relative roots are relative to the config file
			root = filepath.Join(filepath.Dir(path), root)
		}
		fc.Format.Root = root
	}
	if _, err := ParseColor(fc.Output.Color); err != nil {
		return Config{}, fmt.Errorf("%s: [output].color: %w", path, err)
	}
	return Config{Path: path, Format: fc.Format, Output: fc.Output}, nil
}

// Formatter builds the formatter configuration. An empty root falls back
// to debug.RootPath, which honours debug.BasePathEnv.
func (c Config) Formatter() debug.Config {
	return debug.Config{
		RootPath:  c.Format.Root,
		ArgLength: c.Format.ArgLength,
	}
}

// Options returns the per-call formatting options.
func (c Config) Options() debug.Options {
	return debug.Options{HTML: c.Format.HTML, WithArgs: c.Format.WithArgs}
}

// ColorMode selects when output is colorized.
type ColorMode uint8

const (
	ColorAuto ColorMode = iota // only when writing to a terminal
	ColorOn
	ColorOff
)

// ParseColor converts a string to ColorMode.
func ParseColor(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "on", "always":
		return ColorOn, nil
	case "off", "never":
		return ColorOff, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode: %q (expected: auto|on|off)", s)
	}
}
