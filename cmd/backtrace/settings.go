package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"backtrace/internal/config"
)

// loadSettings reads the config file and applies explicitly set flags on
// top of it. Flags win over the file; the file wins over the environment.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Root().PersistentFlags()

	path, err := flags.GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}

	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return config.Config{}, err
	}
	if cfg.Path != "" {
		logger.Debug("loaded config", zap.String("path", cfg.Path))
	}

	if flags.Changed("root") {
		if cfg.Format.Root, err = flags.GetString("root"); err != nil {
			return config.Config{}, fmt.Errorf("failed to get root flag: %w", err)
		}
	}
	if flags.Changed("arg-length") {
		n, err := flags.GetInt("arg-length")
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to get arg-length flag: %w", err)
		}
		if n <= 0 {
			return config.Config{}, fmt.Errorf("--arg-length must be positive, got %d", n)
		}
		cfg.Format.ArgLength = n
	}
	if flags.Changed("html") {
		if cfg.Format.HTML, err = flags.GetBool("html"); err != nil {
			return config.Config{}, fmt.Errorf("failed to get html flag: %w", err)
		}
	}
	if flags.Changed("no-args") {
		noArgs, err := flags.GetBool("no-args")
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to get no-args flag: %w", err)
		}
		cfg.Format.WithArgs = !noArgs
	}
	if flags.Changed("color") {
		if cfg.Output.Color, err = flags.GetString("color"); err != nil {
			return config.Config{}, fmt.Errorf("failed to get color flag: %w", err)
		}
	}

	mode, err := config.ParseColor(cfg.Output.Color)
	if err != nil {
		return config.Config{}, err
	}
	applyColor(mode, cmd.OutOrStdout())

	logger.Debug("settings",
		zap.String("root", cfg.Format.Root),
		zap.Int("arg_length", cfg.Format.ArgLength),
		zap.Bool("html", cfg.Format.HTML),
		zap.Bool("with_args", cfg.Format.WithArgs))
	return cfg, nil
}

// applyColor switches colour output on or off for the whole process.
func applyColor(mode config.ColorMode, out io.Writer) {
	switch mode {
	case config.ColorOn:
		color.NoColor = false
	case config.ColorOff:
		color.NoColor = true
	default:
		f, ok := out.(*os.File)
		color.NoColor = !ok || !isTerminal(f)
	}
}
