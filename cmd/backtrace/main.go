package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"backtrace/internal/config"
	"backtrace/internal/sink"
	"backtrace/internal/version"
)

var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "backtrace",
	Short: "Render call stacks as readable traces",
	Long: `backtrace turns call stacks into numbered lines of the form

  #1 pkg.Type->Method('arg', 2) called at [path/to/file.go:41]

Stacks come from trace files (JSON, YAML, MessagePack) or from a live capture.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return fmt.Errorf("failed to get verbose flag: %w", err)
		}
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("color", "", "colorize output (auto|on|off), default from config")
	pf.Bool("verbose", false, "enable debug logging on stderr")
	pf.String("config", "", "path to "+config.FileName+" (default: search upwards)")
	pf.String("root", "", "root path stripped from file locations")
	pf.Int("arg-length", 0, "maximum characters of a string argument")
	pf.Bool("html", false, "wrap output in <pre></pre>")
	pf.Bool("no-args", false, "omit argument previews")
	pf.String("sink", "-", "where traces are written (file path or - for stdout)")
	pf.String("sink-mode", "stream", "sink mode (stream|ring|both)")
	pf.String("sink-format", "auto", "sink format (auto|text|ndjson)")
	pf.Int("sink-ring-size", sink.DefaultRingSize, "traces kept by the ring sink")

	rootCmd.Version = version.Current()
	rootCmd.AddCommand(formatCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(versionCmd)
}

// main executes the root command.
// If command execution returns an error, the process exits with status code 1.
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the stderr logger. Only warnings and errors are shown
// unless verbose is set.
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
