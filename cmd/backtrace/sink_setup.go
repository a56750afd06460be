package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"backtrace/internal/sink"
)

// setupSink inspects sink-related flags, attaches the sink to the command
// context and returns a cleanup function to call with the command's error.
//
// In ring mode the kept traces are dumped to the sink output on cleanup.
// In both mode everything is streamed and the ring is dumped to stderr
// only when the command failed.
func setupSink(cmd *cobra.Command) (sink.Sink, func(error), error) {
	root := cmd.Root()

	output, err := root.PersistentFlags().GetString("sink")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sink flag: %w", err)
	}

	modeStr, err := root.PersistentFlags().GetString("sink-mode")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sink-mode flag: %w", err)
	}

	formatStr, err := root.PersistentFlags().GetString("sink-format")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sink-format flag: %w", err)
	}

	ringSize, err := root.PersistentFlags().GetInt("sink-ring-size")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sink-ring-size flag: %w", err)
	}

	mode, err := sink.ParseMode(modeStr)
	if err != nil {
		return nil, nil, err
	}
	format, ok := sink.ParseFormat(formatStr)
	if !ok {
		return nil, nil, fmt.Errorf("invalid sink format: %q (expected: auto|text|ndjson)", formatStr)
	}
	if format == sink.FormatAuto {
		format = sink.FormatText
		if strings.HasSuffix(output, ".ndjson") {
			format = sink.FormatNDJSON
		}
	}

	cfg := sink.Config{
		Mode:       mode,
		Format:     format,
		OutputPath: output,
		RingSize:   ringSize,
		Highlight:  highlightTrace,
	}
	if output == "-" {
		cfg.Output = cmd.OutOrStdout()
	}

	s, ring, err := sink.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sink: %w", err)
	}

	ctx := sink.WithSink(cmd.Context(), s)
	cmd.SetContext(ctx)

	logger.Debug("sink ready",
		zap.String("output", output),
		zap.Stringer("mode", mode),
		zap.Int("ring_size", ringSize))

	cleanup := func(runErr error) {
		if ring != nil {
			switch {
			case mode == sink.ModeRing:
				if err := dumpRing(cmd, ring, output, format); err != nil {
					logger.Warn("ring dump failed", zap.Error(err))
				}
			case runErr != nil:
				fmt.Fprintln(cmd.ErrOrStderr(), "last traces before the failure:")
				if err := ring.Dump(cmd.ErrOrStderr(), sink.FormatText); err != nil {
					logger.Warn("ring dump failed", zap.Error(err))
				}
			}
		}
		if err := s.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "sink: close error: %v\n", err)
		}
	}

	return s, cleanup, nil
}

// dumpRing writes the kept traces to the sink output.
func dumpRing(cmd *cobra.Command, ring *sink.RingSink, output string, format sink.Format) error {
	if output == "-" {
		return ring.Dump(cmd.OutOrStdout(), format)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to open sink output: %w", err)
	}
	if err := ring.Dump(f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
