package main

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"backtrace/internal/debug"
	"backtrace/internal/sink"
	"backtrace/internal/tracefile"
)

var formatCmd = &cobra.Command{
	Use:   "format [flags] <file> [file...]",
	Short: "Render trace files as numbered frame lines",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFormat,
}

func init() {
	formatCmd.Flags().Int("jobs", 0, "max parallel workers for loading files (0=auto)")
	formatCmd.Flags().String("format-in", "auto", "input format (auto|json|yaml|msgpack)")
}

// formatted is the outcome for one trace file.
type formatted struct {
	path   string
	frames int
	text   string
	err    error
}

func runFormat(cmd *cobra.Command, args []string) (err error) {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	in, err := cmd.Flags().GetString("format-in")
	if err != nil {
		return fmt.Errorf("failed to get format-in flag: %w", err)
	}
	inFormat, err := tracefile.ParseFormat(in)
	if err != nil {
		return err
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	s, cleanup, err := setupSink(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err) }()

	f := debug.New(cfg.Formatter())
	results := formatFiles(cmd.Context(), f, cfg.Options(), args, inFormat, jobs)

	var firstErr error
	for _, r := range results {
		if r.err != nil {
			logger.Error("format failed", zap.String("path", r.path), zap.Error(r.err))
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		rec := &sink.Record{
			Time:   time.Now(),
			Seq:    sink.NextSeq(),
			Frames: r.frames,
			Text:   r.text,
		}
		if len(args) > 1 {
			rec.Source = r.path
		}
		s.Write(rec)
	}
	if err := s.Flush(); err != nil {
		return fmt.Errorf("failed to write traces: %w", err)
	}
	return firstErr
}

// formatFiles loads and renders every path with at most jobs workers.
// Results keep the order of paths; a failing file does not stop the rest.
func formatFiles(ctx context.Context, f *debug.Formatter, opts debug.Options, paths []string, in tracefile.Format, jobs int) []formatted {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]formatted, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = formatted{path: path, err: err}
				return nil
			}
			started := time.Now()
			t, err := tracefile.Load(path, in)
			if err != nil {
				results[i] = formatted{path: path, err: err}
				return nil
			}
			results[i] = formatted{
				path:   path,
				frames: max(len(t)-1, 0),
				text:   f.FormatTrace(t, opts),
			}
			logger.Debug("formatted trace",
				zap.String("path", path),
				zap.Int("frames", len(t)),
				zap.Duration("took", time.Since(started)))
			return nil
		})
	}
	_ = g.Wait()
	return results
}
