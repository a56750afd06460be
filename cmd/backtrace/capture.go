package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"backtrace/internal/debug"
	"backtrace/internal/sink"
	"backtrace/internal/tracefile"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture the current call stack of this process",
	Long: `capture records the stack of the running command. With --out the raw
frames are saved as a trace file that "backtrace format" can read back;
otherwise the rendered trace goes to the sink.`,
	Args: cobra.NoArgs,
	RunE: runCapture,
}

func init() {
	captureCmd.Flags().String("out", "", "save raw frames to this trace file (.json, .yaml, .msgpack)")
}

func runCapture(cmd *cobra.Command, args []string) (err error) {
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	t := debug.Capture(0)
	logger.Debug("captured stack", zap.Int("frames", len(t)))

	if out != "" {
		if err := tracefile.Save(out, t, tracefile.FormatAuto); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "saved %d frames to %s\n", len(t), out)
		return nil
	}

	s, cleanup, err := setupSink(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err) }()

	f := debug.New(cfg.Formatter())
	s.Write(&sink.Record{
		Time:   time.Now(),
		Seq:    sink.NextSeq(),
		Source: "capture",
		Frames: max(len(t)-1, 0),
		Text:   f.FormatTrace(t, cfg.Options()),
	})
	return s.Flush()
}
