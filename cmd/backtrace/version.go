package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"backtrace/internal/version"
)

type buildInfo struct {
	Version    string
	GitCommit  string
	GitMessage string
	BuildDate  string
}

type versionOptions struct {
	format      string
	showHash    bool
	showMessage bool
	showDate    bool
}

type versionPayload struct {
	Tool       string `json:"tool"`
	Version    string `json:"version"`
	Tagline    string `json:"tagline"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

const versionTagline = "every frame, called at the right place"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show backtrace build metadata",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := readVersionOptions(cmd)
		if err != nil {
			return err
		}
		if _, err := loadSettings(cmd); err != nil {
			return err
		}

		info := collectBuildInfo()
		if opts.format == "json" {
			return renderVersionJSON(cmd.OutOrStdout(), info, opts)
		}
		renderVersionPretty(cmd.OutOrStdout(), info, opts)
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("message", false, "include git commit message")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "show all recorded build metadata")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func readVersionOptions(cmd *cobra.Command) (versionOptions, error) {
	flags := cmd.Flags()
	format, err := flags.GetString("format")
	if err != nil {
		return versionOptions{}, fmt.Errorf("failed to get format flag: %w", err)
	}
	full, err := flags.GetBool("full")
	if err != nil {
		return versionOptions{}, fmt.Errorf("failed to get full flag: %w", err)
	}
	hash, err := flags.GetBool("hash")
	if err != nil {
		return versionOptions{}, fmt.Errorf("failed to get hash flag: %w", err)
	}
	message, err := flags.GetBool("message")
	if err != nil {
		return versionOptions{}, fmt.Errorf("failed to get message flag: %w", err)
	}
	date, err := flags.GetBool("date")
	if err != nil {
		return versionOptions{}, fmt.Errorf("failed to get date flag: %w", err)
	}

	opts := versionOptions{
		format:      strings.ToLower(format),
		showHash:    hash || full,
		showMessage: message || full,
		showDate:    date || full,
	}
	switch opts.format {
	case "pretty", "json":
	default:
		return versionOptions{}, fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	return opts, nil
}

func collectBuildInfo() buildInfo {
	return buildInfo{
		Version:    version.Current(),
		GitCommit:  strings.TrimSpace(version.GitCommit),
		GitMessage: strings.TrimSpace(version.GitMessage),
		BuildDate:  strings.TrimSpace(version.BuildDate),
	}
}

func renderVersionPretty(out io.Writer, info buildInfo, opts versionOptions) {
	fmt.Fprintf(out, "backtrace %s (%s)\n", version.Colored(info.Version), versionTagline)
	if opts.showHash {
		fmt.Fprintf(out, "commit:  %s\n", valueOrUnknown(info.GitCommit))
	}
	if opts.showMessage {
		fmt.Fprintf(out, "message: %s\n", valueOrUnknown(info.GitMessage))
	}
	if opts.showDate {
		fmt.Fprintf(out, "built:   %s\n", valueOrUnknown(info.BuildDate))
	}
}

func renderVersionJSON(out io.Writer, info buildInfo, opts versionOptions) error {
	payload := versionPayload{
		Tool:    "backtrace",
		Version: info.Version,
		Tagline: versionTagline,
	}
	if opts.showHash {
		payload.GitCommit = valueOrUnknown(info.GitCommit)
	}
	if opts.showMessage {
		payload.GitMessage = valueOrUnknown(info.GitMessage)
	}
	if opts.showDate {
		payload.BuildDate = valueOrUnknown(info.BuildDate)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
