package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"easel/internal/config"
	"easel/internal/media/compress"
	"easel/internal/media/ffprobe"
)

type inspectView struct {
	Path     string  `json:"path"`
	Kind     string  `json:"kind"`
	Codec    string  `json:"codec,omitempty"`
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	Duration float64 `json:"duration_seconds,omitempty"`
	Bytes    int64   `json:"bytes"`
	BitRate  int64   `json:"bit_rate,omitempty"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show media metadata via ffprobe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve path %q: %w", args[0], err)
			}

			result, err := ffprobe.Inspect(cmd.Context(), cfg.Compression.FFprobeBinary, path)
			if err != nil {
				return fmt.Errorf("probe %s: %w", path, err)
			}

			view := inspectView{
				Path:     path,
				Kind:     string(compress.Classify(path)),
				Duration: result.DurationSeconds(),
				Bytes:    result.SizeBytes(),
				BitRate:  result.BitRate(),
			}
			if stream, ok := result.VideoStream(); ok {
				view.Codec = stream.CodecName
				view.Width, view.Height = result.VideoDimensions()
			}

			if jsonOut {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Path:     %s\n", view.Path)
			fmt.Fprintf(out, "Kind:     %s\n", view.Kind)
			if view.Codec != "" {
				fmt.Fprintf(out, "Codec:    %s\n", view.Codec)
				fmt.Fprintf(out, "Frame:    %dx%d\n", view.Width, view.Height)
			}
			if view.Duration > 0 {
				fmt.Fprintf(out, "Duration: %s\n", time.Duration(view.Duration*float64(time.Second)).Round(time.Millisecond))
			}
			fmt.Fprintf(out, "Size:     %s\n", formatBytes(view.Bytes))
			if view.BitRate > 0 {
				fmt.Fprintf(out, "Bitrate:  %d b/s\n", view.BitRate)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit metadata as JSON")
	return cmd
}
