package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"easel/internal/config"
	"easel/internal/media/compress"
)

type outcomeView struct {
	Input        string `json:"input"`
	Output       string `json:"output"`
	MIME         string `json:"mime"`
	InputBytes   int64  `json:"input_bytes"`
	OutputBytes  int64  `json:"output_bytes"`
	UsedOriginal bool   `json:"used_original"`
	Reason       string `json:"reason"`
	Detail       string `json:"detail,omitempty"`
}

func newOutcomeView(outcome compress.Outcome) outcomeView {
	view := outcomeView{
		Input:        outcome.Input,
		Output:       outcome.Output,
		MIME:         outcome.MIME,
		InputBytes:   outcome.InputBytes,
		OutputBytes:  outcome.OutputBytes,
		UsedOriginal: outcome.UsedOriginal,
		Reason:       string(outcome.Reason),
	}
	if outcome.Err != nil {
		view.Detail = outcome.Err.Error()
	}
	return view
}

func newCompressCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "compress <file>...",
		Short: "Re-encode media files to reduce upload size",
		Long: `Re-encode images and videos to reduce upload size.

Images are re-encoded as JPEG; videos as VP9 WebM capped at 1080p. When the
re-encoded file is not smaller than the source, the original is kept.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			pipeline := compress.New(cfg, ctx.loggerValue())

			outcomes := make([]compress.Outcome, 0, len(args))
			for _, arg := range args {
				path, err := config.ExpandPath(arg)
				if err != nil {
					return fmt.Errorf("resolve path %q: %w", arg, err)
				}
				outcomes = append(outcomes, compressOne(cmd, pipeline, path, jsonOut))
			}

			if jsonOut {
				views := make([]outcomeView, 0, len(outcomes))
				for _, outcome := range outcomes {
					views = append(views, newOutcomeView(outcome))
				}
				return writeJSON(cmd, views)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderOutcomeTable(outcomes))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit results as JSON")
	return cmd
}

func compressOne(cmd *cobra.Command, pipeline *compress.Pipeline, path string, jsonOut bool) compress.Outcome {
	var progress func(compress.ProgressUpdate)
	if !jsonOut && stdoutIsTerminal() && compress.Classify(path) == compress.KindVideo {
		bar := progressbar.NewOptions(100,
			progressbar.OptionSetDescription(filepath.Base(path)),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		)
		progress = func(update compress.ProgressUpdate) {
			_ = bar.Set(int(update.Percent))
			if update.Done {
				_ = bar.Finish()
			}
		}
	}
	return pipeline.CompressFile(cmd.Context(), path, progress)
}

func renderOutcomeTable(outcomes []compress.Outcome) string {
	headers := []string{"File", "Type", "In", "Out", "Ratio", "Result"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft}

	rows := make([][]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		result := string(outcome.Reason)
		if outcome.Reason == compress.ReasonCompressed {
			result = fmt.Sprintf("saved %s", formatBytes(outcome.Saved()))
		}
		rows = append(rows, []string{
			filepath.Base(outcome.Input),
			string(compress.Classify(outcome.Input)),
			formatBytes(outcome.InputBytes),
			formatBytes(outcome.OutputBytes),
			formatRatio(outcome.InputBytes, outcome.OutputBytes),
			result,
		})
	}
	return renderTable(headers, rows, aligns)
}
