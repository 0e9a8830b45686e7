package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"easel/internal/config"
	"easel/internal/media/compress"
	"easel/internal/portfolio"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var title string
	var description string
	var skipCompress bool

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Compress a media file and upload it to the portfolio",
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

			uploadPath := path
			uploadMIME := ""
			if !skipCompress {
				pipeline := compress.New(cfg, ctx.loggerValue())
				outcome := compressOne(cmd, pipeline, path, false)
				uploadPath = outcome.Output
				uploadMIME = outcome.MIME
				if outcome.UsedOriginal {
					fmt.Fprintf(cmd.OutOrStdout(), "Uploading original (%s)\n", outcome.Reason)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Compressed %s -> %s (saved %s)\n",
						formatBytes(outcome.InputBytes), formatBytes(outcome.OutputBytes), formatBytes(outcome.Saved()))
				}
			}

			client := portfolio.NewClient(cfg, ctx.loggerValue())
			result, err := client.Upload(cmd.Context(), portfolio.UploadItem{
				Path:        uploadPath,
				MIME:        uploadMIME,
				Title:       title,
				Description: description,
			})
			if err != nil {
				if errors.Is(err, portfolio.ErrAuthExpired) {
					return fmt.Errorf("session expired; set a fresh token in the config or EASEL_API_TOKEN")
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Uploaded %s (%s)\n", uploadPath, formatBytes(result.Bytes))
			if result.Location != "" {
				fmt.Fprintf(out, "Location: %s\n", result.Location)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Listing title (defaults to the file name)")
	cmd.Flags().StringVar(&description, "description", "", "Listing description")
	cmd.Flags().BoolVar(&skipCompress, "no-compress", false, "Upload the file as-is")
	return cmd
}
