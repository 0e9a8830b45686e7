package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"easel/internal/config"
	"easel/internal/drafts"
)

const defaultDraftScope = "default"

// draftPayload is the snapshot shape the CLI persists: free-form fields plus
// optional embedded file attachments.
type draftPayload struct {
	Fields      map[string]string `json:"fields,omitempty"`
	Attachments []drafts.FileData `json:"attachments,omitempty"`
}

func newDraftsCommand(ctx *commandContext) *cobra.Command {
	var scope string

	draftsCmd := &cobra.Command{
		Use:   "drafts",
		Short: "Manage saved form drafts",
	}
	draftsCmd.PersistentFlags().StringVar(&scope, "scope", defaultDraftScope, "Draft collection to operate on")

	draftsCmd.AddCommand(newDraftsListCommand(ctx, &scope))
	draftsCmd.AddCommand(newDraftsSaveCommand(ctx, &scope))
	draftsCmd.AddCommand(newDraftsRestoreCommand(ctx, &scope))
	draftsCmd.AddCommand(newDraftsDeleteCommand(ctx, &scope))

	return draftsCmd
}

func (c *commandContext) openStore(scope string) (*drafts.Store[draftPayload], func(), error) {
	kv, closeKV, err := c.openKV()
	if err != nil {
		return nil, closeKV, err
	}
	store := drafts.NewStore[draftPayload](kv, scope, c.loggerValue())
	return store, closeKV, nil
}

func newDraftsListCommand(ctx *commandContext, scope *string) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List drafts in a scope",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := ctx.openStore(*scope)
			defer closeStore()
			if err != nil {
				return err
			}

			list := store.List()
			if jsonOut {
				return writeJSON(cmd, list)
			}
			if len(list) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No drafts in scope %q\n", *scope)
				return nil
			}

			rows := make([][]string, 0, len(list))
			for _, draft := range list {
				rows = append(rows, []string{
					draft.ID,
					draft.Name,
					formatDraftTimestamp(draft.Timestamp),
					fmt.Sprintf("%d", len(draft.Data.Fields)),
					fmt.Sprintf("%d", len(draft.Data.Attachments)),
				})
			}
			headers := []string{"ID", "Name", "Saved", "Fields", "Attachments"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit drafts as JSON")
	return cmd
}

func newDraftsSaveCommand(ctx *commandContext, scope *string) *cobra.Command {
	var name string
	var draftID string
	var fields []string
	var attachPaths []string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a draft snapshot",
		Long: `Save a draft snapshot of form fields and file attachments.

With --id the matching draft is updated in place; otherwise a new draft is
created. An empty --name is replaced with a timestamped placeholder.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := draftPayload{}
			if len(fields) > 0 {
				payload.Fields = map[string]string{}
				for _, field := range fields {
					key, value, err := splitField(field)
					if err != nil {
						return err
					}
					payload.Fields[key] = value
				}
			}
			for _, attachPath := range attachPaths {
				attachment, err := loadAttachment(attachPath)
				if err != nil {
					return err
				}
				payload.Attachments = append(payload.Attachments, attachment)
			}

			store, closeStore, err := ctx.openStore(*scope)
			defer closeStore()
			if err != nil {
				return err
			}

			saved := store.Save(name, payload, draftID)
			if saved.ID == "" {
				return fmt.Errorf("draft could not be persisted")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved draft %s (%s)\n", saved.ID, saved.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Draft name")
	cmd.Flags().StringVar(&draftID, "id", "", "Existing draft id to update")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "Form field as key=value (repeatable)")
	cmd.Flags().StringArrayVar(&attachPaths, "attach", nil, "File to embed in the draft (repeatable)")
	return cmd
}

func newDraftsRestoreCommand(ctx *commandContext, scope *string) *cobra.Command {
	return &cobra.Command{
		Use:     "restore <id>",
		Aliases: []string{"show"},
		Short:   "Print a draft's payload",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := ctx.openStore(*scope)
			defer closeStore()
			if err != nil {
				return err
			}

			payload, ok := store.Restore(args[0])
			if !ok {
				return fmt.Errorf("no draft %q in scope %q", args[0], *scope)
			}
			return writeJSON(cmd, payload)
		},
	}
}

func newDraftsDeleteCommand(ctx *commandContext, scope *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := ctx.openStore(*scope)
			defer closeStore()
			if err != nil {
				return err
			}

			store.Delete(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted draft %s\n", args[0])
			return nil
		},
	}
}

func splitField(field string) (string, string, error) {
	for i := 0; i < len(field); i++ {
		if field[i] == '=' {
			if i == 0 {
				break
			}
			return field[:i], field[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("field %q is not key=value", field)
}

func loadAttachment(path string) (drafts.FileData, error) {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return drafts.FileData{}, fmt.Errorf("resolve attachment %q: %w", path, err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return drafts.FileData{}, fmt.Errorf("read attachment: %w", err)
	}
	return drafts.NewFileData(filepath.Base(expanded), detectMIME(expanded, data), data), nil
}

func formatDraftTimestamp(timestamp string) string {
	parsed, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return timestamp
	}
	return parsed.Local().Format("2006-01-02 15:04:05")
}
