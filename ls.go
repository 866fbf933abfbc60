package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/tonimelisma/box-go/internal/box"
)

func newLsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls [folder-id]",
		Short: "List the items of a Box folder",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLs,
	}

	return cmd
}

func runLs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	folderID := resolvedCfg.Folders.DownloadFolderID
	if len(args) > 0 {
		folderID = args[0]
	}

	if folderID == "" {
		return fmt.Errorf("no folder given — pass a folder ID or set folders.download_folder_id")
	}

	session, logger, err := newSession(ctx)
	if err != nil {
		return err
	}

	logger.Debug("ls", "folder_id", folderID)

	items, err := session.ListItems(ctx, folderID)
	if err != nil {
		return fmt.Errorf("listing folder %q: %w", folderID, err)
	}

	if flagJSON {
		return printItemsJSON(items)
	}

	printItemsTable(items)

	return nil
}

// lsJSONItem is the JSON output schema for a single item in ls output.
type lsJSONItem struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	ModifiedAt string `json:"modified_at,omitempty"`
}

func printItemsJSON(items []box.Item) error {
	out := make([]lsJSONItem, 0, len(items))
	for i := range items {
		entry := lsJSONItem{
			ID:   items[i].ID,
			Type: items[i].Type,
			Name: items[i].Name,
			Size: items[i].Size,
		}

		if !items[i].ModifiedAt.IsZero() {
			entry.ModifiedAt = items[i].ModifiedAt.Format(time.RFC3339)
		}

		out = append(out, entry)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(out)
}

func printItemsTable(items []box.Item) {
	// Sort: folders first, then alphabetical.
	sort.Slice(items, func(i, j int) bool {
		if (items[i].Type == box.TypeFolder) != (items[j].Type == box.TypeFolder) {
			return items[i].Type == box.TypeFolder
		}

		return items[i].Name < items[j].Name
	})

	headers := []string{"NAME", "SIZE", "MODIFIED"}
	rows := make([][]string, 0, len(items))

	for i := range items {
		name := items[i].Name
		if items[i].Type == box.TypeFolder {
			name += "/"
		}

		rows = append(rows, []string{name, formatSize(items[i].Size), formatTime(items[i].ModifiedAt)})
	}

	printTable(os.Stdout, headers, rows)
}
