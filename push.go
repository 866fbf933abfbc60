package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newPushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push <local-path>",
		Short: "Upload a file to a Box folder",
		Long: `Upload a local file into a Box folder under its base name.

The target folder defaults to folders.upload_folder_id from the
configuration. Box rejects uploads that would collide with an existing
file name in the folder.`,
		Args: cobra.ExactArgs(1),
		RunE: runPush,
	}

	cmd.Flags().String("folder", "", "Box folder ID (default: folders.upload_folder_id)")

	return cmd
}

// pushJSONOutput is the JSON output schema for the push command.
type pushJSONOutput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

func runPush(cmd *cobra.Command, args []string) error {
	localPath := args[0]
	ctx := cmd.Context()

	folderID, err := cmd.Flags().GetString("folder")
	if err != nil {
		return err
	}

	if folderID == "" {
		folderID = resolvedCfg.Folders.UploadFolderID
	}

	if folderID == "" {
		return fmt.Errorf("no upload folder configured — set folders.upload_folder_id or --folder")
	}

	tr, logger, err := newTransferrer(ctx)
	if err != nil {
		return err
	}

	logger.Debug("push", "local_path", localPath, "folder_id", folderID)

	file, err := tr.UploadFile(ctx, folderID, localPath)
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(pushJSONOutput{ID: file.ID, Name: file.Name, Size: file.Size})
	}

	statusf("Uploaded %s (%s) with file ID %s\n", file.Name, formatSize(file.Size), file.ID)

	return nil
}
