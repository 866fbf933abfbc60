package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newPullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Download files from a Box folder",
		Long: `Download the files of a Box folder into a local directory.

With --prefix, only files whose names start with the given prefix are
downloaded. Existing local files of the same name are overwritten.
Failures on individual files are logged and skipped; the remaining
files are still transferred.`,
		Args: cobra.NoArgs,
		RunE: runPull,
	}

	cmd.Flags().String("folder", "", "Box folder ID (default: folders.download_folder_id)")
	cmd.Flags().String("dir", "", "local target directory (default: local.source_data_dir)")
	cmd.Flags().String("prefix", "", "only download files whose names start with this prefix")

	return cmd
}

func runPull(cmd *cobra.Command, _ []string) error {
	folderID, err := cmd.Flags().GetString("folder")
	if err != nil {
		return err
	}

	targetDir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}

	prefix, err := cmd.Flags().GetString("prefix")
	if err != nil {
		return err
	}

	if folderID == "" {
		folderID = resolvedCfg.Folders.DownloadFolderID
	}

	if targetDir == "" {
		targetDir = resolvedCfg.Local.SourceDataDir
	}

	if !cmd.Flags().Changed("prefix") {
		prefix = resolvedCfg.Local.FilePrefixFilter
	}

	return doPull(cmd.Context(), folderID, targetDir, prefix)
}

// pullJSONOutput is the JSON output schema for the pull command.
type pullJSONOutput struct {
	Folder string   `json:"folder"`
	Saved  []string `json:"saved"`
	Failed []string `json:"failed,omitempty"`
}

// doPull runs one download pass. Shared by the pull subcommand and the
// bare root invocation.
func doPull(ctx context.Context, folderID, targetDir, prefix string) error {
	if folderID == "" {
		return fmt.Errorf("no download folder configured — set folders.download_folder_id or --folder")
	}

	if targetDir == "" {
		return fmt.Errorf("no target directory configured — set local.source_data_dir or --dir")
	}

	tr, logger, err := newTransferrer(ctx)
	if err != nil {
		return err
	}

	logger.Debug("pull", "folder_id", folderID, "dir", targetDir, "prefix", prefix)

	// Ctrl-C stops the pass cleanly after the in-flight item.
	ctx = shutdownContext(ctx, logger)

	report, err := tr.DownloadFolder(ctx, folderID, targetDir, prefix)
	if err != nil {
		return err
	}

	if flagJSON {
		out := pullJSONOutput{
			Folder: report.FolderName,
			Saved:  report.Saved,
		}
		for _, f := range report.Failed {
			out.Failed = append(out.Failed, f.Name)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(out)
	}

	for _, name := range report.Saved {
		progressf("Downloaded %s\n", name)
	}

	for _, f := range report.Failed {
		statusf("Failed %s: %v\n", f.Name, f.Err)
	}

	statusf("Downloaded %d file(s) from %q to %s\n", len(report.Saved), report.FolderName, targetDir)

	return nil
}
