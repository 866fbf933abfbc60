package transfer

import (
	"context"
	"crypto/sha1" //nolint:gosec // Box reports content hashes as SHA-1
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tonimelisma/box-go/internal/box"
)

// Dir and file permissions for downloaded content.
const (
	dirPerms = 0o755
)

// Storage is the narrow capability interface the operations need from a
// storage backend. box.Session satisfies it; tests use a fake. Keeping
// the surface this small makes the vendor API a swappable adapter
// rather than a pervasive dependency.
type Storage interface {
	GetFolder(ctx context.Context, folderID string) (*box.Folder, error)
	ListItems(ctx context.Context, folderID string) ([]box.Item, error)
	Download(ctx context.Context, fileID string, w io.Writer) (int64, error)
	Upload(ctx context.Context, folderID, name string, r io.Reader, size int64) (*box.File, error)
}

// ItemFailure records one item whose transfer failed during a bulk pass.
type ItemFailure struct {
	Name string
	Err  error
}

// DownloadReport summarizes a bulk download pass. Saved holds the names
// written to the target directory in enumeration order (the order the
// API returned them — no ordering is imposed here). Failed items did not
// abort the pass; partial success is the normal completion mode.
type DownloadReport struct {
	FolderName string
	Saved      []string
	Failed     []ItemFailure
}

// Transferrer runs the one-shot, strictly sequential transfer
// operations. It holds no state across calls.
type Transferrer struct {
	st     Storage
	logger *slog.Logger
}

// New creates a Transferrer backed by the given storage.
func New(st Storage, logger *slog.Logger) *Transferrer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Transferrer{st: st, logger: logger}
}

// DownloadFolder downloads the file-type children of a remote folder
// into targetDir, creating it if absent. When prefix is non-empty only
// names starting with it are fetched; everything else is skipped before
// any content request is made. Existing local files of the same name
// are overwritten. Per-item failures are logged, recorded in the
// report, and skipped. A folder-level failure (bad ID, bad token)
// returns a tagged *Error and a nil report.
func (t *Transferrer) DownloadFolder(ctx context.Context, folderID, targetDir, prefix string) (*DownloadReport, error) {
	folder, err := t.st.GetFolder(ctx, folderID)
	if err != nil {
		t.logger.Error("folder access failed",
			slog.String("folder_id", folderID),
			slog.String("kind", classify(err).String()),
			slog.String("error", err.Error()),
		)

		return nil, wrap("resolving folder "+folderID, err)
	}

	t.logger.Info("accessing folder",
		slog.String("folder_id", folderID),
		slog.String("name", folder.Name),
	)

	items, err := t.st.ListItems(ctx, folderID)
	if err != nil {
		return nil, wrap("listing folder "+folderID, err)
	}

	if err := os.MkdirAll(targetDir, dirPerms); err != nil {
		return nil, wrap("creating target directory", err)
	}

	report := &DownloadReport{FolderName: folder.Name}

	for _, item := range items {
		if !item.IsFile() {
			continue
		}

		if prefix != "" && !strings.HasPrefix(item.Name, prefix) {
			t.logger.Debug("skipping item, prefix mismatch",
				slog.String("name", item.Name),
				slog.String("prefix", prefix),
			)

			continue
		}

		if !safeLocalName(item.Name) {
			t.logger.Warn("skipping item with unsafe name",
				slog.String("item_id", item.ID),
				slog.String("name", item.Name),
			)

			continue
		}

		if err := t.downloadItem(ctx, item, targetDir); err != nil {
			// One bad item never aborts the remaining transfers.
			t.logger.Error("item download failed, skipping",
				slog.String("name", item.Name),
				slog.String("error", err.Error()),
			)
			report.Failed = append(report.Failed, ItemFailure{Name: item.Name, Err: err})

			// Except for cancellation — nothing else will succeed either.
			if ctx.Err() != nil {
				return report, wrap("downloading folder "+folderID, ctx.Err())
			}

			continue
		}

		report.Saved = append(report.Saved, item.Name)
	}

	t.logger.Info("download pass complete",
		slog.String("folder", folder.Name),
		slog.Int("saved", len(report.Saved)),
		slog.Int("failed", len(report.Failed)),
	)

	return report, nil
}

// downloadItem fetches one file into targetDir/name. Content is
// streamed to a temp file in the same directory and renamed into place,
// so an interrupted transfer never leaves a truncated file under the
// final name. When the API reported a SHA-1 the content is verified
// before the rename.
func (t *Transferrer) downloadItem(ctx context.Context, item box.Item, targetDir string) error {
	finalPath := filepath.Join(targetDir, item.Name)

	tmp, err := os.CreateTemp(targetDir, "."+item.Name+".partial-*")
	if err != nil {
		return fmt.Errorf("creating partial file: %w", err)
	}

	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	h := sha1.New() //nolint:gosec // integrity check against the API's hash, not a security boundary

	_, dlErr := t.st.Download(ctx, item.ID, io.MultiWriter(tmp, h))
	if closeErr := tmp.Close(); dlErr == nil {
		dlErr = closeErr
	}

	if dlErr != nil {
		return fmt.Errorf("downloading %q: %w", item.Name, dlErr)
	}

	if item.SHA1 != "" {
		local := hex.EncodeToString(h.Sum(nil))
		if local != item.SHA1 {
			return fmt.Errorf("hash mismatch for %q: remote %s, got %s", item.Name, item.SHA1, local)
		}
	}

	// Atomic replace — overwrites any existing file of the same name.
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("renaming download to %q: %w", finalPath, err)
	}

	success = true

	t.logger.Debug("saved file",
		slog.String("name", item.Name),
		slog.String("path", finalPath),
	)

	return nil
}

// UploadFile reads a local file and sends it to the remote folder under
// its base name. Fails with KindTransferFailed before any network call
// when the path does not exist or is a directory; remote rejection is
// mapped to the tagged kinds (KindNotFound for a bad folder ID,
// KindForbidden when write access is missing).
func (t *Transferrer) UploadFile(ctx context.Context, folderID, localPath string) (*box.File, error) {
	fi, err := os.Stat(localPath)
	if err != nil {
		t.logger.Error("local file not found for upload",
			slog.String("path", localPath),
		)

		return nil, &Error{Kind: KindTransferFailed, Op: "stating " + localPath, Err: err}
	}

	if fi.IsDir() {
		return nil, &Error{
			Kind: KindTransferFailed,
			Op:   "reading " + localPath,
			Err:  fmt.Errorf("%q is a directory, not a file", localPath),
		}
	}

	f, err := os.Open(localPath)
	if err != nil {
		return nil, &Error{Kind: KindTransferFailed, Op: "opening " + localPath, Err: err}
	}
	defer f.Close()

	name := filepath.Base(localPath)

	t.logger.Info("uploading file",
		slog.String("folder_id", folderID),
		slog.String("name", name),
		slog.Int64("size", fi.Size()),
	)

	file, err := t.st.Upload(ctx, folderID, name, f, fi.Size())
	if err != nil {
		t.logger.Error("upload failed",
			slog.String("folder_id", folderID),
			slog.String("name", name),
			slog.String("kind", classify(err).String()),
			slog.String("error", err.Error()),
		)

		return nil, wrap("uploading "+name, err)
	}

	t.logger.Info("upload complete",
		slog.String("file_id", file.ID),
		slog.String("name", file.Name),
	)

	return file, nil
}

// safeLocalName reports whether a remote name can be used verbatim as a
// file name inside the target directory. The API shouldn't produce path
// separators or dot-names, but a local write outside targetDir must be
// impossible regardless.
func safeLocalName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}

	return filepath.Base(name) == name
}
