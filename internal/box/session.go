package box

import (
	"context"
	"io"
)

// Session pairs the two API clients a transfer run needs: Meta carries
// the configured network timeout and serves metadata calls, Transfer
// carries no timeout and serves content downloads and uploads.
// http.Client.Timeout covers reading the whole response body, so a
// large file streamed through the Meta client would be cut off
// mid-body; the Transfer client relies on context cancellation instead.
type Session struct {
	Meta     *Client // metadata ops (network.timeout)
	Transfer *Client // content transfers (no timeout)
}

// NewSession creates a Session from a metadata client and a transfer
// client. Both should share the same TokenSource.
func NewSession(meta, transfer *Client) *Session {
	return &Session{Meta: meta, Transfer: transfer}
}

func (s *Session) GetFolder(ctx context.Context, folderID string) (*Folder, error) {
	return s.Meta.GetFolder(ctx, folderID)
}

func (s *Session) ListItems(ctx context.Context, folderID string) ([]Item, error) {
	return s.Meta.ListItems(ctx, folderID)
}

func (s *Session) CurrentUser(ctx context.Context) (*User, error) {
	return s.Meta.CurrentUser(ctx)
}

func (s *Session) Download(ctx context.Context, fileID string, w io.Writer) (int64, error) {
	return s.Transfer.Download(ctx, fileID, w)
}

func (s *Session) Upload(ctx context.Context, folderID, name string, r io.Reader, size int64) (*File, error) {
	return s.Transfer.Upload(ctx, folderID, name, r, size)
}
