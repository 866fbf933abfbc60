package box

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
)

// Upload request/response types for the multipart attributes part.
type uploadAttributes struct {
	Name   string       `json:"name"`
	Parent uploadParent `json:"parent"`
}

type uploadParent struct {
	ID string `json:"id"`
}

// fileEntry mirrors the Box API file JSON in upload responses.
type fileEntry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	SHA1       string `json:"sha1"`
	ModifiedAt string `json:"modified_at"`
}

type uploadResponse struct {
	TotalCount int         `json:"total_count"`
	Entries    []fileEntry `json:"entries"`
}

// Upload sends a file's content to a folder under the given name using
// the multipart upload endpoint on the dedicated upload host. size is
// advisory (logging only); the body is read to completion.
// A name collision in the target folder surfaces as ErrConflict.
//
// Unlike Do(), this does not retry — retrying a partially-consumed
// reader is not safe.
func (c *Client) Upload(ctx context.Context, folderID, name string, r io.Reader, size int64) (*File, error) {
	c.logger.Info("uploading file",
		slog.String("folder_id", folderID),
		slog.String("name", name),
		slog.Int64("size", size),
	)

	body, contentType, err := buildUploadBody(folderID, name, r)
	if err != nil {
		return nil, err
	}

	resp, err := c.doUpload(ctx, "/files/content", contentType, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var ur uploadResponse
	if decErr := json.NewDecoder(resp.Body).Decode(&ur); decErr != nil {
		return nil, fmt.Errorf("box: decoding upload response: %w", decErr)
	}

	if len(ur.Entries) == 0 {
		return nil, fmt.Errorf("box: upload response contains no entries")
	}

	file := ur.Entries[0].toFile(c.logger)

	c.logger.Debug("upload complete",
		slog.String("file_id", file.ID),
		slog.String("name", file.Name),
		slog.Int64("size", file.Size),
	)

	return &file, nil
}

// toFile normalizes an upload response entry into our File type.
func (e *fileEntry) toFile(logger *slog.Logger) File {
	return File{
		ID:         e.ID,
		Name:       e.Name,
		Size:       e.Size,
		SHA1:       e.SHA1,
		ModifiedAt: parseTimestamp(e.ModifiedAt, "modified_at", e.ID, logger),
	}
}

// buildUploadBody assembles the multipart body: a JSON attributes part
// naming the file and its parent folder, then the content part.
// The attributes part must come first — Box rejects bodies where the
// content precedes the metadata.
func buildUploadBody(folderID, name string, r io.Reader) (io.Reader, string, error) {
	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)

	attrs, err := json.Marshal(uploadAttributes{
		Name:   name,
		Parent: uploadParent{ID: folderID},
	})
	if err != nil {
		return nil, "", fmt.Errorf("box: marshaling upload attributes: %w", err)
	}

	if err := mw.WriteField("attributes", string(attrs)); err != nil {
		return nil, "", fmt.Errorf("box: writing attributes part: %w", err)
	}

	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, "", fmt.Errorf("box: creating file part: %w", err)
	}

	if _, err := io.Copy(fw, r); err != nil {
		return nil, "", fmt.Errorf("box: reading upload content: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("box: finalizing multipart body: %w", err)
	}

	return &buf, mw.FormDataContentType(), nil
}

// doUpload sends an authenticated request against the upload host with
// a custom content type. Error responses are classified the same way as
// Do(), but without retry.
func (c *Client) doUpload(ctx context.Context, path, contentType string, body io.Reader) (*http.Response, error) {
	url := c.uploadURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("box: creating upload request: %w", err)
	}

	tok, err := c.token.Token()
	if err != nil {
		return nil, fmt.Errorf("box: obtaining token for upload: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("upload request failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)

		return nil, fmt.Errorf("box: upload request failed: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errBody, _ := io.ReadAll(resp.Body) //nolint:errcheck // best-effort read for error message
		resp.Body.Close()

		return nil, newAPIError(resp.StatusCode, errBody)
	}

	return resp, nil
}
