package box

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/text/unicode/norm"
)

// listItemsPageSize is the limit value for ListItems requests.
// 1000 is the maximum allowed by the Box API for folder item collections.
const listItemsPageSize = 1000

// itemFields is requested explicitly — sha1 and modified_at are not part
// of the default mini representation returned by the items endpoint.
const itemFields = "type,id,etag,name,size,sha1,modified_at"

// itemEntry mirrors the Box API item JSON exactly.
// Unexported — callers use Item via toItem() normalization.
type itemEntry struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	ETag       string `json:"etag"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	SHA1       string `json:"sha1"`
	ModifiedAt string `json:"modified_at"`
}

type folderResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ItemCollection *struct {
		TotalCount int `json:"total_count"`
	} `json:"item_collection"`
}

type itemCollectionResponse struct {
	TotalCount int         `json:"total_count"`
	Entries    []itemEntry `json:"entries"`
	Offset     int         `json:"offset"`
	Limit      int         `json:"limit"`
}

// toItem normalizes a Box API item entry into our Item type.
// Names are NFC-normalized: the API returns NFC but files created from
// macOS clients occasionally arrive decomposed, and a mixed local tree
// breaks prefix matching and duplicate detection.
func (e *itemEntry) toItem(logger *slog.Logger) Item {
	return Item{
		ID:         e.ID,
		Type:       e.Type,
		Name:       norm.NFC.String(e.Name),
		Size:       e.Size,
		ETag:       e.ETag,
		SHA1:       e.SHA1,
		ModifiedAt: parseTimestamp(e.ModifiedAt, "modified_at", e.ID, logger),
	}
}

// parseTimestamp parses an RFC3339 timestamp. Invalid timestamps are
// replaced with the zero time and logged rather than failing the call.
func parseTimestamp(raw, field, itemID string, logger *slog.Logger) time.Time {
	if raw == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		logger.Warn("invalid timestamp, using zero time",
			slog.String("field", field),
			slog.String("item_id", itemID),
			slog.String("raw", raw),
			slog.String("error", err.Error()),
		)

		return time.Time{}
	}

	return t
}

// GetFolder retrieves a folder's metadata by ID.
// Returns ErrNotFound (via errors.Is) for unknown IDs and ErrUnauthorized
// or ErrForbidden when the token lacks access.
func (c *Client) GetFolder(ctx context.Context, folderID string) (*Folder, error) {
	c.logger.Info("getting folder",
		slog.String("folder_id", folderID),
	)

	resp, err := c.Do(ctx, http.MethodGet, "/folders/"+folderID, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var fr folderResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("box: decoding folder response: %w", err)
	}

	folder := &Folder{
		ID:   fr.ID,
		Name: norm.NFC.String(fr.Name),
	}

	if fr.ItemCollection != nil {
		folder.ItemCount = fr.ItemCollection.TotalCount
	}

	return folder, nil
}

// ListItems returns all immediate children of a folder, handling
// offset/limit pagination automatically. Order is whatever the API
// returns — no additional ordering is applied.
func (c *Client) ListItems(ctx context.Context, folderID string) ([]Item, error) {
	c.logger.Info("listing folder items",
		slog.String("folder_id", folderID),
	)

	var items []Item

	offset := 0

	for {
		page, total, err := c.listItemsPage(ctx, folderID, offset)
		if err != nil {
			return nil, err
		}

		items = append(items, page...)
		offset += len(page)

		if offset >= total || len(page) == 0 {
			break
		}
	}

	c.logger.Info("listed folder items complete",
		slog.String("folder_id", folderID),
		slog.Int("total_items", len(items)),
	)

	return items, nil
}

// listItemsPage fetches a single page of folder items and returns the
// entries plus the collection's total count.
func (c *Client) listItemsPage(ctx context.Context, folderID string, offset int) ([]Item, int, error) {
	path := fmt.Sprintf("/folders/%s/items?fields=%s&limit=%d&offset=%d",
		folderID, itemFields, listItemsPageSize, offset)

	resp, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var icr itemCollectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&icr); err != nil {
		return nil, 0, fmt.Errorf("box: decoding items response: %w", err)
	}

	items := make([]Item, 0, len(icr.Entries))
	for i := range icr.Entries {
		items = append(items, icr.Entries[i].toItem(c.logger))
	}

	c.logger.Debug("fetched items page",
		slog.Int("offset", offset),
		slog.Int("count", len(items)),
	)

	return items, icr.TotalCount, nil
}
