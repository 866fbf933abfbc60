package box

import "time"

// Item type tags as returned by the Box API.
const (
	TypeFile   = "file"
	TypeFolder = "folder"
)

// Item represents one entry of a folder's item collection.
// Fields are normalized from the Box API response — callers never see
// raw API data. Names are NFC-normalized.
type Item struct {
	ID         string
	Type       string // TypeFile, TypeFolder, or "web_link"
	Name       string
	Size       int64
	ETag       string
	SHA1       string // hex, files only
	ModifiedAt time.Time
}

// IsFile reports whether the item is a downloadable file.
func (i Item) IsFile() bool {
	return i.Type == TypeFile
}

// Folder represents a Box folder resolved by ID.
type Folder struct {
	ID        string
	Name      string
	ItemCount int // size of the item collection as reported by the API
}

// File represents a Box file, as returned by upload.
type File struct {
	ID         string
	Name       string
	Size       int64
	SHA1       string
	ModifiedAt time.Time
}

// User represents the authenticated Box user (GET /users/me).
type User struct {
	ID    string
	Name  string
	Login string
}
