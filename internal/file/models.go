package file

import (
	"io"
	"time"
)

// Record is the persisted metadata of an uploaded file.
type Record struct {
	ID           string
	OwnerID      string
	StoredName   string
	OriginalName string
	MimeType     string
	SizeBytes    int64
	URL          string
	StorageKey   string
	CreatedAt    time.Time
}

// Upload is an incoming file as declared by the caller.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
