package filestorage

import (
	"io"
)

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// Save writes r to subPath/filename and returns the public URL of the file
	Save(r io.Reader, subPath, filename string) (string, error)

	// DeleteFile removes a file given the URL returned by Save
	DeleteFile(fileURL string) error

	// GetFullPath returns the filesystem path for a URL returned by Save
	GetFullPath(fileURL string) string
}
