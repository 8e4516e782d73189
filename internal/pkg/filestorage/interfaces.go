package filestorage

import (
	"mime/multipart"
)

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveImage validates an uploaded image and returns the URL it is served from
	SaveImage(fileHeader *multipart.FileHeader) (string, error)

	// DeleteFile removes a file from storage
	DeleteFile(fileURL string) error
}
