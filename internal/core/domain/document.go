package domain

import "time"

// Document statuses reported by the backend while ingestion runs.
const (
	DocumentStatusUploading  = "uploading"
	DocumentStatusProcessing = "processing"
	DocumentStatusReady      = "ready"
	DocumentStatusError      = "error"
)

// Document represents an uploaded source document feeding retrieval.
// The client only ever uploads, lists, fetches, and deletes document
// records; chunking and indexing happen server-side.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Filename is the original upload filename.
	Filename string

	// FileSize is the upload size in bytes.
	FileSize int64

	// MimeType is the detected content type.
	MimeType string

	// Status is one of the DocumentStatus constants.
	Status string

	// ErrorMessage holds the ingestion failure reason when Status is
	// DocumentStatusError.
	ErrorMessage string

	// CreatedAt is when the document was uploaded.
	CreatedAt time.Time
}
