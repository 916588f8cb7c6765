package domain

import "time"

// Attachment references a stored binary belonging to a ticket. StorageKey is
// the opaque key inside the blob store; FileName is the sanitized original.
type Attachment struct {
	ID           string
	TicketID     string
	UploadedByID string
	FileName     string
	StorageKey   string
	MimeType     string
	SizeBytes    int64
	CreatedAt    time.Time
}
