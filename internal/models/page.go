package models

import "time"

// Metadata holds the descriptive half of a stored page record.
type Metadata struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	PageName    string    `json:"pageName"`
}

// PageRecord is a fully materialized page: its metadata plus the rendered
// HTML body as stored in the repository.
type PageRecord struct {
	Name     string
	Metadata Metadata
	Body     []byte
}

// ListEntry is one row of a page listing. Metadata is nil when the record's
// metadata file is missing or unreadable.
type ListEntry struct {
	Name     string    `json:"name"`
	Metadata *Metadata `json:"metadata"`
}
