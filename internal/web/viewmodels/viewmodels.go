package viewmodels

import (
	"html/template"
	"time"

	"pressing/internal/models"
)

// PageRow is one row of the admin listing. Rows without metadata render a
// placeholder title so broken records stay visible instead of crashing the
// view.
type PageRow struct {
	Name        string
	Title       string
	Description string
	CreatedAt   time.Time
	HasMetadata bool
	URL         string
}

// AdminData holds everything the admin template needs.
type AdminData struct {
	Pages []PageRow
	Total int
	Flash string
}

// BuildAdmin derives the admin listing view from store output. Pure: no
// extra state, tolerant of zero records and nil metadata.
func BuildAdmin(entries []models.ListEntry) AdminData {
	rows := make([]PageRow, 0, len(entries))
	for _, e := range entries {
		row := PageRow{Name: e.Name, URL: "/" + e.Name}
		if e.Metadata != nil {
			row.Title = e.Metadata.Title
			row.Description = e.Metadata.Description
			row.CreatedAt = e.Metadata.CreatedAt
			row.HasMetadata = true
		}
		rows = append(rows, row)
	}
	return AdminData{Pages: rows, Total: len(rows)}
}

// FormData backs the submission form, retaining input across a failed
// attempt.
type FormData struct {
	Name        string
	Title       string
	Description string
	Content     string
	Error       string
}

// LoginData backs the login form.
type LoginData struct {
	Error string
}

// SourceData backs the admin source view.
type SourceData struct {
	Name   string
	Title  string
	Source template.HTML
}
