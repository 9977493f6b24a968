// Package domain holds the data model shared by the relevance engine and its collaborators.
package domain

import "time"

// Document is one article-like record. Documents are immutable once loaded;
// the engine only reads them.
type Document struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Source      string     `json:"source"`
	URL         string     `json:"url,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Keywords    []string   `json:"keywords,omitempty"`
}

// HasDate reports whether the document carries a publish date.
func (d *Document) HasDate() bool {
	return d.PublishedAt != nil && !d.PublishedAt.IsZero()
}

// PublishedTime returns the publish date, or the zero time when absent.
func (d *Document) PublishedTime() time.Time {
	if d.PublishedAt == nil {
		return time.Time{}
	}
	return *d.PublishedAt
}
