package models

import "time"

// NewsArticle is a normalized news item. Providers use different field
// names; clients normalize into this shape at the call site.
type NewsArticle struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	ImageURL    string    `json:"image_url,omitempty"`
}
