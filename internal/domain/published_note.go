package domain

import "time"

type PublishedNote struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Markdown    string    `json:"markdown"`
	PublishedAt time.Time `json:"publishedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type PublishRequest struct {
	Slug     string `json:"slug" validate:"required,slug"`
	Title    string `json:"title" validate:"required"`
	Markdown string `json:"markdown" validate:"required"`
}

type NoteSummary struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"publishedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type PublishResponse struct {
	OK   bool   `json:"ok"`
	Slug string `json:"slug"`
	URL  string `json:"url,omitempty"`
}

type PublishedListResponse struct {
	Notes []NoteSummary `json:"notes"`
}

func (n *PublishedNote) Summary() NoteSummary {
	return NoteSummary{
		Slug:        n.Slug,
		Title:       n.Title,
		PublishedAt: n.PublishedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

// NotePath is the public page path for a slug.
func NotePath(slug string) string {
	return "/s/" + slug
}
