package blog

import (
	"time"

	"github.com/google/uuid"
)

// Post is an editorial article published alongside the catalog.
type Post struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	Tags        []string  `json:"tags"`
	Image       string    `json:"image"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"published_at"`
}
