package domain

import (
	"context"
	"errors"
)

// DateLayout is the human-readable timestamp format stored in Post.Date.
const DateLayout = "1/2/2006, 3:04:05 PM"

var (
	// ErrValidation is returned when a required post field is empty after trimming.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when no post has the requested id.
	ErrNotFound = errors.New("post not found")
)

// Post represents a blog post.
// The JSON field names are the persisted layout of the post collection.
type Post struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	// Image is an inline data URL, or empty when the post has no image.
	Image string `json:"image"`
	// Date is regenerated on every update, so it is not a creation time.
	Date string `json:"date"`
}

// PostStorage loads and saves the whole post collection and the theme preference.
// Load never fails: missing or unreadable data reads as an empty collection.
type PostStorage interface {
	Load(ctx context.Context) []Post
	Save(ctx context.Context, posts []Post) error

	LoadTheme(ctx context.Context) Theme
	SaveTheme(ctx context.Context, theme Theme) error
}
