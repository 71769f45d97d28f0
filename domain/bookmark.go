package domain

import "time"

// Bookmark is a saved entry, either captured manually or produced by a
// feed refresh.
type Bookmark struct {
	ID        string    `json:"id" yaml:"id"`
	FeedID    string    `json:"feedId,omitempty" yaml:"feedId,omitempty"`
	URL       string    `json:"url" yaml:"url"`
	Title     string    `json:"title" yaml:"title"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Archived  bool      `json:"archived,omitempty" yaml:"archived,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

type ListBookmarksFilter struct {
	FeedID   string   `mapstructure:"feed_id" validate:"omitempty"`
	Tags     []string `mapstructure:"tags" validate:"omitempty,min=1"`
	Archived *bool    `mapstructure:"archived" validate:"omitempty"`
	Search   string   `mapstructure:"search" validate:"omitempty"`
	Size     int      `mapstructure:"size" validate:"omitempty"`
	Offset   int      `mapstructure:"offset" validate:"omitempty"`
}
