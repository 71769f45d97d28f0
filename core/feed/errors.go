package feed

import "errors"

var (
	ErrNotFound       = errors.New("feed not found")
	ErrEmptyID        = errors.New("feed id can't be empty")
	ErrTitleRequired  = errors.New("title is required")
	ErrInvalidFeedURL = errors.New("feed url must be a valid http(s) url")
)
