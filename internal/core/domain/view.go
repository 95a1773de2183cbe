package domain

import "time"

// PostView records one read of a post, counted asynchronously.
type PostView struct {
	PostID   string
	ViewerID string // user id, or client IP for anonymous readers
	ViewedAt time.Time
}
