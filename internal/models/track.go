// Package models contains data structures used across handlers
package models

import "time"

// Track is one playable MP3 object from the bucket
type Track struct {
	Key          string
	Name         string
	Size         int64
	LastModified time.Time
	// URL is a signed GET valid for one hour from listing time
	URL string
}

// Page is one listing call's worth of tracks
type Page struct {
	Tracks []Track
	// Cursor is empty when the provider reported no further pages
	Cursor string
}

// HasMore reports whether another page can be requested
func (p Page) HasMore() bool {
	return p.Cursor != ""
}
