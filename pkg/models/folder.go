package models

import "time"

// Folder groups flows for the dashboard. Folders are simulated with engine
// tags; DisplayOrder is the position within a listing, not stored remotely.
type Folder struct {
	ID           string    `json:"id"`
	Created      time.Time `json:"created"`
	Updated      time.Time `json:"updated"`
	ProjectID    string    `json:"project_id"`
	DisplayName  string    `json:"display_name" validate:"required"`
	DisplayOrder int       `json:"display_order"`
}

// Page is one page of a cursor-paginated listing. The cursor is opaque:
// it is handed back to the engine verbatim and never interpreted locally.
type Page[T any] struct {
	Data       []T     `json:"data"`
	NextCursor *string `json:"next_cursor"`
}
