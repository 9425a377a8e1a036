package models

import "time"

// Asset describes an image stored in the photo album.
type Asset struct {
	Reference   string    `json:"reference"`
	Album       string    `json:"album"`
	CreatedAt   time.Time `json:"created_at"`
	Hidden      bool      `json:"hidden"`
	Size        int64     `json:"size"`
	Checksum    string    `json:"checksum"`
	ContentType string    `json:"content_type"`
}
