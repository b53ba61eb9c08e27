package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded file stored in the object store under FileKey.
type Document struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	FileKey     string     `json:"-"`
	MimeType    string     `json:"mime_type"`
	FileSize    int64      `json:"file_size"`
	IsPublic    bool       `json:"is_public"`
	CategoryID  *uuid.UUID `json:"category_id"`
	Keywords    []string   `json:"keywords"`
	CreatedBy   uuid.UUID  `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Populated on read paths, not stored.
	FileURL string `json:"file_url,omitempty"`
	IsSaved bool   `json:"is_saved"`
}
