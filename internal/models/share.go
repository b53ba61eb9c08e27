package models

import (
	"time"

	"github.com/google/uuid"
)

// Share kinds
const (
	ShareKindLecture    = "lecture"
	ShareKindDocument   = "document"
	ShareKindCollection = "collection"
)

// ValidShareKind reports whether kind names a shareable content type.
func ValidShareKind(kind string) bool {
	switch kind {
	case ShareKindLecture, ShareKindDocument, ShareKindCollection:
		return true
	}
	return false
}

// Share grants another user access to a content item the owner created.
// Unique per (kind, content_id, user_id).
type Share struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	ContentID uuid.UUID `json:"content_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
