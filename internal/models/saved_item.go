package models

import (
	"time"

	"github.com/google/uuid"
)

// Saved item kinds
const (
	SavedKindQuestion   = "question"
	SavedKindDocument   = "document"
	SavedKindLecture    = "lecture"
	SavedKindCollection = "collection"
)

// ValidSavedKind reports whether kind names a saveable content type.
func ValidSavedKind(kind string) bool {
	switch kind {
	case SavedKindQuestion, SavedKindDocument, SavedKindLecture, SavedKindCollection:
		return true
	}
	return false
}

// SavedItem is a user's bookmark of a content item. Unique per
// (user, kind, ref).
type SavedItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Kind      string    `json:"kind"`
	Ref       uuid.UUID `json:"ref"`
	CreatedAt time.Time `json:"created_at"`
}
