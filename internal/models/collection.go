package models

import (
	"time"

	"github.com/google/uuid"
)

// Collection item kinds
const (
	ItemKindLecture  = "lecture"
	ItemKindDocument = "document"
)

// ValidItemKind reports whether kind names a collectible content type.
func ValidItemKind(kind string) bool {
	return kind == ItemKindLecture || kind == ItemKindDocument
}

// CollectionItem is one entry in a collection, referencing a lecture or a
// document. Order is re-indexed 0..n-1 on every item write.
type CollectionItem struct {
	Kind          string    `json:"kind"`
	Ref           uuid.UUID `json:"ref"`
	Order         int       `json:"order"`
	TitleOverride string    `json:"title_override,omitempty"`
	Note          string    `json:"note,omitempty"`
}

// CollectionStats are denormalized item counts kept for cheap rendering.
type CollectionStats struct {
	Lectures   int `json:"lectures"`
	Documents  int `json:"documents"`
	TotalItems int `json:"total_items"`
}

// Collection groups lectures and documents into an ordered, shareable set.
type Collection struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Subtitle    string           `json:"subtitle"`
	Description string           `json:"description"`
	CoverKey    string           `json:"-"`
	IsPublic    bool             `json:"is_public"`
	CategoryID  *uuid.UUID       `json:"category_id"`
	Keywords    []string         `json:"keywords"`
	CreatedBy   uuid.UUID        `json:"created_by"`
	Items       []CollectionItem `json:"items"`
	Stats       CollectionStats  `json:"stats"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Populated on read paths, not stored.
	CoverURL string `json:"cover_url,omitempty"`
	IsSaved  bool   `json:"is_saved"`
}

// Normalize sorts items by order, re-indexes them 0..n-1 and recomputes
// the denormalized stats. Called before every persist of the item list.
func (c *Collection) Normalize() {
	items := c.Items
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].Order < items[j-1].Order; j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}

	var lectures, documents int
	for i := range items {
		items[i].Order = i
		switch items[i].Kind {
		case ItemKindLecture:
			lectures++
		case ItemKindDocument:
			documents++
		}
	}

	c.Items = items
	c.Stats = CollectionStats{
		Lectures:   lectures,
		Documents:  documents,
		TotalItems: len(items),
	}
}
