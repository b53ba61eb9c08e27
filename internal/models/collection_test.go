package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestCollectionNormalize(t *testing.T) {
	c := &Collection{
		Items: []CollectionItem{
			{Kind: ItemKindDocument, Ref: uuid.New(), Order: 7},
			{Kind: ItemKindLecture, Ref: uuid.New(), Order: 2},
			{Kind: ItemKindLecture, Ref: uuid.New(), Order: 5},
		},
	}

	c.Normalize()

	for i, item := range c.Items {
		if item.Order != i {
			t.Errorf("item %d order = %d, want %d", i, item.Order, i)
		}
	}
	if c.Items[0].Kind != ItemKindLecture {
		t.Errorf("first item kind = %q, want the lecture that had the lowest order", c.Items[0].Kind)
	}
	if c.Items[2].Kind != ItemKindDocument {
		t.Errorf("last item kind = %q, want the document that had the highest order", c.Items[2].Kind)
	}

	if c.Stats.Lectures != 2 {
		t.Errorf("Stats.Lectures = %d, want 2", c.Stats.Lectures)
	}
	if c.Stats.Documents != 1 {
		t.Errorf("Stats.Documents = %d, want 1", c.Stats.Documents)
	}
	if c.Stats.TotalItems != 3 {
		t.Errorf("Stats.TotalItems = %d, want 3", c.Stats.TotalItems)
	}
}

func TestCollectionNormalize_Empty(t *testing.T) {
	c := &Collection{}
	c.Normalize()

	if c.Stats.TotalItems != 0 || c.Stats.Lectures != 0 || c.Stats.Documents != 0 {
		t.Errorf("stats on empty collection = %+v, want zeros", c.Stats)
	}
}

func TestValidItemKind(t *testing.T) {
	if !ValidItemKind(ItemKindLecture) || !ValidItemKind(ItemKindDocument) {
		t.Error("expected lecture and document to be valid item kinds")
	}
	for _, kind := range []string{"", "collection", "question", "Lecture"} {
		if ValidItemKind(kind) {
			t.Errorf("ValidItemKind(%q) = true, want false", kind)
		}
	}
}
