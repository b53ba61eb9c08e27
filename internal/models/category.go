package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups content under bilingual names with URL-safe slugs.
type Category struct {
	ID          uuid.UUID `json:"id"`
	NameEn      string    `json:"name_en"`
	NameVi      string    `json:"name_vi"`
	SlugEn      string    `json:"slug_en"`
	SlugVi      string    `json:"slug_vi"`
	Description string    `json:"description"`
	Keywords    []string  `json:"keywords"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
