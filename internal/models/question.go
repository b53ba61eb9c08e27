package models

import (
	"time"

	"github.com/google/uuid"
)

// Content status constants, shared by questions and answers.
const (
	StatusPublished = "published"
	StatusPending   = "pending"
	StatusHidden    = "hidden"
	StatusDeleted   = "deleted"
)

// Attachment references an uploaded file belonging to a question or answer.
type Attachment struct {
	Key      string `json:"key"`
	MimeType string `json:"mime_type"`

	// Populated on read paths, not stored.
	URL string `json:"url,omitempty"`
}

// Question is a Q&A thread root.
type Question struct {
	ID           uuid.UUID    `json:"id"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	Tags         []string     `json:"tags"`
	CategoryID   *uuid.UUID   `json:"category_id"`
	Attachments  []Attachment `json:"attachments"`
	CreatedBy    uuid.UUID    `json:"created_by"`
	Status       string       `json:"status"`
	AnswersCount int          `json:"answers_count"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	IsSaved bool `json:"is_saved"`
}
