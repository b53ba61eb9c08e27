package models

import (
	"time"

	"github.com/google/uuid"
)

// Answer is a reply to a question.
type Answer struct {
	ID          uuid.UUID    `json:"id"`
	QuestionID  uuid.UUID    `json:"question_id"`
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments"`
	CreatedBy   uuid.UUID    `json:"created_by"`
	Status      string       `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
