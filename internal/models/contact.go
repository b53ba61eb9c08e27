package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact is a message submitted through the public contact form.
type Contact struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	Email       string    `json:"email"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}
