package api

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v3"

	"studyhub/internal/db"
	"studyhub/internal/email"
	"studyhub/internal/models"
	"studyhub/internal/validation"
)

// ContactHandler handles the public contact form.
type ContactHandler struct {
	db       *db.DB
	notifier *email.Notifier
}

// NewContactHandler creates a new API contact handler.
func NewContactHandler(database *db.DB, notifier *email.Notifier) *ContactHandler {
	return &ContactHandler{db: database, notifier: notifier}
}

// Create records a contact form submission. No authentication required.
func (h *ContactHandler) Create(c fiber.Ctx) error {
	var body struct {
		FullName    string `json:"full_name"`
		PhoneNumber string `json:"phone_number"`
		Email       string `json:"email"`
		Content     string `json:"content"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	body.FullName = strings.TrimSpace(body.FullName)
	body.Content = strings.TrimSpace(body.Content)
	if body.FullName == "" {
		return jsonError(c, fiber.StatusBadRequest, "full_name is required")
	}
	if body.Content == "" {
		return jsonError(c, fiber.StatusBadRequest, "content is required")
	}
	if len([]rune(body.Content)) > 1000 {
		return jsonError(c, fiber.StatusBadRequest, "content must be at most 1000 characters")
	}
	if body.Email != "" && !validation.ValidateEmail(body.Email) {
		return jsonError(c, fiber.StatusBadRequest, "invalid email address")
	}
	if body.PhoneNumber != "" && !validation.ValidatePhone(body.PhoneNumber) {
		return jsonError(c, fiber.StatusBadRequest, "invalid phone number")
	}
	if body.Email == "" && body.PhoneNumber == "" {
		return jsonError(c, fiber.StatusBadRequest, "an email address or phone number is required")
	}

	contact := &models.Contact{
		FullName:    body.FullName,
		PhoneNumber: body.PhoneNumber,
		Email:       body.Email,
		Content:     body.Content,
	}
	if err := h.db.CreateContact(c.Context(), contact); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to submit contact message")
	}

	h.notifier.NotifyContactReceived(c.Context(), contact)

	return jsonSuccess(c, fiber.Map{
		"message": "thank you, we will get back to you soon",
	})
}

// List returns submitted contact messages for admins.
func (h *ContactHandler) List(c fiber.Ctx) error {
	_, limit, offset := parsePagination(c)

	contacts, err := h.db.ListContacts(c.Context(), limit, offset)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch contacts")
	}

	return jsonSuccess(c, contacts)
}
