package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"studyhub/internal/db"
	"studyhub/internal/models"
)

// SavedHandler handles per-user bookmarks.
type SavedHandler struct {
	db *db.DB
}

// NewSavedHandler creates a new API saved-items handler.
func NewSavedHandler(database *db.DB) *SavedHandler {
	return &SavedHandler{db: database}
}

// List returns the authenticated user's saved items, optionally filtered
// by kind.
func (h *SavedHandler) List(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	kind := c.Query("kind", "")
	if kind != "" && !models.ValidSavedKind(kind) {
		return jsonError(c, fiber.StatusBadRequest, "invalid kind")
	}

	items, err := h.db.GetSavedItems(c.Context(), user.ID, kind)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch saved items")
	}

	return jsonSuccess(c, items)
}

// Create bookmarks a content item for the authenticated user.
func (h *SavedHandler) Create(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		Kind string `json:"kind"`
		Ref  string `json:"ref"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !models.ValidSavedKind(body.Kind) {
		return jsonError(c, fiber.StatusBadRequest, "invalid kind")
	}
	ref, err := uuid.Parse(body.Ref)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid ref")
	}

	exists, err := h.contentExists(c, body.Kind, ref)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to check content")
	}
	if !exists {
		return jsonError(c, fiber.StatusNotFound, "content not found")
	}

	item := &models.SavedItem{
		UserID: user.ID,
		Kind:   body.Kind,
		Ref:    ref,
	}
	// Saving twice is not an error, the bookmark already exists.
	if err := h.db.SaveItem(c.Context(), item); err != nil && !errors.Is(err, db.ErrAlreadySaved) {
		return jsonError(c, fiber.StatusInternalServerError, "failed to save item")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "item saved",
	})
}

// Delete removes a bookmark.
func (h *SavedHandler) Delete(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	kind := c.Params("kind")
	if !models.ValidSavedKind(kind) {
		return jsonError(c, fiber.StatusBadRequest, "invalid kind")
	}
	ref, err := uuid.Parse(c.Params("ref"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid ref")
	}

	if err := h.db.UnsaveItem(c.Context(), user.ID, kind, ref); err != nil {
		if errors.Is(err, db.ErrSavedItemNotFound) {
			return jsonError(c, fiber.StatusNotFound, "saved item not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to remove saved item")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "item removed from saved",
	})
}

func (h *SavedHandler) contentExists(c fiber.Ctx, kind string, ref uuid.UUID) (bool, error) {
	switch kind {
	case models.SavedKindLecture:
		return h.db.LectureExists(c.Context(), ref)
	case models.SavedKindDocument:
		return h.db.DocumentExists(c.Context(), ref)
	case models.SavedKindCollection:
		return h.db.CollectionExists(c.Context(), ref)
	case models.SavedKindQuestion:
		q, err := h.db.GetQuestionByID(c.Context(), ref)
		if errors.Is(err, db.ErrQuestionNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return q.Status != models.StatusDeleted, nil
	}
	return false, nil
}
