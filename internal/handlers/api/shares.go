package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"studyhub/internal/db"
	"studyhub/internal/models"
)

// ShareHandler handles access grants on private content.
type ShareHandler struct {
	db *db.DB
}

// NewShareHandler creates a new API share handler.
func NewShareHandler(database *db.DB) *ShareHandler {
	return &ShareHandler{db: database}
}

// Create grants another user access to content the caller owns.
func (h *ShareHandler) Create(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		Kind      string `json:"kind"`
		ContentID string `json:"content_id"`
		UserID    string `json:"user_id"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !models.ValidShareKind(body.Kind) {
		return jsonError(c, fiber.StatusBadRequest, "invalid kind")
	}
	contentID, err := uuid.Parse(body.ContentID)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid content_id")
	}
	targetID, err := uuid.Parse(body.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid user_id")
	}
	if targetID == user.ID {
		return jsonError(c, fiber.StatusBadRequest, "cannot share content with yourself")
	}

	if err := h.requireOwnership(c, user, body.Kind, contentID); err != nil {
		return err
	}

	exists, err := h.db.UserExists(c.Context(), targetID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to check user")
	}
	if !exists {
		return jsonError(c, fiber.StatusNotFound, "user not found")
	}

	share := &models.Share{
		Kind:      body.Kind,
		ContentID: contentID,
		UserID:    targetID,
	}
	if err := h.db.CreateShare(c.Context(), share); err != nil {
		if errors.Is(err, db.ErrDuplicateShare) {
			return jsonError(c, fiber.StatusConflict, "content already shared with this user")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create share")
	}

	return jsonSuccess(c, share)
}

// Delete revokes a grant on content the caller owns.
func (h *ShareHandler) Delete(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	kind := c.Params("kind")
	if !models.ValidShareKind(kind) {
		return jsonError(c, fiber.StatusBadRequest, "invalid kind")
	}
	contentID, err := uuid.Parse(c.Params("contentID"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid content id")
	}
	targetID, err := uuid.Parse(c.Params("userID"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.requireOwnership(c, user, kind, contentID); err != nil {
		return err
	}

	if err := h.db.DeleteShare(c.Context(), kind, contentID, targetID); err != nil {
		if errors.Is(err, db.ErrShareNotFound) {
			return jsonError(c, fiber.StatusNotFound, "share not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to revoke share")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "share revoked",
	})
}

// ListForContent returns every grant on one content item the caller owns.
func (h *ShareHandler) ListForContent(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	kind := c.Params("kind")
	if !models.ValidShareKind(kind) {
		return jsonError(c, fiber.StatusBadRequest, "invalid kind")
	}
	contentID, err := uuid.Parse(c.Params("contentID"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid content id")
	}

	if err := h.requireOwnership(c, user, kind, contentID); err != nil {
		return err
	}

	shares, err := h.db.GetSharesForContent(c.Context(), kind, contentID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch shares")
	}

	return jsonSuccess(c, shares)
}

// SharedWithMe returns grants pointed at the authenticated user.
func (h *ShareHandler) SharedWithMe(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	kind := c.Query("kind", "")
	if kind != "" && !models.ValidShareKind(kind) {
		return jsonError(c, fiber.StatusBadRequest, "invalid kind")
	}

	shares, err := h.db.GetSharesForUser(c.Context(), user.ID, kind)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch shares")
	}

	return jsonSuccess(c, shares)
}

// requireOwnership checks the caller owns the content being shared.
// Moderators do not get a pass here: grants stay with the owner. On
// failure the error response has already been written.
func (h *ShareHandler) requireOwnership(c fiber.Ctx, user *models.User, kind string, contentID uuid.UUID) error {
	var owner uuid.UUID
	switch kind {
	case models.ShareKindLecture:
		lec, err := h.db.GetLectureByID(c.Context(), contentID)
		if errors.Is(err, db.ErrLectureNotFound) {
			return jsonError(c, fiber.StatusNotFound, "lecture not found")
		}
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "failed to fetch content")
		}
		owner = lec.CreatedBy
	case models.ShareKindDocument:
		doc, err := h.db.GetDocumentByID(c.Context(), contentID)
		if errors.Is(err, db.ErrDocumentNotFound) {
			return jsonError(c, fiber.StatusNotFound, "document not found")
		}
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "failed to fetch content")
		}
		owner = doc.CreatedBy
	case models.ShareKindCollection:
		col, err := h.db.GetCollectionByID(c.Context(), contentID)
		if errors.Is(err, db.ErrCollectionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "collection not found")
		}
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "failed to fetch content")
		}
		owner = col.CreatedBy
	}

	if owner != user.ID {
		return jsonError(c, fiber.StatusForbidden, "only the owner can manage shares")
	}
	return nil
}
