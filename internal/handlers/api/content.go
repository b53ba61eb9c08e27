package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"studyhub/internal/db"
	"studyhub/internal/keywords"
	"studyhub/internal/models"
)

// parseKeywordField accepts keywords from a JSON body as either an array
// of strings or a single comma-separated string.
func parseKeywordField(raw json.RawMessage) []string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return keywords.ParseList(s)
	}
	return keywords.ParseList(string(raw))
}

// canViewContent decides read access to a lecture, document or collection:
// public items are open, owners and moderators always see their content,
// everyone else needs a share grant.
func canViewContent(c fiber.Ctx, database *db.DB, shareKind string, contentID uuid.UUID, isPublic bool, owner uuid.UUID) (bool, error) {
	if isPublic {
		return true, nil
	}
	user, _ := c.Locals("user").(*models.User)
	if user == nil {
		return false, nil
	}
	if user.ID == owner || user.IsModerator() {
		return true, nil
	}
	return database.IsSharedWith(c.Context(), shareKind, contentID, user.ID)
}

// patchCategoryID applies a category_id patch field: absent leaves dst
// untouched, an explicit null or empty string clears it, a value is
// validated and set.
func patchCategoryID(c fiber.Ctx, database *db.DB, raw json.RawMessage, dst **uuid.UUID) error {
	if raw == nil {
		return nil
	}
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid category_id")
	}
	if s == nil || *s == "" {
		*dst = nil
		return nil
	}
	id, err := resolveCategoryID(c, database, *s)
	if err != nil {
		return err
	}
	*dst = id
	return nil
}

// resolveCategoryID parses and validates an optional category reference.
func resolveCategoryID(c fiber.Ctx, database *db.DB, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid category_id")
	}
	exists, err := database.CategoryExists(c.Context(), id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fiber.NewError(fiber.StatusBadRequest, "category not found")
	}
	return &id, nil
}
