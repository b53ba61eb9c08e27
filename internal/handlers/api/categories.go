package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"studyhub/internal/db"
	"studyhub/internal/keywords"
	"studyhub/internal/models"
	"studyhub/internal/validation"
)

// CategoryHandler handles the content taxonomy. Reads are public,
// writes are admin only.
type CategoryHandler struct {
	db *db.DB
}

// NewCategoryHandler creates a new API category handler.
func NewCategoryHandler(database *db.DB) *CategoryHandler {
	return &CategoryHandler{db: database}
}

// List returns all active categories.
func (h *CategoryHandler) List(c fiber.Ctx) error {
	categories, err := h.db.ListCategories(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch categories")
	}
	return jsonSuccess(c, categories)
}

// Get returns one category.
func (h *CategoryHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid category id")
	}

	cat, err := h.db.GetCategoryByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrCategoryNotFound) {
			return jsonError(c, fiber.StatusNotFound, "category not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch category")
	}
	return jsonSuccess(c, cat)
}

type categoryBody struct {
	NameEn      string   `json:"name_en"`
	NameVi      string   `json:"name_vi"`
	Description *string  `json:"description"`
	Keywords    []string `json:"keywords"`
}

// Create adds a category. Slugs are derived from the names.
func (h *CategoryHandler) Create(c fiber.Ctx) error {
	var body categoryBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.NameEn == "" {
		return jsonError(c, fiber.StatusBadRequest, "name_en is required")
	}

	cat := &models.Category{
		NameEn:   body.NameEn,
		NameVi:   body.NameVi,
		SlugEn:   validation.Slugify(body.NameEn),
		SlugVi:   validation.Slugify(body.NameVi),
		Keywords: keywords.CleanList(body.Keywords),
	}
	if body.Description != nil {
		cat.Description = *body.Description
	}
	if err := h.db.CreateCategory(c.Context(), cat); err != nil {
		if errors.Is(err, db.ErrDuplicateCategory) {
			return jsonError(c, fiber.StatusConflict, "a category with this name already exists")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create category")
	}

	return jsonSuccess(c, cat)
}

// Update renames a category, regenerating its slugs.
func (h *CategoryHandler) Update(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid category id")
	}

	cat, err := h.db.GetCategoryByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrCategoryNotFound) {
			return jsonError(c, fiber.StatusNotFound, "category not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch category")
	}

	var body categoryBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.NameEn != "" {
		cat.NameEn = body.NameEn
		cat.SlugEn = validation.Slugify(body.NameEn)
	}
	if body.NameVi != "" {
		cat.NameVi = body.NameVi
		cat.SlugVi = validation.Slugify(body.NameVi)
	}
	if body.Description != nil {
		cat.Description = *body.Description
	}
	if body.Keywords != nil {
		cat.Keywords = keywords.CleanList(body.Keywords)
	}

	if err := h.db.UpdateCategory(c.Context(), cat); err != nil {
		if errors.Is(err, db.ErrDuplicateCategory) {
			return jsonError(c, fiber.StatusConflict, "a category with this name already exists")
		}
		if errors.Is(err, db.ErrCategoryNotFound) {
			return jsonError(c, fiber.StatusNotFound, "category not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update category")
	}

	return jsonSuccess(c, cat)
}
