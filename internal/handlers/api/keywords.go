package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"studyhub/internal/db"
	"studyhub/internal/keywords"
)

// KeywordHandler exposes the keyword usage ledger.
type KeywordHandler struct {
	db *db.DB
}

// NewKeywordHandler creates a new API keyword handler.
func NewKeywordHandler(database *db.DB) *KeywordHandler {
	return &KeywordHandler{db: database}
}

// Trending returns the most used keywords across all content, highest
// usage first.
func (h *KeywordHandler) Trending(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	kws, err := h.db.TopKeywords(c.Context(), limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch keywords")
	}

	return jsonSuccess(c, kws)
}

// Get returns one ledger row. The key is normalized first, so any raw
// spelling of the keyword resolves to the same row.
func (h *KeywordHandler) Get(c fiber.Ctx) error {
	key := keywords.Normalize(c.Params("key"))
	if key == "" {
		return jsonError(c, fiber.StatusBadRequest, "invalid keyword")
	}

	kw, err := h.db.GetKeyword(c.Context(), key)
	if err != nil {
		if errors.Is(err, db.ErrKeywordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "keyword not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch keyword")
	}

	return jsonSuccess(c, kw)
}
