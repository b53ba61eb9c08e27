package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"studyhub/internal/db"
	"studyhub/internal/keywords"
	"studyhub/internal/models"
	"studyhub/internal/storage"
	"studyhub/internal/validation"
)

// CollectionHandler handles collection CRUD and item operations via JSON API.
type CollectionHandler struct {
	db      *db.DB
	store   storage.ObjectStore
	tracker *keywords.Tracker
}

// NewCollectionHandler creates a new API collection handler.
func NewCollectionHandler(database *db.DB, store storage.ObjectStore, tracker *keywords.Tracker) *CollectionHandler {
	return &CollectionHandler{db: database, store: store, tracker: tracker}
}

// List returns public collections with pagination.
func (h *CollectionHandler) List(c fiber.Ctx) error {
	page, limit, offset := parsePagination(c)

	filter := db.CollectionFilter{
		PublicOnly: true,
		Query:      c.Query("q", ""),
		Limit:      limit,
		Offset:     offset,
	}
	if raw := c.Query("category_id", ""); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid category_id")
		}
		filter.CategoryID = &id
	}

	cols, total, err := h.db.ListCollections(c.Context(), filter)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch collections")
	}

	return jsonPage(c, cols, page, limit, total)
}

// Mine returns the authenticated user's collections with pagination.
func (h *CollectionHandler) Mine(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	page, limit, offset := parsePagination(c)

	cols, total, err := h.db.ListCollections(c.Context(), db.CollectionFilter{
		CreatedBy: &user.ID,
		Query:     c.Query("q", ""),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch collections")
	}

	return jsonPage(c, cols, page, limit, total)
}

// Get returns one collection with its ordered items.
func (h *CollectionHandler) Get(c fiber.Ctx) error {
	col, err := h.loadCollection(c)
	if col == nil {
		return err
	}

	allowed, err := canViewContent(c, h.db, models.ShareKindCollection, col.ID, col.IsPublic, col.CreatedBy)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to check access")
	}
	if !allowed {
		return jsonError(c, fiber.StatusForbidden, "you do not have access to this collection")
	}

	if col.CoverKey != "" {
		url, err := h.store.PresignedURL(c.Context(), col.CoverKey, storage.DefaultURLExpiry)
		if err != nil {
			slog.Error("failed to presign collection cover", "collection", col.ID, "error", err)
		} else {
			col.CoverURL = url
		}
	}

	if user, _ := c.Locals("user").(*models.User); user != nil {
		saved, err := h.db.IsSaved(c.Context(), user.ID, models.SavedKindCollection, col.ID)
		if err == nil {
			col.IsSaved = saved
		}
	}

	return jsonSuccess(c, col)
}

// Create makes a new, empty collection.
func (h *CollectionHandler) Create(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		Title       string          `json:"title"`
		Subtitle    string          `json:"subtitle"`
		Description string          `json:"description"`
		IsPublic    bool            `json:"is_public"`
		CategoryID  string          `json:"category_id"`
		Keywords    json.RawMessage `json:"keywords"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if valid, msg := validation.ValidateTitle(body.Title); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	categoryID, err := resolveCategoryID(c, h.db, body.CategoryID)
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return jsonError(c, fe.Code, fe.Message)
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to check category")
	}

	var rawKeywords []string
	if body.Keywords != nil {
		rawKeywords = parseKeywordField(body.Keywords)
	}

	col := &models.Collection{
		Title:       body.Title,
		Subtitle:    body.Subtitle,
		Description: body.Description,
		IsPublic:    body.IsPublic,
		CategoryID:  categoryID,
		Keywords:    keywords.CleanList(rawKeywords),
		CreatedBy:   user.ID,
	}
	if err := h.db.CreateCollection(c.Context(), col); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create collection")
	}

	h.tracker.RecordCreateAsync(keywords.BucketCollection, rawKeywords)

	return jsonSuccess(c, col)
}

// Update edits collection metadata and applies the keyword delta to the
// usage ledger.
func (h *CollectionHandler) Update(c fiber.Ctx) error {
	col, err := h.loadOwnedCollection(c)
	if col == nil {
		return err
	}

	// Omitted fields keep their stored values, so partial patches are safe.
	var body struct {
		Title       string          `json:"title"`
		Subtitle    *string         `json:"subtitle"`
		Description *string         `json:"description"`
		IsPublic    *bool           `json:"is_public"`
		CategoryID  json.RawMessage `json:"category_id"`
		Keywords    json.RawMessage `json:"keywords"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.Title != "" {
		if valid, msg := validation.ValidateTitle(body.Title); !valid {
			return jsonError(c, fiber.StatusBadRequest, msg)
		}
		col.Title = body.Title
	}
	if body.Subtitle != nil {
		col.Subtitle = *body.Subtitle
	}
	if body.Description != nil {
		col.Description = *body.Description
	}
	if body.IsPublic != nil {
		col.IsPublic = *body.IsPublic
	}
	if err := patchCategoryID(c, h.db, body.CategoryID, &col.CategoryID); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return jsonError(c, fe.Code, fe.Message)
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to check category")
	}

	var delta keywords.Delta
	if body.Keywords != nil {
		newKeywords := parseKeywordField(body.Keywords)
		delta = keywords.ComputeDelta(col.Keywords, newKeywords)
		col.Keywords = keywords.CleanList(newKeywords)
	}

	if err := h.db.UpdateCollection(c.Context(), col); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to update collection")
	}

	if !delta.Empty() {
		h.tracker.RecordUpdateAsync(keywords.BucketCollection, delta)
	}

	return jsonSuccess(c, col)
}

// UploadCover replaces the collection's cover image.
func (h *CollectionHandler) UploadCover(c fiber.Ctx) error {
	col, err := h.loadOwnedCollection(c)
	if col == nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "cover file is required")
	}

	src, err := file.Open()
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "cannot read cover file")
	}
	defer src.Close()

	key := storage.NewKey(storage.PrefixCover, file.Filename)
	if err := h.store.Put(c.Context(), key, src, file.Size, file.Header.Get("Content-Type")); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to store cover file")
	}

	oldKey := col.CoverKey
	col.CoverKey = key
	if err := h.db.UpdateCollection(c.Context(), col); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to update collection")
	}

	if oldKey != "" {
		go func(key string) {
			if err := h.store.Delete(context.Background(), key); err != nil {
				slog.Error("failed to delete old cover", "key", key, "error", err)
			}
		}(oldKey)
	}

	return jsonSuccess(c, col)
}

// Delete removes a collection, its items and its keyword usage.
func (h *CollectionHandler) Delete(c fiber.Ctx) error {
	col, err := h.loadOwnedCollection(c)
	if col == nil {
		return err
	}

	if err := h.db.DeleteCollection(c.Context(), col.ID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete collection")
	}

	if col.CoverKey != "" {
		go func(key string) {
			if err := h.store.Delete(context.Background(), key); err != nil {
				slog.Error("failed to delete collection cover", "key", key, "error", err)
			}
		}(col.CoverKey)
	}

	h.tracker.RecordDeleteAsync(keywords.BucketCollection, col.Keywords)

	return jsonSuccess(c, fiber.Map{
		"message": "collection deleted successfully",
	})
}

// AddItems appends lectures and documents to a collection. Refs are
// validated against their tables; duplicates already in the collection
// are skipped.
func (h *CollectionHandler) AddItems(c fiber.Ctx) error {
	col, err := h.loadOwnedCollection(c)
	if col == nil {
		return err
	}

	var body struct {
		Items []models.CollectionItem `json:"items"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(body.Items) == 0 {
		return jsonError(c, fiber.StatusBadRequest, "items are required")
	}

	existing := make(map[string]bool, len(col.Items))
	for _, it := range col.Items {
		existing[it.Kind+"/"+it.Ref.String()] = true
	}

	nextOrder := len(col.Items)
	for _, it := range body.Items {
		if !models.ValidItemKind(it.Kind) {
			return jsonError(c, fiber.StatusBadRequest, "invalid item kind")
		}

		var exists bool
		switch it.Kind {
		case models.ItemKindLecture:
			exists, err = h.db.LectureExists(c.Context(), it.Ref)
		case models.ItemKindDocument:
			exists, err = h.db.DocumentExists(c.Context(), it.Ref)
		}
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "failed to check item reference")
		}
		if !exists {
			return jsonError(c, fiber.StatusBadRequest, "referenced "+it.Kind+" does not exist")
		}

		if existing[it.Kind+"/"+it.Ref.String()] {
			continue
		}
		existing[it.Kind+"/"+it.Ref.String()] = true

		it.Order = nextOrder
		nextOrder++
		col.Items = append(col.Items, it)
	}

	col.Normalize()
	if err := h.db.ReplaceCollectionItems(c.Context(), col.ID, col.Items); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to save collection items")
	}

	return jsonSuccess(c, col)
}

// RemoveItem deletes one item from a collection and re-indexes the rest.
func (h *CollectionHandler) RemoveItem(c fiber.Ctx) error {
	col, err := h.loadOwnedCollection(c)
	if col == nil {
		return err
	}

	kind := c.Params("kind")
	if !models.ValidItemKind(kind) {
		return jsonError(c, fiber.StatusBadRequest, "invalid item kind")
	}
	ref, err := uuid.Parse(c.Params("ref"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid item ref")
	}

	kept := col.Items[:0]
	found := false
	for _, it := range col.Items {
		if it.Kind == kind && it.Ref == ref {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	if !found {
		return jsonError(c, fiber.StatusNotFound, "item not found in collection")
	}
	col.Items = kept

	col.Normalize()
	if err := h.db.ReplaceCollectionItems(c.Context(), col.ID, col.Items); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to save collection items")
	}

	return jsonSuccess(c, col)
}

// ReorderItems applies a full new ordering to the collection's items. The
// request must mention every current item exactly once.
func (h *CollectionHandler) ReorderItems(c fiber.Ctx) error {
	col, err := h.loadOwnedCollection(c)
	if col == nil {
		return err
	}

	var body struct {
		Order []struct {
			Kind string    `json:"kind"`
			Ref  uuid.UUID `json:"ref"`
		} `json:"order"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if len(body.Order) != len(col.Items) {
		return jsonError(c, fiber.StatusBadRequest, "order must list every item exactly once")
	}

	position := make(map[string]int, len(body.Order))
	for i, entry := range body.Order {
		key := entry.Kind + "/" + entry.Ref.String()
		if _, dup := position[key]; dup {
			return jsonError(c, fiber.StatusBadRequest, "order lists an item twice")
		}
		position[key] = i
	}

	for i := range col.Items {
		pos, ok := position[col.Items[i].Kind+"/"+col.Items[i].Ref.String()]
		if !ok {
			return jsonError(c, fiber.StatusBadRequest, "order is missing an item")
		}
		col.Items[i].Order = pos
	}

	col.Normalize()
	if err := h.db.ReplaceCollectionItems(c.Context(), col.ID, col.Items); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to save collection items")
	}

	return jsonSuccess(c, col)
}

func (h *CollectionHandler) loadCollection(c fiber.Ctx) (*models.Collection, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, jsonError(c, fiber.StatusBadRequest, "invalid collection id")
	}

	col, err := h.db.GetCollectionByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrCollectionNotFound) {
			return nil, jsonError(c, fiber.StatusNotFound, "collection not found")
		}
		return nil, jsonError(c, fiber.StatusInternalServerError, "failed to fetch collection")
	}
	return col, nil
}

func (h *CollectionHandler) loadOwnedCollection(c fiber.Ctx) (*models.Collection, error) {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return nil, jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	col, err := h.loadCollection(c)
	if col == nil {
		return nil, err
	}

	if col.CreatedBy != user.ID && !user.IsModerator() {
		return nil, jsonError(c, fiber.StatusForbidden, "you do not have permission to modify this collection")
	}
	return col, nil
}
