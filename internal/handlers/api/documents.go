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

// DocumentHandler handles document upload, metadata and lifecycle via JSON API.
type DocumentHandler struct {
	db      *db.DB
	store   storage.ObjectStore
	tracker *keywords.Tracker
}

// NewDocumentHandler creates a new API document handler.
func NewDocumentHandler(database *db.DB, store storage.ObjectStore, tracker *keywords.Tracker) *DocumentHandler {
	return &DocumentHandler{db: database, store: store, tracker: tracker}
}

// List returns public documents, optionally filtered by category.
func (h *DocumentHandler) List(c fiber.Ctx) error {
	var categoryID *uuid.UUID
	if raw := c.Query("category_id", ""); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid category_id")
		}
		categoryID = &id
	}

	docs, err := h.db.GetPublicDocuments(c.Context(), categoryID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch documents")
	}

	h.attachSavedFlags(c, docs)
	return jsonSuccess(c, docs)
}

// Mine returns every document the authenticated user has uploaded.
func (h *DocumentHandler) Mine(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	docs, err := h.db.GetDocumentsByUser(c.Context(), user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch documents")
	}

	h.attachSavedFlags(c, docs)
	return jsonSuccess(c, docs)
}

// Get returns one document with a signed download URL.
func (h *DocumentHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid document id")
	}

	doc, err := h.db.GetDocumentByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrDocumentNotFound) {
			return jsonError(c, fiber.StatusNotFound, "document not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch document")
	}

	allowed, err := canViewContent(c, h.db, models.ShareKindDocument, doc.ID, doc.IsPublic, doc.CreatedBy)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to check access")
	}
	if !allowed {
		return jsonError(c, fiber.StatusForbidden, "you do not have access to this document")
	}

	if doc.FileKey != "" {
		url, err := h.store.PresignedURL(c.Context(), doc.FileKey, storage.DefaultURLExpiry)
		if err != nil {
			slog.Error("failed to presign document file", "document", doc.ID, "error", err)
		} else {
			doc.FileURL = url
		}
	}

	if user, _ := c.Locals("user").(*models.User); user != nil {
		saved, err := h.db.IsSaved(c.Context(), user.ID, models.SavedKindDocument, doc.ID)
		if err == nil {
			doc.IsSaved = saved
		}
	}

	return jsonSuccess(c, doc)
}

// Create uploads a document file with its metadata as one multipart request.
func (h *DocumentHandler) Create(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	title := c.FormValue("title")
	if valid, msg := validation.ValidateTitle(title); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "document file is required")
	}

	categoryID, err := resolveCategoryID(c, h.db, c.FormValue("category_id"))
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return jsonError(c, fe.Code, fe.Message)
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to check category")
	}

	rawKeywords := keywords.ParseList(c.FormValue("keywords"))

	src, err := file.Open()
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "cannot read document file")
	}
	defer src.Close()

	key := storage.NewKey(storage.PrefixFiles, file.Filename)
	contentType := file.Header.Get("Content-Type")
	if err := h.store.Put(c.Context(), key, src, file.Size, contentType); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to store document file")
	}

	doc := &models.Document{
		Title:       title,
		Description: c.FormValue("description"),
		FileKey:     key,
		MimeType:    contentType,
		FileSize:    file.Size,
		IsPublic:    c.FormValue("is_public") == "true",
		CategoryID:  categoryID,
		Keywords:    keywords.CleanList(rawKeywords),
		CreatedBy:   user.ID,
	}
	if err := h.db.CreateDocument(c.Context(), doc); err != nil {
		if derr := h.store.Delete(context.Background(), key); derr != nil {
			slog.Error("failed to clean up orphaned document object", "key", key, "error", derr)
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create document")
	}

	h.tracker.RecordCreateAsync(keywords.BucketDocument, rawKeywords)

	return jsonSuccess(c, doc)
}

// Update edits document metadata and applies the keyword delta to the
// usage ledger.
func (h *DocumentHandler) Update(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid document id")
	}

	doc, err := h.db.GetDocumentByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrDocumentNotFound) {
			return jsonError(c, fiber.StatusNotFound, "document not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch document")
	}

	if doc.CreatedBy != user.ID && !user.IsModerator() {
		return jsonError(c, fiber.StatusForbidden, "you do not have permission to edit this document")
	}

	// Omitted fields keep their stored values, so partial patches are safe.
	var body struct {
		Title       string          `json:"title"`
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
		doc.Title = body.Title
	}
	if body.Description != nil {
		doc.Description = *body.Description
	}
	if body.IsPublic != nil {
		doc.IsPublic = *body.IsPublic
	}
	if err := patchCategoryID(c, h.db, body.CategoryID, &doc.CategoryID); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return jsonError(c, fe.Code, fe.Message)
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to check category")
	}

	var delta keywords.Delta
	if body.Keywords != nil {
		newKeywords := parseKeywordField(body.Keywords)
		delta = keywords.ComputeDelta(doc.Keywords, newKeywords)
		doc.Keywords = keywords.CleanList(newKeywords)
	}

	if err := h.db.UpdateDocument(c.Context(), doc); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to update document")
	}

	if !delta.Empty() {
		h.tracker.RecordUpdateAsync(keywords.BucketDocument, delta)
	}

	return jsonSuccess(c, doc)
}

// Delete removes a document, its stored file and its keyword usage.
func (h *DocumentHandler) Delete(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid document id")
	}

	doc, err := h.db.GetDocumentByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrDocumentNotFound) {
			return jsonError(c, fiber.StatusNotFound, "document not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch document")
	}

	if doc.CreatedBy != user.ID && !user.IsModerator() {
		return jsonError(c, fiber.StatusForbidden, "you do not have permission to delete this document")
	}

	if err := h.db.DeleteDocument(c.Context(), id); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete document")
	}

	if doc.FileKey != "" {
		go func(key string) {
			if err := h.store.Delete(context.Background(), key); err != nil {
				slog.Error("failed to delete document file", "key", key, "error", err)
			}
		}(doc.FileKey)
	}

	h.tracker.RecordDeleteAsync(keywords.BucketDocument, doc.Keywords)

	return jsonSuccess(c, fiber.Map{
		"message": "document deleted successfully",
	})
}

func (h *DocumentHandler) attachSavedFlags(c fiber.Ctx, docs []models.Document) {
	user, _ := c.Locals("user").(*models.User)
	if user == nil || len(docs) == 0 {
		return
	}
	refs, err := h.db.SavedRefs(c.Context(), user.ID, models.SavedKindDocument)
	if err != nil {
		return
	}
	for i := range docs {
		docs[i].IsSaved = refs[docs[i].ID]
	}
}
