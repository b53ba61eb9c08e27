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

// LectureHandler handles lecture upload, metadata and lifecycle via JSON API.
type LectureHandler struct {
	db      *db.DB
	store   storage.ObjectStore
	tracker *keywords.Tracker
}

// NewLectureHandler creates a new API lecture handler.
func NewLectureHandler(database *db.DB, store storage.ObjectStore, tracker *keywords.Tracker) *LectureHandler {
	return &LectureHandler{db: database, store: store, tracker: tracker}
}

// List returns public lectures, optionally filtered by category.
func (h *LectureHandler) List(c fiber.Ctx) error {
	var categoryID *uuid.UUID
	if raw := c.Query("category_id", ""); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid category_id")
		}
		categoryID = &id
	}

	lectures, err := h.db.GetPublicLectures(c.Context(), categoryID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch lectures")
	}

	h.attachSavedFlags(c, lectures)
	return jsonSuccess(c, lectures)
}

// Mine returns every lecture the authenticated user has uploaded.
func (h *LectureHandler) Mine(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	lectures, err := h.db.GetLecturesByUser(c.Context(), user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch lectures")
	}

	h.attachSavedFlags(c, lectures)
	return jsonSuccess(c, lectures)
}

// Get returns one lecture with a signed playback URL.
func (h *LectureHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid lecture id")
	}

	lec, err := h.db.GetLectureByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrLectureNotFound) {
			return jsonError(c, fiber.StatusNotFound, "lecture not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch lecture")
	}

	allowed, err := canViewContent(c, h.db, models.ShareKindLecture, lec.ID, lec.IsPublic, lec.CreatedBy)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to check access")
	}
	if !allowed {
		return jsonError(c, fiber.StatusForbidden, "you do not have access to this lecture")
	}

	if lec.MediaKey != "" {
		url, err := h.store.PresignedURL(c.Context(), lec.MediaKey, storage.DefaultURLExpiry)
		if err != nil {
			slog.Error("failed to presign lecture media", "lecture", lec.ID, "error", err)
		} else {
			lec.VideoURL = url
		}
	}

	if user, _ := c.Locals("user").(*models.User); user != nil {
		saved, err := h.db.IsSaved(c.Context(), user.ID, models.SavedKindLecture, lec.ID)
		if err == nil {
			lec.IsSaved = saved
		}
	}

	return jsonSuccess(c, lec)
}

// Create uploads a lecture video with its metadata as one multipart request.
func (h *LectureHandler) Create(c fiber.Ctx) error {
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
		return jsonError(c, fiber.StatusBadRequest, "media file is required")
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
		return jsonError(c, fiber.StatusBadRequest, "cannot read media file")
	}
	defer src.Close()

	key := storage.NewKey(storage.PrefixMedia, file.Filename)
	contentType := file.Header.Get("Content-Type")
	if err := h.store.Put(c.Context(), key, src, file.Size, contentType); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to store media file")
	}

	lec := &models.Lecture{
		Title:       title,
		Description: c.FormValue("description"),
		MediaKey:    key,
		MimeType:    contentType,
		FileSize:    file.Size,
		IsPublic:    c.FormValue("is_public") == "true",
		CategoryID:  categoryID,
		Keywords:    keywords.CleanList(rawKeywords),
		CreatedBy:   user.ID,
	}
	if err := h.db.CreateLecture(c.Context(), lec); err != nil {
		// The row failed, don't leak the object.
		if derr := h.store.Delete(context.Background(), key); derr != nil {
			slog.Error("failed to clean up orphaned media object", "key", key, "error", derr)
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create lecture")
	}

	h.tracker.RecordCreateAsync(keywords.BucketLecture, rawKeywords)

	return jsonSuccess(c, lec)
}

// Update edits lecture metadata and applies the keyword delta to the
// usage ledger.
func (h *LectureHandler) Update(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid lecture id")
	}

	lec, err := h.db.GetLectureByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrLectureNotFound) {
			return jsonError(c, fiber.StatusNotFound, "lecture not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch lecture")
	}

	if lec.CreatedBy != user.ID && !user.IsModerator() {
		return jsonError(c, fiber.StatusForbidden, "you do not have permission to edit this lecture")
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
		lec.Title = body.Title
	}
	if body.Description != nil {
		lec.Description = *body.Description
	}
	if body.IsPublic != nil {
		lec.IsPublic = *body.IsPublic
	}
	if err := patchCategoryID(c, h.db, body.CategoryID, &lec.CategoryID); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return jsonError(c, fe.Code, fe.Message)
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to check category")
	}

	var delta keywords.Delta
	if body.Keywords != nil {
		newKeywords := parseKeywordField(body.Keywords)
		delta = keywords.ComputeDelta(lec.Keywords, newKeywords)
		lec.Keywords = keywords.CleanList(newKeywords)
	}

	if err := h.db.UpdateLecture(c.Context(), lec); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to update lecture")
	}

	if !delta.Empty() {
		h.tracker.RecordUpdateAsync(keywords.BucketLecture, delta)
	}

	return jsonSuccess(c, lec)
}

// Delete removes a lecture, its stored media and its keyword usage.
func (h *LectureHandler) Delete(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid lecture id")
	}

	lec, err := h.db.GetLectureByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrLectureNotFound) {
			return jsonError(c, fiber.StatusNotFound, "lecture not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch lecture")
	}

	if lec.CreatedBy != user.ID && !user.IsModerator() {
		return jsonError(c, fiber.StatusForbidden, "you do not have permission to delete this lecture")
	}

	if err := h.db.DeleteLecture(c.Context(), id); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete lecture")
	}

	if lec.MediaKey != "" {
		go func(key string) {
			if err := h.store.Delete(context.Background(), key); err != nil {
				slog.Error("failed to delete lecture media", "key", key, "error", err)
			}
		}(lec.MediaKey)
	}

	h.tracker.RecordDeleteAsync(keywords.BucketLecture, lec.Keywords)

	return jsonSuccess(c, fiber.Map{
		"message": "lecture deleted successfully",
	})
}

func (h *LectureHandler) attachSavedFlags(c fiber.Ctx, lectures []models.Lecture) {
	user, _ := c.Locals("user").(*models.User)
	if user == nil || len(lectures) == 0 {
		return
	}
	refs, err := h.db.SavedRefs(c.Context(), user.ID, models.SavedKindLecture)
	if err != nil {
		return
	}
	for i := range lectures {
		lectures[i].IsSaved = refs[lectures[i].ID]
	}
}
