package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"studyhub/internal/storage"
)

// maxAttachmentSize caps question and answer attachment uploads at 20 MB.
const maxAttachmentSize = 20 << 20

// UploadHandler stores question and answer attachments ahead of the post
// that references them.
type UploadHandler struct {
	store storage.ObjectStore
}

// NewUploadHandler creates a new API upload handler.
func NewUploadHandler(store storage.ObjectStore) *UploadHandler {
	return &UploadHandler{store: store}
}

// Create accepts a multipart file and returns the object key the client
// puts in the attachments field of a question or answer.
func (h *UploadHandler) Create(c fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "file is required")
	}
	if file.Size > maxAttachmentSize {
		return jsonError(c, fiber.StatusRequestEntityTooLarge, "file exceeds the 20MB attachment limit")
	}

	src, err := file.Open()
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "cannot read file")
	}
	defer src.Close()

	key := storage.NewKey(storage.PrefixQA, file.Filename)
	contentType := file.Header.Get("Content-Type")
	if err := h.store.Put(c.Context(), key, src, file.Size, contentType); err != nil {
		slog.Error("failed to store attachment", "key", key, "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to store file")
	}

	return jsonSuccess(c, fiber.Map{
		"key":       key,
		"mime_type": contentType,
	})
}
