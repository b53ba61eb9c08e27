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

// QAHandler handles questions and their answers.
type QAHandler struct {
	db    *db.DB
	store storage.ObjectStore
}

// NewQAHandler creates a new API Q&A handler.
func NewQAHandler(database *db.DB, store storage.ObjectStore) *QAHandler {
	return &QAHandler{db: database, store: store}
}

func validContentStatus(status string) bool {
	switch status {
	case models.StatusPublished, models.StatusPending, models.StatusHidden, models.StatusDeleted:
		return true
	}
	return false
}

// ListQuestions returns published questions with search and pagination.
func (h *QAHandler) ListQuestions(c fiber.Ctx) error {
	page, limit, offset := parsePagination(c)

	filter := db.QuestionFilter{
		Status: models.StatusPublished,
		Query:  c.Query("q", ""),
		Limit:  limit,
		Offset: offset,
	}
	if tag := c.Query("tag", ""); tag != "" {
		filter.Tag = keywords.Normalize(tag)
	}
	if raw := c.Query("category_id", ""); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid category_id")
		}
		filter.CategoryID = &id
	}

	questions, total, err := h.db.ListQuestions(c.Context(), filter)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch questions")
	}

	h.attachSavedFlags(c, questions)
	return jsonPage(c, questions, page, limit, total)
}

// MyQuestions returns every question the authenticated user has asked,
// whatever its status.
func (h *QAHandler) MyQuestions(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	page, limit, offset := parsePagination(c)
	questions, total, err := h.db.ListQuestions(c.Context(), db.QuestionFilter{
		CreatedBy: &user.ID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch questions")
	}

	h.attachSavedFlags(c, questions)
	return jsonPage(c, questions, page, limit, total)
}

// GetQuestion returns one question with its answers.
func (h *QAHandler) GetQuestion(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid question id")
	}

	q, err := h.db.GetQuestionByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrQuestionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "question not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch question")
	}

	user, _ := c.Locals("user").(*models.User)
	privileged := user != nil && (user.ID == q.CreatedBy || user.IsModerator())
	if q.Status != models.StatusPublished && !privileged {
		return jsonError(c, fiber.StatusNotFound, "question not found")
	}

	answers, err := h.db.GetAnswersByQuestion(c.Context(), q.ID, !privileged)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch answers")
	}

	h.presignAttachments(c, q.Attachments)
	for i := range answers {
		h.presignAttachments(c, answers[i].Attachments)
	}

	if user != nil {
		saved, err := h.db.IsSaved(c.Context(), user.ID, models.SavedKindQuestion, q.ID)
		if err == nil {
			q.IsSaved = saved
		}
	}

	return jsonSuccess(c, fiber.Map{
		"question": q,
		"answers":  answers,
	})
}

type questionBody struct {
	Title       string              `json:"title"`
	Content     string              `json:"content"`
	Tags        []string            `json:"tags"`
	CategoryID  json.RawMessage     `json:"category_id"`
	Attachments []models.Attachment `json:"attachments"`
}

// CreateQuestion posts a new question.
func (h *QAHandler) CreateQuestion(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body questionBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if valid, msg := validation.ValidateQuestionTitle(body.Title); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if valid, msg := validation.ValidateQuestionContent(body.Content); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	var categoryID *uuid.UUID
	if err := patchCategoryID(c, h.db, body.CategoryID, &categoryID); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return jsonError(c, fe.Code, fe.Message)
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to check category")
	}

	q := &models.Question{
		Title:       body.Title,
		Content:     body.Content,
		Tags:        keywords.CleanList(body.Tags),
		CategoryID:  categoryID,
		Attachments: sanitizeAttachments(body.Attachments),
		CreatedBy:   user.ID,
		Status:      models.StatusPublished,
	}
	if err := h.db.CreateQuestion(c.Context(), q); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create question")
	}

	return jsonSuccess(c, q)
}

// UpdateQuestion edits a question's title, content, tags or attachments.
func (h *QAHandler) UpdateQuestion(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	q, err := h.loadEditableQuestion(c, user)
	if q == nil {
		return err
	}

	var body questionBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.Title != "" {
		if valid, msg := validation.ValidateQuestionTitle(body.Title); !valid {
			return jsonError(c, fiber.StatusBadRequest, msg)
		}
		q.Title = body.Title
	}
	if body.Content != "" {
		if valid, msg := validation.ValidateQuestionContent(body.Content); !valid {
			return jsonError(c, fiber.StatusBadRequest, msg)
		}
		q.Content = body.Content
	}
	if body.Tags != nil {
		q.Tags = keywords.CleanList(body.Tags)
	}
	if err := patchCategoryID(c, h.db, body.CategoryID, &q.CategoryID); err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return jsonError(c, fe.Code, fe.Message)
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to check category")
	}
	if body.Attachments != nil {
		h.cleanupRemovedAttachments(q.Attachments, body.Attachments)
		q.Attachments = sanitizeAttachments(body.Attachments)
	}

	if err := h.db.UpdateQuestion(c.Context(), q); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to update question")
	}

	return jsonSuccess(c, q)
}

// DeleteQuestion soft-deletes a question. The row stays so its answers
// and any open reports keep their target.
func (h *QAHandler) DeleteQuestion(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	q, err := h.loadEditableQuestion(c, user)
	if q == nil {
		return err
	}

	if err := h.db.SetQuestionStatus(c.Context(), q.ID, models.StatusDeleted); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete question")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "question deleted successfully",
	})
}

// SetQuestionStatus lets moderators change a question's moderation status.
func (h *QAHandler) SetQuestionStatus(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid question id")
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !validContentStatus(body.Status) {
		return jsonError(c, fiber.StatusBadRequest, "invalid status")
	}

	if err := h.db.SetQuestionStatus(c.Context(), id, body.Status); err != nil {
		if errors.Is(err, db.ErrQuestionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "question not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update question status")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "question status updated",
	})
}

type answerBody struct {
	Content     string              `json:"content"`
	Attachments []models.Attachment `json:"attachments"`
}

// CreateAnswer posts an answer to a published question.
func (h *QAHandler) CreateAnswer(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	questionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid question id")
	}

	q, err := h.db.GetQuestionByID(c.Context(), questionID)
	if err != nil {
		if errors.Is(err, db.ErrQuestionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "question not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch question")
	}
	if q.Status != models.StatusPublished {
		return jsonError(c, fiber.StatusNotFound, "question not found")
	}

	var body answerBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if valid, msg := validation.ValidateAnswerContent(body.Content); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	a := &models.Answer{
		QuestionID:  q.ID,
		Content:     body.Content,
		Attachments: sanitizeAttachments(body.Attachments),
		CreatedBy:   user.ID,
		Status:      models.StatusPublished,
	}
	if err := h.db.CreateAnswer(c.Context(), a); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create answer")
	}

	return jsonSuccess(c, a)
}

// UpdateAnswer edits an answer's content or attachments.
func (h *QAHandler) UpdateAnswer(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	a, err := h.loadEditableAnswer(c, user)
	if a == nil {
		return err
	}

	var body answerBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.Content != "" {
		if valid, msg := validation.ValidateAnswerContent(body.Content); !valid {
			return jsonError(c, fiber.StatusBadRequest, msg)
		}
		a.Content = body.Content
	}
	if body.Attachments != nil {
		h.cleanupRemovedAttachments(a.Attachments, body.Attachments)
		a.Attachments = sanitizeAttachments(body.Attachments)
	}

	if err := h.db.UpdateAnswer(c.Context(), a); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to update answer")
	}

	return jsonSuccess(c, a)
}

// DeleteAnswer soft-deletes an answer and decrements the question's
// published-answer counter.
func (h *QAHandler) DeleteAnswer(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	a, err := h.loadEditableAnswer(c, user)
	if a == nil {
		return err
	}

	if err := h.db.SetAnswerStatus(c.Context(), a.ID, models.StatusDeleted); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete answer")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "answer deleted successfully",
	})
}

// SetAnswerStatus lets moderators change an answer's moderation status.
func (h *QAHandler) SetAnswerStatus(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("answerID"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid answer id")
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !validContentStatus(body.Status) {
		return jsonError(c, fiber.StatusBadRequest, "invalid status")
	}

	if err := h.db.SetAnswerStatus(c.Context(), id, body.Status); err != nil {
		if errors.Is(err, db.ErrAnswerNotFound) {
			return jsonError(c, fiber.StatusNotFound, "answer not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update answer status")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "answer status updated",
	})
}

// loadEditableQuestion fetches the question from the id route param and
// checks the caller may modify it. On failure the response has already
// been written and the returned question is nil.
func (h *QAHandler) loadEditableQuestion(c fiber.Ctx, user *models.User) (*models.Question, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, jsonError(c, fiber.StatusBadRequest, "invalid question id")
	}

	q, err := h.db.GetQuestionByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrQuestionNotFound) {
			return nil, jsonError(c, fiber.StatusNotFound, "question not found")
		}
		return nil, jsonError(c, fiber.StatusInternalServerError, "failed to fetch question")
	}

	if q.CreatedBy != user.ID && !user.IsModerator() {
		return nil, jsonError(c, fiber.StatusForbidden, "you do not have permission to modify this question")
	}
	return q, nil
}

func (h *QAHandler) loadEditableAnswer(c fiber.Ctx, user *models.User) (*models.Answer, error) {
	id, err := uuid.Parse(c.Params("answerID"))
	if err != nil {
		return nil, jsonError(c, fiber.StatusBadRequest, "invalid answer id")
	}

	a, err := h.db.GetAnswerByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrAnswerNotFound) {
			return nil, jsonError(c, fiber.StatusNotFound, "answer not found")
		}
		return nil, jsonError(c, fiber.StatusInternalServerError, "failed to fetch answer")
	}

	if a.CreatedBy != user.ID && !user.IsModerator() {
		return nil, jsonError(c, fiber.StatusForbidden, "you do not have permission to modify this answer")
	}
	return a, nil
}

// presignAttachments fills the URL field of each attachment. Failures are
// logged and leave the URL empty rather than failing the whole read.
func (h *QAHandler) presignAttachments(c fiber.Ctx, atts []models.Attachment) {
	for i := range atts {
		if atts[i].Key == "" {
			continue
		}
		url, err := h.store.PresignedURL(c.Context(), atts[i].Key, storage.DefaultURLExpiry)
		if err != nil {
			slog.Error("failed to presign attachment", "key", atts[i].Key, "error", err)
			continue
		}
		atts[i].URL = url
	}
}

// cleanupRemovedAttachments deletes stored objects the edit dropped.
func (h *QAHandler) cleanupRemovedAttachments(old, updated []models.Attachment) {
	kept := make(map[string]bool, len(updated))
	for _, a := range updated {
		kept[a.Key] = true
	}
	for _, a := range old {
		if a.Key == "" || kept[a.Key] {
			continue
		}
		go func(key string) {
			if err := h.store.Delete(context.Background(), key); err != nil {
				slog.Error("failed to delete attachment object", "key", key, "error", err)
			}
		}(a.Key)
	}
}

// sanitizeAttachments drops client-supplied URL values, which are only
// ever populated server side on reads.
func sanitizeAttachments(atts []models.Attachment) []models.Attachment {
	clean := make([]models.Attachment, 0, len(atts))
	for _, a := range atts {
		if a.Key == "" {
			continue
		}
		clean = append(clean, models.Attachment{Key: a.Key, MimeType: a.MimeType})
	}
	return clean
}

func (h *QAHandler) attachSavedFlags(c fiber.Ctx, questions []models.Question) {
	user, _ := c.Locals("user").(*models.User)
	if user == nil || len(questions) == 0 {
		return
	}
	refs, err := h.db.SavedRefs(c.Context(), user.ID, models.SavedKindQuestion)
	if err != nil {
		return
	}
	for i := range questions {
		questions[i].IsSaved = refs[questions[i].ID]
	}
}
