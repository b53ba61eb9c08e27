package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"studyhub/internal/db"
	"studyhub/internal/email"
	"studyhub/internal/models"
)

// ReportHandler handles content reports and their moderation workflow.
type ReportHandler struct {
	db       *db.DB
	notifier *email.Notifier
}

// NewReportHandler creates a new API report handler.
func NewReportHandler(database *db.DB, notifier *email.Notifier) *ReportHandler {
	return &ReportHandler{db: database, notifier: notifier}
}

// Create files a report against a question or answer and emails the
// moderator team.
func (h *ReportHandler) Create(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		TargetType string `json:"target_type"`
		TargetID   string `json:"target_id"`
		Reason     string `json:"reason"`
		Details    string `json:"details"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !models.ValidReportTarget(body.TargetType) {
		return jsonError(c, fiber.StatusBadRequest, "invalid target_type")
	}
	if !models.ValidReportReason(body.Reason) {
		return jsonError(c, fiber.StatusBadRequest, "invalid reason")
	}
	targetID, err := uuid.Parse(body.TargetID)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid target_id")
	}

	exists, err := h.targetExists(c, body.TargetType, targetID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to check target")
	}
	if !exists {
		return jsonError(c, fiber.StatusNotFound, "reported content not found")
	}

	report := &models.Report{
		TargetType: body.TargetType,
		TargetID:   targetID,
		Reason:     body.Reason,
		Details:    body.Details,
		ReportedBy: user.ID,
		Status:     models.ReportStatusOpen,
	}
	if err := h.db.CreateReport(c.Context(), report); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to file report")
	}

	h.notifier.NotifyReportFiled(c.Context(), report, user)

	return jsonSuccess(c, report)
}

// List returns reports for moderators, oldest open first.
func (h *ReportHandler) List(c fiber.Ctx) error {
	status := c.Query("status", "")
	if status != "" {
		switch status {
		case models.ReportStatusOpen, models.ReportStatusReviewed, models.ReportStatusActioned:
		default:
			return jsonError(c, fiber.StatusBadRequest, "invalid status")
		}
	}

	page, limit, offset := parsePagination(c)
	reports, total, err := h.db.ListReports(c.Context(), status, limit, offset)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch reports")
	}

	return jsonPage(c, reports, page, limit, total)
}

// SetStatus moves a report through the review workflow.
func (h *ReportHandler) SetStatus(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid report id")
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	switch body.Status {
	case models.ReportStatusOpen, models.ReportStatusReviewed, models.ReportStatusActioned:
	default:
		return jsonError(c, fiber.StatusBadRequest, "invalid status")
	}

	if err := h.db.SetReportStatus(c.Context(), id, body.Status); err != nil {
		if errors.Is(err, db.ErrReportNotFound) {
			return jsonError(c, fiber.StatusNotFound, "report not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update report")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "report status updated",
	})
}

func (h *ReportHandler) targetExists(c fiber.Ctx, targetType string, targetID uuid.UUID) (bool, error) {
	switch targetType {
	case models.ReportTargetQuestion:
		_, err := h.db.GetQuestionByID(c.Context(), targetID)
		if errors.Is(err, db.ErrQuestionNotFound) {
			return false, nil
		}
		return err == nil, err
	case models.ReportTargetAnswer:
		_, err := h.db.GetAnswerByID(c.Context(), targetID)
		if errors.Is(err, db.ErrAnswerNotFound) {
			return false, nil
		}
		return err == nil, err
	}
	return false, nil
}
