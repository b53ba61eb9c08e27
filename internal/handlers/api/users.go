package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"studyhub/internal/db"
	"studyhub/internal/models"
)

// UserHandler handles the user profile and admin user management.
type UserHandler struct {
	db *db.DB
}

// NewUserHandler creates a new API user handler.
func NewUserHandler(database *db.DB) *UserHandler {
	return &UserHandler{db: database}
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return jsonSuccess(c, user)
}

// List returns all users for admins.
func (h *UserHandler) List(c fiber.Ctx) error {
	users, err := h.db.ListUsers(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch users")
	}
	return jsonSuccess(c, users)
}

// SetRole changes a user's role.
func (h *UserHandler) SetRole(c fiber.Ctx) error {
	admin, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}
	if id == admin.ID {
		return jsonError(c, fiber.StatusBadRequest, "cannot change your own role")
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	switch body.Role {
	case models.RoleNews, models.RoleUser, models.RoleModerator, models.RoleAdmin:
	default:
		return jsonError(c, fiber.StatusBadRequest, "invalid role")
	}

	if err := h.db.UpdateUserRole(c.Context(), id, body.Role); err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return jsonError(c, fiber.StatusNotFound, "user not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update role")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "role updated",
	})
}

// SetBanned bans or unbans a user.
func (h *UserHandler) SetBanned(c fiber.Ctx) error {
	admin, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}
	if id == admin.ID {
		return jsonError(c, fiber.StatusBadRequest, "cannot ban yourself")
	}

	var body struct {
		Banned bool `json:"banned"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.db.SetUserBanned(c.Context(), id, body.Banned); err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return jsonError(c, fiber.StatusNotFound, "user not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update user")
	}

	return jsonSuccess(c, fiber.Map{
		"message": "user updated",
	})
}
