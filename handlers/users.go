package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/taskhive/go-tasks/auth"
	"github.com/taskhive/go-tasks/events"
	"github.com/taskhive/go-tasks/middleware"
	"github.com/taskhive/go-tasks/models"
	"github.com/taskhive/go-tasks/store"
)

// Users owns the account surface: own profile, password change, account
// deletion, and the admin-only listing.
type Users struct {
	users *store.Users
	hub   *events.Hub
}

func NewUsers(users *store.Users, hub *events.Hub) *Users {
	return &Users{users: users, hub: hub}
}

// Me returns the caller's profile.
//
//	@Summary	Get own profile
//	@Tags		users
//	@Produce	json
//	@Success	200	{object}	models.User
//	@Security	BearerAuth
//	@Router		/users/me [get]
func (h *Users) Me(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

// UpdateMe applies a partial email/phone update to the caller's profile.
//
//	@Summary	Update own profile
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Param		body	body		handlers.updateProfileRequest	true	"fields to change"
//	@Success	200		{object}	models.User
//	@Failure	400		"email already in use"
//	@Security	BearerAuth
//	@Router		/users/me [put]
func (h *Users) UpdateMe(c *fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "cannot parse request body")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	updated, err := h.users.UpdateProfile(c.UserContext(), user.ID, req.Email, req.PhoneNumber)
	if err != nil {
		return err
	}

	h.hub.Publish(events.Event{Type: events.UserUpdated, OwnerID: updated.ID, Payload: updated})

	return c.JSON(updated)
}

// ChangePassword verifies the current password and stores a new hash.
// Outstanding tokens stay valid until they expire.
//
//	@Summary	Change own password
//	@Tags		users
//	@Accept		json
//	@Param		body	body	handlers.changePasswordRequest	true	"old and new password"
//	@Success	204
//	@Failure	401	"current password wrong"
//	@Security	BearerAuth
//	@Router		/users/me/password [put]
func (h *Users) ChangePassword(c *fiber.Ctx) error {
	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "cannot parse request body")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	if !auth.ComparePasswordAndHash(req.OldPassword, user.PasswordHash) {
		return models.ErrWrongPassword
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := h.users.UpdatePassword(c.UserContext(), user.ID, hash); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteMe removes the caller's account and cascades to its todos.
//
//	@Summary	Delete own account
//	@Tags		users
//	@Success	204
//	@Security	BearerAuth
//	@Router		/users/me [delete]
func (h *Users) DeleteMe(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.users.Delete(c.UserContext(), user.ID); err != nil {
		return err
	}

	h.hub.Publish(events.Event{Type: events.UserDeleted, OwnerID: user.ID})

	return c.SendStatus(fiber.StatusNoContent)
}

// List returns every registered user. Admin only.
//
//	@Summary	List all users
//	@Tags		users
//	@Produce	json
//	@Success	200	{array}	models.User
//	@Failure	403	"caller is not an admin"
//	@Security	BearerAuth
//	@Router		/users [get]
func (h *Users) List(c *fiber.Ctx) error {
	if err := auth.AssertAdmin(middleware.CurrentUser(c)); err != nil {
		return err
	}

	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}
