package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/taskhive/go-tasks/auth"
	"github.com/taskhive/go-tasks/events"
	"github.com/taskhive/go-tasks/models"
	"github.com/taskhive/go-tasks/store"
)

// Auth owns registration and login.
type Auth struct {
	users  *store.Users
	tokens *auth.TokenService
	hub    *events.Hub
}

func NewAuth(users *store.Users, tokens *auth.TokenService, hub *events.Hub) *Auth {
	return &Auth{users: users, tokens: tokens, hub: hub}
}

// Register creates a new account.
//
//	@Summary	Register a new user
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		handlers.registerRequest	true	"account details"
//	@Success	201		{object}	models.User
//	@Failure	400		"email already registered"
//	@Failure	422		"missing or invalid fields"
//	@Router		/auth/register [post]
func (h *Auth) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "cannot parse request body")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}

	user := &models.User{
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := h.users.Create(c.UserContext(), user); err != nil {
		return err
	}

	h.hub.Publish(events.Event{Type: events.UserRegistered, OwnerID: user.ID, Payload: user})

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login exchanges form credentials for a bearer token.
//
//	@Summary	Obtain an access token
//	@Tags		auth
//	@Accept		x-www-form-urlencoded
//	@Produce	json
//	@Param		username	formData	string	true	"email"
//	@Param		password	formData	string	true	"password"
//	@Success	200			{object}	handlers.tokenResponse
//	@Failure	401			"incorrect username or password"
//	@Router		/auth/token [post]
func (h *Auth) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "cannot parse request body")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	user, err := h.users.GetByEmail(c.UserContext(), req.Username)
	if err != nil {
		// burn a bcrypt compare so an unknown email costs the same as a
		// wrong password, then fail with the identical error
		auth.DummyCompare()
		return models.ErrInvalidCredentials
	}

	if !auth.ComparePasswordAndHash(req.Password, user.PasswordHash) {
		return models.ErrInvalidCredentials
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		return err
	}

	return c.JSON(tokenResponse{AccessToken: token, TokenType: "bearer"})
}
