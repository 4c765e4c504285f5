package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/taskhive/go-tasks/auth"
	"github.com/taskhive/go-tasks/models"
	"github.com/taskhive/go-tasks/store"
)

const userKey = "current_user"

// RequireUser is the single authentication gate in front of every
// protected route. It turns the bearer token into a live user record and
// stores it in the request locals. A missing header, a bad or expired
// token, and a subject that no longer exists all fail with the same
// generic 401 so none of them leaks whether an account exists.
func RequireUser(tokens *auth.TokenService, users *store.Users) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return models.ErrUnauthenticated
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return models.ErrUnauthenticated
		}

		userID, err := tokens.Verify(tokenString)
		if err != nil {
			return models.ErrUnauthenticated
		}

		user, err := users.GetByID(c.UserContext(), userID)
		if err != nil {
			return models.ErrUnauthenticated
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// CurrentUser returns the authenticated user stored by RequireUser.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}
