package handlers

import (
	"errors"
	"log"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/taskhive/go-tasks/models"
)

// ErrorHandler is the single transport boundary for domain errors: it maps
// them to status codes and a {"detail": ...} body. Nothing below this layer
// writes HTTP responses for failures, and internal errors never leak their
// message to the caller.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return detail(c, fiberErr.Code, fiberErr.Message)
	}

	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		return detail(c, fiber.StatusUnprocessableEntity, validationErrs.Error())
	}

	switch {
	case errors.Is(err, models.ErrInvalidCredentials):
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return detail(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrUnauthenticated):
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return detail(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrWrongPassword):
		return detail(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrEmailTaken), errors.Is(err, models.ErrEmailInUse):
		return detail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotFound):
		return detail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrForbidden):
		return detail(c, fiber.StatusForbidden, err.Error())
	}

	log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return detail(c, fiber.StatusInternalServerError, "Internal server error")
}

func detail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"detail": message})
}
