package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/taskhive/go-tasks/handlers"
)

// Handlers bundles everything the router wires up.
type Handlers struct {
	Auth   *handlers.Auth
	Todos  *handlers.Todos
	Users  *handlers.Users
	Events *handlers.Events

	// RequireUser is the authentication gate for the protected groups.
	RequireUser fiber.Handler
}

func SetupRoutes(app *fiber.App, h Handlers) {
	app.Get("/health", handlers.HandleHealthCheck)

	auth := app.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/token", h.Auth.Login)

	todos := app.Group("/todos", h.RequireUser)
	todos.Get("/events", h.Events.Stream)
	todos.Post("/", h.Todos.Create)
	todos.Get("/", h.Todos.List)
	todos.Get("/:id", h.Todos.GetOne)
	todos.Put("/:id", h.Todos.Update)
	todos.Delete("/:id", h.Todos.Delete)

	users := app.Group("/users", h.RequireUser)
	users.Get("/me", h.Users.Me)
	users.Put("/me", h.Users.UpdateMe)
	users.Put("/me/password", h.Users.ChangePassword)
	users.Delete("/me", h.Users.DeleteMe)
	users.Get("/", h.Users.List)
}
