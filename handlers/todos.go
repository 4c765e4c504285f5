package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/taskhive/go-tasks/auth"
	"github.com/taskhive/go-tasks/events"
	"github.com/taskhive/go-tasks/middleware"
	"github.com/taskhive/go-tasks/models"
	"github.com/taskhive/go-tasks/store"
)

// Todos owns the task CRUD surface. Every handler runs behind
// middleware.RequireUser and checks ownership before touching a row.
type Todos struct {
	todos *store.Todos
	hub   *events.Hub
}

func NewTodos(todos *store.Todos, hub *events.Hub) *Todos {
	return &Todos{todos: todos, hub: hub}
}

// todoID parses the :id route parameter. Non-numeric and non-positive ids
// are a validation failure, not a missing resource.
func todoID(c *fiber.Ctx) (int, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusUnprocessableEntity, "todo id must be a positive integer")
	}
	return id, nil
}

// fetchOwned loads a todo and asserts the caller owns it.
func (h *Todos) fetchOwned(c *fiber.Ctx, id int) (*models.Todo, error) {
	todo, err := h.todos.GetByID(c.UserContext(), id)
	if err != nil {
		return nil, err
	}
	if err := auth.AssertOwner(todo, middleware.CurrentUser(c)); err != nil {
		return nil, err
	}
	return todo, nil
}

// Create adds a todo for the authenticated user.
//
//	@Summary	Create a todo
//	@Tags		todos
//	@Accept		json
//	@Produce	json
//	@Param		body	body		handlers.createTodoRequest	true	"todo"
//	@Success	201		{object}	models.Todo
//	@Security	BearerAuth
//	@Router		/todos [post]
func (h *Todos) Create(c *fiber.Ctx) error {
	var req createTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "cannot parse request body")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	todo := &models.Todo{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		// server-managed: a todo always starts incomplete and belongs to
		// its creator, whatever the client sent
		Complete: false,
		OwnerID:  user.ID,
	}
	if err := h.todos.Create(c.UserContext(), todo); err != nil {
		return err
	}

	h.hub.Publish(events.Event{Type: events.TodoCreated, OwnerID: user.ID, Payload: todo})

	return c.Status(fiber.StatusCreated).JSON(todo)
}

// List returns the caller's own todos.
//
//	@Summary	List own todos
//	@Tags		todos
//	@Produce	json
//	@Success	200	{array}	models.Todo
//	@Security	BearerAuth
//	@Router		/todos [get]
func (h *Todos) List(c *fiber.Ctx) error {
	todos, err := h.todos.ListByOwner(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(todos)
}

// GetOne returns one owned todo.
//
//	@Summary	Get a todo by id
//	@Tags		todos
//	@Produce	json
//	@Param		id	path		int	true	"todo id"
//	@Success	200	{object}	models.Todo
//	@Failure	404	"absent or not owned"
//	@Security	BearerAuth
//	@Router		/todos/{id} [get]
func (h *Todos) GetOne(c *fiber.Ctx) error {
	id, err := todoID(c)
	if err != nil {
		return err
	}
	todo, err := h.fetchOwned(c, id)
	if err != nil {
		return err
	}
	return c.JSON(todo)
}

// Update applies a partial update to one owned todo.
//
//	@Summary	Update a todo
//	@Tags		todos
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int							true	"todo id"
//	@Param		body	body		handlers.updateTodoRequest	true	"fields to change"
//	@Success	200		{object}	models.Todo
//	@Failure	404		"absent or not owned"
//	@Security	BearerAuth
//	@Router		/todos/{id} [put]
func (h *Todos) Update(c *fiber.Ctx) error {
	id, err := todoID(c)
	if err != nil {
		return err
	}

	var req updateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "cannot parse request body")
	}

	if _, err := h.fetchOwned(c, id); err != nil {
		return err
	}

	todo, err := h.todos.Update(c.UserContext(), id, models.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Complete:    req.Complete,
	})
	if err != nil {
		return err
	}

	h.hub.Publish(events.Event{Type: events.TodoUpdated, OwnerID: todo.OwnerID, Payload: todo})

	return c.JSON(todo)
}

// Delete removes one owned todo.
//
//	@Summary	Delete a todo
//	@Tags		todos
//	@Param		id	path	int	true	"todo id"
//	@Success	204
//	@Failure	404	"absent or not owned"
//	@Security	BearerAuth
//	@Router		/todos/{id} [delete]
func (h *Todos) Delete(c *fiber.Ctx) error {
	id, err := todoID(c)
	if err != nil {
		return err
	}

	todo, err := h.fetchOwned(c, id)
	if err != nil {
		return err
	}
	if err := h.todos.Delete(c.UserContext(), id); err != nil {
		return err
	}

	h.hub.Publish(events.Event{Type: events.TodoDeleted, OwnerID: todo.OwnerID, Payload: todo})

	return c.SendStatus(fiber.StatusNoContent)
}
