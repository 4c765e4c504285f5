package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taskhive/go-tasks/models"
)

// Todos persists task records.
type Todos struct {
	db *sql.DB
}

func NewTodos(db *sql.DB) *Todos {
	return &Todos{db: db}
}

// Create inserts the todo and fills in the generated id. The caller has
// already forced OwnerID and Complete to their server-side values.
func (s *Todos) Create(ctx context.Context, t *models.Todo) error {
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO todos (title, description, priority, complete, owner_id) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		t.Title, t.Description, t.Priority, t.Complete, t.OwnerID,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

// ListByOwner returns every todo owned by the given user.
func (s *Todos) ListByOwner(ctx context.Context, ownerID int) ([]models.Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, description, priority, complete, owner_id FROM todos WHERE owner_id = $1 ORDER BY id",
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		var t models.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Complete, &t.OwnerID); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// GetByID fetches one todo regardless of owner. Ownership is asserted by
// the caller, so an absent row and a foreign row end up as the same 404.
func (s *Todos) GetByID(ctx context.Context, id int) (*models.Todo, error) {
	var t models.Todo
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, description, priority, complete, owner_id FROM todos WHERE id = $1", id,
	).Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Complete, &t.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan todo: %w", err)
	}
	return &t, nil
}

// Update applies the non-nil fields of the patch and returns the updated
// row. OwnerID is immutable and not part of the patch.
func (s *Todos) Update(ctx context.Context, id int, patch models.TodoPatch) (*models.Todo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update tx: %w", err)
	}
	defer rollback(tx)

	set := func(column string, value any) error {
		_, err := tx.ExecContext(ctx,
			fmt.Sprintf("UPDATE todos SET %s = $1 WHERE id = $2", column), value, id)
		return err
	}

	if patch.Title != nil {
		if err := set("title", *patch.Title); err != nil {
			return nil, fmt.Errorf("update title: %w", err)
		}
	}
	if patch.Description != nil {
		if err := set("description", *patch.Description); err != nil {
			return nil, fmt.Errorf("update description: %w", err)
		}
	}
	if patch.Priority != nil {
		if err := set("priority", *patch.Priority); err != nil {
			return nil, fmt.Errorf("update priority: %w", err)
		}
	}
	if patch.Complete != nil {
		if err := set("complete", *patch.Complete); err != nil {
			return nil, fmt.Errorf("update complete: %w", err)
		}
	}

	var t models.Todo
	err = tx.QueryRowContext(ctx,
		"SELECT id, title, description, priority, complete, owner_id FROM todos WHERE id = $1", id,
	).Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Complete, &t.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan todo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes one todo. Deleting a row that is already gone reports
// ErrNotFound, not success.
func (s *Todos) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM todos WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if count == 0 {
		return models.ErrNotFound
	}
	return nil
}
