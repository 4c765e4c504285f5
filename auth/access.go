package auth

import "github.com/taskhive/go-tasks/models"

// AssertOwner checks that the todo belongs to the user. A mismatch is
// reported as ErrNotFound, never as a forbidden error: to a non-owner,
// someone else's todo must look exactly like a todo that does not exist.
func AssertOwner(todo *models.Todo, user *models.User) error {
	if todo == nil || user == nil || todo.OwnerID != user.ID {
		return models.ErrNotFound
	}
	return nil
}

// AssertAdmin checks the admin role. Role denials are explicit, since
// admin capabilities are not secret the way other users' resources are.
func AssertAdmin(user *models.User) error {
	if user == nil || !user.IsAdmin() {
		return models.ErrForbidden
	}
	return nil
}
