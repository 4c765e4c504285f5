package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taskhive/go-tasks/models"
)

// Users persists account records.
type Users struct {
	db *sql.DB
}

func NewUsers(db *sql.DB) *Users {
	return &Users{db: db}
}

// Create inserts a new user. The email existence check and the insert run
// in one transaction; two concurrent registrations racing past the check
// are caught by the unique constraint on commit, which is reported as the
// same conflict.
func (s *Users) Create(ctx context.Context, u *models.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin register tx: %w", err)
	}
	defer rollback(tx)

	var exists bool
	err = tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", u.Email,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if exists {
		return models.ErrEmailTaken
	}

	err = tx.QueryRowContext(ctx,
		"INSERT INTO users (email, phone_number, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id",
		u.Email, u.PhoneNumber, u.PasswordHash, u.Role,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return tx.Commit()
}

// GetByID fetches a user by primary key.
func (s *Users) GetByID(ctx context.Context, id int) (*models.User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		"SELECT id, email, phone_number, password_hash, role FROM users WHERE id = $1", id))
}

// GetByEmail fetches a user by email.
func (s *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		"SELECT id, email, phone_number, password_hash, role FROM users WHERE email = $1", email))
}

func (s *Users) scanOne(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PhoneNumber, &u.PasswordHash, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// UpdateProfile applies a partial email/phone update. A nil field is left
// unchanged. If the new email belongs to a different user the update is
// rejected with ErrEmailInUse; the check and write share one transaction.
func (s *Users) UpdateProfile(ctx context.Context, id int, email, phone *string) (*models.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin profile tx: %w", err)
	}
	defer rollback(tx)

	if email != nil {
		var takenBy int
		err := tx.QueryRowContext(ctx,
			"SELECT id FROM users WHERE email = $1", *email,
		).Scan(&takenBy)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if err == nil && takenBy != id {
			return nil, models.ErrEmailInUse
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE users SET email = $1 WHERE id = $2", *email, id); err != nil {
			if isUniqueViolation(err) {
				return nil, models.ErrEmailInUse
			}
			return nil, fmt.Errorf("update email: %w", err)
		}
	}

	if phone != nil {
		if _, err := tx.ExecContext(ctx,
			"UPDATE users SET phone_number = $1 WHERE id = $2", *phone, id); err != nil {
			if isUniqueViolation(err) {
				return nil, models.ErrEmailInUse
			}
			return nil, fmt.Errorf("update phone: %w", err)
		}
	}

	u, err := s.scanOne(tx.QueryRowContext(ctx,
		"SELECT id, email, phone_number, password_hash, role FROM users WHERE id = $1", id))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdatePassword stores a new password hash. Previously issued tokens stay
// valid until they expire: the token is stateless and nothing here can
// revoke it.
func (s *Users) UpdatePassword(ctx context.Context, id int, hash string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET password_hash = $1 WHERE id = $2", hash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// Delete removes the account and all todos it owns in one transaction.
// The todo delete is issued explicitly rather than leaning on the foreign
// key cascade alone, so the behavior holds on engines where the cascade
// is not enforced by default.
func (s *Users) Delete(ctx context.Context, id int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer rollback(tx)

	if _, err := tx.ExecContext(ctx, "DELETE FROM todos WHERE owner_id = $1", id); err != nil {
		return fmt.Errorf("delete owned todos: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	return tx.Commit()
}

// List returns every user, for the admin listing.
func (s *Users) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, email, phone_number, password_hash, role FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PhoneNumber, &u.PasswordHash, &u.Role); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
