package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/socialapi-dev/socialapi/internal/domain"
	internal_errors "github.com/socialapi-dev/socialapi/internal/errors"
)

const uniqueViolation = "23505"

// =========================================================================
// Public Methods (satisfy the service.UserStorage interface)
// =========================================================================

// SaveUser inserts a new unconfirmed user record. A violation of the email
// uniqueness constraint is surfaced as a domain error.
func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id domain.UserId
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		id, err = s.saveUser(tx, user)
		return err
	})
	return id, err
}

// User fetches a user by email. Read-only, uses the connection pool directly.
func (s *Storage) User(email domain.Email) (domain.User, error) {
	return s.user(s.db, email)
}

// MarkConfirmed flips the confirmed flag. Idempotent: confirming an already
// confirmed user is a no-op, but an unknown email is an error.
func (s *Storage) MarkConfirmed(email domain.Email) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.markConfirmed(tx, email)
	})
}

// DeleteUser removes a user record. ON DELETE CASCADE cleans up dependents.
func (s *Storage) DeleteUser(email domain.Email) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.deleteUser(tx, email)
	})
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func (s *Storage) saveUser(q Querier, user domain.User) (domain.UserId, error) {
	var id int64
	err := q.QueryRow("INSERT INTO users(email, password, confirmed) VALUES($1, $2, $3) RETURNING id",
		user.Email, user.PassHash, user.Confirmed).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return -1, internal_errors.BadRequest("A user with this email already exists")
		}
		return -1, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (s *Storage) user(q Querier, email domain.Email) (domain.User, error) {
	var user domain.User
	err := q.QueryRow("SELECT id, email, password, confirmed FROM users WHERE email = $1", email).
		Scan(&user.Id, &user.Email, &user.PassHash, &user.Confirmed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *Storage) markConfirmed(q Querier, email domain.Email) error {
	result, err := q.Exec("UPDATE users SET confirmed = TRUE WHERE email = $1", email)
	if err != nil {
		return fmt.Errorf("failed to mark user confirmed: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for confirmation: %w", err)
	}
	if rowsAffected == 0 {
		return internal_errors.NotFound("User not found for confirmation")
	}
	return nil
}

func (s *Storage) deleteUser(q Querier, email domain.Email) error {
	result, err := q.Exec("DELETE FROM users WHERE email = $1", email)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rowsDeleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for user deletion: %w", err)
	}
	if rowsDeleted == 0 {
		return internal_errors.NotFound("User not found for deletion")
	}
	return nil
}
