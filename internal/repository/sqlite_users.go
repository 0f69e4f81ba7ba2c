package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vanshika/campusnav/backend/internal/domain"
)

const selectUserSQL = `SELECT id, username, email, password_hash, role, is_active, created_at FROM users`

func scanUser(row rowScanner) (domain.User, error) {
	var (
		user      domain.User
		active    int
		createdAt string
	)
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role, &active, &createdAt); err != nil {
		return domain.User{}, err
	}
	user.IsActive = active != 0
	user.CreatedAt = parseTime(createdAt)
	return user, nil
}

// CreateUser inserts user. The username and email checks run in the same
// IMMEDIATE transaction as the insert, so concurrent sign-ups cannot both pass.
func (s *SQLite) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	var created domain.User
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var taken string
		err := tx.QueryRowContext(ctx,
			`SELECT CASE WHEN username = ? THEN 'username' ELSE 'email' END FROM users WHERE username = ? OR email = ? LIMIT 1`,
			user.Username, user.Username, user.Email).Scan(&taken)
		switch {
		case err == nil:
			return fmt.Errorf("%s already registered: %w", taken, domain.ErrConflict)
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("lookup user: %w", err)
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO users (username, email, password_hash, role, is_active, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			user.Username, user.Email, user.PasswordHash, user.Role, boolToInt(user.IsActive), s.now())
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("user id: %w", err)
		}
		created, err = scanUser(tx.QueryRowContext(ctx, selectUserSQL+` WHERE id = ?`, id))
		return err
	})
	if err != nil {
		return domain.User{}, err
	}
	return created, nil
}

// GetUserByUsername fetches the account used at login.
func (s *SQLite) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, selectUserSQL+` WHERE username = ?`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, userNotFound(username)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("get user %q: %w", username, err)
	}
	return user, nil
}
