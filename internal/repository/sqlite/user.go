package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/avask/game-collection/internal/apperror"
	"github.com/avask/game-collection/internal/model"
	"github.com/avask/game-collection/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new user, filling in ID and CreatedAt on the caller's
// struct. Returns apperror.DuplicateUsername / DuplicateEmail when the
// username or email is already taken.
//
// The duplicate checks and the INSERT run inside one transaction so a
// concurrent registration cannot slip between the check and the write. The
// checks are case-sensitive exact matches, same as the UNIQUE constraints.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	// Rollback is a no-op after Commit; this guarantees no partial write
	// survives an early return.
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE username = ?`, user.Username,
	).Scan(&one)
	if err == nil {
		return apperror.DuplicateUsername(user.Username)
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: checking username %q: %w", user.Username, err)
	}

	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE email = ?`, user.Email,
	).Scan(&one)
	if err == nil {
		return apperror.DuplicateEmail(user.Email)
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: checking email %q: %w", user.Email, err)
	}

	user.ID = xid.New().String()
	user.CreatedAt = time.Now()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing user %q: %w", user.Username, err)
	}
	return nil
}

// GetUserByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return db.getUser(ctx, `SELECT id, username, email, password_hash, created_at
		 FROM users WHERE id = ?`, id)
}

// GetUserByUsername retrieves a user by exact username match.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getUser(ctx, `SELECT id, username, email, password_hash, created_at
		 FROM users WHERE username = ?`, username)
}

func (db *DB) getUser(ctx context.Context, query, arg string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", arg)
		}
		return nil, fmt.Errorf("sqlite: getting user %q: %w", arg, err)
	}

	return &u, nil
}

// DeleteUser removes a user. The games table's ON DELETE CASCADE removes every
// game the user owned in the same statement.
func (db *DB) DeleteUser(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete of user %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("user", id)
	}
	return nil
}
