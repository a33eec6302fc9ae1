package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/avask/game-collection/internal/apperror"
	"github.com/avask/game-collection/internal/model"
)

// newTestDB opens a fresh in-memory database for one test. Fast, isolated,
// and destroyed when the connection closes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, username, email string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$04$fakehashfortestingonlyfakehashfortesting",
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestUserCreate(t *testing.T) {
	db := newTestDB(t)

	user := createTestUser(t, db, "alice", "a@x.com")

	if user.ID == "" {
		t.Error("Create() did not set user.ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Create() did not set user.CreatedAt")
	}
}

func TestUserCreate_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice", "a@x.com")

	dup := &model.User{Username: "alice", Email: "other@x.com", PasswordHash: "h"}
	err := db.CreateUser(context.Background(), dup)
	if !errors.Is(err, apperror.ErrDuplicate) {
		t.Fatalf("Create() error = %v, want ErrDuplicate", err)
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Field != "username" {
		t.Errorf("Field = %q, want %q", appErr.Field, "username")
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice", "a@x.com")

	dup := &model.User{Username: "bob", Email: "a@x.com", PasswordHash: "h"}
	err := db.CreateUser(context.Background(), dup)
	if !errors.Is(err, apperror.ErrDuplicate) {
		t.Fatalf("Create() error = %v, want ErrDuplicate", err)
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Field != "email" {
		t.Errorf("Field = %q, want %q", appErr.Field, "email")
	}
}

func TestUserCreate_DuplicateLeavesNoPartialWrite(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "alice", "a@x.com")

	// Fails on the email check, after the username check passed.
	dup := &model.User{Username: "bob", Email: "a@x.com", PasswordHash: "h"}
	if err := db.CreateUser(context.Background(), dup); err == nil {
		t.Fatal("Create() should have failed")
	}

	if _, err := db.GetUserByUsername(context.Background(), "bob"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByUsername(bob) = %v, want ErrNotFound — no partial write allowed", err)
	}
}

// =========================================================================
// GET TESTS
// =========================================================================

func TestUserGetByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "alice", "a@x.com")

	found, err := db.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Username != "alice" || found.Email != "a@x.com" {
		t.Errorf("GetByID() = %+v, want alice/a@x.com", found)
	}
	if found.PasswordHash != created.PasswordHash {
		t.Error("GetByID() did not return the stored password hash")
	}
}

func TestUserGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetUserByID(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestUserGetByUsername_ExactMatch(t *testing.T) {
	db := newTestDB(t)
	created := createTestUser(t, db, "alice", "a@x.com")

	found, err := db.GetUserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}
}

// =========================================================================
// DELETE / CASCADE TESTS
// =========================================================================

func TestUserDelete_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.DeleteUser(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestUserDelete_CascadesToGames(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := createTestUser(t, db, "alice", "a@x.com")
	game := createTestGame(t, db, user.ID, "Doom")

	if err := db.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// The owner's games must be gone with them.
	if _, err := db.GetUserByID(ctx, user.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("user still retrievable after delete: %v", err)
	}
	if _, err := db.GetByID(ctx, game.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("game still retrievable after owner delete: %v", err)
	}

	owned, err := db.ListByOwner(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(owned) != 0 {
		t.Errorf("ListByOwner() after cascade = %d games, want 0", len(owned))
	}
}
