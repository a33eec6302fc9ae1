package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avask/game-collection/internal/apperror"
	"github.com/avask/game-collection/internal/model"
)

// createTestGame inserts a game owned by ownerID with sensible defaults.
func createTestGame(t *testing.T, db *DB, ownerID, title string) *model.Game {
	t.Helper()
	game := &model.Game{
		Title:         title,
		Genre:         "RPG",
		Developer:     "Test Studio",
		ReleaseYear:   2015,
		PlaytimeHours: 40,
		Description:   "a test entry",
		Platforms:     "PC",
		Rating:        8.0,
		UserID:        ownerID,
	}
	if err := db.Create(context.Background(), game); err != nil {
		t.Fatalf("failed to create test game: %v", err)
	}
	return game
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestGameCreate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "a@x.com")

	game := createTestGame(t, db, user.ID, "Doom")

	if game.ID == "" {
		t.Error("Create() did not set game.ID")
	}
	if game.CreatedAt.IsZero() {
		t.Error("Create() did not set game.CreatedAt")
	}
}

func TestGameCreate_RequiresExistingOwner(t *testing.T) {
	db := newTestDB(t)

	// foreign_keys=ON means a game cannot reference a nonexistent user.
	game := &model.Game{
		Title:       "Orphan",
		Genre:       "RPG",
		Developer:   "Nobody",
		Description: "no owner",
		Platforms:   "PC",
		UserID:      "ghost-user",
	}
	if err := db.Create(context.Background(), game); err == nil {
		t.Error("Create() should fail for a nonexistent owner")
	}
}

func TestGameCreate_RatingRoundTripsExactly(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "a@x.com")

	game := &model.Game{
		Title:       "Rated",
		Genre:       "RPG",
		Developer:   "Test Studio",
		Description: "rating precision",
		Platforms:   "PC",
		Rating:      7.5,
		UserID:      user.ID,
	}
	if err := db.Create(context.Background(), game); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := db.GetByID(context.Background(), game.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Rating != 7.5 {
		t.Errorf("Rating = %v, want exactly 7.5", found.Rating)
	}
}

func TestGameCreate_OptionalFieldsDefaultEmpty(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "a@x.com")
	game := createTestGame(t, db, user.ID, "Doom")

	found, err := db.GetByID(context.Background(), game.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Requirements != "" || found.Instructions != "" {
		t.Errorf("optional fields should default empty, got %q / %q",
			found.Requirements, found.Instructions)
	}
}

// =========================================================================
// GET / LIST TESTS
// =========================================================================

func TestGameGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestGameListAll_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "a@x.com")

	createTestGame(t, db, user.ID, "First")
	time.Sleep(5 * time.Millisecond) // distinct created_at timestamps
	createTestGame(t, db, user.ID, "Second")

	games, err := db.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("len(games) = %d, want 2", len(games))
	}
	if games[0].Title != "Second" || games[1].Title != "First" {
		t.Errorf("order = [%s, %s], want newest first", games[0].Title, games[1].Title)
	}
}

func TestGameListAll_EmptyCatalog(t *testing.T) {
	db := newTestDB(t)

	games, err := db.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(games) != 0 {
		t.Errorf("len(games) = %d, want 0", len(games))
	}
}

func TestGameListByOwner(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", "a@x.com")
	bob := createTestUser(t, db, "bob", "b@x.com")

	createTestGame(t, db, alice.ID, "Alices Game")
	createTestGame(t, db, bob.ID, "Bobs Game")

	games, err := db.ListByOwner(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(games) != 1 || games[0].Title != "Alices Game" {
		t.Errorf("ListByOwner() = %+v, want only alice's game", games)
	}
}

// =========================================================================
// SEARCH TESTS
// =========================================================================

func TestGameSearch_CaseInsensitiveSubstring(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "a@x.com")

	game := createTestGame(t, db, user.ID, "THE WITCHER 3: Wild Hunt")

	games, err := db.Search(context.Background(), "witcher")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(games) != 1 || games[0].ID != game.ID {
		t.Errorf("Search(witcher) = %+v, want the Witcher entry", games)
	}
}

func TestGameSearch_MatchesAllFourFields(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "a@x.com")

	game := &model.Game{
		Title:       "Doom",
		Genre:       "Boomer Shooter",
		Developer:   "id Software",
		Description: "rip and tear",
		Platforms:   "PC",
		UserID:      user.ID,
	}
	if err := db.Create(context.Background(), game); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for _, q := range []string{"doom", "boomer", "software", "tear"} {
		games, err := db.Search(context.Background(), q)
		if err != nil {
			t.Fatalf("Search(%q) error = %v", q, err)
		}
		if len(games) != 1 {
			t.Errorf("Search(%q) found %d games, want 1", q, len(games))
		}
	}

	// Platforms is NOT a searched field.
	games, err := db.Search(context.Background(), "PC")
	if err != nil {
		t.Fatalf("Search(PC) error = %v", err)
	}
	if len(games) != 0 {
		t.Errorf("Search(PC) found %d games, want 0 (platforms not searched)", len(games))
	}
}

func TestGameSearch_EmptyQueryEqualsListAll(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "a@x.com")

	createTestGame(t, db, user.ID, "One")
	createTestGame(t, db, user.ID, "Two")

	all, err := db.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	found, err := db.Search(context.Background(), "")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(found) != len(all) {
		t.Errorf("Search(empty) = %d games, want %d (same as ListAll)", len(found), len(all))
	}
}

func TestGameSearch_NoMatches(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "a@x.com")
	createTestGame(t, db, user.ID, "Doom")

	games, err := db.Search(context.Background(), "zzzzz")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(games) != 0 {
		t.Errorf("Search(zzzzz) = %d games, want 0", len(games))
	}
}

// =========================================================================
// DELETE TESTS
// =========================================================================

func TestGameDelete(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice", "a@x.com")
	game := createTestGame(t, db, user.ID, "Doom")

	if err := db.Delete(context.Background(), game.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := db.GetByID(context.Background(), game.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete = %v, want ErrNotFound", err)
	}
}

func TestGameDelete_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Delete(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// SEED GUARD TESTS
// =========================================================================

func TestHasUsers(t *testing.T) {
	db := newTestDB(t)

	has, err := db.HasUsers(context.Background())
	if err != nil {
		t.Fatalf("HasUsers() error = %v", err)
	}
	if has {
		t.Error("HasUsers() = true on an empty database")
	}

	createTestUser(t, db, "alice", "a@x.com")

	has, err = db.HasUsers(context.Background())
	if err != nil {
		t.Fatalf("HasUsers() error = %v", err)
	}
	if !has {
		t.Error("HasUsers() = false after creating a user")
	}
}
