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

// compile-time check that *DB implements repository.GameRepository
var _ repository.GameRepository = (*DB)(nil)

// gameColumns is the column list every game SELECT uses, in the order
// scanGame expects. Keeping it in one place means a schema change breaks
// exactly one string instead of five.
const gameColumns = `id, title, genre, developer, release_year, playtime_hours,
	description, platforms, requirements, instructions, rating, created_at, user_id`

// Create inserts a new game into the database, filling in the generated ID
// and CreatedAt on the caller's struct.
//
// xid IDs are sortable by creation time, but ordering always goes through
// created_at explicitly — the listing contract is "newest first by creation
// time", not "by ID".
func (db *DB) Create(ctx context.Context, game *model.Game) error {
	game.ID = xid.New().String()
	game.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO games (id, title, genre, developer, release_year, playtime_hours,
		 description, platforms, requirements, instructions, rating, created_at, user_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		game.ID,
		game.Title,
		game.Genre,
		game.Developer,
		game.ReleaseYear,
		game.PlaytimeHours,
		game.Description,
		game.Platforms,
		game.Requirements,
		game.Instructions,
		game.Rating,
		game.CreatedAt,
		game.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating game: %w", err)
	}

	return nil
}

// GetByID retrieves a single game by its ID.
// Returns apperror.ErrNotFound if no game exists with that ID.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Game, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = ?`, id)

	game, err := scanGame(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("game", id)
		}
		return nil, fmt.Errorf("sqlite: getting game %s: %w", id, err)
	}

	return game, nil
}

// ListAll returns every game, newest first.
func (db *DB) ListAll(ctx context.Context) ([]model.Game, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+gameColumns+` FROM games ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing games: %w", err)
	}
	return collectGames(rows)
}

// ListByOwner returns the games owned by ownerID, newest first.
func (db *DB) ListByOwner(ctx context.Context, ownerID string) ([]model.Game, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE user_id = ? ORDER BY created_at DESC`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing games for user %s: %w", ownerID, err)
	}
	return collectGames(rows)
}

// Search returns games whose title, genre, developer or description contains
// the query as a substring, newest first. Matching is case-insensitive:
// SQLite's LIKE is case-insensitive for ASCII by default, so "witcher"
// matches "THE WITCHER". An empty query degrades to ListAll.
func (db *DB) Search(ctx context.Context, query string) ([]model.Game, error) {
	if query == "" {
		return db.ListAll(ctx)
	}

	// The pattern is a bound parameter, so %, _ and quotes in user input are
	// treated as literal LIKE syntax at worst, never as SQL.
	pattern := "%" + query + "%"
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+gameColumns+` FROM games
		 WHERE title LIKE ? OR genre LIKE ? OR developer LIKE ? OR description LIKE ?
		 ORDER BY created_at DESC`,
		pattern, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("sqlite: searching games for %q: %w", query, err)
	}
	return collectGames(rows)
}

// Delete removes a game by ID.
// Returns apperror.ErrNotFound if no game exists with that ID.
//
// Ownership is NOT checked here — that is a business rule and lives in the
// catalog service. The repository only knows rows.
func (db *DB) Delete(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting game %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete of game %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("game", id)
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows, letting scanGame
// serve single-row and multi-row reads.
type scanner interface {
	Scan(dest ...any) error
}

func scanGame(s scanner) (*model.Game, error) {
	var g model.Game
	err := s.Scan(
		&g.ID,
		&g.Title,
		&g.Genre,
		&g.Developer,
		&g.ReleaseYear,
		&g.PlaytimeHours,
		&g.Description,
		&g.Platforms,
		&g.Requirements,
		&g.Instructions,
		&g.Rating,
		&g.CreatedAt,
		&g.UserID,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// collectGames drains rows into a slice. rows is always closed, and
// rows.Err() is checked so an error mid-iteration is not silently dropped.
func collectGames(rows *sql.Rows) ([]model.Game, error) {
	defer rows.Close()

	games := []model.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning game row: %w", err)
		}
		games = append(games, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating game rows: %w", err)
	}

	return games, nil
}
