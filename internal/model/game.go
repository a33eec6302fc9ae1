package model

import "time"

// Rating bounds. A game's rating always lies in [RatingMin, RatingMax];
// the catalog service rejects anything outside before it reaches the store.
const (
	RatingMin = 0.0
	RatingMax = 10.0
)

// Game is one entry in a user's collection.
//
// Every game belongs to exactly one user (UserID, enforced by a foreign key
// with ON DELETE CASCADE — deleting a user removes their games). Games are
// immutable after creation: there is no edit operation, only create, read
// and delete.
//
// Requirements and Instructions are optional free text; everything else in
// the required set must be non-empty after trimming.
type Game struct {
	ID            string    `json:"id"            db:"id"`
	Title         string    `json:"title"         db:"title"`
	Genre         string    `json:"genre"         db:"genre"`
	Developer     string    `json:"developer"     db:"developer"`
	ReleaseYear   int       `json:"releaseYear"   db:"release_year"`
	PlaytimeHours int       `json:"playtimeHours" db:"playtime_hours"`
	Description   string    `json:"description"   db:"description"`
	Platforms     string    `json:"platforms"     db:"platforms"`
	Requirements  string    `json:"requirements"  db:"requirements"`
	Instructions  string    `json:"instructions"  db:"instructions"`
	Rating        float64   `json:"rating"        db:"rating"`
	CreatedAt     time.Time `json:"createdAt"     db:"created_at"`
	UserID        string    `json:"userId"        db:"user_id"`
}
