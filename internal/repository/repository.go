package repository

import (
	"context"

	"github.com/avask/game-collection/internal/model"
)

// UserRepository is the persistence contract for user accounts.
// Implementations return apperror values for domain outcomes (not found,
// duplicate username/email) so the service layer can branch on errors.Is.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	// DeleteUser removes the user and, through the schema's cascade, every
	// game they own. Not exposed over HTTP; kept for account removal tooling.
	DeleteUser(ctx context.Context, id string) error
}

// GameRepository is the persistence contract for catalog entries.
// All listing methods order by creation time, newest first.
type GameRepository interface {
	Create(ctx context.Context, game *model.Game) error
	GetByID(ctx context.Context, id string) (*model.Game, error)
	ListAll(ctx context.Context) ([]model.Game, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Game, error)
	// Search matches the query as a case-insensitive substring of title,
	// genre, developer or description. An empty query lists everything.
	Search(ctx context.Context, query string) ([]model.Game, error)
	Delete(ctx context.Context, id string) error
}
