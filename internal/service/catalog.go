package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/avask/game-collection/internal/apperror"
	"github.com/avask/game-collection/internal/model"
	"github.com/avask/game-collection/internal/repository"
)

// GameDraft is the validated-on-entry shape of a new catalog entry. The
// handler fills it from form values (including numeric parsing); the service
// applies the business rules before anything touches the store.
type GameDraft struct {
	Title         string
	Genre         string
	Developer     string
	ReleaseYear   int
	PlaytimeHours int
	Description   string
	Platforms     string
	Requirements  string
	Instructions  string
	Rating        float64
}

// CatalogService handles the game collection: create, list, search, delete.
type CatalogService struct {
	games  repository.GameRepository
	logger *slog.Logger
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(games repository.GameRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		games:  games,
		logger: logger,
	}
}

// Create validates the draft and stores it as a game owned by ownerID.
//
// Rules: title, genre, developer and description must be non-empty after
// trimming, and the rating must lie in [0,10]. The owner always comes from
// the session, never from the form — a client cannot file a game under
// someone else.
func (s *CatalogService) Create(ctx context.Context, draft GameDraft, ownerID string) (*model.Game, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("service/catalog: owner ID must not be empty")
	}

	draft.Title = strings.TrimSpace(draft.Title)
	draft.Genre = strings.TrimSpace(draft.Genre)
	draft.Developer = strings.TrimSpace(draft.Developer)
	draft.Description = strings.TrimSpace(draft.Description)

	if draft.Title == "" || draft.Genre == "" || draft.Developer == "" || draft.Description == "" {
		return nil, apperror.ValidationFailed("",
			"title, genre, developer and description are required")
	}
	if draft.Rating < model.RatingMin || draft.Rating > model.RatingMax {
		return nil, apperror.ValidationFailed("rating",
			fmt.Sprintf("rating must be between %g and %g", model.RatingMin, model.RatingMax))
	}

	game := &model.Game{
		Title:         draft.Title,
		Genre:         draft.Genre,
		Developer:     draft.Developer,
		ReleaseYear:   draft.ReleaseYear,
		PlaytimeHours: draft.PlaytimeHours,
		Description:   draft.Description,
		Platforms:     strings.TrimSpace(draft.Platforms),
		Requirements:  strings.TrimSpace(draft.Requirements),
		Instructions:  strings.TrimSpace(draft.Instructions),
		Rating:        draft.Rating,
		UserID:        ownerID,
	}

	if err := s.games.Create(ctx, game); err != nil {
		s.logger.Error("failed to create game",
			slog.String("title", draft.Title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating game: %w", err)
	}

	s.logger.Info("game added",
		slog.String("id", game.ID),
		slog.String("title", game.Title),
		slog.String("ownerID", ownerID),
	)

	return game, nil
}

// GetByID retrieves a single game.
// Returns apperror.ErrNotFound if it doesn't exist.
func (s *CatalogService) GetByID(ctx context.Context, id string) (*model.Game, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.NotFound("game", id)
	}
	return s.games.GetByID(ctx, id)
}

// ListAll returns every game in the collection, newest first.
func (s *CatalogService) ListAll(ctx context.Context) ([]model.Game, error) {
	games, err := s.games.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list games", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing games: %w", err)
	}
	return games, nil
}

// ListByOwner returns ownerID's games, newest first.
func (s *CatalogService) ListByOwner(ctx context.Context, ownerID string) ([]model.Game, error) {
	games, err := s.games.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list games by owner",
			slog.String("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing games for owner: %w", err)
	}
	return games, nil
}

// Search finds games matching the free-text query (case-insensitive
// substring over title, genre, developer, description). A blank query means
// "everything" — same result set as ListAll.
func (s *CatalogService) Search(ctx context.Context, query string) ([]model.Game, error) {
	query = strings.TrimSpace(query)

	games, err := s.games.Search(ctx, query)
	if err != nil {
		s.logger.Error("failed to search games",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("searching games: %w", err)
	}
	return games, nil
}

// Delete removes a game on behalf of requesterID.
//
// Ownership is enforced here: only the owner may delete. The existence check
// and the ownership check happen before the row is touched, so a Forbidden
// outcome leaves the record fully intact.
func (s *CatalogService) Delete(ctx context.Context, id, requesterID string) error {
	game, err := s.games.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if game.UserID != requesterID {
		return apperror.Forbidden("you cannot delete this game")
	}

	if err := s.games.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("game deleted",
		slog.String("id", id),
		slog.String("ownerID", requesterID),
	)
	return nil
}
