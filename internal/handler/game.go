package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/avask/game-collection/internal/apperror"
	"github.com/avask/game-collection/internal/auth"
	"github.com/avask/game-collection/internal/model"
	"github.com/avask/game-collection/internal/service"
)

// Form defaults for the numeric add-game fields. A blank field gets the
// default; a field with garbage in it is rejected as malformed.
const (
	defaultReleaseYear   = 2023
	defaultPlaytimeHours = 10
	defaultRating        = 7.0
)

// GameHandler serves every page that shows or mutates the collection.
type GameHandler struct {
	catalog  *service.CatalogService
	accounts *service.AccountService
	render   *Renderer
	logger   *slog.Logger
}

// NewGameHandler creates a GameHandler.
func NewGameHandler(
	catalog *service.CatalogService,
	accounts *service.AccountService,
	render *Renderer,
	logger *slog.Logger,
) *GameHandler {
	return &GameHandler{
		catalog:  catalog,
		accounts: accounts,
		render:   render,
		logger:   logger,
	}
}

// currentUser resolves the session identity to a full user record for the
// view (the nav shows the username). Anonymous or stale sessions yield nil.
func (h *GameHandler) currentUser(r *http.Request) *model.User {
	identity := auth.IdentityFromContext(r.Context())
	if !identity.IsAuthenticated() {
		return nil
	}
	user, err := h.accounts.GetUserByID(r.Context(), identity.UserID())
	if err != nil {
		return nil
	}
	return user
}

// HandleIndex shows the whole collection, newest first. Friendly to
// anonymous visitors.
//
// HTTP: GET /
func (h *GameHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	games, err := h.catalog.ListAll(r.Context())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.render.Render(w, r, "index.html", ViewData{
		User:  h.currentUser(r),
		Games: games,
	})
}

// HandleSearch filters the listing by the free-text q parameter. A blank
// query shows everything, same as the index.
//
// HTTP: GET /search?q=
func (h *GameHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	games, err := h.catalog.Search(r.Context(), query)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.render.Render(w, r, "index.html", ViewData{
		User:  h.currentUser(r),
		Games: games,
		Query: query,
	})
}

// ShowAddGame renders the add-game form.
//
// HTTP: GET /add_game (behind RequireAuth)
func (h *GameHandler) ShowAddGame(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, "add_game.html", ViewData{User: h.currentUser(r)})
}

// HandleAddGame creates a game owned by the session user.
//
// HTTP: POST /add_game (behind RequireAuth)
//
// A malformed numeric field gets its own notice, distinct from the
// missing-required-fields and rating-range messages, so the user knows which
// kind of mistake to fix.
func (h *GameHandler) HandleAddGame(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		redirectWithNotice(w, r, "/add_game", NoticeError, "could not read the form")
		return
	}

	draft, err := parseGameForm(r)
	if err != nil {
		redirectWithNotice(w, r, "/add_game", NoticeError, err.Error())
		return
	}

	_, err = h.catalog.Create(r.Context(), draft, identity.UserID())
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			redirectWithNotice(w, r, "/add_game", NoticeError, err.Error())
			return
		}
		h.logger.Error("add game failed", slog.String("error", err.Error()))
		redirectWithNotice(w, r, "/add_game", NoticeError,
			fmt.Sprintf("error while adding the game: %v", err))
		return
	}

	redirectWithNotice(w, r, "/", NoticeSuccess, "Game added to the collection!")
}

// HandleDetail shows one game. A missing id redirects to the listing with a
// notice rather than rendering a 404 page — one policy, applied everywhere.
//
// HTTP: GET /game/{id}
func (h *GameHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	game, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			redirectWithNotice(w, r, "/", NoticeError, "game not found")
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.render.Render(w, r, "game_detail.html", ViewData{
		User: h.currentUser(r),
		Game: game,
	})
}

// HandleMyGames shows only the session user's games.
//
// HTTP: GET /my_games (behind RequireAuth)
func (h *GameHandler) HandleMyGames(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	games, err := h.catalog.ListByOwner(r.Context(), identity.UserID())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	h.render.Render(w, r, "index.html", ViewData{
		User:    h.currentUser(r),
		Games:   games,
		MyGames: true,
	})
}

// HandleDelete removes a game after the ownership check.
//
// HTTP: POST /delete_game/{id} (behind RequireAuth)
//
// Every failure redirects with an explanatory notice; the row is only gone
// on the success path.
func (h *GameHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	id := chi.URLParam(r, "id")

	err := h.catalog.Delete(r.Context(), id, identity.UserID())
	switch {
	case err == nil:
		redirectWithNotice(w, r, "/my_games", NoticeSuccess, "Game deleted")
	case errors.Is(err, apperror.ErrForbidden):
		redirectWithNotice(w, r, "/", NoticeError, "you cannot delete this game")
	case errors.Is(err, apperror.ErrNotFound):
		redirectWithNotice(w, r, "/my_games", NoticeError, "game not found")
	default:
		h.logger.Error("delete game failed",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		redirectWithNotice(w, r, "/my_games", NoticeError,
			fmt.Sprintf("error while deleting: %v", err))
	}
}

// parseGameForm builds a GameDraft from the posted form. Blank numeric
// fields fall back to the form defaults; non-numeric input is rejected with
// apperror.MalformedNumber instead of silently corrupting the record.
func parseGameForm(r *http.Request) (service.GameDraft, error) {
	releaseYear, err := formInt(r, "release_year", defaultReleaseYear)
	if err != nil {
		return service.GameDraft{}, err
	}
	playtime, err := formInt(r, "playtime_hours", defaultPlaytimeHours)
	if err != nil {
		return service.GameDraft{}, err
	}
	rating, err := formFloat(r, "rating", defaultRating)
	if err != nil {
		return service.GameDraft{}, err
	}

	return service.GameDraft{
		Title:         r.PostFormValue("title"),
		Genre:         r.PostFormValue("genre"),
		Developer:     r.PostFormValue("developer"),
		ReleaseYear:   releaseYear,
		PlaytimeHours: playtime,
		Description:   r.PostFormValue("description"),
		Platforms:     r.PostFormValue("platforms"),
		Requirements:  r.PostFormValue("requirements"),
		Instructions:  r.PostFormValue("instructions"),
		Rating:        rating,
	}, nil
}

func formInt(r *http.Request, field string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.PostFormValue(field))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.MalformedNumber(field)
	}
	return n, nil
}

func formFloat(r *http.Request, field string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(r.PostFormValue(field))
	if raw == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperror.MalformedNumber(field)
	}
	return f, nil
}
