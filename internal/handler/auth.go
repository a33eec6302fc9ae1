package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/avask/game-collection/internal/apperror"
	"github.com/avask/game-collection/internal/auth"
	"github.com/avask/game-collection/internal/service"
)

// AuthHandler serves the registration, login and logout pages.
type AuthHandler struct {
	accounts *service.AccountService
	render   *Renderer
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(accounts *service.AccountService, render *Renderer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, render: render, logger: logger}
}

// ShowRegister renders the registration form.
//
// HTTP: GET /register
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, "register.html", ViewData{})
}

// HandleRegister processes the registration form.
//
// HTTP: POST /register
//
// Outcomes: validation and duplicate failures come back to the form with an
// error notice; any other store failure surfaces as a generic notice that
// includes the underlying description. Success redirects to the login page.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithNotice(w, r, "/register", NoticeError, "could not read the form")
		return
	}

	username := r.PostFormValue("username")
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	_, err := h.accounts.Register(r.Context(), username, email, password)
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrDuplicate):
			redirectWithNotice(w, r, "/register", NoticeError, err.Error())
		default:
			h.logger.Error("registration failed", slog.String("error", err.Error()))
			redirectWithNotice(w, r, "/register", NoticeError,
				fmt.Sprintf("error during registration: %v", err))
		}
		return
	}

	redirectWithNotice(w, r, "/login", NoticeSuccess,
		"Registration successful! You can now log in.")
}

// ShowLogin renders the login form, carrying through the ?next= target the
// auth middleware may have attached.
//
// HTTP: GET /login
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, "login.html", ViewData{
		Next: safeNext(r.URL.Query().Get("next"), ""),
	})
}

// HandleLogin processes the login form.
//
// HTTP: POST /login
//
// On success the session cookie is set and the user lands on the page they
// originally asked for (the "next" field), or on the listing. On failure the
// notice is the same generic message for every cause.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithNotice(w, r, "/login", NoticeError, "could not read the form")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	next := safeNext(r.PostFormValue("next"), "/")

	result, err := h.accounts.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, apperror.ErrInvalidCredentials) {
			redirectWithNotice(w, r, auth.LoginRedirectURL(r.PostFormValue("next")),
				NoticeError, err.Error())
			return
		}
		h.logger.Error("login failed", slog.String("error", err.Error()))
		redirectWithNotice(w, r, "/login", NoticeError, "something went wrong, try again")
		return
	}

	auth.SetCookie(w, result.Token)
	redirectWithNotice(w, r, next, NoticeSuccess, "You are now logged in!")
}

// HandleLogout clears the session.
//
// HTTP: GET /logout (behind RequireAuth)
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w)
	redirectWithNotice(w, r, "/", NoticeInfo, "You have been logged out")
}
