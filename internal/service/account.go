// Package service contains the business logic layer of the application.
//
// Handlers parse HTTP and render results; services enforce the rules;
// repositories read and write rows. Each service receives its repository as
// an interface, so tests swap in an in-memory fake and the service never
// imports the sqlite package.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/avask/game-collection/internal/apperror"
	"github.com/avask/game-collection/internal/auth"
	"github.com/avask/game-collection/internal/model"
	"github.com/avask/game-collection/internal/repository"
)

// Registration rules. Applied uniformly: there is exactly one validation
// policy for accounts, enforced here and nowhere else.
const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

// AccountService handles registration and login.
type AccountService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	sessions  *auth.SessionService
	logger    *slog.Logger
}

// NewAccountService creates an AccountService with all required dependencies.
func NewAccountService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	sessions *auth.SessionService,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		users:     users,
		passwords: passwords,
		sessions:  sessions,
		logger:    logger,
	}
}

// LoginResult bundles the user record and the issued session token so the
// handler can set the cookie and redirect in one step. Setting the cookie
// itself is the handler's job — an HTTP concern this layer stays out of.
type LoginResult struct {
	User  *model.User
	Token string
}

// Register validates the input, hashes the password and creates the account.
//
// Duplicate checks are case-sensitive exact matches and come back from the
// repository as apperror.DuplicateUsername / DuplicateEmail. The raw
// password exists only on this call stack; the stored record carries the
// bcrypt hash.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)

	if username == "" || email == "" || password == "" {
		return nil, apperror.ValidationFailed("", "all fields are required")
	}
	if len(username) < MinUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be at least %d characters", MinUsernameLength))
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/account: hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login verifies the credentials and issues a session token.
//
// Every failure path returns the same apperror.InvalidCredentials: a caller
// must not be able to tell "no such user" from "wrong password", through the
// message or the error kind.
func (s *AccountService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, apperror.InvalidCredentials()
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.InvalidCredentials()
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/account: issuing session for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return &LoginResult{User: user, Token: token}, nil
}

// GetUserByID returns the user for the given internal ID. Used by views
// that need the username behind the session's user ID.
func (s *AccountService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, fmt.Errorf("service/account: user ID must not be empty")
	}
	return s.users.GetUserByID(ctx, id)
}

// DeleteAccount removes a user; the schema's cascade removes every game
// they own. There is no HTTP route for this — it exists for operational
// tooling and to keep the cascade under test.
func (s *AccountService) DeleteAccount(ctx context.Context, id string) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", slog.String("userID", id))
	return nil
}
