package apperror

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Services return AppErrors wrapping one of these so
// handlers can branch with errors.Is instead of matching message strings.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation error")
	ErrDuplicate          = errors.New("duplicate")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
)

type AppError struct {
	Err     error  // sentinel kind, reachable via errors.Is
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// MalformedNumber is a validation error for form fields that must parse as a
// number. Kept distinct from ValidationFailed messages so handlers can show
// the "bad numeric input" notice the add-game form uses.
func MalformedNumber(field string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: fmt.Sprintf("%s must be a number", field),
		Field:   field,
	}
}

// DuplicateUsername reports a registration attempt with a taken username.
func DuplicateUsername(username string) *AppError {
	return &AppError{
		Err:     ErrDuplicate,
		Message: fmt.Sprintf("username %q is already taken", username),
		Field:   "username",
	}
}

// DuplicateEmail reports a registration attempt with a registered email.
func DuplicateEmail(email string) *AppError {
	return &AppError{
		Err:     ErrDuplicate,
		Message: fmt.Sprintf("email %q is already registered", email),
		Field:   "email",
	}
}

// InvalidCredentials deliberately carries one fixed message: it must not
// reveal whether the username or the password was wrong.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid username or password",
	}
}

// Unauthenticated means the caller has no valid session.
// The HTML surface maps this to a redirect to the login page.
func Unauthenticated() *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: "authentication required",
	}
}

// Forbidden returns an AppError indicating the caller lacks permission,
// e.g. deleting a game they do not own.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}
