// Package apperror defines the error kinds the core reports to its callers.
//
// Every constructor returns an *AppError wrapping one sentinel, so callers
// branch with errors.Is and never compare messages.
//
// Two families exist:
//   - rejections (validation, duplicate email, bad credentials, no session,
//     not found): the operation did not mutate anything
//   - warnings (ErrPersistence): the mutation was applied in memory but the
//     write-through to the store failed
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("Validation Error")
	ErrDuplicateEmail     = errors.New("duplicate email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoActiveSession    = errors.New("no active session")
	ErrPostNotFound       = errors.New("post not found")
	ErrPersistence        = errors.New("persistence failure")
)

type AppError struct {
	Err     error  // sentinel kind
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
	Cause   error  // Optional: underlying failure (storage errors)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is lets a post lookup failure match ErrNotFound as well as ErrPostNotFound.
func (e *AppError) Is(target error) bool {
	return target == ErrNotFound && e.Err == ErrPostNotFound
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// PostNotFound is NotFound specialised for posts.
func PostNotFound(id string) *AppError {
	return &AppError{
		Err:     ErrPostNotFound,
		Message: fmt.Sprintf("post not found with id %s", id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func DuplicateEmail(email string) *AppError {
	return &AppError{
		Err:     ErrDuplicateEmail,
		Message: fmt.Sprintf("a user with email %s already exists", email),
		Field:   "email",
	}
}

func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid email or password",
	}
}

func NoActiveSession() *AppError {
	return &AppError{
		Err:     ErrNoActiveSession,
		Message: "no user is logged in",
	}
}

// PersistenceFailure reports that key could not be written. The in-memory
// state it describes is still authoritative for the running process.
func PersistenceFailure(key string, cause error) *AppError {
	return &AppError{
		Err:     ErrPersistence,
		Message: fmt.Sprintf("changes were applied but could not be saved (%s): %v", key, cause),
		Cause:   cause,
	}
}

// IsWarning reports whether err describes an applied mutation whose
// persistence failed, as opposed to a rejected operation.
func IsWarning(err error) bool {
	return err != nil && errors.Is(err, ErrPersistence)
}
