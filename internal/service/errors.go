package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrTaskNotFound = errors.New("task not found")
	ErrEmailTaken   = errors.New("email is already in use")
	// ErrValidation is wrapped by every input validation failure.
	ErrValidation = errors.New("validation failed")
	// ErrMissingIntent rejects a delete call that did not carry the
	// explicit confirmation token.
	ErrMissingIntent = errors.New(`deletion requires intent "delete"`)
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// PendingTasksError is returned when a user cannot be deleted because it
// still owns TODO or IN_PROGRESS tasks.
type PendingTasksError struct {
	Eligibility Eligibility
}

func (e *PendingTasksError) Error() string {
	return fmt.Sprintf("cannot delete user with %d pending %s",
		e.Eligibility.PendingCount, pluralize(e.Eligibility.PendingCount, "task", "tasks"))
}

// StorageError wraps any unexpected failure of the storage layer. Callers
// may retry the whole operation: a failed transaction leaves no changes.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageFailure(ctx context.Context, op string, err error) error {
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	zerolog.Ctx(ctx).Error().Err(err).Str("op", op).Msg("storage failure")
	return &StorageError{Op: op, Err: err}
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
