package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Tomlord1122/taskboard-backend/internal/domain"
	"github.com/Tomlord1122/taskboard-backend/internal/repository"
)

// DeleteIntent is the confirmation token DeleteUser requires.
const DeleteIntent = "delete"

// errOwnerStillReferenced aborts the deletion transaction when the user
// row is still referenced by a task.
var errOwnerStillReferenced = errors.New("user still owns tasks")

const confirmDeletionMessage = "Are you sure you want to delete this user? This action cannot be undone."

// Eligibility is the computed permission to delete a user.
type Eligibility struct {
	Allowed      bool                 `json:"allowed"`
	PendingCount int                  `json:"pending_count"`
	PendingTasks []domain.TaskSummary `json:"pending_tasks"`
	Message      string               `json:"message"`
}

// DeletionResult describes a completed user deletion.
type DeletionResult struct {
	UserID      uuid.UUID `json:"user_id"`
	PurgedTasks int64     `json:"purged_tasks"`
}

// DeletionPolicy decides whether users may be deleted and performs the
// deletion cascade.
type DeletionPolicy interface {
	// CheckDeletionEligibility reports whether userID could be deleted right
	// now. It has no side effects.
	CheckDeletionEligibility(ctx context.Context, userID uuid.UUID) (*Eligibility, error)

	// DeleteUser re-evaluates eligibility and, when allowed, removes the
	// user's COMPLETED tasks and then the user in a single transaction.
	// intent must equal DeleteIntent.
	DeleteUser(ctx context.Context, userID uuid.UUID, intent string) (*DeletionResult, error)
}

type deletionPolicy struct {
	store repository.Store
}

func NewDeletionPolicy(store repository.Store) DeletionPolicy {
	return &deletionPolicy{store: store}
}

func (p *deletionPolicy) CheckDeletionEligibility(ctx context.Context, userID uuid.UUID) (*Eligibility, error) {
	return evaluateEligibility(ctx, p.store, userID)
}

func (p *deletionPolicy) DeleteUser(ctx context.Context, userID uuid.UUID, intent string) (*DeletionResult, error) {
	log := zerolog.Ctx(ctx).With().Stringer("user_id", userID).Logger()
	result := &DeletionResult{UserID: userID}

	err := p.store.Transaction(ctx, func(tx repository.Store) error {
		// Existence is checked before the intent so an unknown id is
		// always reported as not found.
		eligibility, err := evaluateEligibility(ctx, tx, userID)
		if err != nil {
			return err
		}
		if intent != DeleteIntent {
			return ErrMissingIntent
		}
		if !eligibility.Allowed {
			return &PendingTasksError{Eligibility: *eligibility}
		}

		purged, err := tx.DeleteTasksByOwnerAndStatus(ctx, userID, domain.StatusCompleted)
		if err != nil {
			return storageFailure(ctx, "purge completed tasks", err)
		}

		// Anything still owned by the user at this point was written after
		// the eligibility check.
		remaining, err := tx.FindTasksByOwner(ctx, userID)
		if err != nil {
			return storageFailure(ctx, "re-check owned tasks", err)
		}
		if recheck := eligibilityFromTasks(remaining); !recheck.Allowed {
			return &PendingTasksError{Eligibility: recheck}
		}

		if err := tx.DeleteUserByID(ctx, userID); err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				return ErrUserNotFound
			case errors.Is(err, repository.ErrForeignKey):
				return errOwnerStillReferenced
			}
			return storageFailure(ctx, "delete user", err)
		}

		result.PurgedTasks = purged
		return nil
	})
	if errors.Is(err, errOwnerStillReferenced) {
		// A task committed after the re-check still points at the user.
		// The transaction is gone, so read the current state afresh.
		err = p.pendingAfterConflict(ctx, userID)
	}
	if err != nil {
		var pending *PendingTasksError
		switch {
		case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrMissingIntent):
			log.Warn().Err(err).Msg("user deletion rejected")
			return nil, err
		case errors.As(err, &pending):
			log.Warn().Int("pending_count", pending.Eligibility.PendingCount).Msg("user deletion blocked by pending tasks")
			return nil, err
		default:
			return nil, storageFailure(ctx, "delete user transaction", err)
		}
	}

	log.Info().Int64("purged_tasks", result.PurgedTasks).Msg("user deleted")
	return result, nil
}

func (p *deletionPolicy) pendingAfterConflict(ctx context.Context, userID uuid.UUID) error {
	eligibility, err := evaluateEligibility(ctx, p.store, userID)
	if err != nil {
		return err
	}
	if !eligibility.Allowed {
		return &PendingTasksError{Eligibility: *eligibility}
	}
	return storageFailure(ctx, "delete user", repository.ErrForeignKey)
}

func evaluateEligibility(ctx context.Context, store repository.Store, userID uuid.UUID) (*Eligibility, error) {
	exists, err := store.UserExists(ctx, userID)
	if err != nil {
		return nil, storageFailure(ctx, "look up user", err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	tasks, err := store.FindTasksByOwner(ctx, userID)
	if err != nil {
		return nil, storageFailure(ctx, "list owned tasks", err)
	}

	eligibility := eligibilityFromTasks(tasks)
	return &eligibility, nil
}

func eligibilityFromTasks(tasks []domain.TaskSummary) Eligibility {
	pending := make([]domain.TaskSummary, 0)
	for _, t := range tasks {
		if t.Status.IsPending() {
			pending = append(pending, t)
		}
	}

	e := Eligibility{
		Allowed:      len(pending) == 0,
		PendingCount: len(pending),
		PendingTasks: pending,
		Message:      confirmDeletionMessage,
	}
	if !e.Allowed {
		e.Message = fmt.Sprintf(
			"Cannot delete user. They have %d pending %s (in progress or to do). Please reassign or complete these tasks first.",
			e.PendingCount, pluralize(e.PendingCount, "task", "tasks"))
	}
	return e
}
