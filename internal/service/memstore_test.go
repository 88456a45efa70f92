package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Tomlord1122/taskboard-backend/internal/domain"
	"github.com/Tomlord1122/taskboard-backend/internal/repository"
)

type memTask struct {
	summary domain.TaskSummary
	owner   *uuid.UUID
}

// memStore is an in-memory repository.Store. Transactions snapshot the
// state and restore it when fn fails.
type memStore struct {
	users map[uuid.UUID]bool
	tasks []memTask

	mutations int
	failOp    string
	failErr   error
}

func newMemStore() *memStore {
	return &memStore{users: map[uuid.UUID]bool{}}
}

func (s *memStore) addUser() uuid.UUID {
	id := uuid.New()
	s.users[id] = true
	return id
}

func (s *memStore) addTask(owner *uuid.UUID, title string, status domain.TaskStatus) uuid.UUID {
	id := uuid.New()
	s.tasks = append(s.tasks, memTask{
		summary: domain.TaskSummary{ID: id, Title: title, Status: status},
		owner:   owner,
	})
	return id
}

func (s *memStore) hasTask(id uuid.UUID) bool {
	for _, t := range s.tasks {
		if t.summary.ID == id {
			return true
		}
	}
	return false
}

func (s *memStore) fail(op string) error {
	if s.failOp == op {
		return s.failErr
	}
	return nil
}

func (s *memStore) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	if err := s.fail("exists"); err != nil {
		return false, err
	}
	return s.users[userID], nil
}

func (s *memStore) FindTasksByOwner(ctx context.Context, userID uuid.UUID) ([]domain.TaskSummary, error) {
	if err := s.fail("find"); err != nil {
		return nil, err
	}
	out := []domain.TaskSummary{}
	for _, t := range s.tasks {
		if t.owner != nil && *t.owner == userID {
			out = append(out, t.summary)
		}
	}
	return out, nil
}

func (s *memStore) DeleteTasksByOwnerAndStatus(ctx context.Context, userID uuid.UUID, status domain.TaskStatus) (int64, error) {
	if err := s.fail("purge"); err != nil {
		return 0, err
	}
	var kept []memTask
	var n int64
	for _, t := range s.tasks {
		if t.owner != nil && *t.owner == userID && t.summary.Status == status {
			n++
			continue
		}
		kept = append(kept, t)
	}
	s.tasks = kept
	s.mutations += int(n)
	return n, nil
}

func (s *memStore) DeleteUserByID(ctx context.Context, userID uuid.UUID) error {
	if err := s.fail("delete_user"); err != nil {
		return err
	}
	if !s.users[userID] {
		return repository.ErrNotFound
	}
	for _, t := range s.tasks {
		if t.owner != nil && *t.owner == userID {
			return repository.ErrForeignKey
		}
	}
	delete(s.users, userID)
	s.mutations++
	return nil
}

func (s *memStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	if err := s.fail("begin"); err != nil {
		return err
	}
	users := make(map[uuid.UUID]bool, len(s.users))
	for k, v := range s.users {
		users[k] = v
	}
	tasks := append([]memTask(nil), s.tasks...)
	mutations := s.mutations

	if err := fn(s); err != nil {
		s.users, s.tasks, s.mutations = users, tasks, mutations
		return err
	}
	if err := s.fail("commit"); err != nil {
		s.users, s.tasks, s.mutations = users, tasks, mutations
		return err
	}
	return nil
}

var errStorage = errors.New("connection refused")
