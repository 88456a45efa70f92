package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Tomlord1122/taskboard-backend/internal/domain"
)

// Store is the storage contract of the user deletion policy: the owner
// lookups, the two deletes of the cascade, and a transaction scope that
// commits when fn returns nil and rolls back on any error or panic.
type Store interface {
	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
	FindTasksByOwner(ctx context.Context, userID uuid.UUID) ([]domain.TaskSummary, error)
	DeleteTasksByOwnerAndStatus(ctx context.Context, userID uuid.UUID, status domain.TaskStatus) (int64, error)
	DeleteUserByID(ctx context.Context, userID uuid.UUID) error
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	return userExists(ctx, s.db, userID)
}

// FindTasksByOwner returns id, title and status of every task owned by
// userID, oldest first so repeated reads list tasks in the same order.
func (s *gormStore) FindTasksByOwner(ctx context.Context, userID uuid.UUID) ([]domain.TaskSummary, error) {
	summaries := []domain.TaskSummary{}
	err := s.db.WithContext(ctx).
		Model(&domain.Task{}).
		Select("id", "title", "status").
		Where("owner_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Scan(&summaries).Error
	if err != nil {
		return nil, translate(err)
	}
	return summaries, nil
}

func (s *gormStore) DeleteTasksByOwnerAndStatus(ctx context.Context, userID uuid.UUID, status domain.TaskStatus) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("owner_id = ? AND status = ?", userID, status).
		Delete(&domain.Task{})
	if result.Error != nil {
		return 0, translate(result.Error)
	}
	return result.RowsAffected, nil
}

func (s *gormStore) DeleteUserByID(ctx context.Context, userID uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", userID).Delete(&domain.User{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
