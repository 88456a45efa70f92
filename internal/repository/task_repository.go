package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Tomlord1122/taskboard-backend/internal/domain"
)

// TaskRepository defines the interface for task data operations.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormTaskRepository struct {
	db *gorm.DB
}

func NewGormTaskRepository(db *gorm.DB) TaskRepository {
	return &gormTaskRepository{db: db}
}

// Create inserts the task. The owner relation is never written through
// the task, only the owner_id column.
func (r *gormTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error)
}

// FindByID loads a task together with its owner, if any.
func (r *gormTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).Preload("Owner").First(&task, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

// List returns every task with its owner, newest first.
func (r *gormTaskRepository) List(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Order("created_at DESC").
		Order("id").
		Find(&tasks).Error
	if err != nil {
		return nil, translate(err)
	}
	return tasks, nil
}

// ListByOwner returns the owner's tasks, newest first. A limit <= 0 means all.
func (r *gormTaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Task, error) {
	query := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var tasks []domain.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, translate(err)
	}
	return tasks, nil
}

func (r *gormTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error)
}

func (r *gormTaskRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete permanently removes a task. Tasks have no soft-delete column.
func (r *gormTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Task{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
