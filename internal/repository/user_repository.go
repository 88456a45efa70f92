package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Tomlord1122/taskboard-backend/internal/domain"
)

// UserRepository defines the interface for user data operations.
// Deleting users is deliberately absent: it goes through Store so the
// deletion policy controls the cascade.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	CountTasksByOwner(ctx context.Context) (map[uuid.UUID]int64, error)
	Update(ctx context.Context, user *domain.User) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error)
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// List returns all users, newest first.
func (r *gormUserRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id").Find(&users).Error
	if err != nil {
		return nil, translate(err)
	}
	return users, nil
}

// CountTasksByOwner returns the number of tasks per owning user. Users
// without tasks are absent from the map.
func (r *gormUserRepository) CountTasksByOwner(ctx context.Context) (map[uuid.UUID]int64, error) {
	var rows []struct {
		OwnerID uuid.UUID
		Total   int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Select("owner_id, COUNT(*) AS total").
		Where("owner_id IS NOT NULL").
		Group("owner_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.OwnerID] = row.Total
	}
	return counts, nil
}

func (r *gormUserRepository) Update(ctx context.Context, user *domain.User) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error)
}

func (r *gormUserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return userExists(ctx, r.db, id)
}

func userExists(ctx context.Context, db *gorm.DB, id uuid.UUID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}
