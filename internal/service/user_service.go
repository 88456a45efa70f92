package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Tomlord1122/taskboard-backend/internal/domain"
	"github.com/Tomlord1122/taskboard-backend/internal/repository"
)

// dashboardRecentTasks is how many tasks per user the dashboard shows.
const dashboardRecentTasks = 5

const maxEmailLength = 254

// CreateUserRequest holds the data needed to create a new user.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UpdateUserRequest holds the fields that may change on a user. Nil
// pointers leave the stored value untouched.
type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

type UserResponse struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	TaskCount *int64      `json:"task_count,omitempty"`
	CreatedAt string      `json:"created_at"`
	UpdatedAt string      `json:"updated_at"`
}

// UserOverview is one row of the dashboard.
type UserOverview struct {
	UserResponse
	RecentTasks []TaskResponse `json:"recent_tasks"`
}

// UserService defines the operations for managing users. Deletion lives in
// DeletionPolicy.
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*UserResponse, error)

	// ListUsers returns every user, newest first, with its task count.
	ListUsers(ctx context.Context) ([]UserResponse, error)

	UpdateUser(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error)

	// Dashboard returns every user with their most recent tasks.
	Dashboard(ctx context.Context) ([]UserOverview, error)
}

type userService struct {
	users repository.UserRepository
	tasks repository.TaskRepository
}

func NewUserService(users repository.UserRepository, tasks repository.TaskRepository) UserService {
	return &userService{users: users, tasks: tasks}
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationError("name is required")
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	role := domain.RoleStandard
	if strings.TrimSpace(req.Role) != "" {
		if role, err = domain.ParseRole(req.Role); err != nil {
			return nil, validationError("%v", err)
		}
	}

	user := &domain.User{Name: name, Email: email, Role: role}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, storageFailure(ctx, "create user", err)
	}

	zerolog.Ctx(ctx).Info().Stringer("user_id", user.ID).Msg("user created")
	return toUserResponse(user, nil), nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageFailure(ctx, "get user", err)
	}
	return toUserResponse(user, nil), nil
}

func (s *userService) ListUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storageFailure(ctx, "list users", err)
	}
	counts, err := s.users.CountTasksByOwner(ctx)
	if err != nil {
		return nil, storageFailure(ctx, "count tasks", err)
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		count := counts[users[i].ID]
		responses = append(responses, *toUserResponse(&users[i], &count))
	}
	return responses, nil
}

func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageFailure(ctx, "get user for update", err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validationError("name cannot be empty")
		}
		user.Name = name
	}
	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}
	if req.Role != nil {
		role, err := domain.ParseRole(*req.Role)
		if err != nil {
			return nil, validationError("%v", err)
		}
		user.Role = role
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, storageFailure(ctx, "update user", err)
	}
	return toUserResponse(user, nil), nil
}

func (s *userService) Dashboard(ctx context.Context) ([]UserOverview, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storageFailure(ctx, "list users", err)
	}

	overview := make([]UserOverview, 0, len(users))
	for i := range users {
		tasks, err := s.tasks.ListByOwner(ctx, users[i].ID, dashboardRecentTasks)
		if err != nil {
			return nil, storageFailure(ctx, "list recent tasks", err)
		}
		recent := make([]TaskResponse, 0, len(tasks))
		for j := range tasks {
			recent = append(recent, *toTaskResponse(&tasks[j]))
		}
		overview = append(overview, UserOverview{
			UserResponse: *toUserResponse(&users[i], nil),
			RecentTasks:  recent,
		})
	}
	return overview, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", validationError("email is required")
	}
	if len(email) > maxEmailLength {
		return "", validationError("email too long (max %d characters)", maxEmailLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", validationError("invalid email format")
	}
	return email, nil
}

func toUserResponse(u *domain.User, taskCount *int64) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		TaskCount: taskCount,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.Format(time.RFC3339),
	}
}
