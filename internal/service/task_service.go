package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Tomlord1122/taskboard-backend/internal/domain"
	"github.com/Tomlord1122/taskboard-backend/internal/repository"
)

// CreateTaskRequest creates a standalone task, optionally owned by a user.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     string     `json:"due_date"`
	OwnerID     *uuid.UUID `json:"owner_id"`
}

// CreateUserTaskRequest creates a task under a user. New tasks created this
// way always start in TODO and must name a priority.
type CreateUserTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
}

// UpdateTaskRequest holds the fields that may change on a task. Nil
// pointers leave the stored value untouched; an empty DueDate clears the
// due date and an empty OwnerID unassigns the task.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
	OwnerID     *string `json:"owner_id"`
}

type TaskOwner struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type TaskResponse struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      domain.TaskStatus `json:"status"`
	Priority    domain.Priority   `json:"priority"`
	DueDate     *string           `json:"due_date"`
	OwnerID     *uuid.UUID        `json:"owner_id"`
	Owner       *TaskOwner        `json:"owner,omitempty"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

// TaskService defines the operations for managing tasks.
type TaskService interface {
	CreateTask(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error)
	CreateTaskForUser(ctx context.Context, userID uuid.UUID, req CreateUserTaskRequest) (*TaskResponse, error)
	GetTask(ctx context.Context, id uuid.UUID) (*TaskResponse, error)

	// ListTasks returns every task with its owner, newest first.
	ListTasks(ctx context.Context) ([]TaskResponse, error)

	// ListUserTasks returns the user's tasks, newest first.
	ListUserTasks(ctx context.Context, userID uuid.UUID) ([]TaskResponse, error)

	UpdateTask(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*TaskResponse, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*TaskResponse, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
}

type taskService struct {
	tasks repository.TaskRepository
	users repository.UserRepository
}

func NewTaskService(tasks repository.TaskRepository, users repository.UserRepository) TaskService {
	return &taskService{tasks: tasks, users: users}
}

func (s *taskService) CreateTask(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	task := &domain.Task{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      domain.StatusTodo,
		Priority:    domain.PriorityMedium,
		OwnerID:     req.OwnerID,
	}
	if task.Title == "" {
		return nil, validationError("title is required")
	}

	var err error
	if strings.TrimSpace(req.Status) != "" {
		if task.Status, err = domain.ParseTaskStatus(req.Status); err != nil {
			return nil, validationError("%v", err)
		}
	}
	if strings.TrimSpace(req.Priority) != "" {
		if task.Priority, err = domain.ParsePriority(req.Priority); err != nil {
			return nil, validationError("%v", err)
		}
	}
	if task.DueDate, err = domain.ParseDueDate(req.DueDate); err != nil {
		return nil, validationError("%v", err)
	}
	if task.OwnerID != nil {
		if err := s.ensureUser(ctx, *task.OwnerID); err != nil {
			return nil, err
		}
	}

	return s.create(ctx, task)
}

func (s *taskService) CreateTaskForUser(ctx context.Context, userID uuid.UUID, req CreateUserTaskRequest) (*TaskResponse, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, validationError("title is required")
	}
	if strings.TrimSpace(req.Priority) == "" {
		return nil, validationError("priority is required")
	}
	priority, err := domain.ParsePriority(req.Priority)
	if err != nil {
		return nil, validationError("%v", err)
	}
	dueDate, err := domain.ParseDueDate(req.DueDate)
	if err != nil {
		return nil, validationError("%v", err)
	}

	return s.create(ctx, &domain.Task{
		Title:       title,
		Description: req.Description,
		Status:      domain.StatusTodo,
		Priority:    priority,
		DueDate:     dueDate,
		OwnerID:     &userID,
	})
}

func (s *taskService) create(ctx context.Context, task *domain.Task) (*TaskResponse, error) {
	if err := s.tasks.Create(ctx, task); err != nil {
		// The owner was deleted between the existence check and the insert.
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, ErrUserNotFound
		}
		return nil, storageFailure(ctx, "create task", err)
	}
	zerolog.Ctx(ctx).Info().Stringer("task_id", task.ID).Msg("task created")
	return toTaskResponse(task), nil
}

func (s *taskService) GetTask(ctx context.Context, id uuid.UUID) (*TaskResponse, error) {
	task, err := s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

func (s *taskService) ListTasks(ctx context.Context) ([]TaskResponse, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, storageFailure(ctx, "list tasks", err)
	}
	return toTaskResponses(tasks), nil
}

func (s *taskService) ListUserTasks(ctx context.Context, userID uuid.UUID) ([]TaskResponse, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByOwner(ctx, userID, 0)
	if err != nil {
		return nil, storageFailure(ctx, "list user tasks", err)
	}
	return toTaskResponses(tasks), nil
}

func (s *taskService) UpdateTask(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*TaskResponse, error) {
	task, err := s.findTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, validationError("title is required")
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		if task.Status, err = domain.ParseTaskStatus(*req.Status); err != nil {
			return nil, validationError("%v", err)
		}
	}
	if req.Priority != nil {
		if task.Priority, err = domain.ParsePriority(*req.Priority); err != nil {
			return nil, validationError("%v", err)
		}
	}
	if req.DueDate != nil {
		if task.DueDate, err = domain.ParseDueDate(*req.DueDate); err != nil {
			return nil, validationError("%v", err)
		}
	}
	if req.OwnerID != nil {
		if strings.TrimSpace(*req.OwnerID) == "" {
			task.OwnerID = nil
			task.Owner = nil
		} else {
			ownerID, err := uuid.Parse(strings.TrimSpace(*req.OwnerID))
			if err != nil {
				return nil, validationError("invalid owner_id")
			}
			if task.OwnerID == nil || *task.OwnerID != ownerID {
				owner, err := s.findUser(ctx, ownerID)
				if err != nil {
					return nil, err
				}
				task.OwnerID = &ownerID
				task.Owner = owner
			}
		}
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, ErrUserNotFound
		}
		return nil, storageFailure(ctx, "update task", err)
	}
	return toTaskResponse(task), nil
}

func (s *taskService) ChangeStatus(ctx context.Context, id uuid.UUID, status string) (*TaskResponse, error) {
	parsed, err := domain.ParseTaskStatus(status)
	if err != nil {
		return nil, validationError("%v", err)
	}
	if err := s.tasks.UpdateStatus(ctx, id, parsed); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, storageFailure(ctx, "change task status", err)
	}
	zerolog.Ctx(ctx).Info().Stringer("task_id", id).Str("status", string(parsed)).Msg("task status changed")
	return s.GetTask(ctx, id)
}

func (s *taskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return storageFailure(ctx, "delete task", err)
	}
	return nil
}

func (s *taskService) findTask(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, storageFailure(ctx, "get task", err)
	}
	return task, nil
}

func (s *taskService) findUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageFailure(ctx, "get user", err)
	}
	return user, nil
}

func (s *taskService) ensureUser(ctx context.Context, id uuid.UUID) error {
	exists, err := s.users.Exists(ctx, id)
	if err != nil {
		return storageFailure(ctx, "look up user", err)
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

func toTaskResponses(tasks []domain.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, *toTaskResponse(&tasks[i]))
	}
	return responses
}

func toTaskResponse(t *domain.Task) *TaskResponse {
	resp := &TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		OwnerID:     t.OwnerID,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
	if t.DueDate != nil {
		d := t.DueDate.Format(domain.DateLayout)
		resp.DueDate = &d
	}
	if t.Owner != nil {
		resp.Owner = &TaskOwner{ID: t.Owner.ID, Name: t.Owner.Name, Email: t.Owner.Email}
	}
	return resp
}
