package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/taskboard-backend/internal/database"
	"github.com/Tomlord1122/taskboard-backend/internal/database/dbtest"
	"github.com/Tomlord1122/taskboard-backend/internal/repository"
	"github.com/Tomlord1122/taskboard-backend/internal/service"
)

type fixture struct {
	users service.UserService
	tasks service.TaskService
}

func setupCLI(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)

	original := openApp
	openApp = func(ctx context.Context) (*app, func(), error) {
		return newApp(database.FromDB(db, "test", zerolog.Nop())), func() {}, nil
	}
	t.Cleanup(func() { openApp = original })

	userRepo := repository.NewGormUserRepository(db)
	taskRepo := repository.NewGormTaskRepository(db)
	return &fixture{
		users: service.NewUserService(userRepo, taskRepo),
		tasks: service.NewTaskService(taskRepo, userRepo),
	}
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestMigrateCommand(t *testing.T) {
	setupCLI(t)

	out, _, err := run(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Migrations completed successfully")
}

func TestUsersList(t *testing.T) {
	f := setupCLI(t)
	ctx := context.Background()

	u, err := f.users.CreateUser(ctx, service.CreateUserRequest{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	_, err = f.tasks.CreateTaskForUser(ctx, u.ID, service.CreateUserTaskRequest{Title: "write notes", Priority: "HIGH"})
	require.NoError(t, err)

	out, _, err := run(t, "users", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "EMAIL")
	assert.Contains(t, out, u.ID.String())
	assert.Contains(t, out, "ada@example.com")
}

func TestUsersCheckAndDelete(t *testing.T) {
	f := setupCLI(t)
	ctx := context.Background()

	u, err := f.users.CreateUser(ctx, service.CreateUserRequest{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	task, err := f.tasks.CreateTaskForUser(ctx, u.ID, service.CreateUserTaskRequest{Title: "write notes", Priority: "HIGH"})
	require.NoError(t, err)

	out, _, err := run(t, "users", "check", u.ID.String(), "--json")
	require.NoError(t, err)
	var eligibility service.Eligibility
	require.NoError(t, json.Unmarshal([]byte(out), &eligibility))
	assert.False(t, eligibility.Allowed)
	assert.Equal(t, 1, eligibility.PendingCount)

	_, _, err = run(t, "users", "delete", u.ID.String())
	assert.ErrorIs(t, err, service.ErrMissingIntent)

	_, stderr, err := run(t, "users", "delete", u.ID.String(), "--intent", "delete")
	var pending *service.PendingTasksError
	require.ErrorAs(t, err, &pending)
	assert.Contains(t, stderr, "write notes")

	_, err = f.tasks.ChangeStatus(ctx, task.ID, "COMPLETED")
	require.NoError(t, err)

	out, _, err = run(t, "users", "check", u.ID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "Are you sure you want to delete this user?")

	out, _, err = run(t, "users", "delete", u.ID.String(), "--intent", "delete")
	require.NoError(t, err)
	assert.Contains(t, out, "1 completed tasks purged")

	_, _, err = run(t, "users", "check", u.ID.String())
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUsersCheck_InvalidID(t *testing.T) {
	setupCLI(t)

	_, _, err := run(t, "users", "check", "not-a-uuid")
	assert.EqualError(t, err, `invalid user id "not-a-uuid"`)
}
