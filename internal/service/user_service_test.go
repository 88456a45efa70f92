package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/taskboard-backend/internal/domain"
)

func TestUserService_CreateUser(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateUserRequest
		wantErr error
		want    domain.Role
	}{
		{name: "defaults to standard role", req: CreateUserRequest{Name: "Ada", Email: "Ada@Example.com"}, want: domain.RoleStandard},
		{name: "admin", req: CreateUserRequest{Name: "Grace", Email: "grace@example.com", Role: "admin"}, want: domain.RoleAdmin},
		{name: "missing name", req: CreateUserRequest{Email: "x@example.com"}, wantErr: ErrValidation},
		{name: "missing email", req: CreateUserRequest{Name: "x"}, wantErr: ErrValidation},
		{name: "bad email", req: CreateUserRequest{Name: "x", Email: "not-an-email"}, wantErr: ErrValidation},
		{name: "display-name email", req: CreateUserRequest{Name: "x", Email: "X <x@example.com>"}, wantErr: ErrValidation},
		{name: "bad role", req: CreateUserRequest{Name: "x", Email: "x@example.com", Role: "manager"}, wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := setupServices(t)

			resp, err := svc.users.CreateUser(context.Background(), tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, resp.ID)
			assert.Equal(t, tt.want, resp.Role)
			assert.Equal(t, strings.ToLower(tt.req.Email), resp.Email)
		})
	}
}

func TestUserService_DuplicateEmail(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	_, err := svc.users.CreateUser(ctx, CreateUserRequest{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	_, err = svc.users.CreateUser(ctx, CreateUserRequest{Name: "Other", Email: "ADA@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	other, err := svc.users.CreateUser(ctx, CreateUserRequest{Name: "Other", Email: "other@example.com"})
	require.NoError(t, err)
	taken := "ada@example.com"
	_, err = svc.users.UpdateUser(ctx, other.ID, UpdateUserRequest{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserService_GetAndUpdate(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	created, err := svc.users.CreateUser(ctx, CreateUserRequest{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	_, err = svc.users.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)

	name, role := "Ada Lovelace", "ADMIN"
	updated, err := svc.users.UpdateUser(ctx, created.ID, UpdateUserRequest{Name: &name, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.Name)
	assert.Equal(t, domain.RoleAdmin, updated.Role)
	assert.Equal(t, "ada@example.com", updated.Email)

	got, err := svc.users.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.Name)

	empty := " "
	_, err = svc.users.UpdateUser(ctx, created.ID, UpdateUserRequest{Name: &empty})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.users.UpdateUser(ctx, uuid.New(), UpdateUserRequest{Name: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_ListUsersAndDashboard(t *testing.T) {
	svc := setupServices(t)
	ctx := context.Background()

	busy, err := svc.users.CreateUser(ctx, CreateUserRequest{Name: "Busy", Email: "busy@example.com"})
	require.NoError(t, err)
	idle, err := svc.users.CreateUser(ctx, CreateUserRequest{Name: "Idle", Email: "idle@example.com"})
	require.NoError(t, err)
	for i := 0; i < 7; i++ {
		_, err := svc.tasks.CreateTaskForUser(ctx, busy.ID, CreateUserTaskRequest{Title: "task", Priority: "LOW"})
		require.NoError(t, err)
	}

	users, err := svc.users.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	counts := map[uuid.UUID]int64{}
	for _, u := range users {
		require.NotNil(t, u.TaskCount)
		counts[u.ID] = *u.TaskCount
	}
	assert.Equal(t, int64(7), counts[busy.ID])
	assert.Equal(t, int64(0), counts[idle.ID])

	overview, err := svc.users.Dashboard(ctx)
	require.NoError(t, err)
	require.Len(t, overview, 2)
	for _, row := range overview {
		switch row.ID {
		case busy.ID:
			assert.Len(t, row.RecentTasks, dashboardRecentTasks)
		case idle.ID:
			assert.NotNil(t, row.RecentTasks)
			assert.Empty(t, row.RecentTasks)
		}
	}
}
