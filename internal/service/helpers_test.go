package service

import (
	"testing"

	"gorm.io/gorm"

	"github.com/Tomlord1122/taskboard-backend/internal/database/dbtest"
	"github.com/Tomlord1122/taskboard-backend/internal/repository"
)

type testServices struct {
	db       *gorm.DB
	users    UserService
	tasks    TaskService
	deletion DeletionPolicy
}

func setupServices(t *testing.T) *testServices {
	t.Helper()
	db := dbtest.Open(t)
	userRepo := repository.NewGormUserRepository(db)
	taskRepo := repository.NewGormTaskRepository(db)
	return &testServices{
		db:       db,
		users:    NewUserService(userRepo, taskRepo),
		tasks:    NewTaskService(taskRepo, userRepo),
		deletion: NewDeletionPolicy(repository.NewGormStore(db)),
	}
}
