package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Tomlord1122/taskboard-backend/internal/config"
	"github.com/Tomlord1122/taskboard-backend/internal/database"
	"github.com/Tomlord1122/taskboard-backend/internal/service"
)

type Server struct {
	port           int
	allowedOrigins []string
	log            zerolog.Logger

	userService    service.UserService
	taskService    service.TaskService
	deletionPolicy service.DeletionPolicy
	db             database.Service
}

// Services groups the business services the HTTP layer depends on.
type Services struct {
	Users    service.UserService
	Tasks    service.TaskService
	Deletion service.DeletionPolicy
}

func NewServer(cfg config.ServerConfig, services Services, dbService database.Service, log zerolog.Logger) *http.Server {
	appServer := &Server{
		port:           cfg.Port,
		allowedOrigins: cfg.AllowedOrigins,
		log:            log,
		userService:    services.Users,
		taskService:    services.Tasks,
		deletionPolicy: services.Deletion,
		db:             dbService,
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", appServer.port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
