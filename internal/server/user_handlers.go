package server

import (
	"net/http"

	"github.com/Tomlord1122/taskboard-backend/internal/service"
)

func (s *Server) createUserHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.userService.CreateUser(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to create user")
		return
	}

	respondWithJSON(w, r, http.StatusCreated, user)
}

func (s *Server) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := s.userService.ListUsers(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to fetch users")
		return
	}

	respondWithJSON(w, r, http.StatusOK, users)
}

func (s *Server) getUserHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "userID", "user")
	if !ok {
		return
	}

	user, err := s.userService.GetUser(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to fetch user")
		return
	}

	respondWithJSON(w, r, http.StatusOK, user)
}

func (s *Server) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "userID", "user")
	if !ok {
		return
	}

	var req service.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.userService.UpdateUser(r.Context(), id, req)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to update user")
		return
	}

	respondWithJSON(w, r, http.StatusOK, user)
}

func (s *Server) listUserTasksHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "userID", "user")
	if !ok {
		return
	}

	tasks, err := s.taskService.ListUserTasks(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to fetch user tasks")
		return
	}

	respondWithJSON(w, r, http.StatusOK, tasks)
}

func (s *Server) createUserTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "userID", "user")
	if !ok {
		return
	}

	var req service.CreateUserTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := s.taskService.CreateTaskForUser(r.Context(), id, req)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to create task")
		return
	}

	respondWithJSON(w, r, http.StatusCreated, task)
}
