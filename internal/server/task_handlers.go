package server

import (
	"net/http"

	"github.com/Tomlord1122/taskboard-backend/internal/service"
)

type changeStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := s.taskService.CreateTask(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to create task")
		return
	}

	respondWithJSON(w, r, http.StatusCreated, task)
}

func (s *Server) listTasksHandler(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.taskService.ListTasks(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to retrieve tasks")
		return
	}

	respondWithJSON(w, r, http.StatusOK, tasks)
}

func (s *Server) getTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "taskID", "task")
	if !ok {
		return
	}

	task, err := s.taskService.GetTask(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to retrieve task")
		return
	}

	respondWithJSON(w, r, http.StatusOK, task)
}

func (s *Server) updateTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "taskID", "task")
	if !ok {
		return
	}

	var req service.UpdateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := s.taskService.UpdateTask(r.Context(), id, req)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to update task")
		return
	}

	respondWithJSON(w, r, http.StatusOK, task)
}

func (s *Server) changeTaskStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "taskID", "task")
	if !ok {
		return
	}

	var req changeStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := s.taskService.ChangeStatus(r.Context(), id, req.Status)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to change task status")
		return
	}

	respondWithJSON(w, r, http.StatusOK, task)
}

func (s *Server) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "taskID", "task")
	if !ok {
		return
	}

	if err := s.taskService.DeleteTask(r.Context(), id); err != nil {
		respondWithServiceError(w, r, err, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
