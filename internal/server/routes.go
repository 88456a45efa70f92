package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/hlog"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(hlog.NewHandler(s.log))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Request-Id"},
		ExposedHeaders:   []string{"Link", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.helloWorldHandler)
	r.Get("/health", s.healthHandler)
	r.Get("/dashboard", s.dashboardHandler)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.createUserHandler)
		r.Get("/", s.listUsersHandler)
		r.Route("/{userID}", func(r chi.Router) {
			r.Get("/", s.getUserHandler)
			r.Put("/", s.updateUserHandler)
			r.Get("/tasks", s.listUserTasksHandler)
			r.Post("/tasks", s.createUserTaskHandler)
			r.Get("/deletion-eligibility", s.deletionEligibilityHandler)
			r.Post("/delete", s.deleteUserHandler)
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", s.createTaskHandler)
		r.Get("/", s.listTasksHandler)
		r.Route("/{taskID}", func(r chi.Router) {
			r.Get("/", s.getTaskHandler)
			r.Put("/", s.updateTaskHandler)
			r.Patch("/status", s.changeTaskStatusHandler)
			r.Delete("/", s.deleteTaskHandler)
		})
	})

	return r
}

func (s *Server) helloWorldHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, r, http.StatusOK, map[string]string{"message": "Taskboard backend is running"})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, r, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, r, http.StatusOK, healthStats)
}

func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	overview, err := s.userService.Dashboard(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to load dashboard")
		return
	}
	respondWithJSON(w, r, http.StatusOK, overview)
}
