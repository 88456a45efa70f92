package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/Tomlord1122/taskboard-backend/internal/service"
)

const maxBodyBytes = 1 << 20

// pendingTasksResponse is the 400 body of a blocked user deletion.
type pendingTasksResponse struct {
	Error string `json:"error"`
	service.Eligibility
}

// decodeJSON strictly decodes the request body into dst. On failure it
// writes a 400 response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	err := decoder.Decode(dst)
	if err == nil {
		return true
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
		respondWithError(w, r, http.StatusBadRequest, msg)
	case errors.Is(err, io.ErrUnexpectedEOF):
		respondWithError(w, r, http.StatusBadRequest, "Request body contains badly-formed JSON")
	case errors.As(err, &unmarshalTypeError):
		msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
		respondWithError(w, r, http.StatusBadRequest, msg)
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
		respondWithError(w, r, http.StatusBadRequest, fmt.Sprintf("Request body contains unknown field %s", fieldName))
	case errors.Is(err, io.EOF):
		respondWithError(w, r, http.StatusBadRequest, "Request body must not be empty")
	case errors.As(err, &maxBytesError):
		respondWithError(w, r, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body must not be larger than %d bytes", maxBytesError.Limit))
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("decoding request body")
		respondWithError(w, r, http.StatusBadRequest, "Invalid request body")
	}
	return false
}

// parseIDParam reads a UUID path parameter, writing a 400 when it is malformed.
func parseIDParam(w http.ResponseWriter, r *http.Request, param, entity string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		respondWithError(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid %s ID provided", entity))
		return uuid.Nil, false
	}
	return id, true
}

// respondWithServiceError maps service errors onto HTTP status codes.
// Unexpected errors are logged and answered with fallback.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var pending *service.PendingTasksError
	switch {
	case errors.As(err, &pending):
		respondWithJSON(w, r, http.StatusBadRequest, pendingTasksResponse{
			Error:       "Cannot delete user with pending tasks",
			Eligibility: pending.Eligibility,
		})
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrTaskNotFound):
		respondWithError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrMissingIntent):
		respondWithError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		respondWithError(w, r, http.StatusConflict, err.Error())
	default:
		hlog.FromRequest(r).Error().Err(err).Msg(fallback)
		respondWithError(w, r, http.StatusInternalServerError, fallback)
	}
}

func respondWithError(w http.ResponseWriter, r *http.Request, code int, message string) {
	respondWithJSON(w, r, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, r *http.Request, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("marshaling JSON response")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
