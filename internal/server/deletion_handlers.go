package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/rs/zerolog/hlog"
)

type deleteUserRequest struct {
	Intent string `json:"intent"`
}

func (s *Server) deletionEligibilityHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "userID", "user")
	if !ok {
		return
	}

	eligibility, err := s.deletionPolicy.CheckDeletionEligibility(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err, "An error occurred while checking task status")
		return
	}

	respondWithJSON(w, r, http.StatusOK, eligibility)
}

// deleteUserHandler accepts the confirmation intent either as a JSON body
// or as an HTML form field. Nothing else in the request is trusted: the
// policy re-checks eligibility itself.
func (s *Server) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "userID", "user")
	if !ok {
		return
	}

	intent := readIntent(r)

	result, err := s.deletionPolicy.DeleteUser(r.Context(), id, intent)
	if err != nil {
		respondWithServiceError(w, r, err, "An error occurred while deleting the user")
		return
	}

	respondWithJSON(w, r, http.StatusOK, result)
}

// readIntent never rejects the request itself. A body it cannot read
// carries no intent, so an unknown user is still reported as not found.
func readIntent(r *http.Request) string {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		if err := r.ParseForm(); err != nil {
			hlog.FromRequest(r).Debug().Err(err).Msg("unreadable delete form")
			return ""
		}
		return r.PostForm.Get("intent")
	}

	var req deleteUserRequest
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		hlog.FromRequest(r).Debug().Err(err).Msg("unreadable delete body")
		return ""
	}
	return req.Intent
}
