package api

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"

	"github.com/wowauth/authd/internal/api/middleware"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// handleLogin issues a bearer token for the single configured admin
// identity. There is no per-admin account store; admin_username and
// admin_password in the server configuration are the entire credential
// surface.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil {
		middleware.WriteJSONError(w, &middleware.ErrorResponse{Code: middleware.ErrCodeInvalidRequest, Message: "malformed request body"}, http.StatusBadRequest)
		return
	}

	if !constantTimeEquals(req.Username, s.adminUsername) || !constantTimeEquals(req.Password, s.adminPassword) {
		middleware.WriteJSONError(w, middleware.NewUnauthorizedError(), http.StatusUnauthorized)
		return
	}

	token, err := s.tokens.Issue(req.Username)
	if err != nil {
		s.log.Error("issuing admin token", map[string]any{"error": err.Error()})
		middleware.WriteJSONError(w, middleware.NewSystemError("could not issue token"), http.StatusInternalServerError)
		return
	}

	middleware.WriteJSON(w, loginResponse{Token: token}, http.StatusOK)
}

func constantTimeEquals(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
