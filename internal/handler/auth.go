package handler

import (
	"net/http"

	"github.com/tripplanner/backend/internal/service"
)

// Register handles POST /auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var body RegisterRequest
	if !decodeBody(w, r, &body) {
		return
	}
	pair, err := s.auth.Register(r.Context(), service.Registration{
		Email:    string(body.Email),
		Password: body.Password,
		FullName: body.FullName,
		Phone:    body.Phone,
	})
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, tokensToResponse(pair))
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body LoginRequest
	if !decodeBody(w, r, &body) {
		return
	}
	pair, err := s.auth.Login(r.Context(), string(body.Email), body.Password)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, tokensToResponse(pair))
}

// Refresh handles POST /auth/refresh.
func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	var body RefreshRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.RefreshToken == "" {
		requestError(w, "refresh_token is required")
		return
	}
	pair, err := s.auth.Refresh(r.Context(), body.RefreshToken)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, tokensToResponse(pair))
}

// Me handles GET /auth/me.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	user, err := s.auth.Me(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err, "user")
		return
	}
	writeJSON(w, http.StatusOK, userToResponse(user))
}
