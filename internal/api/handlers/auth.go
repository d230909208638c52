package handlers

import (
	"net/http"
	"time"

	"github.com/HndrkDrs/WeekWise/internal/api/middleware"
	"github.com/HndrkDrs/WeekWise/internal/service"
)

// LoginRequest carries the admin password.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries the session token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// PasswordRequest changes the admin password.
type PasswordRequest struct {
	Current string `json:"current"`
	New     string `json:"new"`
}

// SessionResponse describes the caller's session.
type SessionResponse struct {
	Authenticated bool `json:"authenticated"`
	Configured    bool `json:"configured"`
}

// Login checks the password and returns a session token.
func Login(p *service.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		token, exp, err := p.Login(req.Password)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: exp})
	}
}

// Session reports whether the request is authenticated.
func Session(p *service.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, SessionResponse{
			Authenticated: middleware.IsAdmin(r),
			Configured:    p.Configured(),
		})
	}
}

// ChangePassword sets a new admin password. Every open session, including
// the caller's, ends with it.
func ChangePassword(p *service.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PasswordRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := p.ChangePassword(r.Context(), req.Current, req.New); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	}
}
