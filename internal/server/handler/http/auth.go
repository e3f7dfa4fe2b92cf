// Package http provides HTTP handlers for user authentication and the
// classification API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avdeyev/burnscan/internal/models"
	"go.uber.org/zap"
)

// AuthService defines the authentication operations required by the HTTP
// handlers.
type AuthService interface {
	// Register creates a new user and returns its id.
	Register(ctx context.Context, username, password string) (int64, error)
	// Login verifies credentials and returns a bearer token plus user id.
	Login(ctx context.Context, username, password string) (string, int64, error)
}

// AuthHandler handles HTTP requests for user registration and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Log records internal failure detail that is never returned to callers.
	Log *zap.Logger
}

// credentialsRequest represents the JSON payload for login and registration.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /login requests.
// It expects a JSON body with "username" and "password" and responds with an
// access token, its type, and the user id. Invalid credentials yield 401
// with a safe message.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	token, userID, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.Log.Error("login failed", zap.String("username", req.Username), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"user_id":      userID,
	})
}

// Register handles POST /register requests.
// It expects a JSON body with a non-empty "username" and "password". A taken
// username or otherwise bad input yields 400.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	userID, err := h.AuthService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUsernameTaken):
			http.Error(w, "username already exists", http.StatusBadRequest)
		case errors.Is(err, models.ErrInvalidCredentials):
			http.Error(w, "invalid request", http.StatusBadRequest)
		default:
			h.Log.Error("registration failed", zap.String("username", req.Username), zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User registered successfully",
		"user_id": userID,
	})
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
