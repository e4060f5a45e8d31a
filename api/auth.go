package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/garnizeh/rentals/internal/service"
)

type AuthHandler struct {
	auth          *service.AuthService
	jwtSecret     string
	tokenDuration time.Duration
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(auth *service.AuthService, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

type userResponse struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	IsLoggedIn bool   `json:"isLoggedIn"`
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation", "Invalid request")
		return req, false
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "validation", "Missing fields")
		return req, false
	}
	return req, true
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	u, err := h.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, userResponse{ID: u.ID, Username: u.Username})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	u, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// Issue JWT
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": u.Username,
		"uid": u.ID,
		"exp": time.Now().Add(h.tokenDuration).Unix(),
	})
	tokenStr, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "Error signing token")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: tokenStr})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	username, ok := UsernameFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "credentials", "Missing subject")
		return
	}
	if err := h.auth.Logout(r.Context(), username); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	username, ok := UsernameFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "credentials", "Missing subject")
		return
	}
	u, err := h.auth.User(r.Context(), username)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{ID: u.ID, Username: u.Username, IsLoggedIn: u.IsLoggedIn})
}
