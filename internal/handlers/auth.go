package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/padmamangal/padmamangal-backend/internal/models"
	"github.com/padmamangal/padmamangal-backend/internal/services"
)

type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse mirrors the shape the frontend's auth screens consume.
type AuthResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	User    map[string]interface{} `json:"user,omitempty"`
	Token   string                 `json:"token,omitempty"`
}

// Auth serves signup, signin, signout and the current-user lookup
// against the Postgres account store and Redis sessions.
type Auth struct {
	Accounts *services.Accounts
	Sessions *services.Sessions
}

// Signup handles user registration.
func (h *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	account, err := h.Accounts.SignUp(r.Context(), req.Email, req.Password, req.DisplayName, req.PhoneNumber)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	token, err := h.Sessions.Create(r.Context(), account.ID)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Account created successfully",
		User:    accountMap(account),
		Token:   token,
	})
}

// Signin handles email/password login.
func (h *Auth) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	account, err := h.Accounts.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	token, err := h.Sessions.Create(r.Context(), account.ID)
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Signed in successfully",
		User:    accountMap(account),
		Token:   token,
	})
}

// Signout invalidates the presented session token.
func (h *Auth) Signout(w http.ResponseWriter, r *http.Request) {
	token := RequestToken(r)
	if token == "" {
		http.Error(w, "missing session token", http.StatusUnauthorized)
		return
	}
	if err := h.Sessions.Invalidate(r.Context(), token); err != nil {
		http.Error(w, "Failed to sign out", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Signed out"})
}

// Me returns the account behind the presented session token.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	account, err := h.Accounts.GetByID(r.Context(), userID)
	if err != nil {
		http.Error(w, "Account not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "OK", User: accountMap(account)})
}

func (h *Auth) authenticate(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	token := RequestToken(r)
	if token == "" {
		http.Error(w, "missing session token", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	userID, ok, err := h.Sessions.Validate(r.Context(), token)
	if err != nil || !ok {
		http.Error(w, "invalid session token", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	return userID, true
}

// RequestToken pulls the session token from the Authorization header,
// falling back to the token query parameter for browser WebSocket
// clients that cannot set headers.
func RequestToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

func writeAuthError(w http.ResponseWriter, err error) {
	code := services.AuthErrorCode(err)
	if code == "" {
		http.Error(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
		return
	}
	writeJSON(w, authStatus(code), AuthResponse{
		Success: false,
		Message: services.AuthMessage(code, err.Error()),
		Code:    code,
	})
}

func authStatus(code string) int {
	switch code {
	case services.CodeInvalidEmail, services.CodeWeakPassword:
		return http.StatusBadRequest
	case services.CodeUserNotFound:
		return http.StatusNotFound
	case services.CodeWrongPassword, services.CodeUserDisabled:
		return http.StatusUnauthorized
	case services.CodeEmailAlreadyInUse:
		return http.StatusConflict
	case services.CodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}

func accountMap(a *models.Account) map[string]interface{} {
	return map[string]interface{}{
		"id":           a.ID.String(),
		"email":        a.Email,
		"display_name": a.DisplayName,
		"photo_url":    a.PhotoURL,
		"phone_number": a.PhoneNumber,
		"created_at":   a.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
