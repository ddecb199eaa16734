package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/msomdec/finance-tracker/internal/service"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth         *service.AuthService
	categories   *service.CategoryService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, categories *service.CategoryService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, categories: categories, cookieSecure: cookieSecure}
}

// HandleRegister processes a JSON registration request and seeds the new
// account's default categories.
// POST /api/auth/register
// Request:  {"username":"...","email":"...","password":"...","firstName":"...","lastName":"..."}
// Response: 201 {"userId": 1, "message": "..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// The account exists at this point; a seeding failure only costs the
	// user the starter categories, and a later call can fill them in.
	if n, err := h.categories.SeedDefaults(r.Context(), user.ID); err != nil {
		slog.ErrorContext(r.Context(), "seed default categories", "user_id", user.ID, "error", err)
	} else {
		slog.InfoContext(r.Context(), "user registered", "user_id", user.ID, "default_categories", n)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"userId":  user.ID,
		"message": "User registered successfully",
	})
}

// HandleLogin processes a JSON login request. The token is returned in the
// body for bearer use and also set as an HttpOnly cookie.
// POST /api/auth/login
// Request:  {"username":"...","password":"..."}
// Response: {"token":"...","type":"Bearer","expiresAt":"...","user":{...}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	res, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    res.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  res.ExpiresAt,
		MaxAge:   max(int(time.Until(res.ExpiresAt).Seconds()), 1),
	})

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     res.Token,
		Type:      "Bearer",
		ExpiresAt: res.ExpiresAt.UTC().Format(time.RFC3339),
		User:      res.Principal,
	})
}

// HandleLogout clears the auth cookie. Bearer tokens stay valid until they
// expire; clients discard them.
// POST /api/auth/logout
// Response: 204 No Content
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the currently authenticated principal.
// GET /api/auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
