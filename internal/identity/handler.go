package identity

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/campus-sentry/campus-sentry/internal/domain"
	"github.com/campus-sentry/campus-sentry/internal/pkg/ctxlog"
	"github.com/campus-sentry/campus-sentry/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// CookieSettings contains settings for the session cookie.
type CookieSettings struct {
	Secure        bool
	Domain        string
	TokenDuration time.Duration
}

// Handler handles HTTP requests for the identity module.
type Handler struct {
	service        *Service
	sessions       *Sessions
	validator      *validator.Validate
	cookieSettings CookieSettings
}

// NewHandler creates a new identity handler.
func NewHandler(service *Service, sessions *Sessions, cookieSettings CookieSettings) *Handler {
	return &Handler{
		service:        service,
		sessions:       sessions,
		validator:      validator.New(),
		cookieSettings: cookieSettings,
	}
}

// RegisterRoutes registers identity routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/signin", h.Signin)
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
	})
}

// SignupRequest represents signup request body.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// SignupResponse represents signup response.
type SignupResponse struct {
	Message string             `json:"message"`
	User    *domain.PublicUser `json:"user"`
}

// Signup handles POST /api/auth/signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "All fields are required")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "All fields are required")
		return
	}

	user, err := h.service.Signup(r.Context(), SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.JSON(w, http.StatusCreated, SignupResponse{
		Message: "User created successfully",
		User:    user,
	})
}

// SigninRequest represents signin request body.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SigninResponse represents signin response.
type SigninResponse struct {
	User *domain.PublicUser `json:"user"`
}

// Signin handles POST /api/auth/signin.
func (h *Handler) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, token, err := h.service.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	h.setSessionCookie(w, token)

	httputil.JSON(w, http.StatusOK, SigninResponse{User: user})
}

// Logout handles POST /api/auth/logout. Clearing the cookie is idempotent:
// it succeeds even when no session existed.
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.clearSessionCookie(w)
	httputil.JSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// Me handles GET /api/auth/me. This is the fully-verified path: no cookie,
// an expired token, and a tampered token all collapse to the same 401.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := h.sessions.CurrentUser(r)
	if claims == nil {
		httputil.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"user": domain.PublicUser{
			ID:    claims.ID,
			Name:  claims.Name,
			Email: claims.Email,
			Role:  claims.Role,
		},
	})
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Domain:   h.cookieSettings.Domain,
		MaxAge:   int(h.cookieSettings.TokenDuration.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSettings.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Domain:   h.cookieSettings.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSettings.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) handleServiceError(r *http.Request, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidRole):
		httputil.Error(w, http.StatusBadRequest, "Invalid role")
	case errors.Is(err, ErrEmailExists):
		// Surfaced as 400, matching the public API contract.
		httputil.Error(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, ErrInvalidCredentials):
		httputil.Error(w, http.StatusUnauthorized, "Invalid credentials")
	default:
		ctxlog.FromContext(r.Context()).Error("identity error", "error", err)
		httputil.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
