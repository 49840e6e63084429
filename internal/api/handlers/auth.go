package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hugh/go-rental/internal/api/dto"
	"github.com/hugh/go-rental/internal/api/middleware"
	"github.com/hugh/go-rental/internal/auth"
	"github.com/hugh/go-rental/internal/metrics"
)

type AuthHandler struct {
	authService  *auth.Service
	logger       *slog.Logger
	secureCookie bool
	cookieMaxAge int
}

func NewAuthHandler(authService *auth.Service, logger *slog.Logger, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		logger:       logger,
		secureCookie: secureCookie,
		cookieMaxAge: 86400,
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	h.setSessionCookie(w, "", -1)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		// Disabled accounts get the same answer as a bad password.
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid credentials"})
		case errors.Is(err, auth.ErrInactiveUser):
			metrics.LoginsTotal.WithLabelValues("inactive").Inc()
			h.logger.Info("login refused for inactive account", "email", auth.NormalizeEmail(req.Email))
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid credentials"})
		default:
			metrics.LoginsTotal.WithLabelValues("error").Inc()
			h.logger.Error("login failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Login failed"})
		}
		return
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.logger.Info("user logged in", "user_id", resp.User.ID)
	h.setSessionCookie(w, resp.Token, h.cookieMaxAge)

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Token: resp.Token,
		User:  dto.NewUserDTO(resp.User),
	})
}

// Logout handles POST /api/v1/auth/logout. Tokens are stateless; logging out
// only drops the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Logged out"})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	writeJSON(w, http.StatusOK, dto.NewUserDTO(user))
}

// UpdateMe handles PUT /api/v1/auth/me
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req dto.ProfileRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), middleware.GetUserID(r.Context()), auth.ProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		writeServiceError(w, h.logger, err, "User")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserDTO(user))
}

// Register handles POST /api/v1/auth/register. Only administrators reach it.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, err := h.authService.Register(r.Context(), req.Input())
	if err != nil {
		writeServiceError(w, h.logger, err, "User")
		return
	}

	h.logger.Info("user registered",
		"user_id", user.ID,
		"by", middleware.GetUserID(r.Context()),
		"admin", user.IsAdmin,
	)
	writeJSON(w, http.StatusCreated, dto.NewUserDTO(user))
}

// ChangePassword handles POST /api/v1/auth/change-password. The session ends
// on success so the next login mints a token without the rotation flag.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangePasswordRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	userID := middleware.GetUserID(r.Context())
	err := h.authService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Details: map[string]string{"current_password": "Current password is incorrect"},
		})
		return
	case errors.Is(err, auth.ErrSamePassword):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Details: map[string]string{"new_password": "New password must differ from the current one"},
		})
		return
	default:
		writeServiceError(w, h.logger, err, "User")
		return
	}

	h.logger.Info("password changed", "user_id", userID)
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, dto.ChangePasswordResponse{
		Message:         "Password changed, please log in again",
		ReloginRequired: true,
	})
}
