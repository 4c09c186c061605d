package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vietcharge/vietcharge/internal/apperrors"
	"github.com/vietcharge/vietcharge/internal/handlers/render"
	"github.com/vietcharge/vietcharge/internal/logger"
	"github.com/vietcharge/vietcharge/internal/models"
	"github.com/vietcharge/vietcharge/internal/service/user"
)

const refreshCookieName = "refreshToken"

type AuthHandler struct {
	authService authService
	userService userService
	logger      logger.Logger
}

func NewAuth(auth authService, users userService, l logger.Logger) *AuthHandler {
	return &AuthHandler{authService: auth, userService: users, logger: l}
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	type RegisterRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
		FullName string `json:"fullName" validate:"max=100"`
	}

	data, err := render.BindAndValidate[RegisterRequest](w, r)
	if err != nil {
		return
	}

	// Self-registration always produces a regular user.
	// Privileged roles are assigned through the admin user endpoints.
	created, err := h.userService.CreateUser(r.Context(), user.CreateUserParams{
		Email:    data.Email,
		Password: data.Password,
		FullName: data.FullName,
		Role:     models.RoleUser,
	})
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSONWithStatus(w, map[string]any{"user": created}, http.StatusCreated)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	type LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	type LoginResponse struct {
		User         models.UserDTO `json:"user"`
		AccessToken  string         `json:"accessToken"`
		RefreshToken string         `json:"refreshToken"`
		ExpiresIn    int            `json:"expiresIn"`
	}

	data, err := render.BindAndValidate[LoginRequest](w, r)
	if err != nil {
		return
	}

	result, err := h.authService.Login(r.Context(), data.Email, data.Password)
	if err != nil {
		render.Error(w, err)
		return
	}

	h.setRefreshCookie(w, r, result.Pair.Refresh.Value)
	render.JSON(w, LoginResponse{
		User:         result.User,
		AccessToken:  result.Pair.Access.Value,
		RefreshToken: result.Pair.Refresh.Value,
		ExpiresIn:    result.ExpiresIn,
	})
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	type RefreshResponse struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		ExpiresIn    int    `json:"expiresIn"`
	}

	token, ok := h.refreshFromRequest(r)
	if !ok {
		render.Error(w, apperrors.New(apperrors.KindAuth, "refresh token required", http.StatusUnauthorized))
		return
	}

	result, err := h.authService.Refresh(r.Context(), token)
	if err != nil {
		h.clearRefreshCookie(w, r)
		render.Error(w, err)
		return
	}

	h.setRefreshCookie(w, r, result.Pair.Refresh.Value)
	render.JSON(w, RefreshResponse{
		AccessToken:  result.Pair.Access.Value,
		RefreshToken: result.Pair.Refresh.Value,
		ExpiresIn:    result.ExpiresIn,
	})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	type LogoutResponse struct {
		Message string `json:"message"`
	}

	if token, ok := h.refreshFromRequest(r); ok {
		if err := h.authService.Logout(r.Context(), token); err != nil {
			h.logger.Warn("logout failed", "error", err)
		}
	}

	h.clearRefreshCookie(w, r)
	render.JSON(w, LogoutResponse{Message: "logged out"})
}

// refreshFromRequest looks for the refresh token in the cookie first,
// then in the JSON body. Clients without cookie support send it in the body.
func (h *AuthHandler) refreshFromRequest(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.RefreshToken != "" {
		return body.RefreshToken, true
	}

	return "", false
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, r *http.Request, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/api/v1/auth",
		MaxAge:   int(h.authService.RefreshTTL() / time.Second),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api/v1/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}
