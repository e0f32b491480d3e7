package handlers

import (
	"dhrubfoundation/internal/config"
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/services"
	helpers "dhrubfoundation/internal/utils/helpres"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}

// Login godoc
// @Summary Вход админа
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginRequest true "Данные для входа"
// @Success 200 {object} loginResponse
// @Failure 401 {string} string "Неверный логин или пароль"
// @Router /api/admin/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в Login", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	ttl, err := time.ParseDuration(h.cfg.AccessTokenTTL)
	if err != nil {
		ttl = 15 * time.Minute
	}

	token, admin, err := h.authService.Login(r.Context(), req.Username, req.Password, h.cfg.JWTSecret, ttl, clientIP(r))
	if err != nil {
		// отключённая учётка отдаёт свой текст — текущее поведение,
		// отмечено как enumeration gap
		if errors.Is(err, services.ErrAccountDisabled) {
			helpers.Error(w, http.StatusUnauthorized, err.Error())
			return
		}
		helpers.Error(w, http.StatusUnauthorized, services.ErrInvalidCredentials.Error())
		return
	}

	helpers.JSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		Username:    admin.Username,
		Role:        admin.Role,
	})
}

// clientIP — IP клиента с учётом прокси.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
