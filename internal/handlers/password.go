package handlers

import (
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/services"
	helpers "dhrubfoundation/internal/utils/helpres"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

type PasswordHandler struct {
	adminService *services.AdminService
}

func NewPasswordHandler(adminService *services.AdminService) *PasswordHandler {
	return &PasswordHandler{adminService: adminService}
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Forgot godoc
// @Summary Запрос ссылки для сброса пароля
// @Tags auth
// @Accept json
// @Produce json
// @Param input body forgotPasswordRequest true "Email администратора"
// @Success 200 {object} map[string]string
// @Failure 404 {string} string "Email не найден"
// @Router /api/password/forgot [post]
func (h *PasswordHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	if req.Email == "" {
		helpers.Error(w, http.StatusBadRequest, "Email обязателен")
		return
	}

	if err := h.adminService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		if errors.Is(err, services.ErrEmailNotFound) {
			helpers.Error(w, http.StatusNotFound, err.Error())
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка запроса сброса пароля", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка сервера")
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Письмо со ссылкой для сброса отправлено"})
}

// Reset godoc
// @Summary Установка нового пароля по токену
// @Tags auth
// @Accept json
// @Produce json
// @Param input body resetPasswordRequest true "Токен и новый пароль"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]interface{} "Ошибки валидации или невалидный токен"
// @Router /api/password/reset [post]
func (h *PasswordHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}
	if req.Token == "" {
		helpers.Error(w, http.StatusBadRequest, "Токен обязателен")
		return
	}

	if err := h.adminService.ConsumeReset(r.Context(), req.Token, req.Password); err != nil {
		var fields services.ValidationErrors
		switch {
		case errors.As(err, &fields):
			helpers.ValidationError(w, fields)
		case errors.Is(err, services.ErrInvalidOrExpiredToken):
			helpers.Error(w, http.StatusBadRequest, err.Error())
		default:
			logger.WithCtx(r.Context()).Error("Ошибка сброса пароля", zap.Error(err))
			helpers.Error(w, http.StatusInternalServerError, "Ошибка сервера")
		}
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Пароль обновлён"})
}
