package handlers

import (
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/middleware"
	"dhrubfoundation/internal/models"
	"dhrubfoundation/internal/services"
	helpers "dhrubfoundation/internal/utils/helpres"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type AdminHandler struct {
	adminService    *services.AdminService
	donationService *services.DonationService
	activityService *services.ActivityService
	mediaService    *services.MediaService
}

func NewAdminHandler(adminService *services.AdminService, donationService *services.DonationService, activityService *services.ActivityService, mediaService *services.MediaService) *AdminHandler {
	return &AdminHandler{
		adminService:    adminService,
		donationService: donationService,
		activityService: activityService,
		mediaService:    mediaService,
	}
}

type createAdminRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// GetAdmins godoc
// @Summary Список админов
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.Admin
// @Router /api/admin/admins [get]
func (h *AdminHandler) GetAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.adminService.ListAdmins(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка получения админов", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка сервера")
		return
	}
	helpers.JSON(w, http.StatusOK, admins)
}

// CreateAdmin godoc
// @Summary Создание админа
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body createAdminRequest true "Новая учётка"
// @Success 201 {object} models.Admin
// @Failure 400 {string} string "Ошибка валидации"
// @Failure 409 {string} string "username или email уже заняты"
// @Router /api/admin/admins [post]
func (h *AdminHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req createAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	actorID, _ := middleware.AdminIDFromContext(r.Context())
	admin, err := h.adminService.CreateAdmin(r.Context(), req.Username, req.Email, req.Password, req.Role, req.IsActive, actorID, clientIP(r))
	if err != nil {
		writeAdminError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, admin)
}

// UpdateAdmin godoc
// @Summary Редактирование админа
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID админа"
// @Param input body models.UpdateAdminRequest true "Изменяемые поля"
// @Success 200 {string} string "Обновлено"
// @Failure 404 {string} string "Не найден"
// @Router /api/admin/admins/{id} [patch]
func (h *AdminHandler) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный ID")
		return
	}

	var req models.UpdateAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	actorID, _ := middleware.AdminIDFromContext(r.Context())
	if err := h.adminService.EditAdmin(r.Context(), id, &req, actorID, clientIP(r)); err != nil {
		writeAdminError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Обновлено")
}

// ToggleActive godoc
// @Summary Включение/отключение учётки
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID админа"
// @Success 200 {object} map[string]bool
// @Failure 400 {string} string "Нельзя отключить себя"
// @Failure 404 {string} string "Не найден"
// @Router /api/admin/admins/{id}/toggle [patch]
func (h *AdminHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный ID")
		return
	}

	actorID, _ := middleware.AdminIDFromContext(r.Context())
	active, err := h.adminService.ToggleActive(r.Context(), id, actorID, clientIP(r))
	if err != nil {
		writeAdminError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, map[string]bool{"is_active": active})
}

// Dashboard godoc
// @Summary Сводка для дашборда
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/dashboard [get]
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.donationService.List(r.Context(), nil)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка сводки пожертвований", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка сервера")
		return
	}

	activity, err := h.activityService.Recent(r.Context(), 10)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("Не удалось получить журнал для дашборда", zap.Error(err))
	}

	// счётчики некритичны: сбой не роняет дашборд
	adminCount := 0
	if admins, err := h.adminService.ListAdmins(r.Context()); err == nil {
		adminCount = len(admins)
	}
	mediaCount := 0
	if media, err := h.mediaService.List(r.Context()); err == nil {
		mediaCount = len(media)
	}

	helpers.JSON(w, http.StatusOK, map[string]any{
		"summary":         result.Summary,
		"admin_count":     adminCount,
		"media_count":     mediaCount,
		"recent_activity": activity,
	})
}

// Activity godoc
// @Summary Журнал действий админов
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.AdminActivity
// @Router /api/admin/activity [get]
func (h *AdminHandler) Activity(w http.ResponseWriter, r *http.Request) {
	logs, err := h.activityService.Recent(r.Context(), 100)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, "Ошибка сервера")
		return
	}
	helpers.JSON(w, http.StatusOK, logs)
}

// writeAdminError переводит доменные ошибки в HTTP-статусы.
func writeAdminError(w http.ResponseWriter, r *http.Request, err error) {
	var fields services.ValidationErrors
	switch {
	case errors.As(err, &fields):
		helpers.ValidationError(w, fields)
	case errors.Is(err, services.ErrDuplicate):
		helpers.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrSelfModification):
		helpers.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		helpers.Error(w, http.StatusNotFound, err.Error())
	default:
		logger.WithCtx(r.Context()).Error("Внутренняя ошибка админ-операции", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка сервера")
	}
}
