package handlers

import (
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/middleware"
	"dhrubfoundation/internal/services"
	helpers "dhrubfoundation/internal/utils/helpres"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type DonationHandler struct {
	donationService *services.DonationService
	exportService   *services.ExportService
	activityService *services.ActivityService
}

func NewDonationHandler(donationService *services.DonationService, exportService *services.ExportService, activityService *services.ActivityService) *DonationHandler {
	return &DonationHandler{
		donationService: donationService,
		exportService:   exportService,
		activityService: activityService,
	}
}

// Submit godoc
// @Summary Публичная форма пожертвования
// @Tags donations
// @Accept json
// @Produce json
// @Param input body services.SubmitDonationInput true "Данные пожертвования"
// @Success 201 {object} services.SubmitDonationResult
// @Failure 400 {object} map[string]interface{} "Ошибки валидации"
// @Router /api/donate [post]
func (h *DonationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req services.SubmitDonationInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Ошибка декодирования JSON в Submit", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	result, err := h.donationService.Submit(r.Context(), &req)
	if err != nil {
		var fields services.ValidationErrors
		switch {
		case errors.As(err, &fields):
			helpers.ValidationError(w, fields)
		case errors.Is(err, services.ErrArtifactGeneration):
			// генерация QR/счёта не удалась — записи нет, состояние чистое
			helpers.Error(w, http.StatusInternalServerError, err.Error())
		default:
			logger.WithCtx(r.Context()).Error("Ошибка создания пожертвования", zap.Error(err))
			helpers.Error(w, http.StatusInternalServerError, "Ошибка сервера")
		}
		return
	}

	helpers.JSON(w, http.StatusCreated, result)
}

// List godoc
// @Summary Список пожертвований с фильтрами и сводкой
// @Tags donations
// @Security ApiKeyAuth
// @Produce json
// @Param email query string false "Подстрока email"
// @Param provider query string false "Подстрока провайдера"
// @Param start_date query string false "Начало периода (YYYY-MM-DD)"
// @Param end_date query string false "Конец периода (YYYY-MM-DD, включительно)"
// @Success 200 {object} services.ListResult
// @Router /api/admin/donations [get]
func (h *DonationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &services.ListFilters{
		Email:     q.Get("email"),
		Provider:  q.Get("provider"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}

	result, err := h.donationService.List(r.Context(), filters)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка выборки пожертвований", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка сервера")
		return
	}
	helpers.JSON(w, http.StatusOK, result)
}

// ToggleVerification godoc
// @Summary Переключить верификацию пожертвования
// @Tags donations
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID пожертвования"
// @Success 200 {object} models.Donation
// @Failure 404 {string} string "Не найдено"
// @Router /api/admin/donations/{id}/verify [patch]
func (h *DonationHandler) ToggleVerification(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный ID")
		return
	}

	adminID, _ := middleware.AdminIDFromContext(r.Context())
	d, err := h.donationService.ToggleVerification(r.Context(), id, adminID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			helpers.Error(w, http.StatusNotFound, err.Error())
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка переключения верификации", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка сервера")
		return
	}

	state := "снята"
	if d.IsVerified {
		state = "установлена"
	}
	h.activityService.Record(r.Context(), adminID, fmt.Sprintf("верификация пожертвования #%d %s", id, state), clientIP(r))

	helpers.JSON(w, http.StatusOK, d)
}

// Export godoc
// @Summary Экспорт реестра пожертвований
// @Tags donations
// @Security ApiKeyAuth
// @Produce octet-stream
// @Param format query string true "csv или excel"
// @Success 200 {file} file
// @Failure 400 {string} string "Неподдерживаемый формат"
// @Failure 404 {string} string "Нет данных для экспорта"
// @Router /api/admin/donations/export [get]
func (h *DonationHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")

	path, err := h.exportService.Export(r.Context(), format)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnsupportedFormat):
			helpers.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrNothingToExport):
			// пустой реестр — явный сигнал, а не пустой файл
			helpers.Error(w, http.StatusNotFound, err.Error())
		default:
			logger.WithCtx(r.Context()).Error("Ошибка экспорта", zap.Error(err))
			helpers.Error(w, http.StatusInternalServerError, "Ошибка сервера")
		}
		return
	}

	adminID, _ := middleware.AdminIDFromContext(r.Context())
	h.activityService.Record(r.Context(), adminID, "экспорт реестра ("+format+")", clientIP(r))

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}
