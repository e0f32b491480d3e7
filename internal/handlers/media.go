package handlers

import (
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/middleware"
	"dhrubfoundation/internal/services"
	helpers "dhrubfoundation/internal/utils/helpres"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// предел размера multipart-запроса, 10 МБ хватает для фотографий галереи
const maxUploadSize = 10 << 20

type MediaHandler struct {
	mediaService *services.MediaService
}

func NewMediaHandler(mediaService *services.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// Upload godoc
// @Summary Загрузка изображения в галерею
// @Tags media
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Изображение"
// @Success 201 {object} models.MediaFile
// @Failure 400 {object} map[string]interface{} "Недопустимый файл"
// @Router /api/admin/media [post]
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Не удалось разобрать форму")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Файл не передан")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка чтения загружаемого файла", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка сервера")
		return
	}

	adminID, _ := middleware.AdminIDFromContext(r.Context())
	m, err := h.mediaService.Upload(r.Context(), header.Filename, data, adminID, clientIP(r))
	if err != nil {
		var fields services.ValidationErrors
		if errors.As(err, &fields) {
			helpers.ValidationError(w, fields)
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка загрузки медиафайла", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка сервера")
		return
	}

	helpers.JSON(w, http.StatusCreated, m)
}

// Delete godoc
// @Summary Удаление изображения из галереи
// @Tags media
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID файла"
// @Success 200 {object} map[string]string
// @Failure 404 {string} string "Не найдено"
// @Router /api/admin/media/{id} [delete]
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный ID")
		return
	}

	adminID, _ := middleware.AdminIDFromContext(r.Context())
	if err := h.mediaService.Delete(r.Context(), id, adminID, clientIP(r)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			helpers.Error(w, http.StatusNotFound, err.Error())
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка удаления медиафайла", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка сервера")
		return
	}

	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Файл удалён"})
}

// Gallery godoc
// @Summary Публичный список изображений галереи
// @Tags media
// @Produce json
// @Success 200 {array} models.MediaFile
// @Router /api/gallery [get]
func (h *MediaHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	list, err := h.mediaService.List(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка выборки галереи", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка сервера")
		return
	}
	helpers.JSON(w, http.StatusOK, list)
}
