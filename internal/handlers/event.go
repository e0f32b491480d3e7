package handlers

import (
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/middleware"
	"dhrubfoundation/internal/services"
	helpers "dhrubfoundation/internal/utils/helpres"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

type EventHandler struct {
	eventService *services.EventService
}

func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// Upcoming godoc
// @Summary Предстоящие события фонда
// @Tags events
// @Produce json
// @Success 200 {array} models.Event
// @Router /api/events [get]
func (h *EventHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.Upcoming(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("Ошибка выборки событий", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка сервера")
		return
	}
	helpers.JSON(w, http.StatusOK, events)
}

// Create godoc
// @Summary Создание события
// @Tags events
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body services.CreateEventInput true "Новое событие"
// @Success 201 {object} models.Event
// @Failure 400 {object} map[string]interface{} "Ошибки валидации"
// @Router /api/admin/events [post]
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req services.CreateEventInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	adminID, _ := middleware.AdminIDFromContext(r.Context())
	event, err := h.eventService.Create(r.Context(), &req, adminID, clientIP(r))
	if err != nil {
		var fields services.ValidationErrors
		if errors.As(err, &fields) {
			helpers.ValidationError(w, fields)
			return
		}
		logger.WithCtx(r.Context()).Error("Ошибка создания события", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка сервера")
		return
	}

	helpers.JSON(w, http.StatusCreated, event)
}
