package handlers

import (
	"dhrubfoundation/internal/config"
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/services"
	helpers "dhrubfoundation/internal/utils/helpres"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// PagesHandler отдаёт публичные данные сайта: сведения об организации,
// список членов из статического файла и приём сообщений контактной формы.
type PagesHandler struct {
	cfg *config.Config
}

func NewPagesHandler(cfg *config.Config) *PagesHandler {
	return &PagesHandler{cfg: cfg}
}

type member struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Photo    string `json:"photo,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Featured bool   `json:"featured,omitempty"`
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Home godoc
// @Summary Сведения об организации для главной страницы
// @Tags public
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/home [get]
func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, map[string]string{
		"organization":  h.cfg.UPIPayeeName,
		"contact_email": h.cfg.ContactEmail,
		"site_url":      h.cfg.SiteURL,
	})
}

// About godoc
// @Summary Описание организации
// @Tags public
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/about [get]
func (h *PagesHandler) About(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, map[string]string{
		"organization": h.cfg.UPIPayeeName,
		"mission":      "Некоммерческий фонд: поддержка образования и адресная помощь. Все пожертвования проходят ручную верификацию и попадают в открытый реестр.",
	})
}

// Members godoc
// @Summary Публичный список членов организации
// @Tags public
// @Produce json
// @Success 200 {array} member
// @Router /api/members [get]
func (h *PagesHandler) Members(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join("static", "data", "members.json")
	data, err := os.ReadFile(path)
	if err != nil {
		// файла может не быть на свежем развёртывании — отдаём пустой список
		logger.WithCtx(r.Context()).Warn("members.json недоступен", zap.Error(err))
		helpers.JSON(w, http.StatusOK, []member{})
		return
	}

	var members []member
	if err := json.Unmarshal(data, &members); err != nil {
		logger.WithCtx(r.Context()).Error("members.json повреждён", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка сервера")
		return
	}
	helpers.JSON(w, http.StatusOK, members)
}

// Contact godoc
// @Summary Сообщение из публичной контактной формы
// @Tags public
// @Accept json
// @Produce json
// @Param input body contactRequest true "Имя, email и текст сообщения"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]interface{} "Ошибки валидации"
// @Router /api/contact [post]
func (h *PagesHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	fields := services.ValidationErrors{}
	if req.Name == "" {
		fields["name"] = "имя обязательно"
	}
	if req.Email == "" {
		fields["email"] = "email обязателен"
	}
	if req.Message == "" {
		fields["message"] = "сообщение не может быть пустым"
	}
	if len(fields) > 0 {
		helpers.ValidationError(w, fields)
		return
	}

	if h.cfg.ContactEmail == "" {
		logger.WithCtx(r.Context()).Warn("CONTACT_EMAIL не задан, сообщение не доставлено")
		helpers.Error(w, http.StatusServiceUnavailable, "Приём сообщений временно недоступен")
		return
	}

	services.EmailQueue <- services.EmailJob{
		To:      []string{h.cfg.ContactEmail},
		Subject: "Сообщение с сайта от " + req.Name,
		Body:    helpers.BuildContactHTML(req.Name, req.Email, req.Message),
		IsHTML:  true,
	}

	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Сообщение отправлено"})
}
