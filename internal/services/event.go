package services

import (
	"context"
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/models"
	"strings"
	"time"

	"go.uber.org/zap"
)

type EventRepo interface {
	CreateEvent(ctx context.Context, e *models.Event) error
	ListUpcoming(ctx context.Context) ([]*models.Event, error)
}

type EventService struct {
	repo     EventRepo
	activity *ActivityService
}

func NewEventService(repo EventRepo, activity *ActivityService) *EventService {
	return &EventService{repo: repo, activity: activity}
}

// CreateEventInput — форма создания события. Дата приходит строкой
// в формате "2006-01-02 15:04".
type CreateEventInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
}

const eventDateLayout = "2006-01-02 15:04"

// Create валидирует форму и создаёт событие. Дата в прошлом допустима:
// такое событие просто не попадёт в публичный список предстоящих.
func (s *EventService) Create(ctx context.Context, input *CreateEventInput, adminID int, ip string) (*models.Event, error) {
	fields := ValidationErrors{}
	if strings.TrimSpace(input.Title) == "" {
		fields["title"] = "укажите название"
	}
	if strings.TrimSpace(input.Description) == "" {
		fields["description"] = "укажите описание"
	}
	if strings.TrimSpace(input.Location) == "" {
		fields["location"] = "укажите место проведения"
	}

	var date time.Time
	if input.Date == "" {
		fields["date"] = "укажите дату"
	} else {
		t, err := time.Parse(eventDateLayout, input.Date)
		if err != nil {
			fields["date"] = "дата должна быть в формате ГГГГ-ММ-ДД ЧЧ:ММ"
		} else {
			date = t
		}
	}

	if len(fields) > 0 {
		return nil, fields
	}

	e := &models.Event{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Date:        date,
		Location:    strings.TrimSpace(input.Location),
		CreatedBy:   adminID,
	}
	if err := s.repo.CreateEvent(ctx, e); err != nil {
		logger.Log.Error("Ошибка создания события (service)", zap.Error(err))
		return nil, err
	}

	s.activity.Record(ctx, adminID, "создано событие "+e.Title, ip)
	logger.Log.Info("Событие создано", zap.Int("event_id", e.ID), zap.Time("date", e.Date))
	return e, nil
}

func (s *EventService) Upcoming(ctx context.Context) ([]*models.Event, error) {
	return s.repo.ListUpcoming(ctx)
}
