package repository

import (
	"context"
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type EventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) CreateEvent(ctx context.Context, e *models.Event) error {
	query := `
	INSERT INTO events (title, description, date, location, created_by)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, e.Title, e.Description, e.Date, e.Location, e.CreatedBy).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		logger.Log.Error("Ошибка создания события (repo)", zap.Error(err))
	}
	return err
}

// ListUpcoming — предстоящие события, ближайшие первыми.
func (r *EventRepository) ListUpcoming(ctx context.Context) ([]*models.Event, error) {
	query := `
	SELECT id, title, description, date, location, created_by, created_at
	FROM events
	WHERE date >= now()
	ORDER BY date ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		logger.Log.Error("Ошибка выборки событий (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var list []*models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
