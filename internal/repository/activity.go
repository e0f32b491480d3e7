package repository

import (
	"context"
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ActivityRepository struct {
	db *pgxpool.Pool
}

func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// CreateActivity — только INSERT: журнал append-only,
// UPDATE/DELETE по этой таблице не существует.
func (r *ActivityRepository) CreateActivity(ctx context.Context, a *models.AdminActivity) error {
	query := `
	INSERT INTO admin_activity (admin_id, activity, ip_address)
	VALUES ($1, $2, $3)
	RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, a.AdminID, a.Activity, a.IPAddress).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		logger.Log.Error("Ошибка записи активности (repo)", zap.Error(err), zap.Int("admin_id", a.AdminID))
	}
	return err
}

func (r *ActivityRepository) ListRecent(ctx context.Context, limit int) ([]*models.AdminActivity, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
	SELECT id, admin_id, activity, ip_address, created_at
	FROM admin_activity
	ORDER BY created_at DESC
	LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		logger.Log.Error("Ошибка выборки активности (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var list []*models.AdminActivity
	for rows.Next() {
		var a models.AdminActivity
		if err := rows.Scan(&a.ID, &a.AdminID, &a.Activity, &a.IPAddress, &a.CreatedAt); err != nil {
			logger.Log.Error("Ошибка сканирования активности (repo)", zap.Error(err))
			return nil, err
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
