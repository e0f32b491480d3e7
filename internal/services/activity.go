package services

import (
	"context"
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/models"

	"go.uber.org/zap"
)

type ActivityRepo interface {
	CreateActivity(ctx context.Context, a *models.AdminActivity) error
	ListRecent(ctx context.Context, limit int) ([]*models.AdminActivity, error)
}

type ActivityService struct {
	repo ActivityRepo
}

func NewActivityService(repo ActivityRepo) *ActivityService {
	return &ActivityService{repo: repo}
}

// Record пишет строку журнала. Сбой журнала не должен ронять
// действие, которое он сопровождает, — поэтому ошибка только логируется.
func (s *ActivityService) Record(ctx context.Context, adminID int, activity, ip string) {
	a := &models.AdminActivity{
		AdminID:   adminID,
		Activity:  activity,
		IPAddress: ip,
	}
	if err := s.repo.CreateActivity(ctx, a); err != nil {
		logger.Log.Warn("Не удалось записать активность админа",
			zap.Int("admin_id", adminID),
			zap.String("activity", activity),
			zap.Error(err),
		)
	}
}

func (s *ActivityService) Recent(ctx context.Context, limit int) ([]*models.AdminActivity, error) {
	return s.repo.ListRecent(ctx, limit)
}
