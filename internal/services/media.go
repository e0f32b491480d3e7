package services

import (
	"context"
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/models"
	"dhrubfoundation/internal/repository"
	"dhrubfoundation/internal/utils"
	"errors"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MediaRepo interface {
	CreateMedia(ctx context.Context, m *models.MediaFile) error
	GetMediaByID(ctx context.Context, id int) (*models.MediaFile, error)
	GetAllMedia(ctx context.Context) ([]*models.MediaFile, error)
	DeleteMedia(ctx context.Context, id int) error
}

type MediaService struct {
	repo      MediaRepo
	activity  *ActivityService
	uploadDir string
}

func NewMediaService(repo MediaRepo, activity *ActivityService, uploadDir string) *MediaService {
	return &MediaService{repo: repo, activity: activity, uploadDir: uploadDir}
}

// Upload сохраняет файл галереи под uuid-префиксом и регистрирует его в БД.
func (s *MediaService) Upload(ctx context.Context, filename string, data []byte, adminID int, ip string) (*models.MediaFile, error) {
	if !utils.AllowedImageExt(filename) {
		return nil, ValidationErrors{"file": "допустимы только изображения (png, jpg, jpeg, gif, webp)"}
	}

	safe := utils.SafeFilename(filename)
	path := filepath.Join(s.uploadDir, "media", uuid.NewString()+"_"+safe)
	if err := utils.WriteFile(path, data); err != nil {
		logger.Log.Error("Ошибка записи медиафайла", zap.Error(err), zap.String("path", path))
		return nil, err
	}

	m := &models.MediaFile{
		Filename:   safe,
		Filepath:   path,
		UploadedBy: adminID,
	}
	if err := s.repo.CreateMedia(ctx, m); err != nil {
		// файл без строки в БД не оставляем
		_ = utils.DeleteFile(path)
		return nil, err
	}

	s.activity.Record(ctx, adminID, "загружен файл "+safe, ip)
	logger.Log.Info("Медиафайл загружен", zap.Int("media_id", m.ID), zap.String("filename", safe))
	return m, nil
}

func (s *MediaService) Delete(ctx context.Context, id, adminID int, ip string) error {
	m, err := s.repo.GetMediaByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if err := s.repo.DeleteMedia(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if err := utils.DeleteFile(m.Filepath); err != nil {
		logger.Log.Warn("Строка удалена, но файл остался", zap.String("path", m.Filepath), zap.Error(err))
	}

	s.activity.Record(ctx, adminID, "удалён файл "+m.Filename, ip)
	return nil
}

func (s *MediaService) List(ctx context.Context) ([]*models.MediaFile, error) {
	return s.repo.GetAllMedia(ctx)
}
