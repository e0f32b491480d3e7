package repository

import (
	"context"
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/models"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type MediaRepository struct {
	db *pgxpool.Pool
}

func NewMediaRepository(db *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{db: db}
}

func (r *MediaRepository) CreateMedia(ctx context.Context, m *models.MediaFile) error {
	query := `
	INSERT INTO media_files (filename, filepath, uploaded_by)
	VALUES ($1, $2, $3)
	RETURNING id, uploaded_at`
	err := r.db.QueryRow(ctx, query, m.Filename, m.Filepath, m.UploadedBy).Scan(&m.ID, &m.UploadedAt)
	if err != nil {
		logger.Log.Error("Ошибка сохранения медиафайла (repo)", zap.Error(err))
	}
	return err
}

func (r *MediaRepository) GetMediaByID(ctx context.Context, id int) (*models.MediaFile, error) {
	var m models.MediaFile
	err := r.db.QueryRow(ctx,
		`SELECT id, filename, filepath, uploaded_by, uploaded_at FROM media_files WHERE id = $1`, id,
	).Scan(&m.ID, &m.Filename, &m.Filepath, &m.UploadedBy, &m.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoRows
		}
		return nil, err
	}
	return &m, nil
}

func (r *MediaRepository) GetAllMedia(ctx context.Context) ([]*models.MediaFile, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, filename, filepath, uploaded_by, uploaded_at FROM media_files ORDER BY uploaded_at DESC`)
	if err != nil {
		logger.Log.Error("Ошибка выборки медиафайлов (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var list []*models.MediaFile
	for rows.Next() {
		var m models.MediaFile
		if err := rows.Scan(&m.ID, &m.Filename, &m.Filepath, &m.UploadedBy, &m.UploadedAt); err != nil {
			return nil, err
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func (r *MediaRepository) DeleteMedia(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM media_files WHERE id = $1`, id)
	if err != nil {
		logger.Log.Error("Ошибка удаления медиафайла (repo)", zap.Error(err), zap.Int("media_id", id))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}
