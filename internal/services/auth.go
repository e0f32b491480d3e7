package services

import (
	"context"
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/models"
	"dhrubfoundation/internal/utils"
	"time"

	"go.uber.org/zap"
)

// AdminRepo — всё, что сервисам нужно от хранилища админов.
type AdminRepo interface {
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	CreateAdmin(ctx context.Context, admin *models.Admin) error
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetAdminByID(ctx context.Context, id int) (*models.Admin, error)
	GetAllAdmins(ctx context.Context) ([]*models.Admin, error)
	CountAdmins(ctx context.Context) (int, error)
	UpdateAdminFields(ctx context.Context, id int, input *models.UpdateAdminRequest, passwordHash string) error
	ToggleActive(ctx context.Context, id int) (bool, error)
	StampLastLogin(ctx context.Context, id int) error
	SetResetToken(ctx context.Context, id int, token string, expires time.Time) error
	ConsumeResetToken(ctx context.Context, token string, passwordHash string) (int, error)
	ClearExpiredResetTokens(ctx context.Context) error
}

type AuthService struct {
	repo     AdminRepo
	activity *ActivityService
}

func NewAuthService(repo AdminRepo, activity *ActivityService) *AuthService {
	return &AuthService{repo: repo, activity: activity}
}

// Login проверяет учётные данные и возвращает access-токен.
// Неизвестный логин и неверный пароль снаружи неразличимы.
// Отключённая учётка отдаёт отдельное сообщение — текущее поведение
// системы, известный enumeration gap.
func (s *AuthService) Login(ctx context.Context, username, password, jwtSecret string, accessTTL time.Duration, ip string) (string, *models.Admin, error) {
	logger.Log.Info("Попытка входа (service)", zap.String("username", username))

	admin, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Warn("Админ не найден (service)", zap.String("username", username), zap.Error(err))
		return "", nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, admin.PasswordHash) {
		logger.Log.Warn("Неверный пароль (service)", zap.String("username", username))
		return "", nil, ErrInvalidCredentials
	}

	if !admin.IsActive {
		logger.Log.Warn("Вход в отключённую учётку (service)", zap.Int("admin_id", admin.ID))
		return "", nil, ErrAccountDisabled
	}

	token, err := utils.GenerateToken(jwtSecret, admin.ID, admin.Role, accessTTL)
	if err != nil {
		logger.Log.Error("Ошибка генерации access-токена", zap.Error(err))
		return "", nil, err
	}

	if err := s.repo.StampLastLogin(ctx, admin.ID); err != nil {
		logger.Log.Warn("Не удалось обновить last_login", zap.Int("admin_id", admin.ID), zap.Error(err))
	}
	s.activity.Record(ctx, admin.ID, "вход в систему", ip)

	logger.Log.Info("Вход выполнен (service)", zap.String("username", username), zap.Int("admin_id", admin.ID))
	return token, admin, nil
}

func (s *AuthService) GetAdminByID(ctx context.Context, id int) (*models.Admin, error) {
	admin, err := s.repo.GetAdminByID(ctx, id)
	if err != nil {
		logger.Log.Warn("Админ не найден по ID (service)", zap.Int("admin_id", id), zap.Error(err))
		return nil, ErrNotFound
	}
	return admin, nil
}
