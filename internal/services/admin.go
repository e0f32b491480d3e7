package services

import (
	"context"
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/models"
	"dhrubfoundation/internal/permissions"
	"dhrubfoundation/internal/repository"
	"dhrubfoundation/internal/utils"
	helpers "dhrubfoundation/internal/utils/helpres"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// AdminService — жизненный цикл админских учёток: создание,
// редактирование, включение/отключение, сброс пароля по токену.
type AdminService struct {
	repo      AdminRepo
	activity  *ActivityService
	jwtSecret string
	siteURL   string
	resetTTL  time.Duration
}

func NewAdminService(repo AdminRepo, activity *ActivityService, jwtSecret, siteURL string, resetTTL time.Duration) *AdminService {
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &AdminService{
		repo:      repo,
		activity:  activity,
		jwtSecret: jwtSecret,
		siteURL:   strings.TrimRight(siteURL, "/"),
		resetTTL:  resetTTL,
	}
}

// CreateAdmin создаёт учётку. Создатель (creatorID) уже существует к
// моменту вставки, поэтому цепочка created_by циклов не образует.
func (s *AdminService) CreateAdmin(ctx context.Context, username, email, password, role string, isActive bool, creatorID int, ip string) (*models.Admin, error) {
	logger.Log.Info("Создание админа (service)", zap.String("username", username), zap.Int("creator_id", creatorID))

	if _, ok := permissions.ParseRole(role); !ok {
		return nil, ValidationErrors{"role": "недопустимая роль"}
	}

	if taken, err := s.repo.IsUsernameTaken(ctx, username); taken || err != nil {
		if err != nil {
			logger.Log.Error("Ошибка проверки username", zap.Error(err))
			return nil, err
		}
		return nil, ErrDuplicate
	}
	if taken, err := s.repo.IsEmailTaken(ctx, email); taken || err != nil {
		if err != nil {
			logger.Log.Error("Ошибка проверки email", zap.Error(err))
			return nil, err
		}
		return nil, ErrDuplicate
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Ошибка хеширования пароля", zap.Error(err))
		return nil, err
	}

	admin := &models.Admin{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
		IsActive:     isActive,
	}
	if creatorID > 0 {
		admin.CreatedBy = &creatorID
	}

	if err := s.repo.CreateAdmin(ctx, admin); err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		logger.Log.Error("Ошибка создания админа (service)", zap.Error(err))
		return nil, err
	}

	s.activity.Record(ctx, creatorID, fmt.Sprintf("создан админ %s (роль %s)", username, role), ip)
	logger.Log.Info("Админ создан (service)", zap.Int("admin_id", admin.ID))
	return admin, nil
}

// EditAdmin — частичное обновление. Пароль пересчитывается только
// если передан новый; пустой пароль хеш не трогает.
func (s *AdminService) EditAdmin(ctx context.Context, adminID int, input *models.UpdateAdminRequest, actorID int, ip string) error {
	logger.Log.Info("Редактирование админа (service)", zap.Int("admin_id", adminID), zap.Int("actor_id", actorID))

	if _, err := s.repo.GetAdminByID(ctx, adminID); err != nil {
		return ErrNotFound
	}

	if input.Role != nil {
		if _, ok := permissions.ParseRole(*input.Role); !ok {
			return ValidationErrors{"role": "недопустимая роль"}
		}
	}

	var passwordHash string
	if input.Password != nil && strings.TrimSpace(*input.Password) != "" {
		hashed, err := utils.HashPassword(*input.Password)
		if err != nil {
			logger.Log.Error("Ошибка хеширования нового пароля", zap.Error(err))
			return err
		}
		passwordHash = hashed
	}

	if err := s.repo.UpdateAdminFields(ctx, adminID, input, passwordHash); err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		logger.Log.Error("Ошибка обновления админа (service)", zap.Error(err), zap.Int("admin_id", adminID))
		return err
	}

	s.activity.Record(ctx, actorID, fmt.Sprintf("изменён админ #%d", adminID), ip)
	return nil
}

// ToggleActive отключает/включает учётку. Самоотключение запрещено
// независимо от роли.
func (s *AdminService) ToggleActive(ctx context.Context, adminID, actorID int, ip string) (bool, error) {
	if adminID == actorID {
		logger.Log.Warn("Попытка самоотключения (service)", zap.Int("admin_id", adminID))
		return false, ErrSelfModification
	}

	active, err := s.repo.ToggleActive(ctx, adminID)
	if err != nil {
		if isNoRows(err) {
			return false, ErrNotFound
		}
		return false, err
	}

	state := "отключён"
	if active {
		state = "включён"
	}
	s.activity.Record(ctx, actorID, fmt.Sprintf("админ #%d %s", adminID, state), ip)
	return active, nil
}

func (s *AdminService) ListAdmins(ctx context.Context) ([]*models.Admin, error) {
	return s.repo.GetAllAdmins(ctx)
}

// RequestPasswordReset выдаёт подписанный токен со сроком жизни 1 час,
// сохраняет пару токен/срок на записи и ставит письмо в очередь.
// Неизвестный email отдаёт явное "нет такой учётки" — текущее
// поведение системы, известный enumeration gap.
func (s *AdminService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	logger.Log.Info("Запрос на сброс пароля", zap.String("email", email))

	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Warn("Email для сброса не найден", zap.String("email", email), zap.Error(err))
		return ErrEmailNotFound
	}

	token, err := utils.GenerateResetToken(s.jwtSecret, admin.ID, s.resetTTL)
	if err != nil {
		logger.Log.Error("Ошибка генерации reset-токена", zap.Error(err), zap.Int("admin_id", admin.ID))
		return err
	}

	expires := time.Now().Add(s.resetTTL)
	if err := s.repo.SetResetToken(ctx, admin.ID, token, expires); err != nil {
		logger.Log.Error("Ошибка сохранения reset-токена", zap.Error(err), zap.Int("admin_id", admin.ID))
		return err
	}

	resetLink := fmt.Sprintf("%s/admin/reset-password?token=%s", s.siteURL, token)
	EmailQueue <- EmailJob{
		To:      []string{admin.Email},
		Subject: "Сброс пароля",
		Body:    helpers.BuildPasswordResetHTML(admin.Username, resetLink, expires),
		IsHTML:  true,
	}

	logger.Log.Info("Письмо со ссылкой на сброс поставлено в очередь",
		zap.Int("admin_id", admin.ID),
		zap.Time("expires_at", expires),
	)
	return nil
}

// ConsumeReset принимает токен строго по точному совпадению и только
// пока now < expires. Успешный сброс одним UPDATE ставит новый хеш и
// очищает оба поля токена — повторное использование невозможно.
func (s *AdminService) ConsumeReset(ctx context.Context, token, newPassword string) error {
	logger.Log.Info("Попытка сброса пароля по токену")

	if len(newPassword) < 8 {
		logger.Log.Warn("Слишком короткий новый пароль")
		return ValidationErrors{"password": "пароль должен быть не короче 8 символов"}
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		logger.Log.Error("Ошибка хеширования пароля", zap.Error(err))
		return err
	}

	adminID, err := s.repo.ConsumeResetToken(ctx, token, hashed)
	if err != nil {
		if isNoRows(err) {
			logger.Log.Warn("Неверный или просроченный reset-токен")
			return ErrInvalidOrExpiredToken
		}
		return err
	}

	logger.Log.Info("Пароль успешно сброшен", zap.Int("admin_id", adminID))
	return nil
}

// EnsureSeedAdmin создаёт мастер-учётку при первом запуске,
// если таблица админов пуста.
func (s *AdminService) EnsureSeedAdmin(ctx context.Context, username, email, password string) error {
	count, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if password == "" {
		logger.Log.Warn("Таблица админов пуста, но SEED_ADMIN_PASSWORD не задан — seed пропущен")
		return nil
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &models.Admin{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         string(permissions.RoleMaster),
		IsActive:     true,
	}
	if err := s.repo.CreateAdmin(ctx, admin); err != nil {
		return err
	}
	logger.Log.Info("Создан начальный master-админ", zap.String("username", username))
	return nil
}

// StartResetTokenSweeper периодически зачищает просроченные токены —
// пара полей и так невалидна, но держать секреты в БД незачем.
func (s *AdminService) StartResetTokenSweeper() {
	t := time.NewTicker(1 * time.Hour)
	go func() {
		for range t.C {
			if err := s.repo.ClearExpiredResetTokens(context.Background()); err != nil {
				logger.Log.Warn("Не удалось зачистить просроченные reset-токены", zap.Error(err))
			}
		}
	}()
}

func isDuplicate(err error) bool {
	return errors.Is(err, repository.ErrUniqueViolation)
}

func isNoRows(err error) bool {
	return errors.Is(err, repository.ErrNoRows)
}
