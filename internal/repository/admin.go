package repository

import (
	"context"
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/models"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrUniqueViolation — нарушение unique-ограничения (username/email).
var ErrUniqueViolation = errors.New("unique violation")

// ErrNoRows — строка не найдена.
var ErrNoRows = errors.New("no rows")

type AdminRepository struct {
	db *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

const adminColumns = `id, username, email, password_hash, role, is_active, last_login, created_by, reset_token, reset_token_expires, created_at, updated_at`

func scanAdmin(row pgx.Row) (*models.Admin, error) {
	var a models.Admin
	err := row.Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.PasswordHash,
		&a.Role,
		&a.IsActive,
		&a.LastLogin,
		&a.CreatedBy,
		&a.ResetToken,
		&a.ResetTokenExpires,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoRows
		}
		return nil, err
	}
	return &a, nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrUniqueViolation
	}
	return err
}

func (r *AdminRepository) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	logger.Log.Info("Создание админа (repo)", zap.String("username", admin.Username), zap.String("email", admin.Email))
	query := `
	INSERT INTO admins (username, email, password_hash, role, is_active, created_by)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		admin.Username,
		admin.Email,
		admin.PasswordHash,
		admin.Role,
		admin.IsActive,
		admin.CreatedBy,
	).Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		logger.Log.Error("Ошибка создания админа (repo)", zap.Error(err))
		return mapPgError(err)
	}
	return nil
}

func (r *AdminRepository) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	logger.Log.Debug("Проверка username на уникальность (repo)", zap.String("username", username))
	query := `SELECT EXISTS(SELECT 1 FROM admins WHERE username = $1)`
	var exists bool
	err := r.db.QueryRow(ctx, query, username).Scan(&exists)
	if err != nil {
		logger.Log.Error("Ошибка проверки username (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *AdminRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	logger.Log.Debug("Проверка email на уникальность (repo)", zap.String("email", email))
	query := `SELECT EXISTS(SELECT 1 FROM admins WHERE lower(email) = lower($1))`
	var exists bool
	err := r.db.QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		logger.Log.Error("Ошибка проверки email (repo)", zap.Error(err))
	}
	return exists, err
}

func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	logger.Log.Debug("Получение админа по username (repo)", zap.String("username", username))
	query := `SELECT ` + adminColumns + ` FROM admins WHERE username = $1`
	return scanAdmin(r.db.QueryRow(ctx, query, username))
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	logger.Log.Debug("Получение админа по email (repo)", zap.String("email", email))
	query := `SELECT ` + adminColumns + ` FROM admins WHERE lower(email) = lower($1)`
	return scanAdmin(r.db.QueryRow(ctx, query, email))
}

func (r *AdminRepository) GetAdminByID(ctx context.Context, id int) (*models.Admin, error) {
	logger.Log.Debug("Получение админа по ID (repo)", zap.Int("admin_id", id))
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`
	return scanAdmin(r.db.QueryRow(ctx, query, id))
}

func (r *AdminRepository) GetAllAdmins(ctx context.Context) ([]*models.Admin, error) {
	logger.Log.Info("Получение всех админов (repo)")
	query := `SELECT ` + adminColumns + ` FROM admins ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		logger.Log.Error("Ошибка получения админов (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var admins []*models.Admin
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			logger.Log.Error("Ошибка сканирования админа (repo)", zap.Error(err))
			return nil, err
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

func (r *AdminRepository) CountAdmins(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM admins`).Scan(&count)
	return count, err
}

func (r *AdminRepository) UpdateAdminFields(ctx context.Context, id int, input *models.UpdateAdminRequest, passwordHash string) error {
	logger.Log.Info("Обновление админа (repo)", zap.Int("admin_id", id))
	query := `UPDATE admins SET`
	var args []interface{}
	argNum := 1

	if input.Username != nil {
		query += fmt.Sprintf(" username = $%d,", argNum)
		args = append(args, *input.Username)
		argNum++
	}
	if input.Email != nil {
		query += fmt.Sprintf(" email = $%d,", argNum)
		args = append(args, *input.Email)
		argNum++
	}
	if input.Role != nil {
		query += fmt.Sprintf(" role = $%d,", argNum)
		args = append(args, *input.Role)
		argNum++
	}
	if input.IsActive != nil {
		query += fmt.Sprintf(" is_active = $%d,", argNum)
		args = append(args, *input.IsActive)
		argNum++
	}
	// Хеш пересчитывается в сервисе и только если пароль передан
	if passwordHash != "" {
		query += fmt.Sprintf(" password_hash = $%d,", argNum)
		args = append(args, passwordHash)
		argNum++
	}

	if len(args) == 0 {
		logger.Log.Warn("Нет полей для обновления админа (repo)", zap.Int("admin_id", id))
		return nil // ничего не обновляем
	}

	query += " updated_at = now()"
	query += fmt.Sprintf(" WHERE id = $%d", argNum)
	args = append(args, id)

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Ошибка обновления админа (repo)", zap.Error(err), zap.Int("admin_id", id))
		return mapPgError(err)
	}
	return nil
}

// ToggleActive переключает is_active и возвращает новое значение.
func (r *AdminRepository) ToggleActive(ctx context.Context, id int) (bool, error) {
	logger.Log.Info("Переключение is_active (repo)", zap.Int("admin_id", id))
	var active bool
	err := r.db.QueryRow(ctx,
		`UPDATE admins SET is_active = NOT is_active, updated_at = now() WHERE id = $1 RETURNING is_active`,
		id,
	).Scan(&active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrNoRows
		}
		logger.Log.Error("Ошибка переключения is_active (repo)", zap.Error(err), zap.Int("admin_id", id))
		return false, err
	}
	return active, nil
}

func (r *AdminRepository) StampLastLogin(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `UPDATE admins SET last_login = now() WHERE id = $1`, id)
	if err != nil {
		logger.Log.Error("Ошибка обновления last_login (repo)", zap.Error(err), zap.Int("admin_id", id))
	}
	return err
}

// SetResetToken сохраняет токен сброса и срок его жизни — строго парой.
func (r *AdminRepository) SetResetToken(ctx context.Context, id int, token string, expires time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE admins SET reset_token = $1, reset_token_expires = $2, updated_at = now() WHERE id = $3`,
		token, expires, id,
	)
	if err != nil {
		logger.Log.Error("Ошибка сохранения reset-токена (repo)", zap.Error(err), zap.Int("admin_id", id))
	}
	return err
}

// ConsumeResetToken одним UPDATE проверяет точное совпадение токена и срок
// и атомарно ставит новый хеш, очищая оба поля токена.
// ErrNoRows — токен не найден или просрочен.
func (r *AdminRepository) ConsumeResetToken(ctx context.Context, token string, passwordHash string) (int, error) {
	var adminID int
	err := r.db.QueryRow(ctx, `
		UPDATE admins
		SET password_hash = $2,
		    reset_token = NULL,
		    reset_token_expires = NULL,
		    updated_at = now()
		WHERE reset_token = $1
		  AND reset_token_expires > now()
		RETURNING id
	`, token, passwordHash).Scan(&adminID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNoRows
		}
		logger.Log.Error("Ошибка применения reset-токена (repo)", zap.Error(err))
		return 0, err
	}
	return adminID, nil
}

// ClearExpiredResetTokens зачищает просроченные пары токен/срок.
func (r *AdminRepository) ClearExpiredResetTokens(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		UPDATE admins
		SET reset_token = NULL, reset_token_expires = NULL
		WHERE reset_token IS NOT NULL AND reset_token_expires <= now()
	`)
	return err
}
