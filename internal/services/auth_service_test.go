package services

import (
	"context"
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/models"
	"dhrubfoundation/internal/repository"
	"dhrubfoundation/internal/utils"
	"errors"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	// сервисы пишут в глобальный логгер, в тестах он не инициализирован
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// Мок-репозиторий админов (заглушка)
type mockAdminRepo struct {
	admins    map[string]*models.Admin
	lastAdmin *models.Admin
	nextID    int
}

func newMockAdminRepo() *mockAdminRepo {
	return &mockAdminRepo{admins: make(map[string]*models.Admin), nextID: 1}
}

func (m *mockAdminRepo) IsUsernameTaken(_ context.Context, username string) (bool, error) {
	_, exists := m.admins[username]
	return exists, nil
}

func (m *mockAdminRepo) IsEmailTaken(_ context.Context, email string) (bool, error) {
	for _, a := range m.admins {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAdminRepo) CreateAdmin(_ context.Context, admin *models.Admin) error {
	if _, exists := m.admins[admin.Username]; exists {
		return repository.ErrUniqueViolation
	}
	admin.ID = m.nextID
	m.nextID++
	m.admins[admin.Username] = admin
	m.lastAdmin = admin
	return nil
}

func (m *mockAdminRepo) GetByUsername(_ context.Context, username string) (*models.Admin, error) {
	a, ok := m.admins[username]
	if !ok {
		return nil, repository.ErrNoRows
	}
	return a, nil
}

func (m *mockAdminRepo) GetByEmail(_ context.Context, email string) (*models.Admin, error) {
	for _, a := range m.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (m *mockAdminRepo) GetAdminByID(_ context.Context, id int) (*models.Admin, error) {
	for _, a := range m.admins {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (m *mockAdminRepo) GetAllAdmins(_ context.Context) ([]*models.Admin, error) {
	out := make([]*models.Admin, 0, len(m.admins))
	for _, a := range m.admins {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockAdminRepo) CountAdmins(_ context.Context) (int, error) {
	return len(m.admins), nil
}

func (m *mockAdminRepo) UpdateAdminFields(_ context.Context, id int, input *models.UpdateAdminRequest, passwordHash string) error {
	for _, a := range m.admins {
		if a.ID != id {
			continue
		}
		if input.Role != nil {
			a.Role = *input.Role
		}
		if input.Email != nil {
			a.Email = *input.Email
		}
		if passwordHash != "" {
			a.PasswordHash = passwordHash
		}
		return nil
	}
	return repository.ErrNoRows
}

func (m *mockAdminRepo) ToggleActive(_ context.Context, id int) (bool, error) {
	for _, a := range m.admins {
		if a.ID == id {
			a.IsActive = !a.IsActive
			return a.IsActive, nil
		}
	}
	return false, repository.ErrNoRows
}

func (m *mockAdminRepo) StampLastLogin(_ context.Context, id int) error {
	now := time.Now()
	for _, a := range m.admins {
		if a.ID == id {
			a.LastLogin = &now
			return nil
		}
	}
	return repository.ErrNoRows
}

func (m *mockAdminRepo) SetResetToken(_ context.Context, id int, token string, expires time.Time) error {
	for _, a := range m.admins {
		if a.ID == id {
			a.ResetToken = &token
			a.ResetTokenExpires = &expires
			return nil
		}
	}
	return repository.ErrNoRows
}

// ConsumeResetToken воспроизводит семантику одного атомарного UPDATE:
// точное совпадение токена, срок не истёк, оба поля очищаются.
func (m *mockAdminRepo) ConsumeResetToken(_ context.Context, token, passwordHash string) (int, error) {
	for _, a := range m.admins {
		if a.ResetToken == nil || *a.ResetToken != token {
			continue
		}
		if a.ResetTokenExpires == nil || !a.ResetTokenExpires.After(time.Now()) {
			continue
		}
		a.PasswordHash = passwordHash
		a.ResetToken = nil
		a.ResetTokenExpires = nil
		return a.ID, nil
	}
	return 0, repository.ErrNoRows
}

func (m *mockAdminRepo) ClearExpiredResetTokens(_ context.Context) error {
	now := time.Now()
	for _, a := range m.admins {
		if a.ResetTokenExpires != nil && a.ResetTokenExpires.Before(now) {
			a.ResetToken = nil
			a.ResetTokenExpires = nil
		}
	}
	return nil
}

// Мок журнала активности
type mockActivityRepo struct {
	entries []*models.AdminActivity
}

func (m *mockActivityRepo) CreateActivity(_ context.Context, a *models.AdminActivity) error {
	m.entries = append(m.entries, a)
	return nil
}

func (m *mockActivityRepo) ListRecent(_ context.Context, limit int) ([]*models.AdminActivity, error) {
	if limit > 0 && len(m.entries) > limit {
		return m.entries[:limit], nil
	}
	return m.entries, nil
}

func seedActiveAdmin(repo *mockAdminRepo, username, password string) *models.Admin {
	hashed, _ := utils.HashPassword(password)
	a := &models.Admin{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hashed,
		Role:         "manager",
		IsActive:     true,
	}
	_ = repo.CreateAdmin(context.Background(), a)
	return a
}

func TestLogin_Success(t *testing.T) {
	repo := newMockAdminRepo()
	activity := &mockActivityRepo{}
	service := NewAuthService(repo, NewActivityService(activity))

	seedActiveAdmin(repo, "manager1", "secret12")

	token, admin, err := service.Login(context.Background(), "manager1", "secret12", "testsecret", 15*time.Minute, "127.0.0.1")
	if err != nil {
		t.Fatalf("ошибка логина: %v", err)
	}
	if token == "" {
		t.Fatal("токен не сгенерирован")
	}
	if admin.LastLogin == nil {
		t.Fatal("last_login не обновлён")
	}
	if len(activity.entries) != 1 || activity.entries[0].Activity != "вход в систему" {
		t.Fatal("вход не попал в журнал активности")
	}
}

func TestLogin_UnknownAndWrongPasswordIndistinguishable(t *testing.T) {
	repo := newMockAdminRepo()
	service := NewAuthService(repo, NewActivityService(&mockActivityRepo{}))

	seedActiveAdmin(repo, "manager1", "secret12")

	_, _, errUnknown := service.Login(context.Background(), "nobody", "secret12", "testsecret", time.Minute, "")
	_, _, errWrongPw := service.Login(context.Background(), "manager1", "wrongpass", "testsecret", time.Minute, "")

	if !errors.Is(errUnknown, ErrInvalidCredentials) || !errors.Is(errWrongPw, ErrInvalidCredentials) {
		t.Fatalf("ожидалась одинаковая ошибка, получено %v и %v", errUnknown, errWrongPw)
	}
}

func TestLogin_DisabledAccount(t *testing.T) {
	repo := newMockAdminRepo()
	service := NewAuthService(repo, NewActivityService(&mockActivityRepo{}))

	a := seedActiveAdmin(repo, "manager1", "secret12")
	a.IsActive = false

	_, _, err := service.Login(context.Background(), "manager1", "secret12", "testsecret", time.Minute, "")
	if !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("ожидалась ErrAccountDisabled, получено %v", err)
	}
}
