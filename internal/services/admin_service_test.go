package services

import (
	"context"
	"dhrubfoundation/internal/utils"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestAdminService(repo *mockAdminRepo, activity *mockActivityRepo) *AdminService {
	return NewAdminService(repo, NewActivityService(activity), "testsecret", "https://fund.example.com", time.Hour)
}

func TestCreateAdmin_Success(t *testing.T) {
	repo := newMockAdminRepo()
	activity := &mockActivityRepo{}
	service := newTestAdminService(repo, activity)

	master := seedActiveAdmin(repo, "master1", "secret12")

	admin, err := service.CreateAdmin(context.Background(), "viewer1", "viewer@example.com", "secret12", "viewer", true, master.ID, "127.0.0.1")
	if err != nil {
		t.Fatalf("ошибка создания: %v", err)
	}
	if admin.PasswordHash == "" || admin.PasswordHash == "secret12" {
		t.Fatal("пароль не захеширован")
	}
	if admin.CreatedBy == nil || *admin.CreatedBy != master.ID {
		t.Fatal("created_by не проставлен")
	}
	if len(activity.entries) == 0 {
		t.Fatal("создание не попало в журнал активности")
	}
}

func TestCreateAdmin_DuplicateAndBadRole(t *testing.T) {
	repo := newMockAdminRepo()
	service := newTestAdminService(repo, &mockActivityRepo{})

	master := seedActiveAdmin(repo, "master1", "secret12")

	if _, err := service.CreateAdmin(context.Background(), "master1", "other@example.com", "secret12", "viewer", true, master.ID, ""); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("ожидалась ErrDuplicate по username, получено %v", err)
	}
	if _, err := service.CreateAdmin(context.Background(), "new1", "master1@example.com", "secret12", "viewer", true, master.ID, ""); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("ожидалась ErrDuplicate по email, получено %v", err)
	}

	_, err := service.CreateAdmin(context.Background(), "new2", "new2@example.com", "secret12", "superuser", true, master.ID, "")
	var fields ValidationErrors
	if !errors.As(err, &fields) || fields["role"] == "" {
		t.Fatalf("ожидалась ошибка валидации роли, получено %v", err)
	}
}

func TestToggleActive_SelfModificationForbidden(t *testing.T) {
	repo := newMockAdminRepo()
	service := newTestAdminService(repo, &mockActivityRepo{})

	master := seedActiveAdmin(repo, "master1", "secret12")

	if _, err := service.ToggleActive(context.Background(), master.ID, master.ID, ""); !errors.Is(err, ErrSelfModification) {
		t.Fatalf("ожидалась ErrSelfModification, получено %v", err)
	}
	if !master.IsActive {
		t.Fatal("учётка не должна была измениться")
	}
}

func TestToggleActive_OtherAdmin(t *testing.T) {
	repo := newMockAdminRepo()
	service := newTestAdminService(repo, &mockActivityRepo{})

	master := seedActiveAdmin(repo, "master1", "secret12")
	target := seedActiveAdmin(repo, "viewer1", "secret12")

	active, err := service.ToggleActive(context.Background(), target.ID, master.ID, "")
	if err != nil {
		t.Fatalf("ошибка отключения: %v", err)
	}
	if active || target.IsActive {
		t.Fatal("учётка должна была отключиться")
	}

	active, err = service.ToggleActive(context.Background(), target.ID, master.ID, "")
	if err != nil || !active {
		t.Fatalf("повторный toggle должен включить обратно: active=%v err=%v", active, err)
	}
}

func TestPasswordReset_FullCycle(t *testing.T) {
	repo := newMockAdminRepo()
	service := newTestAdminService(repo, &mockActivityRepo{})

	admin := seedActiveAdmin(repo, "manager1", "oldpass12")

	if err := service.RequestPasswordReset(context.Background(), "nobody@example.com"); !errors.Is(err, ErrEmailNotFound) {
		t.Fatalf("ожидалась ErrEmailNotFound, получено %v", err)
	}

	if err := service.RequestPasswordReset(context.Background(), admin.Email); err != nil {
		t.Fatalf("ошибка запроса сброса: %v", err)
	}
	if admin.ResetToken == nil || admin.ResetTokenExpires == nil {
		t.Fatal("токен не сохранён на записи")
	}

	// письмо со ссылкой должно уйти в очередь
	select {
	case job := <-EmailQueue:
		if !job.IsHTML || !strings.Contains(job.Body, *admin.ResetToken) {
			t.Fatal("письмо не содержит ссылку с токеном")
		}
	default:
		t.Fatal("письмо не поставлено в очередь")
	}

	token := *admin.ResetToken

	// слишком короткий пароль не трогает токен
	err := service.ConsumeReset(context.Background(), token, "short")
	var fields ValidationErrors
	if !errors.As(err, &fields) || fields["password"] == "" {
		t.Fatalf("ожидалась ошибка валидации пароля, получено %v", err)
	}
	if admin.ResetToken == nil {
		t.Fatal("токен не должен был израсходоваться")
	}

	if err := service.ConsumeReset(context.Background(), token, "newpass123"); err != nil {
		t.Fatalf("ошибка сброса: %v", err)
	}
	if !utils.CheckPasswordHash("newpass123", admin.PasswordHash) {
		t.Fatal("новый пароль не установлен")
	}
	if admin.ResetToken != nil || admin.ResetTokenExpires != nil {
		t.Fatal("поля токена должны быть очищены")
	}

	// повторное использование того же токена невозможно
	if err := service.ConsumeReset(context.Background(), token, "anotherpass1"); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Fatalf("ожидалась ErrInvalidOrExpiredToken, получено %v", err)
	}
}

func TestPasswordReset_ExpiredToken(t *testing.T) {
	repo := newMockAdminRepo()
	service := newTestAdminService(repo, &mockActivityRepo{})

	admin := seedActiveAdmin(repo, "manager1", "oldpass12")

	token := "expired-token"
	expired := time.Now().Add(-time.Minute)
	_ = repo.SetResetToken(context.Background(), admin.ID, token, expired)

	if err := service.ConsumeReset(context.Background(), token, "newpass123"); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Fatalf("ожидалась ErrInvalidOrExpiredToken, получено %v", err)
	}

	// sweeper зачищает просроченную пару
	_ = repo.ClearExpiredResetTokens(context.Background())
	if admin.ResetToken != nil {
		t.Fatal("просроченный токен должен быть зачищен")
	}
}

func TestEnsureSeedAdmin(t *testing.T) {
	repo := newMockAdminRepo()
	service := newTestAdminService(repo, &mockActivityRepo{})

	if err := service.EnsureSeedAdmin(context.Background(), "master", "master@example.com", "seedpass12"); err != nil {
		t.Fatalf("ошибка seed: %v", err)
	}
	if repo.lastAdmin == nil || repo.lastAdmin.Role != "master" || !repo.lastAdmin.IsActive {
		t.Fatal("seed-админ должен быть активным master")
	}

	// повторный запуск ничего не создаёт
	before := len(repo.admins)
	if err := service.EnsureSeedAdmin(context.Background(), "master2", "m2@example.com", "seedpass12"); err != nil {
		t.Fatalf("повторный seed не должен падать: %v", err)
	}
	if len(repo.admins) != before {
		t.Fatal("seed не должен создавать вторую учётку")
	}
}
