package services

import (
	"context"
	"dhrubfoundation/internal/models"
	"dhrubfoundation/internal/repository"
	"errors"
	"strings"
	"testing"
	"time"
)

// Мок-репозиторий пожертвований (заглушка)
type mockDonationRepo struct {
	donations []*models.Donation
	nextID    int
	failOn    string // имя метода, который должен вернуть ошибку
}

func newMockDonationRepo() *mockDonationRepo {
	return &mockDonationRepo{nextID: 1}
}

func (m *mockDonationRepo) CreateDonation(_ context.Context, d *models.Donation) error {
	if m.failOn == "CreateDonation" {
		return errors.New("db down")
	}
	d.ID = m.nextID
	m.nextID++
	m.donations = append(m.donations, d)
	return nil
}

func (m *mockDonationRepo) removeByID(id int) error {
	for i, d := range m.donations {
		if d.ID == id {
			m.donations = append(m.donations[:i], m.donations[i+1:]...)
			return nil
		}
	}
	return repository.ErrNoRows
}

func (m *mockDonationRepo) GetDonationByID(_ context.Context, id int) (*models.Donation, error) {
	for _, d := range m.donations {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (m *mockDonationRepo) ListDonations(_ context.Context, filter *models.DonationFilter) ([]*models.Donation, error) {
	var out []*models.Donation
	for _, d := range m.donations {
		if filter != nil {
			if filter.Email != "" && !strings.Contains(d.Email, filter.Email) {
				continue
			}
			if filter.Provider != "" && !strings.Contains(d.Provider, filter.Provider) {
				continue
			}
			if filter.StartDate != nil && d.CreatedAt.Before(*filter.StartDate) {
				continue
			}
			// строгая верхняя граница, как в SQL created_at < $
			if filter.EndDate != nil && !d.CreatedAt.Before(*filter.EndDate) {
				continue
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *mockDonationRepo) SetVerification(_ context.Context, id int, verified bool, adminID int, at time.Time) error {
	for _, d := range m.donations {
		if d.ID != id {
			continue
		}
		d.IsVerified = verified
		if verified {
			d.VerifiedBy = &adminID
			d.VerifiedAt = &at
		}
		// при снятии штампы остаются
		return nil
	}
	return repository.ErrNoRows
}

// Стаб генератора артефактов: файлов не пишет, пути выдаёт и помнит,
// что было подчищено.
type stubArtifacts struct {
	failInvoice bool
	cleaned     []string
}

func (s *stubArtifacts) GenerateQR(uri string) (string, error) {
	return "static/uploads/qr/test.png", nil
}

func (s *stubArtifacts) GenerateInvoice(d *models.Donation) (string, error) {
	if s.failInvoice {
		return "", errors.New("pdf render failed")
	}
	return "static/uploads/invoices/test.pdf", nil
}

func (s *stubArtifacts) Cleanup(paths ...string) {
	s.cleaned = append(s.cleaned, paths...)
}

func newTestDonationService(repo *mockDonationRepo, artifacts ArtifactGenerator) *DonationService {
	return NewDonationService(repo, artifacts, NewUPIService("fund@upi", "Dhrub Foundation"))
}

func validInput() *SubmitDonationInput {
	return &SubmitDonationInput{
		Name:     "Иван Донор",
		Email:    "donor@example.com",
		Amount:   "500",
		Provider: "gpay",
	}
}

func TestSubmit_Success(t *testing.T) {
	repo := newMockDonationRepo()
	service := newTestDonationService(repo, &stubArtifacts{})

	result, err := service.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("ошибка создания пожертвования: %v", err)
	}

	d := result.Donation
	if d.ID == 0 || d.Amount != 500 {
		t.Fatalf("пожертвование сохранено неверно: %+v", d)
	}
	if d.QRPath == "" || d.InvoicePath == "" {
		t.Fatal("пути артефактов не записаны")
	}
	if d.IsVerified {
		t.Fatal("новое пожертвование не может быть верифицированным")
	}
	if !strings.HasPrefix(result.PaymentLink, "tez://upi/pay?") {
		t.Fatalf("для gpay ожидалась tez-ссылка, получено %s", result.PaymentLink)
	}

	// донору должна быть поставлена квитанция
	select {
	case job := <-EmailQueue:
		if len(job.To) != 1 || job.To[0] != d.Email {
			t.Fatalf("квитанция адресована не донору: %v", job.To)
		}
		if !job.IsHTML || !strings.Contains(job.Body, "Квитанция") {
			t.Fatal("тело квитанции неверно")
		}
	default:
		t.Fatal("квитанция не поставлена в очередь")
	}
}

func TestSubmit_ReceiptCarriesInvoiceAttachment(t *testing.T) {
	repo := newMockDonationRepo()
	dir := t.TempDir()
	service := NewDonationService(repo, NewArtifactService(dir, "Dhrub Foundation"), NewUPIService("fund@upi", "Dhrub Foundation"))

	_, err := service.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("ошибка создания пожертвования: %v", err)
	}

	select {
	case job := <-EmailQueue:
		if len(job.Attachments) != 1 {
			t.Fatalf("ожидалось 1 вложение, получено %d", len(job.Attachments))
		}
		a := job.Attachments[0]
		if a.ContentType != "application/pdf" || !strings.HasSuffix(a.Filename, ".pdf") {
			t.Fatalf("вложение не PDF: %s %s", a.Filename, a.ContentType)
		}
		if len(a.Data) == 0 || !strings.HasPrefix(string(a.Data[:5]), "%PDF-") {
			t.Fatal("вложение не содержит PDF-счёт")
		}
	default:
		t.Fatal("квитанция не поставлена в очередь")
	}
}

func TestSubmit_ValidationCollectsAllFields(t *testing.T) {
	repo := newMockDonationRepo()
	service := newTestDonationService(repo, &stubArtifacts{})

	_, err := service.Submit(context.Background(), &SubmitDonationInput{
		Name:   "",
		Email:  "not-an-email",
		Amount: "-10",
	})

	var fields ValidationErrors
	if !errors.As(err, &fields) {
		t.Fatalf("ожидались ошибки валидации, получено %v", err)
	}
	for _, key := range []string{"name", "email", "amount"} {
		if fields[key] == "" {
			t.Fatalf("нет ошибки для поля %s: %v", key, fields)
		}
	}
	if len(repo.donations) != 0 {
		t.Fatal("невалидная форма не должна попадать в БД")
	}
}

func TestSubmit_InvoiceFailureCleansQR(t *testing.T) {
	repo := newMockDonationRepo()
	artifacts := &stubArtifacts{failInvoice: true}
	service := newTestDonationService(repo, artifacts)

	_, err := service.Submit(context.Background(), validInput())
	if !errors.Is(err, ErrArtifactGeneration) {
		t.Fatalf("ожидалась ErrArtifactGeneration, получено %v", err)
	}
	if len(artifacts.cleaned) != 1 || !strings.HasSuffix(artifacts.cleaned[0], ".png") {
		t.Fatalf("QR должен быть подчищен: %v", artifacts.cleaned)
	}
	if len(repo.donations) != 0 {
		t.Fatal("запись не должна была создаться")
	}
}

func TestSubmit_DBFailureCleansBothArtifacts(t *testing.T) {
	repo := newMockDonationRepo()
	repo.failOn = "CreateDonation"
	artifacts := &stubArtifacts{}
	service := newTestDonationService(repo, artifacts)

	_, err := service.Submit(context.Background(), validInput())
	if err == nil {
		t.Fatal("ожидалась ошибка БД")
	}
	if len(artifacts.cleaned) != 2 {
		t.Fatalf("оба артефакта должны быть подчищены: %v", artifacts.cleaned)
	}
}

func TestList_FiltersAndSummary(t *testing.T) {
	repo := newMockDonationRepo()
	service := newTestDonationService(repo, &stubArtifacts{})

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i, amount := range []float64{100, 200, 300} {
		d := &models.Donation{
			Name:      "Донор",
			Email:     "donor@example.com",
			Amount:    amount,
			Provider:  "gpay",
			CreatedAt: base.AddDate(0, 0, i),
		}
		_ = repo.CreateDonation(context.Background(), d)
	}
	repo.donations[0].IsVerified = true

	result, err := service.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("ошибка выборки: %v", err)
	}
	sum := result.Summary
	if sum.TotalDonations != 3 || sum.VerifiedCount != 1 {
		t.Fatalf("сводка неверна: %+v", sum)
	}
	if sum.TotalAmount != 600 || sum.AverageAmount != 200 {
		t.Fatalf("суммы неверны: total=%v avg=%v", sum.TotalAmount, sum.AverageAmount)
	}

	// end_date включительно: пожертвование от 2 августа попадает
	result, err = service.List(context.Background(), &ListFilters{
		StartDate: "2026-08-01",
		EndDate:   "2026-08-02",
	})
	if err != nil {
		t.Fatalf("ошибка выборки с фильтром: %v", err)
	}
	if len(result.Donations) != 2 {
		t.Fatalf("ожидалось 2 пожертвования в диапазоне, получено %d", len(result.Donations))
	}

	// конец дня попадает целиком, включая субсекундные метки
	lastMoment := &models.Donation{
		Name:      "Донор",
		Email:     "late@example.com",
		Amount:    50,
		CreatedAt: time.Date(2026, 8, 2, 23, 59, 59, 500_000_000, time.UTC),
	}
	_ = repo.CreateDonation(context.Background(), lastMoment)

	result, err = service.List(context.Background(), &ListFilters{EndDate: "2026-08-02"})
	if err != nil {
		t.Fatalf("ошибка выборки по end_date: %v", err)
	}
	found := false
	for _, d := range result.Donations {
		if d.ID == lastMoment.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("запись за последнюю секунду дня должна попадать в диапазон")
	}
	_ = repo.removeByID(lastMoment.ID)

	// нечитаемая дата — предупреждение, не отказ
	result, err = service.List(context.Background(), &ListFilters{StartDate: "31-08-2026"})
	if err != nil {
		t.Fatalf("нечитаемая дата не должна ронять выборку: %v", err)
	}
	if len(result.Warnings) != 1 || len(result.Donations) != 3 {
		t.Fatalf("ожидалось предупреждение и полная выборка: %+v", result)
	}
}

func TestToggleVerification_KeepsStampsOnUnset(t *testing.T) {
	repo := newMockDonationRepo()
	service := newTestDonationService(repo, &stubArtifacts{})

	d := &models.Donation{Name: "Донор", Email: "d@example.com", Amount: 100, CreatedAt: time.Now()}
	_ = repo.CreateDonation(context.Background(), d)

	verified, err := service.ToggleVerification(context.Background(), d.ID, 7)
	if err != nil {
		t.Fatalf("ошибка верификации: %v", err)
	}
	if !verified.IsVerified || verified.VerifiedBy == nil || *verified.VerifiedBy != 7 {
		t.Fatalf("штампы не проставлены: %+v", verified)
	}

	unverified, err := service.ToggleVerification(context.Background(), d.ID, 9)
	if err != nil {
		t.Fatalf("ошибка снятия верификации: %v", err)
	}
	if unverified.IsVerified {
		t.Fatal("флаг должен быть снят")
	}
	// штампы последней верификации остаются историей
	if d.VerifiedBy == nil || *d.VerifiedBy != 7 {
		t.Fatalf("штампы не должны очищаться при снятии: %+v", d)
	}

	if _, err := service.ToggleVerification(context.Background(), 999, 7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ожидалась ErrNotFound, получено %v", err)
	}
}
