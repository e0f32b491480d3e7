package services

import (
	"context"
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/models"
	"dhrubfoundation/internal/repository"
	helpers "dhrubfoundation/internal/utils/helpres"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type DonationRepo interface {
	CreateDonation(ctx context.Context, d *models.Donation) error
	GetDonationByID(ctx context.Context, id int) (*models.Donation, error)
	ListDonations(ctx context.Context, filter *models.DonationFilter) ([]*models.Donation, error)
	SetVerification(ctx context.Context, id int, verified bool, adminID int, at time.Time) error
}

type DonationService struct {
	repo      DonationRepo
	artifacts ArtifactGenerator
	upi       *UPIService
	validate  *validator.Validate
}

func NewDonationService(repo DonationRepo, artifacts ArtifactGenerator, upi *UPIService) *DonationService {
	return &DonationService{
		repo:      repo,
		artifacts: artifacts,
		upi:       upi,
		validate:  validator.New(),
	}
}

// SubmitDonationInput — публичная форма пожертвования.
// amount приходит строкой (как из формы) и парсится здесь.
type SubmitDonationInput struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Amount         string `json:"amount" validate:"required"`
	Provider       string `json:"provider"`
	AccountNumber  string `json:"account_number"`
	IFSC           string `json:"ifsc"`
	TransactionRef string `json:"transaction_ref"`
}

type SubmitDonationResult struct {
	Donation    *models.Donation `json:"donation"`
	InvoicePath string           `json:"invoice_path"`
	QRPath      string           `json:"qr_path"`
	PaymentLink string           `json:"payment_link"`
}

// Submit валидирует форму, генерирует QR и PDF-счёт и создаёт запись.
// Любая ошибка валидации или генерации — и в БД не попадает ничего:
// частично записанные файлы подчищаются до возврата.
func (s *DonationService) Submit(ctx context.Context, input *SubmitDonationInput) (*SubmitDonationResult, error) {
	logger.Log.Info("Публичное пожертвование (service)", zap.String("email", input.Email), zap.String("provider", input.Provider))

	fields := ValidationErrors{}
	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				switch fe.Field() {
				case "Name":
					fields["name"] = "укажите имя"
				case "Email":
					fields["email"] = "укажите корректный email"
				case "Amount":
					fields["amount"] = "укажите сумму"
				}
			}
		}
	}

	amount, err := strconv.ParseFloat(input.Amount, 64)
	if err != nil || amount <= 0 {
		fields["amount"] = "сумма должна быть числом больше нуля"
	}

	if len(fields) > 0 {
		logger.Log.Warn("Форма пожертвования не прошла валидацию", zap.Any("fields", fields))
		return nil, fields
	}

	donation := &models.Donation{
		Name:           input.Name,
		Email:          input.Email,
		Amount:         amount,
		Provider:       input.Provider,
		AccountNumber:  input.AccountNumber,
		IFSC:           input.IFSC,
		TransactionRef: input.TransactionRef,
		CreatedAt:      time.Now(),
	}

	uri := s.upi.BuildPaymentURI(amount)

	qrPath, err := s.artifacts.GenerateQR(uri)
	if err != nil {
		logger.Log.Error("Сбой генерации QR", zap.Error(err))
		return nil, ErrArtifactGeneration
	}

	invoicePath, err := s.artifacts.GenerateInvoice(donation)
	if err != nil {
		logger.Log.Error("Сбой генерации счёта", zap.Error(err))
		s.artifacts.Cleanup(qrPath)
		return nil, ErrArtifactGeneration
	}

	donation.QRPath = qrPath
	donation.InvoicePath = invoicePath

	if err := s.repo.CreateDonation(ctx, donation); err != nil {
		logger.Log.Error("Ошибка сохранения пожертвования (service)", zap.Error(err))
		s.artifacts.Cleanup(qrPath, invoicePath)
		return nil, err
	}

	s.queueReceipt(donation)

	logger.Log.Info("Пожертвование создано",
		zap.Int("donation_id", donation.ID),
		zap.Float64("amount", amount),
	)

	return &SubmitDonationResult{
		Donation:    donation,
		InvoicePath: invoicePath,
		QRPath:      qrPath,
		PaymentLink: s.upi.ProviderLink(input.Provider, amount),
	}, nil
}

// queueReceipt ставит донору письмо-квитанцию с PDF-счётом во вложении.
// Доставка fire-and-forget: сбой почты пожертвование не трогает, а если
// счёт не читается — письмо уходит без вложения.
func (s *DonationService) queueReceipt(d *models.Donation) {
	job := EmailJob{
		To:      []string{d.Email},
		Subject: "Квитанция о пожертвовании",
		Body:    helpers.BuildDonationReceiptHTML(d.Name, d.Amount, d.Provider, d.CreatedAt),
		IsHTML:  true,
	}

	if data, err := os.ReadFile(d.InvoicePath); err == nil {
		job.Attachments = append(job.Attachments, Attachment{
			Filename:    fmt.Sprintf("receipt_%d.pdf", d.ID),
			ContentType: "application/pdf",
			Data:        data,
		})
	} else {
		logger.Log.Warn("Счёт не прочитан, квитанция уйдёт без вложения",
			zap.Int("donation_id", d.ID),
			zap.Error(err),
		)
	}

	EmailQueue <- job
}

// ListFilters — сырые строковые фильтры из query.
type ListFilters struct {
	Email     string
	Provider  string
	StartDate string
	EndDate   string
}

type ListResult struct {
	Donations []*models.Donation      `json:"donations"`
	Summary   *models.DonationSummary `json:"summary"`
	Warnings  []string                `json:"warnings,omitempty"`
}

const filterDateLayout = "2006-01-02"

// List применяет фильтры (нечитаемая дата — предупреждение, не отказ)
// и считает сводку по выборке.
func (s *DonationService) List(ctx context.Context, filters *ListFilters) (*ListResult, error) {
	parsed := &models.DonationFilter{}
	var warnings []string

	if filters != nil {
		parsed.Email = filters.Email
		parsed.Provider = filters.Provider

		if filters.StartDate != "" {
			if t, err := time.Parse(filterDateLayout, filters.StartDate); err == nil {
				parsed.StartDate = &t
			} else {
				logger.Log.Warn("Нечитаемая start-дата фильтра", zap.String("value", filters.StartDate))
				warnings = append(warnings, "дата начала не распознана и пропущена")
			}
		}
		if filters.EndDate != "" {
			if t, err := time.Parse(filterDateLayout, filters.EndDate); err == nil {
				// включительно: строгая граница — начало следующего дня
				end := t.AddDate(0, 0, 1)
				parsed.EndDate = &end
			} else {
				logger.Log.Warn("Нечитаемая end-дата фильтра", zap.String("value", filters.EndDate))
				warnings = append(warnings, "дата окончания не распознана и пропущена")
			}
		}
	}

	donations, err := s.repo.ListDonations(ctx, parsed)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Donations: donations,
		Summary:   summarize(donations),
		Warnings:  warnings,
	}, nil
}

// summarize считает сводку по уже отсортированной (новые сверху) выборке.
func summarize(donations []*models.Donation) *models.DonationSummary {
	sum := &models.DonationSummary{}
	for _, d := range donations {
		sum.TotalDonations++
		sum.TotalAmount += d.Amount
		if d.IsVerified {
			sum.VerifiedCount++
		}
	}
	if sum.TotalDonations > 0 {
		sum.AverageAmount = sum.TotalAmount / float64(sum.TotalDonations)
	}
	recent := donations
	if len(recent) > 5 {
		recent = recent[:5]
	}
	sum.Recent = recent
	return sum
}

// ToggleVerification переворачивает флаг. При установке — штампуем
// админа и время; при снятии прежние штампы остаются историей
// (сохраняем последнего верифицировавшего).
func (s *DonationService) ToggleVerification(ctx context.Context, donationID, actingAdminID int) (*models.Donation, error) {
	d, err := s.repo.GetDonationByID(ctx, donationID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	newState := !d.IsVerified
	now := time.Now()
	if err := s.repo.SetVerification(ctx, donationID, newState, actingAdminID, now); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	d.IsVerified = newState
	if newState {
		d.VerifiedBy = &actingAdminID
		d.VerifiedAt = &now
	}

	logger.Log.Info("Верификация переключена",
		zap.Int("donation_id", donationID),
		zap.Bool("verified", newState),
		zap.Int("admin_id", actingAdminID),
	)
	return d, nil
}
