package services

import (
	"context"
	"dhrubfoundation/internal/models"
	"encoding/csv"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestExport_UnsupportedFormat(t *testing.T) {
	service := NewExportService(newMockDonationRepo(), t.TempDir())

	if _, err := service.Export(context.Background(), "pdf"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("ожидалась ErrUnsupportedFormat, получено %v", err)
	}
}

func TestExport_EmptyRegistry(t *testing.T) {
	service := NewExportService(newMockDonationRepo(), t.TempDir())

	if _, err := service.Export(context.Background(), "csv"); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("ожидалась ErrNothingToExport, получено %v", err)
	}
}

func TestExport_CSV(t *testing.T) {
	repo := newMockDonationRepo()
	dir := t.TempDir()
	service := NewExportService(repo, dir)

	d := &models.Donation{
		Name:       "Иван Донор",
		Email:      "donor@example.com",
		Amount:     250.5,
		Provider:   "phonepe",
		IsVerified: true,
		CreatedAt:  time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC),
	}
	_ = repo.CreateDonation(context.Background(), d)

	path, err := service.Export(context.Background(), "csv")
	if err != nil {
		t.Fatalf("ошибка экспорта: %v", err)
	}
	if !strings.HasPrefix(path, dir) || !strings.HasSuffix(path, ".csv") {
		t.Fatalf("неожиданный путь: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("файл экспорта не создан: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("ошибка чтения CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ожидались заголовок и 1 строка, получено %d", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][6] != "Verified" {
		t.Fatalf("заголовок неверен: %v", rows[0])
	}
	row := rows[1]
	if row[1] != "Иван Донор" || row[3] != "250.50" || row[6] != "yes" {
		t.Fatalf("строка экспорта неверна: %v", row)
	}
}

func TestExport_Excel(t *testing.T) {
	repo := newMockDonationRepo()
	dir := t.TempDir()
	service := NewExportService(repo, dir)

	d := &models.Donation{
		Name:      "Донор",
		Email:     "donor@example.com",
		Amount:    100,
		CreatedAt: time.Now(),
	}
	_ = repo.CreateDonation(context.Background(), d)

	path, err := service.Export(context.Background(), "excel")
	if err != nil {
		t.Fatalf("ошибка экспорта: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Fatalf("xlsx-файл не записан: %v", err)
	}
	if !strings.HasSuffix(path, ".xlsx") {
		t.Fatalf("неожиданное расширение: %s", path)
	}
}
