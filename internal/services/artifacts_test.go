package services

import (
	"dhrubfoundation/internal/models"
	"os"
	"strings"
	"testing"
	"time"
)

func TestGenerateQRAndInvoice(t *testing.T) {
	dir := t.TempDir()
	s := NewArtifactService(dir, "Dhrub Foundation")

	qrPath, err := s.GenerateQR("upi://pay?pa=fund%40upi&am=100.00")
	if err != nil {
		t.Fatalf("ошибка генерации QR: %v", err)
	}
	if info, err := os.Stat(qrPath); err != nil || info.Size() == 0 {
		t.Fatalf("QR-файл не записан: %v", err)
	}
	if !strings.HasSuffix(qrPath, ".png") {
		t.Fatalf("неожиданное расширение QR: %s", qrPath)
	}

	d := &models.Donation{
		Name:      "Иван Донор",
		Email:     "donor@example.com",
		Amount:    100,
		Provider:  "gpay",
		CreatedAt: time.Now(),
	}
	invoicePath, err := s.GenerateInvoice(d)
	if err != nil {
		t.Fatalf("ошибка генерации счёта: %v", err)
	}
	data, err := os.ReadFile(invoicePath)
	if err != nil {
		t.Fatalf("PDF-файл не записан: %v", err)
	}
	if !strings.HasPrefix(string(data[:5]), "%PDF-") {
		t.Fatal("файл не похож на PDF")
	}

	// два вызова дают разные имена
	qrPath2, err := s.GenerateQR("upi://pay?pa=fund%40upi&am=100.00")
	if err != nil {
		t.Fatalf("ошибка повторной генерации QR: %v", err)
	}
	if qrPath2 == qrPath {
		t.Fatal("имена артефактов должны быть уникальными")
	}

	s.Cleanup(qrPath, qrPath2, invoicePath)
	for _, p := range []string{qrPath, qrPath2, invoicePath} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Fatalf("Cleanup не удалил %s", p)
		}
	}
}
