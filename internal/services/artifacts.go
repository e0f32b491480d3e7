package services

import (
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/models"
	"dhrubfoundation/internal/utils"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// ArtifactGenerator создаёт файлы пожертвования (QR и счёт).
// Возвращает пути; при ошибке не оставляет за собой частично
// записанных файлов.
type ArtifactGenerator interface {
	GenerateQR(uri string) (string, error)
	GenerateInvoice(d *models.Donation) (string, error)
	Cleanup(paths ...string)
}

type ArtifactService struct {
	uploadDir string
	orgName   string
}

func NewArtifactService(uploadDir, orgName string) *ArtifactService {
	return &ArtifactService{uploadDir: uploadDir, orgName: orgName}
}

// GenerateQR кодирует платёжную ссылку в PNG.
// Имя файла — случайный uuid: не перебрать и не перезаписать снаружи.
func (s *ArtifactService) GenerateQR(uri string) (string, error) {
	png, err := qrcode.Encode(uri, qrcode.Medium, 256)
	if err != nil {
		logger.Log.Error("Ошибка кодирования QR", zap.Error(err))
		return "", err
	}

	path := filepath.Join(s.uploadDir, "qr", uuid.NewString()+".png")
	if err := utils.WriteFile(path, png); err != nil {
		logger.Log.Error("Ошибка записи QR-файла", zap.Error(err), zap.String("path", path))
		return "", err
	}
	return path, nil
}

// GenerateInvoice рендерит PDF-счёт по полям пожертвования.
func (s *ArtifactService) GenerateInvoice(d *models.Donation) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, s.orgName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, "Donation Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	line := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}

	line("Donor", d.Name)
	line("Email", d.Email)
	line("Amount", fmt.Sprintf("INR %.2f", d.Amount))
	line("Provider", d.Provider)
	if d.AccountNumber != "" {
		line("Account", d.AccountNumber)
	}
	if d.IFSC != "" {
		line("IFSC", d.IFSC)
	}
	if d.TransactionRef != "" {
		line("Transaction ref", d.TransactionRef)
	}
	line("Date", d.CreatedAt.Format("02 Jan 2006 15:04"))

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Thank you for supporting our work. This invoice confirms that your donation request has been recorded; it will be marked verified once the payment is confirmed.", "", "L", false)

	path := filepath.Join(s.uploadDir, "invoices", uuid.NewString()+".pdf")
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return "", err
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		logger.Log.Error("Ошибка записи PDF-счёта", zap.Error(err), zap.String("path", path))
		return "", err
	}
	return path, nil
}

// Cleanup подчищает уже записанные файлы после частичного сбоя,
// чтобы не осталось артефактов без строки в БД.
func (s *ArtifactService) Cleanup(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := utils.DeleteFile(p); err != nil {
			logger.Log.Warn("Не удалось удалить артефакт", zap.String("path", p), zap.Error(err))
		}
	}
}
