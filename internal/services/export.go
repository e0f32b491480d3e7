package services

import (
	"context"
	"dhrubfoundation/internal/logger"
	"dhrubfoundation/internal/models"
	"dhrubfoundation/internal/utils"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExportService материализует весь реестр пожертвований в файл.
type ExportService struct {
	repo      DonationRepo
	exportDir string
}

func NewExportService(repo DonationRepo, exportDir string) *ExportService {
	return &ExportService{repo: repo, exportDir: exportDir}
}

var exportHeader = []string{"ID", "Name", "Email", "Amount", "Provider", "Date", "Verified"}

const exportDateLayout = "2006-01-02 15:04"

// Export пишет файл под случайным именем в exportDir и возвращает путь.
// Пустой реестр — это отдельный сигнал, а не пустой файл.
func (s *ExportService) Export(ctx context.Context, format string) (string, error) {
	logger.Log.Info("Экспорт реестра пожертвований (service)", zap.String("format", format))

	if format != "csv" && format != "excel" {
		return "", ErrUnsupportedFormat
	}

	donations, err := s.repo.ListDonations(ctx, nil)
	if err != nil {
		return "", err
	}
	if len(donations) == 0 {
		return "", ErrNothingToExport
	}

	if err := utils.EnsureDir(s.exportDir); err != nil {
		return "", err
	}

	switch format {
	case "csv":
		return s.exportCSV(donations)
	default:
		return s.exportExcel(donations)
	}
}

func exportRow(d *models.Donation) []string {
	verified := "no"
	if d.IsVerified {
		verified = "yes"
	}
	return []string{
		strconv.Itoa(d.ID),
		d.Name,
		d.Email,
		fmt.Sprintf("%.2f", d.Amount),
		d.Provider,
		d.CreatedAt.Format(exportDateLayout),
		verified,
	}
}

func (s *ExportService) exportCSV(donations []*models.Donation) (string, error) {
	path := filepath.Join(s.exportDir, "donations_"+uuid.NewString()+".csv")
	f, err := os.Create(path)
	if err != nil {
		logger.Log.Error("Ошибка создания CSV-файла", zap.Error(err), zap.String("path", path))
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(exportHeader); err != nil {
		return "", err
	}
	for _, d := range donations {
		if err := w.Write(exportRow(d)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		logger.Log.Error("Ошибка записи CSV", zap.Error(err))
		return "", err
	}

	logger.Log.Info("CSV-экспорт готов", zap.String("path", path), zap.Int("rows", len(donations)))
	return path, nil
}

func (s *ExportService) exportExcel(donations []*models.Donation) (string, error) {
	path := filepath.Join(s.exportDir, "donations_"+uuid.NewString()+".xlsx")

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Donations"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return "", err
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	for col, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for rowIdx, d := range donations {
		row := exportRow(d)
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if col == 3 {
				// сумму пишем числом, а не строкой
				_ = f.SetCellValue(sheet, cell, d.Amount)
				continue
			}
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	if err := f.SaveAs(path); err != nil {
		logger.Log.Error("Ошибка записи Excel-файла", zap.Error(err), zap.String("path", path))
		return "", err
	}

	logger.Log.Info("Excel-экспорт готов", zap.String("path", path), zap.Int("rows", len(donations)))
	return path, nil
}
