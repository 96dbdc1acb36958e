package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/LinguaViet-2025/progress-service/internal/repositories"
)

type exportService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// ExportTestResults builds a spreadsheet of all results for one test,
// ranked by score. Returns the workbook and a suggested file name.
func (s *exportService) ExportTestResults(ctx context.Context, testID uint) (*excelize.File, string, error) {
	test, err := s.repo.Test().GetByID(ctx, nil, testID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", NewNotFoundError("test", testID)
		}
		return nil, "", fmt.Errorf("failed to get test: %w", err)
	}

	results, err := s.repo.TestResult().ListByTest(ctx, nil, testID)
	if err != nil {
		return nil, "", err
	}

	stats, err := s.repo.TestResult().GetStats(ctx, nil, testID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	const sheet = "Results"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Rank", "Name", "Email", "Score", "Submitted At"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err == nil {
		f.SetCellStyle(sheet, "A1", "E1", headerStyle)
	}

	for i, result := range results {
		row := i + 2
		name := fmt.Sprintf("%s %s", result.User.FirstName, result.User.LastName)
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), result.User.Email)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), result.TotalScore)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), result.CreatedAt.Format(time.RFC3339))
	}

	summaryRow := len(results) + 3
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Submissions")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow), stats.TotalSubmissions)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow+1), "Average score")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow+1), stats.AverageScore)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow+2), "Highest score")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", summaryRow+2), stats.HighestScore)

	f.SetColWidth(sheet, "B", "C", 28)
	f.SetColWidth(sheet, "E", "E", 24)

	filename := fmt.Sprintf("test_%d_results_%s.xlsx", test.ID, time.Now().Format("20060102"))

	s.logger.Info("Test results exported",
		"test_id", testID,
		"rows", len(results))

	return f, filename, nil
}
