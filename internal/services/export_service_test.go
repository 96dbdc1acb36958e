package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"gorm.io/datatypes"

	"github.com/LinguaViet-2025/progress-service/internal/models"
)

func newTestExportService(repo *fakeRepository) ExportService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewExportService(repo, nil, logger)
}

func TestExportService_ExportTestResults(t *testing.T) {
	repo := newFakeRepository()
	repo.addTest(&models.Test{ID: 500, Title: "Unit review", Units: datatypes.JSONSlice[uint]{100}})

	repo.testResults["user-1"] = map[uint]*models.TestResult{
		500: {ID: 1, UserID: "user-1", TestID: 500, TotalScore: 20, Completed: true,
			User: models.User{FirstName: "An", LastName: "Nguyen", Email: "an@example.com"}},
	}
	repo.testResults["user-2"] = map[uint]*models.TestResult{
		500: {ID: 2, UserID: "user-2", TestID: 500, TotalScore: 35, Completed: true,
			User: models.User{FirstName: "Binh", LastName: "Tran", Email: "binh@example.com"}},
	}

	service := newTestExportService(repo)

	file, filename, err := service.ExportTestResults(context.Background(), 500)
	if err != nil {
		t.Fatalf("ExportTestResults() error = %v", err)
	}
	defer file.Close()

	if !strings.HasPrefix(filename, "test_500_results_") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("filename = %q, want test_500_results_*.xlsx", filename)
	}

	const sheet = "Results"

	header, err := file.GetCellValue(sheet, "A1")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if header != "Rank" {
		t.Errorf("A1 = %q, want Rank", header)
	}

	// Ranked by score: user-2 first
	topEmail, _ := file.GetCellValue(sheet, "C2")
	if topEmail != "binh@example.com" {
		t.Errorf("C2 = %q, want highest scorer first", topEmail)
	}
	topScore, _ := file.GetCellValue(sheet, "D2")
	if topScore != "35" {
		t.Errorf("D2 = %q, want 35", topScore)
	}

	// Summary block below the rows
	label, _ := file.GetCellValue(sheet, "A5")
	if label != "Submissions" {
		t.Errorf("A5 = %q, want Submissions", label)
	}
	count, _ := file.GetCellValue(sheet, "B5")
	if count != "2" {
		t.Errorf("B5 = %q, want 2", count)
	}
}

func TestExportService_ExportTestResults_NotFound(t *testing.T) {
	service := newTestExportService(newFakeRepository())

	_, _, err := service.ExportTestResults(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestExportService_ExportTestResults_NoSubmissions(t *testing.T) {
	repo := newFakeRepository()
	repo.addTest(&models.Test{ID: 500, Title: "Fresh test", Units: datatypes.JSONSlice[uint]{100}})

	service := newTestExportService(repo)

	file, _, err := service.ExportTestResults(context.Background(), 500)
	if err != nil {
		t.Fatalf("ExportTestResults() error = %v", err)
	}
	defer file.Close()

	count, _ := file.GetCellValue("Results", "B3")
	if count != "0" {
		t.Errorf("submission count = %q, want 0", count)
	}
}
