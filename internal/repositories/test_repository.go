package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/LinguaViet-2025/progress-service/internal/models"
)

// TestRepository reads tests and their exercise bundles.
type TestRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Test, error)
	GetByIDWithExercises(ctx context.Context, tx *gorm.DB, id uint) (*models.Test, error)
	ListByUnit(ctx context.Context, tx *gorm.DB, topicID uint) ([]*models.Test, error)

	// ListByUnits returns tests visible to any of the given topics.
	ListByUnits(ctx context.Context, tx *gorm.DB, topicIDs []uint) ([]*models.Test, error)
}

// TestResultRepository manages per-(user, test) outcomes.
type TestResultRepository interface {
	Create(ctx context.Context, tx *gorm.DB, result *models.TestResult) error
	Update(ctx context.Context, tx *gorm.DB, result *models.TestResult) error
	GetByUserAndTest(ctx context.Context, tx *gorm.DB, userID string, testID uint) (*models.TestResult, error)
	ListByTest(ctx context.Context, tx *gorm.DB, testID uint) ([]*models.TestResult, error)
	GetStats(ctx context.Context, tx *gorm.DB, testID uint) (*TestResultStats, error)
}
