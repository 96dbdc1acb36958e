package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/LinguaViet-2025/progress-service/internal/models"
)

// ExerciseRepository reads exercises from the content catalog.
type ExerciseRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exercise, error)
	GetByLesson(ctx context.Context, tx *gorm.DB, lessonID uint) ([]*models.Exercise, error)
	GetByTest(ctx context.Context, tx *gorm.DB, testID uint) ([]*models.Exercise, error)
	CountByLesson(ctx context.Context, tx *gorm.DB, lessonID uint) (int64, error)
}

// ExerciseResultRepository manages per-(user, exercise) grading outcomes.
type ExerciseResultRepository interface {
	GetByUserAndExercise(ctx context.Context, tx *gorm.DB, userID string, exerciseID uint) (*models.ExerciseResult, error)

	// Upsert inserts or overwrites the single row for (user, exercise).
	Upsert(ctx context.Context, tx *gorm.DB, result *models.ExerciseResult) error

	ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters ResultFilters) ([]*models.ExerciseResult, int64, error)
	ListByUserAndExercises(ctx context.Context, tx *gorm.DB, userID string, exerciseIDs []uint) ([]*models.ExerciseResult, error)

	// CountCompleted counts completed results the user holds among the
	// given exercises.
	CountCompleted(ctx context.Context, tx *gorm.DB, userID string, exerciseIDs []uint) (int64, error)
}
