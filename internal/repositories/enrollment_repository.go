package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/LinguaViet-2025/progress-service/internal/models"
)

// EnrollmentRepository manages enrollments and their per-lesson progress rows.
type EnrollmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	GetByUserAndTopic(ctx context.Context, tx *gorm.DB, userID string, topicID uint) (*models.Enrollment, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters EnrollmentFilters) ([]*models.Enrollment, int64, error)

	// TopicIDsByUser returns the topics the user is enrolled in.
	TopicIDsByUser(ctx context.Context, tx *gorm.DB, userID string) ([]uint, error)

	// Lesson progress rows, one per (enrollment, lesson).
	CreateLessonProgress(ctx context.Context, tx *gorm.DB, rows []*models.LessonProgress) error
	GetLessonProgress(ctx context.Context, tx *gorm.DB, enrollmentID, lessonID uint) (*models.LessonProgress, error)
	UpdateLessonProgress(ctx context.Context, tx *gorm.DB, row *models.LessonProgress) error
	CountLessons(ctx context.Context, tx *gorm.DB, enrollmentID uint) (int64, error)
	CountCompletedLessons(ctx context.Context, tx *gorm.DB, enrollmentID uint) (int64, error)
}
