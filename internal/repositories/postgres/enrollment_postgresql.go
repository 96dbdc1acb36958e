package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/LinguaViet-2025/progress-service/internal/cache"
	"github.com/LinguaViet-2025/progress-service/internal/models"
	"github.com/LinguaViet-2025/progress-service/internal/repositories"
)

type EnrollmentPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewEnrollmentPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (e *EnrollmentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return e.db
}

func (e *EnrollmentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	db := e.getDB(tx)
	if err := db.WithContext(ctx).Create(enrollment).Error; err != nil {
		return fmt.Errorf("failed to create enrollment: %w", err)
	}

	_ = e.cacheManager.InvalidateUserProgress(ctx, enrollment.UserID)
	return nil
}

func (e *EnrollmentPostgreSQL) Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	db := e.getDB(tx)
	if err := db.WithContext(ctx).Save(enrollment).Error; err != nil {
		return fmt.Errorf("failed to update enrollment: %w", err)
	}

	_ = e.cacheManager.InvalidateUserProgress(ctx, enrollment.UserID)
	return nil
}

func (e *EnrollmentPostgreSQL) GetByUserAndTopic(ctx context.Context, tx *gorm.DB, userID string, topicID uint) (*models.Enrollment, error) {
	db := e.getDB(tx)
	var enrollment models.Enrollment
	if err := db.WithContext(ctx).
		Where("user_id = ? AND topic_id = ?", userID, topicID).
		First(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (e *EnrollmentPostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	db := e.getDB(tx)
	var enrollments []*models.Enrollment
	var total int64

	query := db.WithContext(ctx).Model(&models.Enrollment{}).Where("user_id = ?", userID)
	if filters.Completed != nil {
		query = query.Where("completed = ?", *filters.Completed)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("updated_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Preload("Topic").Find(&enrollments).Error; err != nil {
		return nil, 0, err
	}

	return enrollments, total, nil
}

func (e *EnrollmentPostgreSQL) TopicIDsByUser(ctx context.Context, tx *gorm.DB, userID string) ([]uint, error) {
	db := e.getDB(tx)
	var topicIDs []uint
	if err := db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("user_id = ?", userID).
		Pluck("topic_id", &topicIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to get enrolled topics: %w", err)
	}
	return topicIDs, nil
}

func (e *EnrollmentPostgreSQL) CreateLessonProgress(ctx context.Context, tx *gorm.DB, rows []*models.LessonProgress) error {
	if len(rows) == 0 {
		return nil
	}

	db := e.getDB(tx)
	if err := db.WithContext(ctx).Create(rows).Error; err != nil {
		return fmt.Errorf("failed to create lesson progress rows: %w", err)
	}
	return nil
}

func (e *EnrollmentPostgreSQL) GetLessonProgress(ctx context.Context, tx *gorm.DB, enrollmentID, lessonID uint) (*models.LessonProgress, error) {
	db := e.getDB(tx)
	var row models.LessonProgress
	if err := db.WithContext(ctx).
		Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (e *EnrollmentPostgreSQL) UpdateLessonProgress(ctx context.Context, tx *gorm.DB, row *models.LessonProgress) error {
	db := e.getDB(tx)
	return db.WithContext(ctx).Save(row).Error
}

func (e *EnrollmentPostgreSQL) CountLessons(ctx context.Context, tx *gorm.DB, enrollmentID uint) (int64, error) {
	db := e.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.LessonProgress{}).
		Where("enrollment_id = ?", enrollmentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (e *EnrollmentPostgreSQL) CountCompletedLessons(ctx context.Context, tx *gorm.DB, enrollmentID uint) (int64, error) {
	db := e.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.LessonProgress{}).
		Where("enrollment_id = ? AND completed = ?", enrollmentID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
