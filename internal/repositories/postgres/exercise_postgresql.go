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

type ExercisePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewExercisePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ExerciseRepository {
	return &ExercisePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (e *ExercisePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return e.db
}

func (e *ExercisePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exercise, error) {
	db := e.getDB(tx)
	// Grading reads the same exercise repeatedly, cache it
	cacheKey := fmt.Sprintf("exercise:id:%d", id)
	var exercise models.Exercise

	err := e.cacheManager.Fast.CacheOrExecute(ctx, cacheKey, &exercise, cache.FastCacheConfig.TTL, func() (interface{}, error) {
		var dbExercise models.Exercise
		if err := db.WithContext(ctx).First(&dbExercise, id).Error; err != nil {
			return nil, err
		}
		return &dbExercise, nil
	})

	return &exercise, err
}

func (e *ExercisePostgreSQL) GetByLesson(ctx context.Context, tx *gorm.DB, lessonID uint) ([]*models.Exercise, error) {
	db := e.getDB(tx)
	var exercises []*models.Exercise
	if err := db.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("id ASC").
		Find(&exercises).Error; err != nil {
		return nil, fmt.Errorf("failed to get exercises by lesson: %w", err)
	}
	return exercises, nil
}

func (e *ExercisePostgreSQL) GetByTest(ctx context.Context, tx *gorm.DB, testID uint) ([]*models.Exercise, error) {
	db := e.getDB(tx)
	var exercises []*models.Exercise
	if err := db.WithContext(ctx).
		Where("test_id = ?", testID).
		Order("id ASC").
		Find(&exercises).Error; err != nil {
		return nil, fmt.Errorf("failed to get exercises by test: %w", err)
	}
	return exercises, nil
}

func (e *ExercisePostgreSQL) CountByLesson(ctx context.Context, tx *gorm.DB, lessonID uint) (int64, error) {
	db := e.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Exercise{}).
		Where("lesson_id = ?", lessonID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
