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

type TestResultPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewTestResultPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.TestResultRepository {
	return &TestResultPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *TestResultPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *TestResultPostgreSQL) Create(ctx context.Context, tx *gorm.DB, result *models.TestResult) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("failed to create test result: %w", err)
	}

	_ = r.cacheManager.InvalidateTest(ctx, result.TestID)
	return nil
}

func (r *TestResultPostgreSQL) Update(ctx context.Context, tx *gorm.DB, result *models.TestResult) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(result).Error; err != nil {
		return fmt.Errorf("failed to update test result: %w", err)
	}

	_ = r.cacheManager.InvalidateTest(ctx, result.TestID)
	return nil
}

func (r *TestResultPostgreSQL) GetByUserAndTest(ctx context.Context, tx *gorm.DB, userID string, testID uint) (*models.TestResult, error) {
	db := r.getDB(tx)
	var result models.TestResult
	if err := db.WithContext(ctx).
		Where("user_id = ? AND test_id = ?", userID, testID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *TestResultPostgreSQL) ListByTest(ctx context.Context, tx *gorm.DB, testID uint) ([]*models.TestResult, error) {
	db := r.getDB(tx)
	var results []*models.TestResult
	if err := db.WithContext(ctx).
		Where("test_id = ?", testID).
		Preload("User").
		Order("total_score DESC").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to list test results: %w", err)
	}
	return results, nil
}

func (r *TestResultPostgreSQL) GetStats(ctx context.Context, tx *gorm.DB, testID uint) (*repositories.TestResultStats, error) {
	db := r.getDB(tx)
	cacheKey := fmt.Sprintf("test:%d", testID)
	var stats repositories.TestResultStats

	err := r.cacheManager.Stats.CacheOrExecute(ctx, cacheKey, &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		var dbStats repositories.TestResultStats
		row := db.WithContext(ctx).
			Model(&models.TestResult{}).
			Select("COUNT(*) AS total_submissions, COALESCE(AVG(total_score), 0) AS average_score, COALESCE(MAX(total_score), 0) AS highest_score, COALESCE(MIN(total_score), 0) AS lowest_score").
			Where("test_id = ?", testID).
			Scan(&dbStats)
		if row.Error != nil {
			return nil, row.Error
		}
		return &dbStats, nil
	})
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
