package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/LinguaViet-2025/progress-service/internal/cache"
	"github.com/LinguaViet-2025/progress-service/internal/models"
	"github.com/LinguaViet-2025/progress-service/internal/repositories"
)

type TestPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewTestPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.TestRepository {
	return &TestPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (t *TestPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return t.db
}

func (t *TestPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Test, error) {
	db := t.getDB(tx)
	var test models.Test
	if err := db.WithContext(ctx).First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

func (t *TestPostgreSQL) GetByIDWithExercises(ctx context.Context, tx *gorm.DB, id uint) (*models.Test, error) {
	db := t.getDB(tx)
	cacheKey := fmt.Sprintf("id:%d:full", id)
	var test models.Test

	err := t.cacheManager.Test.CacheOrExecute(ctx, cacheKey, &test, cache.TestCacheConfig.TTL, func() (interface{}, error) {
		var dbTest models.Test
		if err := db.WithContext(ctx).
			Preload("Exercises").
			First(&dbTest, id).Error; err != nil {
			return nil, err
		}
		return &dbTest, nil
	})

	return &test, err
}

func (t *TestPostgreSQL) ListByUnit(ctx context.Context, tx *gorm.DB, topicID uint) ([]*models.Test, error) {
	db := t.getDB(tx)
	var tests []*models.Test
	if err := db.WithContext(ctx).
		Preload("Exercises").
		Where(datatypes.JSONArrayQuery("units").Contains(topicID)).
		Order("id ASC").
		Find(&tests).Error; err != nil {
		return nil, fmt.Errorf("failed to list tests by unit: %w", err)
	}
	return tests, nil
}

// ListByUnits collects tests visible to any of the topics, deduplicating
// tests shared between topics.
func (t *TestPostgreSQL) ListByUnits(ctx context.Context, tx *gorm.DB, topicIDs []uint) ([]*models.Test, error) {
	if len(topicIDs) == 0 {
		return nil, nil
	}

	db := t.getDB(tx)
	query := db.WithContext(ctx).Model(&models.Test{})

	cond := db.Where(datatypes.JSONArrayQuery("units").Contains(topicIDs[0]))
	for _, topicID := range topicIDs[1:] {
		cond = cond.Or(datatypes.JSONArrayQuery("units").Contains(topicID))
	}

	var tests []*models.Test
	if err := query.Preload("Exercises").Where(cond).Order("id ASC").Find(&tests).Error; err != nil {
		return nil, fmt.Errorf("failed to list tests by units: %w", err)
	}
	return tests, nil
}
