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

type ContentPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewContentPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ContentRepository {
	return &ContentPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (c *ContentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

func (c *ContentPostgreSQL) GetTopicByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Topic, error) {
	db := c.getDB(tx)
	cacheKey := fmt.Sprintf("topic:%d", id)
	var topic models.Topic

	err := c.cacheManager.Content.CacheOrExecute(ctx, cacheKey, &topic, cache.ContentCacheConfig.TTL, func() (interface{}, error) {
		var dbTopic models.Topic
		if err := db.WithContext(ctx).First(&dbTopic, id).Error; err != nil {
			return nil, err
		}
		return &dbTopic, nil
	})

	return &topic, err
}

func (c *ContentPostgreSQL) GetLessonByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Lesson, error) {
	db := c.getDB(tx)
	var lesson models.Lesson
	if err := db.WithContext(ctx).First(&lesson, id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (c *ContentPostgreSQL) ListLessonsByTopic(ctx context.Context, tx *gorm.DB, topicID uint) ([]*models.LessonTopic, error) {
	db := c.getDB(tx)
	var rows []*models.LessonTopic
	if err := db.WithContext(ctx).
		Where("topic_id = ?", topicID).
		Order("position ASC").
		Preload("Lesson").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list lessons by topic: %w", err)
	}
	return rows, nil
}

func (c *ContentPostgreSQL) LessonIDsByTopic(ctx context.Context, tx *gorm.DB, topicID uint) ([]uint, error) {
	db := c.getDB(tx)
	var lessonIDs []uint
	if err := db.WithContext(ctx).
		Model(&models.LessonTopic{}).
		Where("topic_id = ?", topicID).
		Order("position ASC").
		Pluck("lesson_id", &lessonIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to list lesson ids by topic: %w", err)
	}
	return lessonIDs, nil
}

func (c *ContentPostgreSQL) TopicIDsByLesson(ctx context.Context, tx *gorm.DB, lessonID uint) ([]uint, error) {
	db := c.getDB(tx)
	var topicIDs []uint
	if err := db.WithContext(ctx).
		Model(&models.LessonTopic{}).
		Where("lesson_id = ?", lessonID).
		Pluck("topic_id", &topicIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to list topic ids by lesson: %w", err)
	}
	return topicIDs, nil
}
