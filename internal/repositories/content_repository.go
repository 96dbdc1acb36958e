package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/LinguaViet-2025/progress-service/internal/models"
)

// ContentRepository reads the topic and lesson catalog.
type ContentRepository interface {
	GetTopicByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Topic, error)
	GetLessonByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Lesson, error)

	// ListLessonsByTopic returns the topic's lessons ordered by position.
	ListLessonsByTopic(ctx context.Context, tx *gorm.DB, topicID uint) ([]*models.LessonTopic, error)

	LessonIDsByTopic(ctx context.Context, tx *gorm.DB, topicID uint) ([]uint, error)

	// TopicIDsByLesson returns the topics a lesson belongs to. Lessons can be
	// shared, so completing one may advance several enrollments.
	TopicIDsByLesson(ctx context.Context, tx *gorm.DB, lessonID uint) ([]uint, error)
}
