package models

import "time"

// Topic is a course: a named group of lessons at one difficulty level.
type Topic struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	TopicName   string  `json:"topic_name" gorm:"not null;size:200"`
	Description *string `json:"description" gorm:"type:text"`
	Level       *string `json:"level" gorm:"size:50"`

	// Opaque media URL, managed by the upload service.
	Image *string `json:"image" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Lessons []LessonTopic `json:"lessons,omitempty" gorm:"foreignKey:TopicID"`
}

func (Topic) TableName() string {
	return "topics"
}

// Lesson is a unit of content. Membership and ordering within a topic live
// on LessonTopic, so a lesson can be reused across topics.
type Lesson struct {
	ID      uint    `json:"id" gorm:"primaryKey"`
	Title   string  `json:"title" gorm:"not null;size:200"`
	Content *string `json:"content" gorm:"type:text"`

	// Opaque media URLs, managed by the upload service.
	AudioURL *string `json:"audio_url" gorm:"size:500"`
	ImageURL *string `json:"image_url" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Exercises []Exercise `json:"exercises,omitempty" gorm:"foreignKey:LessonID"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// LessonTopic records lesson membership and ordering within a topic.
type LessonTopic struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	TopicID  uint `json:"topic_id" gorm:"not null;index;uniqueIndex:idx_topic_lesson"`
	LessonID uint `json:"lesson_id" gorm:"not null;index;uniqueIndex:idx_topic_lesson"`
	Position int  `json:"position" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`

	Topic  Topic  `json:"topic,omitempty" gorm:"foreignKey:TopicID"`
	Lesson Lesson `json:"lesson,omitempty" gorm:"foreignKey:LessonID"`
}

func (LessonTopic) TableName() string {
	return "lesson_topics"
}
