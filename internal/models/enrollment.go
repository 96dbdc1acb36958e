package models

import "time"

// Enrollment is a user's active study of one topic. Progress is always
// recomputed from the LessonProgress rows, never incremented in place.
type Enrollment struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	UserID  string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_user_topic"`
	TopicID uint   `json:"topic_id" gorm:"not null;uniqueIndex:idx_user_topic"`

	// Current points at the LessonTopic row the user is working on.
	Current *uint `json:"current"`

	Progress  float64 `json:"progress" gorm:"not null;default:0"`
	Completed bool    `json:"completed" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User           User             `json:"-" gorm:"foreignKey:UserID"`
	Topic          Topic            `json:"topic,omitempty" gorm:"foreignKey:TopicID"`
	LessonProgress []LessonProgress `json:"lesson_progress,omitempty" gorm:"foreignKey:EnrollmentID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// LessonProgress is one row per (enrollment, lesson), created when the user
// enrolls and flipped to completed once every exercise of the lesson has a
// completed result.
type LessonProgress struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	EnrollmentID uint `json:"enrollment_id" gorm:"not null;uniqueIndex:idx_enrollment_lesson"`
	LessonID     uint `json:"lesson_id" gorm:"not null;uniqueIndex:idx_enrollment_lesson"`

	Completed bool `json:"completed" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Enrollment Enrollment `json:"-" gorm:"foreignKey:EnrollmentID"`
	Lesson     Lesson     `json:"lesson,omitempty" gorm:"foreignKey:LessonID"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}
