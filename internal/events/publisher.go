package events

import (
	"context"
	"time"
)

// Event types emitted by the progress service.
const (
	EventExerciseGraded = "progress.exercise_graded"
	EventTestGraded     = "progress.test_graded"
	EventPointsAwarded  = "progress.points_awarded"
	EventLessonDone     = "progress.lesson_completed"
	EventTopicDone      = "progress.topic_completed"
	EventUserEnrolled   = "progress.user_enrolled"
)

// Event is the envelope for every message published to the bus.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// ===== EVENT PAYLOADS =====

type ExerciseGradedEvent struct {
	UserID        string `json:"user_id"`
	ExerciseID    uint   `json:"exercise_id"`
	Score         int    `json:"score"`
	Completed     bool   `json:"completed"`
	PointsAwarded int    `json:"points_awarded"`
}

type TestGradedEvent struct {
	UserID        string `json:"user_id"`
	TestID        uint   `json:"test_id"`
	TotalScore    int    `json:"total_score"`
	PointsAwarded int    `json:"points_awarded"`
	FirstAttempt  bool   `json:"first_attempt"`
}

type PointsAwardedEvent struct {
	UserID      string `json:"user_id"`
	Points      int    `json:"points"`
	TotalPoints int    `json:"total_points"`
	Reason      string `json:"reason"`
}

type LessonCompletedEvent struct {
	UserID   string `json:"user_id"`
	LessonID uint   `json:"lesson_id"`
	TopicID  uint   `json:"topic_id"`
}

type TopicCompletedEvent struct {
	UserID  string `json:"user_id"`
	TopicID uint   `json:"topic_id"`
}

type UserEnrolledEvent struct {
	UserID  string `json:"user_id"`
	TopicID uint   `json:"topic_id"`
}
