package models

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

type ExerciseType string

const (
	ExerciseFillInBlank    ExerciseType = "fillInBlank"
	ExerciseMultipleChoice ExerciseType = "multipleChoice"
)

// OwnerKind discriminates the two legal containers of an exercise.
type OwnerKind string

const (
	OwnerLesson OwnerKind = "lesson"
	OwnerTest   OwnerKind = "test"
)

// ExerciseOwner is the tagged union "lesson OR test". Storage keeps two
// nullable foreign keys; this type is the only way callers observe them,
// so the mutual exclusivity cannot be bypassed in Go code.
type ExerciseOwner struct {
	Kind OwnerKind
	ID   uint
}

func LessonOwner(lessonID uint) ExerciseOwner {
	return ExerciseOwner{Kind: OwnerLesson, ID: lessonID}
}

func TestOwner(testID uint) ExerciseOwner {
	return ExerciseOwner{Kind: OwnerTest, ID: testID}
}

// ErrAmbiguousOwner reports a row that violates the lesson-XOR-test
// constraint (both or neither foreign key set).
var ErrAmbiguousOwner = errors.New("exercise must belong to exactly one lesson or test")

type Exercise struct {
	ID       uint         `json:"id" gorm:"primaryKey"`
	Question string       `json:"question" gorm:"not null;type:text"`
	Answer   string       `json:"answer" gorm:"not null;type:text"`
	Point    int          `json:"point" gorm:"not null"`
	Type     ExerciseType `json:"exercise_type" gorm:"default:fillInBlank;size:30"`

	// Ordered choice list, required (len >= 2) for multipleChoice.
	Options datatypes.JSON `json:"options" gorm:"type:jsonb"`

	// Exactly one of these is set; see Owner.
	LessonID *uint `json:"lesson_id" gorm:"index"`
	TestID   *uint `json:"test_id" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Exercise) TableName() string {
	return "exercises"
}

// Owner resolves the container of the exercise as a tagged union.
func (e *Exercise) Owner() (ExerciseOwner, error) {
	switch {
	case e.LessonID != nil && e.TestID == nil:
		return LessonOwner(*e.LessonID), nil
	case e.TestID != nil && e.LessonID == nil:
		return TestOwner(*e.TestID), nil
	default:
		return ExerciseOwner{}, ErrAmbiguousOwner
	}
}

// ExerciseResult is the single persisted outcome per (user, exercise).
// Score is always 0 or the exercise's full point value; Completed holds
// exactly when full credit was earned.
type ExerciseResult struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	UserID     string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_user_exercise"`
	ExerciseID uint   `json:"exercise_id" gorm:"not null;uniqueIndex:idx_user_exercise"`

	Score     int  `json:"score" gorm:"not null;default:0"`
	Completed bool `json:"completed" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User     User     `json:"-" gorm:"foreignKey:UserID"`
	Exercise Exercise `json:"exercise,omitempty" gorm:"foreignKey:ExerciseID"`
}

func (ExerciseResult) TableName() string {
	return "exercise_results"
}
