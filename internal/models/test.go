package models

import (
	"time"

	"gorm.io/datatypes"
)

// Test is a graded bundle of exercises offered to one or more topics
// ("units" in the client vocabulary).
type Test struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null;size:200"`
	Description *string `json:"description" gorm:"type:text"`

	// Topic IDs whose students may take this test.
	Units datatypes.JSONSlice[uint] `json:"units" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Exercises   []Exercise   `json:"exercises,omitempty" gorm:"foreignKey:TestID"`
	TestResults []TestResult `json:"-" gorm:"foreignKey:TestID"`
}

func (Test) TableName() string {
	return "tests"
}

// TestResult is the single persisted outcome per (user, test). Resubmission
// overwrites TotalScore; the point award happens only on first creation.
type TestResult struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_user_test"`
	TestID uint   `json:"test_id" gorm:"not null;uniqueIndex:idx_user_test"`

	TotalScore int  `json:"total_score" gorm:"not null;default:0"`
	Completed  bool `json:"completed" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `json:"-" gorm:"foreignKey:UserID"`
	Test Test `json:"test,omitempty" gorm:"foreignKey:TestID"`
}

func (TestResult) TableName() string {
	return "test_results"
}
