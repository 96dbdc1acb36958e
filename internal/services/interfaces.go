package services

import (
	"context"

	"github.com/xuri/excelize/v2"

	"github.com/LinguaViet-2025/progress-service/internal/models"
	"github.com/LinguaViet-2025/progress-service/internal/repositories"
)

// ===== SUBMISSION DTOs =====

type SubmitExerciseRequest struct {
	ExerciseID uint   `json:"exercise_id" validate:"required"`
	Answer     string `json:"answer"`
}

type SubmitExerciseResponse struct {
	ExerciseID      uint `json:"exercise_id"`
	Score           int  `json:"score"`
	Correct         bool `json:"correct"`
	Completed       bool `json:"completed"`
	PointsAwarded   int  `json:"points_awarded"`
	TotalPoints     int  `json:"total_points"`
	LessonCompleted bool `json:"lesson_completed"`
	TopicCompleted  bool `json:"topic_completed"`
}

type TestAnswerRequest struct {
	ExerciseID uint   `json:"exercise_id" validate:"required"`
	Answer     string `json:"answer"`
}

type SubmitTestRequest struct {
	TestID  uint                `json:"test_id" validate:"required"`
	Answers []TestAnswerRequest `json:"answers" validate:"dive"`
}

// ExerciseGrade is the per-question detail of a graded test: the question,
// what the user answered, the correct answer and the points. Informational
// only, nothing is derived from it afterwards.
type ExerciseGrade struct {
	ExerciseID    uint   `json:"exercise_id"`
	Question      string `json:"question"`
	Answer        string `json:"answer"`
	CorrectAnswer string `json:"correct_answer"`
	Score         int    `json:"score"`
	MaxScore      int    `json:"max_score"`
	Correct       bool   `json:"correct"`
	Answered      bool   `json:"answered"`
}

type SubmitTestResponse struct {
	TestID        uint            `json:"test_id"`
	TotalScore    int             `json:"total_score"`
	MaxScore      int             `json:"max_score"`
	PointsAwarded int             `json:"points_awarded"`
	FirstAttempt  bool            `json:"first_attempt"`
	Exercises     []ExerciseGrade `json:"exercises"`
}

type ExerciseResultListResponse struct {
	Results []*models.ExerciseResult `json:"results"`
	Total   int64                    `json:"total"`
}

// TestSummary is a test on the read path, decorated with the caller's own
// result. Answers are stripped before it leaves the service.
type TestSummary struct {
	*models.Test
	Completed  bool `json:"completed"`
	TotalScore int  `json:"total_score"`
	MaxScore   int  `json:"max_score"`
}

// ===== ENROLLMENT DTOs =====

type EnrollRequest struct {
	TopicID uint `json:"topic_id" validate:"required"`
}

type EnrollmentResponse struct {
	*models.Enrollment
}

type EnrollmentListResponse struct {
	Enrollments []*models.Enrollment `json:"enrollments"`
	Total       int64                `json:"total"`
}

// ===== PROGRESS DTOs =====

// ProgressUpdate reports what changed after a lesson-side submission.
// TopicsUpdated lists every enrolled topic whose progress the lesson
// advanced; TopicsCompleted the subset that reached 100%.
type ProgressUpdate struct {
	LessonCompleted bool   `json:"lesson_completed"`
	TopicsUpdated   []uint `json:"topics_updated,omitempty"`
	TopicsCompleted []uint `json:"topics_completed,omitempty"`
}

type UserPointsResponse struct {
	UserID     string `json:"user_id"`
	EarnPoints int    `json:"earnpoints"`
}

// ===== SERVICE INTERFACES =====

// ScoringService grades answers against stored exercises. Methods are pure;
// all persistence happens in SubmissionService.
type ScoringService interface {
	GradeExercise(exercise *models.Exercise, answer string) (score int, correct bool)
	GradeTest(exercises []*models.Exercise, answers []TestAnswerRequest) ([]ExerciseGrade, int, int, error)
}

// SubmissionService orchestrates grading, result persistence, point awards
// and progress updates.
type SubmissionService interface {
	SubmitExercise(ctx context.Context, userID string, req *SubmitExerciseRequest) (*SubmitExerciseResponse, error)
	SubmitTest(ctx context.Context, userID string, req *SubmitTestRequest) (*SubmitTestResponse, error)
	GetUserExerciseResults(ctx context.Context, userID string, filters repositories.ResultFilters) (*ExerciseResultListResponse, error)
	GetUserLessonResults(ctx context.Context, userID string, lessonID uint) (*ExerciseResultListResponse, error)
	GetTestResult(ctx context.Context, userID string, testID uint) (*models.TestResult, error)
}

// ProgressService maintains lesson and enrollment completion state.
type ProgressService interface {
	// IsLessonFullyCompleted checks whether every exercise of the lesson has
	// a completed result for the user. Lessons without exercises report false.
	IsLessonFullyCompleted(ctx context.Context, userID string, lessonID uint) (bool, error)

	// ApplyLessonCompletion runs inside a submission transaction: it flips the
	// lesson progress rows and recomputes every affected enrollment.
	ApplyLessonCompletion(ctx context.Context, repo repositories.Repository, userID string, lessonID uint) (*ProgressUpdate, error)

	// RecomputeEnrollmentProgress recalculates progress from scratch. Missing
	// enrollment is a no-op.
	RecomputeEnrollmentProgress(ctx context.Context, repo repositories.Repository, userID string, topicID uint) error
}

// EnrollmentService manages topic enrollments.
type EnrollmentService interface {
	Enroll(ctx context.Context, userID string, req *EnrollRequest) (*EnrollmentResponse, error)
	GetUserEnrollments(ctx context.Context, userID string, filters repositories.EnrollmentFilters) (*EnrollmentListResponse, error)
	GetEnrollment(ctx context.Context, userID string, topicID uint) (*EnrollmentResponse, error)
}

// ContentService exposes read paths on the catalog and user state.
type ContentService interface {
	GetExercisesByLesson(ctx context.Context, lessonID uint) ([]*models.Exercise, error)
	GetTestsByUnit(ctx context.Context, userID string, topicID uint) ([]*TestSummary, error)
	GetAvailableTests(ctx context.Context, userID string) ([]*TestSummary, error)
	GetTestByID(ctx context.Context, testID uint) (*models.Test, error)
	GetUserPoints(ctx context.Context, userID string) (*UserPointsResponse, error)
}

// ExportService produces spreadsheet exports for administrators.
type ExportService interface {
	ExportTestResults(ctx context.Context, testID uint) (*excelize.File, string, error)
}

// ServiceManager wires and owns all service instances.
type ServiceManager interface {
	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
	HealthCheck(ctx context.Context) error

	Scoring() ScoringService
	Submission() SubmissionService
	Progress() ProgressService
	Enrollment() EnrollmentService
	Content() ContentService
	Export() ExportService
}
