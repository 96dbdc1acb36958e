package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/LinguaViet-2025/progress-service/internal/models"
	"github.com/LinguaViet-2025/progress-service/internal/repositories"
)

type contentService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewContentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) ContentService {
	return &contentService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (s *contentService) GetExercisesByLesson(ctx context.Context, lessonID uint) ([]*models.Exercise, error) {
	if _, err := s.repo.Content().GetLessonByID(ctx, nil, lessonID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("lesson", lessonID)
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	exercises, err := s.repo.Exercise().GetByLesson(ctx, nil, lessonID)
	if err != nil {
		return nil, err
	}

	// Answers never leave the service on the read path
	for _, exercise := range exercises {
		exercise.Answer = ""
	}
	return exercises, nil
}

func (s *contentService) GetTestsByUnit(ctx context.Context, userID string, topicID uint) ([]*TestSummary, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if _, err := s.repo.Content().GetTopicByID(ctx, nil, topicID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("topic", topicID)
		}
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}

	tests, err := s.repo.Test().ListByUnit(ctx, nil, topicID)
	if err != nil {
		return nil, err
	}

	return s.summarizeTests(ctx, userID, tests)
}

// GetAvailableTests returns the tests visible to the user through any of
// their enrollments.
func (s *contentService) GetAvailableTests(ctx context.Context, userID string) ([]*TestSummary, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	topicIDs, err := s.repo.Enrollment().TopicIDsByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if len(topicIDs) == 0 {
		return []*TestSummary{}, nil
	}

	tests, err := s.repo.Test().ListByUnits(ctx, nil, topicIDs)
	if err != nil {
		return nil, err
	}

	return s.summarizeTests(ctx, userID, tests)
}

// summarizeTests decorates tests with the caller's own result and strips the
// answers from the exercise bundles.
func (s *contentService) summarizeTests(ctx context.Context, userID string, tests []*models.Test) ([]*TestSummary, error) {
	out := make([]*TestSummary, 0, len(tests))

	for _, test := range tests {
		summary := &TestSummary{Test: test}
		for i := range test.Exercises {
			summary.MaxScore += test.Exercises[i].Point
			test.Exercises[i].Answer = ""
		}

		result, err := s.repo.TestResult().GetByUserAndTest(ctx, nil, userID, test.ID)
		if err != nil {
			if !repositories.IsNotFoundError(err) {
				return nil, fmt.Errorf("failed to get test result: %w", err)
			}
		} else {
			summary.Completed = result.Completed
			summary.TotalScore = result.TotalScore
		}

		out = append(out, summary)
	}

	return out, nil
}

func (s *contentService) GetTestByID(ctx context.Context, testID uint) (*models.Test, error) {
	test, err := s.repo.Test().GetByIDWithExercises(ctx, nil, testID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("test", testID)
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	// Answers never leave the service on the read path
	for i := range test.Exercises {
		test.Exercises[i].Answer = ""
	}

	return test, nil
}

func (s *contentService) GetUserPoints(ctx context.Context, userID string) (*UserPointsResponse, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	points, err := s.repo.User().GetPoints(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("user", userID)
		}
		return nil, fmt.Errorf("failed to get user points: %w", err)
	}

	return &UserPointsResponse{UserID: userID, EarnPoints: points}, nil
}
