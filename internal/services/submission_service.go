package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/LinguaViet-2025/progress-service/internal/events"
	"github.com/LinguaViet-2025/progress-service/internal/models"
	"github.com/LinguaViet-2025/progress-service/internal/repositories"
	"github.com/LinguaViet-2025/progress-service/internal/validator"
)

type submissionService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	scoring   ScoringService
	progress  ProgressService
	publisher events.EventPublisher
}

func NewSubmissionService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) SubmissionService {
	return &submissionService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		scoring:   NewScoringService(logger),
		progress:  NewProgressService(repo, db, logger),
		publisher: publisher,
	}
}

// SubmitExercise grades one lesson exercise and persists the outcome.
// The whole submission runs in a single transaction holding the user row
// lock, so two concurrent submissions for the same user serialize and the
// points award stays exactly-once.
func (s *submissionService) SubmitExercise(ctx context.Context, userID string, req *SubmitExerciseRequest) (*SubmitExerciseResponse, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, NewSubmissionError("%s", err.Error())
	}

	exercise, err := s.repo.Exercise().GetByID(ctx, nil, req.ExerciseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("exercise", req.ExerciseID)
		}
		return nil, fmt.Errorf("failed to get exercise: %w", err)
	}

	owner, err := exercise.Owner()
	if err != nil {
		if errors.Is(err, models.ErrAmbiguousOwner) {
			s.logger.Error("Exercise with corrupt ownership", "exercise_id", exercise.ID)
		}
		return nil, fmt.Errorf("failed to resolve exercise owner: %w", err)
	}
	if owner.Kind == models.OwnerTest {
		return nil, NewSubmissionError("exercise %d belongs to a test, submit it through the test endpoint", exercise.ID)
	}

	resp := &SubmitExerciseResponse{ExerciseID: exercise.ID}
	var update *ProgressUpdate

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		user, err := txRepo.User().LockForUpdate(ctx, nil, userID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return NewNotFoundError("user", userID)
			}
			return fmt.Errorf("failed to lock user: %w", err)
		}

		var completedBefore bool
		prior, err := txRepo.ExerciseResult().GetByUserAndExercise(ctx, nil, userID, exercise.ID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return fmt.Errorf("failed to get prior result: %w", err)
		}
		if prior != nil {
			completedBefore = prior.Completed
		}

		score, correct := s.scoring.GradeExercise(exercise, req.Answer)
		resp.Score = score
		resp.Correct = correct

		// Completion latches, a later wrong answer never revokes it. The
		// stored row keeps the best attempt so Completed always means a
		// full score on the exercise.
		completed := completedBefore || correct
		resp.Completed = completed

		storedScore := score
		if completed {
			storedScore = exercise.Point
		}

		result := &models.ExerciseResult{
			UserID:     userID,
			ExerciseID: exercise.ID,
			Score:      storedScore,
			Completed:  completed,
		}
		if err := txRepo.ExerciseResult().Upsert(ctx, nil, result); err != nil {
			return err
		}

		// Points are awarded once, on the first correct submission only
		if correct && !completedBefore {
			if err := txRepo.User().AddPoints(ctx, nil, userID, exercise.Point); err != nil {
				return fmt.Errorf("failed to award points: %w", err)
			}
			resp.PointsAwarded = exercise.Point
		}
		resp.TotalPoints = user.EarnPoints + resp.PointsAwarded

		update, err = s.progress.ApplyLessonCompletion(ctx, txRepo, userID, owner.ID)
		if err != nil {
			return err
		}
		resp.LessonCompleted = update.LessonCompleted
		resp.TopicCompleted = len(update.TopicsCompleted) > 0

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishExerciseEvents(ctx, userID, owner.ID, resp, update)

	s.logger.Info("Exercise submission graded",
		"user_id", userID,
		"exercise_id", exercise.ID,
		"correct", resp.Correct,
		"points_awarded", resp.PointsAwarded)

	return resp, nil
}

// SubmitTest grades a full answer sheet. The score is persisted on every
// attempt but points are only awarded when the result row is first created.
func (s *submissionService) SubmitTest(ctx context.Context, userID string, req *SubmitTestRequest) (*SubmitTestResponse, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, NewSubmissionError("%s", err.Error())
	}

	test, err := s.repo.Test().GetByIDWithExercises(ctx, nil, req.TestID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("test", req.TestID)
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	exercises := make([]*models.Exercise, len(test.Exercises))
	for i := range test.Exercises {
		exercises[i] = &test.Exercises[i]
	}

	grades, totalScore, maxScore, err := s.scoring.GradeTest(exercises, req.Answers)
	if err != nil {
		return nil, err
	}

	resp := &SubmitTestResponse{
		TestID:     test.ID,
		TotalScore: totalScore,
		MaxScore:   maxScore,
		Exercises:  grades,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if _, err := txRepo.User().LockForUpdate(ctx, nil, userID); err != nil {
			if repositories.IsNotFoundError(err) {
				return NewNotFoundError("user", userID)
			}
			return fmt.Errorf("failed to lock user: %w", err)
		}

		prior, err := txRepo.TestResult().GetByUserAndTest(ctx, nil, userID, test.ID)
		if err != nil && !repositories.IsNotFoundError(err) {
			return fmt.Errorf("failed to get prior test result: %w", err)
		}

		if prior == nil {
			result := &models.TestResult{
				UserID:     userID,
				TestID:     test.ID,
				TotalScore: totalScore,
				Completed:  true,
			}
			if err := txRepo.TestResult().Create(ctx, nil, result); err != nil {
				return err
			}

			resp.FirstAttempt = true
			if totalScore > 0 {
				if err := txRepo.User().AddPoints(ctx, nil, userID, totalScore); err != nil {
					return fmt.Errorf("failed to award points: %w", err)
				}
				resp.PointsAwarded = totalScore
			}
			return nil
		}

		// Retake, overwrite the score without touching earned points
		prior.TotalScore = totalScore
		return txRepo.TestResult().Update(ctx, nil, prior)
	})
	if err != nil {
		return nil, err
	}

	s.publishTestEvents(ctx, userID, resp)

	s.logger.Info("Test submission graded",
		"user_id", userID,
		"test_id", test.ID,
		"total_score", totalScore,
		"first_attempt", resp.FirstAttempt)

	return resp, nil
}

func (s *submissionService) GetUserExerciseResults(ctx context.Context, userID string, filters repositories.ResultFilters) (*ExerciseResultListResponse, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	results, total, err := s.repo.ExerciseResult().ListByUser(ctx, nil, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercise results: %w", err)
	}

	return &ExerciseResultListResponse{Results: results, Total: total}, nil
}

// GetUserLessonResults lists the caller's results for every exercise of one
// lesson. Exercises never attempted simply have no row.
func (s *submissionService) GetUserLessonResults(ctx context.Context, userID string, lessonID uint) (*ExerciseResultListResponse, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	if _, err := s.repo.Content().GetLessonByID(ctx, nil, lessonID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("lesson", lessonID)
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	exercises, err := s.repo.Exercise().GetByLesson(ctx, nil, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson exercises: %w", err)
	}

	exerciseIDs := make([]uint, len(exercises))
	for i, exercise := range exercises {
		exerciseIDs[i] = exercise.ID
	}

	results, err := s.repo.ExerciseResult().ListByUserAndExercises(ctx, nil, userID, exerciseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercise results: %w", err)
	}

	return &ExerciseResultListResponse{Results: results, Total: int64(len(results))}, nil
}

func (s *submissionService) GetTestResult(ctx context.Context, userID string, testID uint) (*models.TestResult, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	result, err := s.repo.TestResult().GetByUserAndTest(ctx, nil, userID, testID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("test result", testID)
		}
		return nil, fmt.Errorf("failed to get test result: %w", err)
	}
	return result, nil
}

// Events are emitted after commit; a lost event never implies lost state.
func (s *submissionService) publishExerciseEvents(ctx context.Context, userID string, lessonID uint, resp *SubmitExerciseResponse, update *ProgressUpdate) {
	if s.publisher == nil {
		return
	}

	s.publish(ctx, events.EventExerciseGraded, events.ExerciseGradedEvent{
		UserID:        userID,
		ExerciseID:    resp.ExerciseID,
		Score:         resp.Score,
		Completed:     resp.Completed,
		PointsAwarded: resp.PointsAwarded,
	})

	if resp.PointsAwarded > 0 {
		s.publish(ctx, events.EventPointsAwarded, events.PointsAwardedEvent{
			UserID:      userID,
			Points:      resp.PointsAwarded,
			TotalPoints: resp.TotalPoints,
			Reason:      "exercise",
		})
	}

	if update == nil {
		return
	}

	if update.LessonCompleted {
		if len(update.TopicsUpdated) == 0 {
			// Completed outside any enrollment, no topic to attribute
			s.publish(ctx, events.EventLessonDone, events.LessonCompletedEvent{
				UserID:   userID,
				LessonID: lessonID,
			})
		}
		for _, topicID := range update.TopicsUpdated {
			s.publish(ctx, events.EventLessonDone, events.LessonCompletedEvent{
				UserID:   userID,
				LessonID: lessonID,
				TopicID:  topicID,
			})
		}
	}
	for _, topicID := range update.TopicsCompleted {
		s.publish(ctx, events.EventTopicDone, events.TopicCompletedEvent{
			UserID:  userID,
			TopicID: topicID,
		})
	}
}

func (s *submissionService) publishTestEvents(ctx context.Context, userID string, resp *SubmitTestResponse) {
	if s.publisher == nil {
		return
	}

	s.publish(ctx, events.EventTestGraded, events.TestGradedEvent{
		UserID:        userID,
		TestID:        resp.TestID,
		TotalScore:    resp.TotalScore,
		PointsAwarded: resp.PointsAwarded,
		FirstAttempt:  resp.FirstAttempt,
	})

	if resp.PointsAwarded > 0 {
		s.publish(ctx, events.EventPointsAwarded, events.PointsAwardedEvent{
			UserID: userID,
			Points: resp.PointsAwarded,
			Reason: "test",
		})
	}
}

func (s *submissionService) publish(ctx context.Context, eventType string, data interface{}) {
	err := s.publisher.Publish(ctx, &events.Event{
		Type: eventType,
		Data: data,
	})
	if err != nil {
		s.logger.Warn("Failed to publish event", "event_type", eventType, "error", err)
	}
}
