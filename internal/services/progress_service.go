package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/LinguaViet-2025/progress-service/internal/models"
	"github.com/LinguaViet-2025/progress-service/internal/repositories"
)

type progressService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewProgressService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) ProgressService {
	return &progressService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (s *progressService) IsLessonFullyCompleted(ctx context.Context, userID string, lessonID uint) (bool, error) {
	return s.isLessonFullyCompleted(ctx, s.repo, userID, lessonID)
}

func (s *progressService) isLessonFullyCompleted(ctx context.Context, repo repositories.Repository, userID string, lessonID uint) (bool, error) {
	exercises, err := repo.Exercise().GetByLesson(ctx, nil, lessonID)
	if err != nil {
		return false, fmt.Errorf("failed to get lesson exercises: %w", err)
	}

	// A lesson without exercises never auto-completes
	if len(exercises) == 0 {
		return false, nil
	}

	exerciseIDs := make([]uint, len(exercises))
	for i, exercise := range exercises {
		exerciseIDs[i] = exercise.ID
	}

	completed, err := repo.ExerciseResult().CountCompleted(ctx, nil, userID, exerciseIDs)
	if err != nil {
		return false, fmt.Errorf("failed to count completed exercises: %w", err)
	}

	return completed == int64(len(exerciseIDs)), nil
}

// ApplyLessonCompletion checks the lesson after a graded submission and, when
// every exercise is done, marks it complete in each enrollment whose topic
// contains the lesson. Users not enrolled in any such topic still keep their
// exercise results; only progress bookkeeping is skipped.
func (s *progressService) ApplyLessonCompletion(ctx context.Context, repo repositories.Repository, userID string, lessonID uint) (*ProgressUpdate, error) {
	done, err := s.isLessonFullyCompleted(ctx, repo, userID, lessonID)
	if err != nil {
		return nil, err
	}
	if !done {
		return &ProgressUpdate{}, nil
	}

	update := &ProgressUpdate{LessonCompleted: true}

	topicIDs, err := repo.Content().TopicIDsByLesson(ctx, nil, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve lesson topics: %w", err)
	}

	for _, topicID := range topicIDs {
		enrollment, err := repo.Enrollment().GetByUserAndTopic(ctx, nil, userID, topicID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				continue
			}
			return nil, fmt.Errorf("failed to get enrollment: %w", err)
		}

		if err := s.markLessonDone(ctx, repo, enrollment.ID, lessonID); err != nil {
			return nil, err
		}
		update.TopicsUpdated = append(update.TopicsUpdated, topicID)

		wasCompleted := enrollment.Completed
		if err := s.recompute(ctx, repo, enrollment); err != nil {
			return nil, err
		}

		if !wasCompleted && enrollment.Completed {
			update.TopicsCompleted = append(update.TopicsCompleted, topicID)
		}
	}

	return update, nil
}

func (s *progressService) markLessonDone(ctx context.Context, repo repositories.Repository, enrollmentID, lessonID uint) error {
	row, err := repo.Enrollment().GetLessonProgress(ctx, nil, enrollmentID, lessonID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			// Lesson was added to the topic after the user enrolled
			return repo.Enrollment().CreateLessonProgress(ctx, nil, []*models.LessonProgress{{
				EnrollmentID: enrollmentID,
				LessonID:     lessonID,
				Completed:    true,
			}})
		}
		return fmt.Errorf("failed to get lesson progress: %w", err)
	}

	if row.Completed {
		return nil
	}

	row.Completed = true
	if err := repo.Enrollment().UpdateLessonProgress(ctx, nil, row); err != nil {
		return fmt.Errorf("failed to update lesson progress: %w", err)
	}
	return nil
}

func (s *progressService) RecomputeEnrollmentProgress(ctx context.Context, repo repositories.Repository, userID string, topicID uint) error {
	enrollment, err := repo.Enrollment().GetByUserAndTopic(ctx, nil, userID, topicID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil
		}
		return fmt.Errorf("failed to get enrollment: %w", err)
	}

	return s.recompute(ctx, repo, enrollment)
}

// recompute derives progress from the lesson progress rows instead of
// adjusting the stored value incrementally. Drift cannot accumulate this way.
func (s *progressService) recompute(ctx context.Context, repo repositories.Repository, enrollment *models.Enrollment) error {
	total, err := repo.Enrollment().CountLessons(ctx, nil, enrollment.ID)
	if err != nil {
		return fmt.Errorf("failed to count lessons: %w", err)
	}

	completed, err := repo.Enrollment().CountCompletedLessons(ctx, nil, enrollment.ID)
	if err != nil {
		return fmt.Errorf("failed to count completed lessons: %w", err)
	}

	if total == 0 {
		enrollment.Progress = 0
		enrollment.Completed = false
	} else {
		enrollment.Progress = float64(completed) / float64(total) * 100
		enrollment.Completed = completed == total
	}

	if err := repo.Enrollment().Update(ctx, nil, enrollment); err != nil {
		return fmt.Errorf("failed to update enrollment: %w", err)
	}

	s.logger.Debug("Enrollment progress recomputed",
		"enrollment_id", enrollment.ID,
		"user_id", enrollment.UserID,
		"progress", enrollment.Progress,
		"completed", enrollment.Completed)

	return nil
}
