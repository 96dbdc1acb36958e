package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/LinguaViet-2025/progress-service/internal/events"
	"github.com/LinguaViet-2025/progress-service/internal/models"
	"github.com/LinguaViet-2025/progress-service/internal/repositories"
	"github.com/LinguaViet-2025/progress-service/internal/validator"
)

type enrollmentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewEnrollmentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

// Enroll creates the enrollment and seeds one progress row per lesson of the
// topic, so later recomputation only ever counts rows.
func (s *enrollmentService) Enroll(ctx context.Context, userID string, req *EnrollRequest) (*EnrollmentResponse, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, NewSubmissionError("%s", err.Error())
	}

	topic, err := s.repo.Content().GetTopicByID(ctx, nil, req.TopicID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("topic", req.TopicID)
		}
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}

	if _, err := s.repo.Enrollment().GetByUserAndTopic(ctx, nil, userID, topic.ID); err == nil {
		return nil, ErrAlreadyEnrolled
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}

	var enrollment *models.Enrollment

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		lessons, err := txRepo.Content().ListLessonsByTopic(ctx, nil, topic.ID)
		if err != nil {
			return err
		}

		enrollment = &models.Enrollment{
			UserID:  userID,
			TopicID: topic.ID,
		}
		if len(lessons) > 0 {
			// Current points at the first LessonTopic row of the topic
			first := lessons[0].ID
			enrollment.Current = &first
		}

		if err := txRepo.Enrollment().Create(ctx, nil, enrollment); err != nil {
			return err
		}

		rows := make([]*models.LessonProgress, len(lessons))
		for i, lesson := range lessons {
			rows[i] = &models.LessonProgress{
				EnrollmentID: enrollment.ID,
				LessonID:     lesson.LessonID,
			}
		}
		return txRepo.Enrollment().CreateLessonProgress(ctx, nil, rows)
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		publishErr := s.publisher.Publish(ctx, &events.Event{
			Type: events.EventUserEnrolled,
			Data: events.UserEnrolledEvent{UserID: userID, TopicID: topic.ID},
		})
		if publishErr != nil {
			s.logger.Warn("Failed to publish enrollment event", "error", publishErr)
		}
	}

	s.logger.Info("User enrolled", "user_id", userID, "topic_id", topic.ID)

	return &EnrollmentResponse{Enrollment: enrollment}, nil
}

func (s *enrollmentService) GetEnrollment(ctx context.Context, userID string, topicID uint) (*EnrollmentResponse, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	enrollment, err := s.repo.Enrollment().GetByUserAndTopic(ctx, nil, userID, topicID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewNotFoundError("enrollment", topicID)
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	return &EnrollmentResponse{Enrollment: enrollment}, nil
}

func (s *enrollmentService) GetUserEnrollments(ctx context.Context, userID string, filters repositories.EnrollmentFilters) (*EnrollmentListResponse, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	enrollments, total, err := s.repo.Enrollment().ListByUser(ctx, nil, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	return &EnrollmentListResponse{Enrollments: enrollments, Total: total}, nil
}
