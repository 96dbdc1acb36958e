package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/LinguaViet-2025/progress-service/internal/events"
	"github.com/LinguaViet-2025/progress-service/internal/models"
	"github.com/LinguaViet-2025/progress-service/internal/repositories"
	"github.com/LinguaViet-2025/progress-service/internal/validator"
)

func newTestEnrollmentService(repo *fakeRepository, publisher events.EventPublisher) EnrollmentService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return &enrollmentService{
		repo:      repo,
		logger:    logger,
		validator: validator.New(),
		publisher: publisher,
	}
}

func TestEnrollmentService_Enroll(t *testing.T) {
	repo := newFakeRepository()
	repo.addUser(&models.User{ID: "user-1", Email: "user1@example.com"})
	repo.addTopic(&models.Topic{ID: 100, TopicName: "Basics"})
	repo.addLesson(&models.Lesson{ID: 10, Title: "One"}, 100)
	repo.addLesson(&models.Lesson{ID: 11, Title: "Two"}, 100)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	publisher := events.NewMockEventPublisher(logger)
	service := newTestEnrollmentService(repo, publisher)

	resp, err := service.Enroll(context.Background(), "user-1", &EnrollRequest{TopicID: 100})
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}

	if resp.Enrollment.TopicID != 100 || resp.Enrollment.UserID != "user-1" {
		t.Errorf("enrollment = %+v, want user-1/100", resp.Enrollment)
	}
	// Current points at the topic's first lesson row
	var firstRow *models.LessonTopic
	for _, lt := range repo.lessonTopics {
		if lt.TopicID == 100 && lt.LessonID == 10 {
			firstRow = lt
		}
	}
	if resp.Enrollment.Current == nil {
		t.Error("Current = nil, want first lesson row")
	} else if *resp.Enrollment.Current != firstRow.ID {
		t.Errorf("Current = %d, want lesson row %d", *resp.Enrollment.Current, firstRow.ID)
	}

	// One progress row per lesson, all open
	rows := repo.lessonProgress[resp.Enrollment.ID]
	if len(rows) != 2 {
		t.Fatalf("len(lesson progress) = %d, want 2", len(rows))
	}
	for _, row := range rows {
		if row.Completed {
			t.Errorf("lesson %d seeded completed, want open", row.LessonID)
		}
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.EventUserEnrolled {
		t.Errorf("published = %v, want one user enrolled event", published)
	}
}

func TestEnrollmentService_Enroll_AlreadyEnrolled(t *testing.T) {
	repo := newFakeRepository()
	repo.addUser(&models.User{ID: "user-1", Email: "user1@example.com"})
	repo.addTopic(&models.Topic{ID: 100, TopicName: "Basics"})
	repo.addEnrollment(&models.Enrollment{ID: 400, UserID: "user-1", TopicID: 100})

	service := newTestEnrollmentService(repo, nil)

	_, err := service.Enroll(context.Background(), "user-1", &EnrollRequest{TopicID: 100})
	if !errors.Is(err, ErrAlreadyEnrolled) {
		t.Errorf("error = %v, want ErrAlreadyEnrolled", err)
	}
}

func TestEnrollmentService_Enroll_TopicNotFound(t *testing.T) {
	repo := newFakeRepository()
	repo.addUser(&models.User{ID: "user-1", Email: "user1@example.com"})

	service := newTestEnrollmentService(repo, nil)

	_, err := service.Enroll(context.Background(), "user-1", &EnrollRequest{TopicID: 999})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestEnrollmentService_Enroll_EmptyTopic(t *testing.T) {
	repo := newFakeRepository()
	repo.addUser(&models.User{ID: "user-1", Email: "user1@example.com"})
	repo.addTopic(&models.Topic{ID: 100, TopicName: "Empty"})

	service := newTestEnrollmentService(repo, nil)

	resp, err := service.Enroll(context.Background(), "user-1", &EnrollRequest{TopicID: 100})
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	if resp.Enrollment.Current != nil {
		t.Errorf("Current = %v on empty topic, want nil", *resp.Enrollment.Current)
	}
}

func TestEnrollmentService_GetEnrollment(t *testing.T) {
	repo := newFakeRepository()
	repo.addUser(&models.User{ID: "user-1", Email: "user1@example.com"})
	repo.addEnrollment(&models.Enrollment{ID: 400, UserID: "user-1", TopicID: 100, Progress: 50})

	service := newTestEnrollmentService(repo, nil)
	ctx := context.Background()

	resp, err := service.GetEnrollment(ctx, "user-1", 100)
	if err != nil {
		t.Fatalf("GetEnrollment() error = %v", err)
	}
	if resp.Enrollment.Progress != 50 {
		t.Errorf("Progress = %v, want 50", resp.Enrollment.Progress)
	}

	if _, err := service.GetEnrollment(ctx, "user-1", 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestEnrollmentService_GetUserEnrollments(t *testing.T) {
	repo := newFakeRepository()
	repo.addUser(&models.User{ID: "user-1", Email: "user1@example.com"})
	repo.addEnrollment(&models.Enrollment{ID: 400, UserID: "user-1", TopicID: 100, Completed: true})
	repo.addEnrollment(&models.Enrollment{ID: 401, UserID: "user-1", TopicID: 101})
	repo.addEnrollment(&models.Enrollment{ID: 402, UserID: "user-2", TopicID: 100})

	service := newTestEnrollmentService(repo, nil)
	ctx := context.Background()

	resp, err := service.GetUserEnrollments(ctx, "user-1", repositories.EnrollmentFilters{})
	if err != nil {
		t.Fatalf("GetUserEnrollments() error = %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2", resp.Total)
	}

	completed := true
	resp, err = service.GetUserEnrollments(ctx, "user-1", repositories.EnrollmentFilters{Completed: &completed})
	if err != nil {
		t.Fatalf("GetUserEnrollments() error = %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("filtered Total = %d, want 1", resp.Total)
	}
}
