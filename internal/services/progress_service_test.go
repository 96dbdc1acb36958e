package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/LinguaViet-2025/progress-service/internal/models"
)

func newTestProgressService(repo *fakeRepository) ProgressService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewProgressService(repo, nil, logger)
}

func completedResult(repo *fakeRepository, userID string, exerciseID uint) {
	rows, ok := repo.exerciseResults[userID]
	if !ok {
		rows = make(map[uint]*models.ExerciseResult)
		repo.exerciseResults[userID] = rows
	}
	rows[exerciseID] = &models.ExerciseResult{
		UserID:     userID,
		ExerciseID: exerciseID,
		Completed:  true,
	}
}

func TestProgressService_IsLessonFullyCompleted(t *testing.T) {
	repo := newFakeRepository()
	repo.addLesson(&models.Lesson{ID: 10, Title: "Numbers"})
	repo.addExercise(&models.Exercise{ID: 1, Answer: "một", Point: 5, LessonID: uintPtr(10)})
	repo.addExercise(&models.Exercise{ID: 2, Answer: "hai", Point: 5, LessonID: uintPtr(10)})

	service := newTestProgressService(repo)
	ctx := context.Background()

	done, err := service.IsLessonFullyCompleted(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("IsLessonFullyCompleted() error = %v", err)
	}
	if done {
		t.Error("lesson reported complete with no results")
	}

	completedResult(repo, "user-1", 1)
	done, _ = service.IsLessonFullyCompleted(ctx, "user-1", 10)
	if done {
		t.Error("lesson reported complete with one of two exercises done")
	}

	completedResult(repo, "user-1", 2)
	done, _ = service.IsLessonFullyCompleted(ctx, "user-1", 10)
	if !done {
		t.Error("lesson reported incomplete with all exercises done")
	}
}

func TestProgressService_IsLessonFullyCompleted_EmptyLesson(t *testing.T) {
	repo := newFakeRepository()
	repo.addLesson(&models.Lesson{ID: 10, Title: "Placeholder"})

	service := newTestProgressService(repo)

	done, err := service.IsLessonFullyCompleted(context.Background(), "user-1", 10)
	if err != nil {
		t.Fatalf("IsLessonFullyCompleted() error = %v", err)
	}
	if done {
		t.Error("lesson without exercises must never auto-complete")
	}
}

func TestProgressService_ApplyLessonCompletion_SharedLesson(t *testing.T) {
	repo := newFakeRepository()
	repo.addUser(&models.User{ID: "user-1", Email: "user1@example.com"})
	repo.addTopic(&models.Topic{ID: 100, TopicName: "Basics"})
	repo.addTopic(&models.Topic{ID: 101, TopicName: "Review"})

	// One lesson shared by both topics
	repo.addLesson(&models.Lesson{ID: 10, Title: "Greetings"}, 100, 101)
	repo.addExercise(&models.Exercise{ID: 1, Answer: "chào", Point: 5, LessonID: uintPtr(10)})
	completedResult(repo, "user-1", 1)

	repo.addEnrollment(&models.Enrollment{ID: 400, UserID: "user-1", TopicID: 100}, 10)
	repo.addEnrollment(&models.Enrollment{ID: 401, UserID: "user-1", TopicID: 101}, 10)

	service := newTestProgressService(repo)

	update, err := service.ApplyLessonCompletion(context.Background(), repo, "user-1", 10)
	if err != nil {
		t.Fatalf("ApplyLessonCompletion() error = %v", err)
	}

	if !update.LessonCompleted {
		t.Error("LessonCompleted = false, want true")
	}
	if len(update.TopicsCompleted) != 2 {
		t.Errorf("TopicsCompleted = %v, want both topics", update.TopicsCompleted)
	}
	if len(update.TopicsUpdated) != 2 {
		t.Errorf("TopicsUpdated = %v, want both topics", update.TopicsUpdated)
	}

	for _, enrollment := range repo.enrollments {
		if !enrollment.Completed || enrollment.Progress != 100 {
			t.Errorf("enrollment %d: completed=%v progress=%v, want true/100",
				enrollment.ID, enrollment.Completed, enrollment.Progress)
		}
	}
}

func TestProgressService_ApplyLessonCompletion_PartialProgress(t *testing.T) {
	repo := newFakeRepository()
	repo.addUser(&models.User{ID: "user-1", Email: "user1@example.com"})
	repo.addTopic(&models.Topic{ID: 100, TopicName: "Basics"})
	repo.addLesson(&models.Lesson{ID: 10, Title: "One"}, 100)
	repo.addLesson(&models.Lesson{ID: 11, Title: "Two"}, 100)

	repo.addExercise(&models.Exercise{ID: 1, Answer: "a", Point: 5, LessonID: uintPtr(10)})
	repo.addExercise(&models.Exercise{ID: 2, Answer: "b", Point: 5, LessonID: uintPtr(11)})
	completedResult(repo, "user-1", 1)

	repo.addEnrollment(&models.Enrollment{ID: 400, UserID: "user-1", TopicID: 100}, 10, 11)

	service := newTestProgressService(repo)

	update, err := service.ApplyLessonCompletion(context.Background(), repo, "user-1", 10)
	if err != nil {
		t.Fatalf("ApplyLessonCompletion() error = %v", err)
	}

	if !update.LessonCompleted {
		t.Error("LessonCompleted = false, want true")
	}
	if len(update.TopicsCompleted) != 0 {
		t.Errorf("TopicsCompleted = %v, want none at 50%%", update.TopicsCompleted)
	}

	enrollment := repo.enrollments[0]
	if enrollment.Completed {
		t.Error("enrollment Completed = true at 50%")
	}
	if enrollment.Progress != 50 {
		t.Errorf("Progress = %v, want 50", enrollment.Progress)
	}
}

func TestProgressService_ApplyLessonCompletion_LessonAddedAfterEnrollment(t *testing.T) {
	repo := newFakeRepository()
	repo.addUser(&models.User{ID: "user-1", Email: "user1@example.com"})
	repo.addTopic(&models.Topic{ID: 100, TopicName: "Basics"})
	repo.addLesson(&models.Lesson{ID: 10, Title: "New lesson"}, 100)
	repo.addExercise(&models.Exercise{ID: 1, Answer: "a", Point: 5, LessonID: uintPtr(10)})
	completedResult(repo, "user-1", 1)

	// Enrollment predates the lesson, so it has no progress row for it
	repo.addEnrollment(&models.Enrollment{ID: 400, UserID: "user-1", TopicID: 100})

	service := newTestProgressService(repo)

	update, err := service.ApplyLessonCompletion(context.Background(), repo, "user-1", 10)
	if err != nil {
		t.Fatalf("ApplyLessonCompletion() error = %v", err)
	}
	if !update.LessonCompleted {
		t.Error("LessonCompleted = false, want true")
	}

	row := repo.lessonProgress[400][10]
	if row == nil || !row.Completed {
		t.Fatalf("lesson progress row = %+v, want created completed", row)
	}
}

func TestProgressService_ApplyLessonCompletion_IncompleteLessonIsNoop(t *testing.T) {
	repo := newFakeRepository()
	repo.addUser(&models.User{ID: "user-1", Email: "user1@example.com"})
	repo.addTopic(&models.Topic{ID: 100, TopicName: "Basics"})
	repo.addLesson(&models.Lesson{ID: 10, Title: "Greetings"}, 100)
	repo.addExercise(&models.Exercise{ID: 1, Answer: "a", Point: 5, LessonID: uintPtr(10)})
	repo.addExercise(&models.Exercise{ID: 2, Answer: "b", Point: 5, LessonID: uintPtr(10)})
	completedResult(repo, "user-1", 1)

	repo.addEnrollment(&models.Enrollment{ID: 400, UserID: "user-1", TopicID: 100}, 10)

	service := newTestProgressService(repo)

	update, err := service.ApplyLessonCompletion(context.Background(), repo, "user-1", 10)
	if err != nil {
		t.Fatalf("ApplyLessonCompletion() error = %v", err)
	}
	if update.LessonCompleted {
		t.Error("LessonCompleted = true with an exercise still open")
	}

	if row := repo.lessonProgress[400][10]; row.Completed {
		t.Error("lesson progress flipped despite incomplete lesson")
	}
}

func TestProgressService_RecomputeEnrollmentProgress_MissingEnrollment(t *testing.T) {
	repo := newFakeRepository()
	service := newTestProgressService(repo)

	// Missing enrollment is a silent no-op, not an error
	if err := service.RecomputeEnrollmentProgress(context.Background(), repo, "user-1", 999); err != nil {
		t.Errorf("RecomputeEnrollmentProgress() error = %v, want nil", err)
	}
}
