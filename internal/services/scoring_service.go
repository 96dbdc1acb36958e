package services

import (
	"log/slog"
	"strings"

	"github.com/LinguaViet-2025/progress-service/internal/models"
)

type scoringService struct {
	logger *slog.Logger
}

func NewScoringService(logger *slog.Logger) ScoringService {
	return &scoringService{
		logger: logger,
	}
}

// normalizeAnswer strips surrounding whitespace only. Comparison stays
// case-sensitive, "Xin chào" and "xin chào" are different answers.
func normalizeAnswer(answer string) string {
	return strings.TrimSpace(answer)
}

// GradeExercise awards full credit on an exact match, zero otherwise.
// There is no partial credit anywhere in the scoring model.
func (s *scoringService) GradeExercise(exercise *models.Exercise, answer string) (int, bool) {
	if normalizeAnswer(answer) == normalizeAnswer(exercise.Answer) {
		return exercise.Point, true
	}
	return 0, false
}

// GradeTest grades a full answer sheet against the test's exercise bundle.
// Every answer must reference an exercise of this test, and each exercise may
// be answered at most once. Unanswered exercises score zero but still count
// toward the maximum.
func (s *scoringService) GradeTest(exercises []*models.Exercise, answers []TestAnswerRequest) ([]ExerciseGrade, int, int, error) {
	byID := make(map[uint]*models.Exercise, len(exercises))
	for _, exercise := range exercises {
		byID[exercise.ID] = exercise
	}

	answerFor := make(map[uint]string, len(answers))
	for _, answer := range answers {
		if _, ok := byID[answer.ExerciseID]; !ok {
			return nil, 0, 0, NewSubmissionError("exercise %d does not belong to this test", answer.ExerciseID)
		}
		if _, dup := answerFor[answer.ExerciseID]; dup {
			return nil, 0, 0, NewSubmissionError("exercise %d answered more than once", answer.ExerciseID)
		}
		answerFor[answer.ExerciseID] = answer.Answer
	}

	grades := make([]ExerciseGrade, 0, len(exercises))
	totalScore := 0
	maxScore := 0

	for _, exercise := range exercises {
		maxScore += exercise.Point

		answer, answered := answerFor[exercise.ID]
		grade := ExerciseGrade{
			ExerciseID:    exercise.ID,
			Question:      exercise.Question,
			CorrectAnswer: exercise.Answer,
			MaxScore:      exercise.Point,
			Answered:      answered,
		}

		if answered {
			grade.Answer = answer
			grade.Score, grade.Correct = s.GradeExercise(exercise, answer)
			totalScore += grade.Score
		}

		grades = append(grades, grade)
	}

	return grades, totalScore, maxScore, nil
}
