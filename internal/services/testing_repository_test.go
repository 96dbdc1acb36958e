package services

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/LinguaViet-2025/progress-service/internal/models"
	"github.com/LinguaViet-2025/progress-service/internal/repositories"
)

// fakeRepository is an in-memory Repository for service tests. Transactions
// run the callback against the same store; the transactional guarantees
// themselves are the database's job and are not under test here.
type fakeRepository struct {
	users           map[string]*models.User
	exercises       map[uint]*models.Exercise
	exerciseResults map[string]map[uint]*models.ExerciseResult
	tests           map[uint]*models.Test
	testResults     map[string]map[uint]*models.TestResult
	enrollments     []*models.Enrollment
	lessonProgress  map[uint]map[uint]*models.LessonProgress
	topics          map[uint]*models.Topic
	lessons         map[uint]*models.Lesson
	lessonTopics    []*models.LessonTopic

	nextID uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:           make(map[string]*models.User),
		exercises:       make(map[uint]*models.Exercise),
		exerciseResults: make(map[string]map[uint]*models.ExerciseResult),
		tests:           make(map[uint]*models.Test),
		testResults:     make(map[string]map[uint]*models.TestResult),
		lessonProgress:  make(map[uint]map[uint]*models.LessonProgress),
		topics:          make(map[uint]*models.Topic),
		lessons:         make(map[uint]*models.Lesson),
		nextID:          1,
	}
}

func (f *fakeRepository) allocID() uint {
	id := f.nextID
	f.nextID++
	return id
}

// ===== seeding helpers =====

func (f *fakeRepository) addUser(user *models.User) {
	f.users[user.ID] = user
}

func (f *fakeRepository) addTopic(topic *models.Topic) {
	if topic.ID == 0 {
		topic.ID = f.allocID()
	}
	f.topics[topic.ID] = topic
}

func (f *fakeRepository) addLesson(lesson *models.Lesson, topicIDs ...uint) {
	if lesson.ID == 0 {
		lesson.ID = f.allocID()
	}
	f.lessons[lesson.ID] = lesson
	for _, topicID := range topicIDs {
		position := 0
		for _, lt := range f.lessonTopics {
			if lt.TopicID == topicID {
				position++
			}
		}
		f.lessonTopics = append(f.lessonTopics, &models.LessonTopic{
			ID:       f.allocID(),
			TopicID:  topicID,
			LessonID: lesson.ID,
			Position: position,
		})
	}
}

func (f *fakeRepository) addExercise(exercise *models.Exercise) {
	if exercise.ID == 0 {
		exercise.ID = f.allocID()
	}
	f.exercises[exercise.ID] = exercise
}

func (f *fakeRepository) addTest(test *models.Test) {
	if test.ID == 0 {
		test.ID = f.allocID()
	}
	f.tests[test.ID] = test
	for i := range test.Exercises {
		exercise := test.Exercises[i]
		testID := test.ID
		exercise.TestID = &testID
		f.addExercise(&exercise)
		test.Exercises[i] = exercise
	}
}

func (f *fakeRepository) addEnrollment(enrollment *models.Enrollment, lessonIDs ...uint) {
	if enrollment.ID == 0 {
		enrollment.ID = f.allocID()
	}
	f.enrollments = append(f.enrollments, enrollment)
	for _, lessonID := range lessonIDs {
		f.seedLessonProgress(enrollment.ID, lessonID, false)
	}
}

func (f *fakeRepository) seedLessonProgress(enrollmentID, lessonID uint, completed bool) {
	rows, ok := f.lessonProgress[enrollmentID]
	if !ok {
		rows = make(map[uint]*models.LessonProgress)
		f.lessonProgress[enrollmentID] = rows
	}
	rows[lessonID] = &models.LessonProgress{
		ID:           f.allocID(),
		EnrollmentID: enrollmentID,
		LessonID:     lessonID,
		Completed:    completed,
	}
}

// ===== Repository =====

func (f *fakeRepository) User() repositories.UserRepository                     { return &fakeUserRepo{f} }
func (f *fakeRepository) Exercise() repositories.ExerciseRepository             { return &fakeExerciseRepo{f} }
func (f *fakeRepository) ExerciseResult() repositories.ExerciseResultRepository { return &fakeExerciseResultRepo{f} }
func (f *fakeRepository) Test() repositories.TestRepository                     { return &fakeTestRepo{f} }
func (f *fakeRepository) TestResult() repositories.TestResultRepository         { return &fakeTestResultRepo{f} }
func (f *fakeRepository) Enrollment() repositories.EnrollmentRepository         { return &fakeEnrollmentRepo{f} }
func (f *fakeRepository) Content() repositories.ContentRepository               { return &fakeContentRepo{f} }

func (f *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(f)
}

func (f *fakeRepository) Ping(ctx context.Context) error { return nil }
func (f *fakeRepository) Close() error                   { return nil }

// ===== UserRepository =====

type fakeUserRepo struct{ f *fakeRepository }

func (r *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	r.f.users[user.ID] = user
	return nil
}

// Reads return detached copies, like a row scanned out of the database.
// Later writes through AddPoints must not mutate values a caller already
// holds.
func (r *fakeUserRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	user, ok := r.f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	detached := *user
	return &detached, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	for _, user := range r.f.users {
		if user.Email == email {
			detached := *user
			return &detached, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	r.f.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) LockForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	return r.GetByID(ctx, tx, id)
}

func (r *fakeUserRepo) AddPoints(ctx context.Context, tx *gorm.DB, id string, points int) error {
	user, ok := r.f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.EarnPoints += points
	return nil
}

func (r *fakeUserRepo) GetPoints(ctx context.Context, tx *gorm.DB, id string) (int, error) {
	user, ok := r.f.users[id]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	return user.EarnPoints, nil
}

// ===== ExerciseRepository =====

type fakeExerciseRepo struct{ f *fakeRepository }

func (r *fakeExerciseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exercise, error) {
	exercise, ok := r.f.exercises[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return exercise, nil
}

func (r *fakeExerciseRepo) GetByLesson(ctx context.Context, tx *gorm.DB, lessonID uint) ([]*models.Exercise, error) {
	var out []*models.Exercise
	for _, exercise := range r.f.exercises {
		if exercise.LessonID != nil && *exercise.LessonID == lessonID {
			out = append(out, exercise)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeExerciseRepo) GetByTest(ctx context.Context, tx *gorm.DB, testID uint) ([]*models.Exercise, error) {
	var out []*models.Exercise
	for _, exercise := range r.f.exercises {
		if exercise.TestID != nil && *exercise.TestID == testID {
			out = append(out, exercise)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeExerciseRepo) CountByLesson(ctx context.Context, tx *gorm.DB, lessonID uint) (int64, error) {
	exercises, _ := r.GetByLesson(ctx, tx, lessonID)
	return int64(len(exercises)), nil
}

// ===== ExerciseResultRepository =====

type fakeExerciseResultRepo struct{ f *fakeRepository }

func (r *fakeExerciseResultRepo) GetByUserAndExercise(ctx context.Context, tx *gorm.DB, userID string, exerciseID uint) (*models.ExerciseResult, error) {
	result, ok := r.f.exerciseResults[userID][exerciseID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return result, nil
}

func (r *fakeExerciseResultRepo) Upsert(ctx context.Context, tx *gorm.DB, result *models.ExerciseResult) error {
	rows, ok := r.f.exerciseResults[result.UserID]
	if !ok {
		rows = make(map[uint]*models.ExerciseResult)
		r.f.exerciseResults[result.UserID] = rows
	}
	if existing, ok := rows[result.ExerciseID]; ok {
		existing.Score = result.Score
		existing.Completed = result.Completed
		return nil
	}
	result.ID = r.f.allocID()
	rows[result.ExerciseID] = result
	return nil
}

func (r *fakeExerciseResultRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters repositories.ResultFilters) ([]*models.ExerciseResult, int64, error) {
	var out []*models.ExerciseResult
	for _, result := range r.f.exerciseResults[userID] {
		if filters.Completed != nil && result.Completed != *filters.Completed {
			continue
		}
		out = append(out, result)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExerciseID < out[j].ExerciseID })
	return out, int64(len(out)), nil
}

func (r *fakeExerciseResultRepo) ListByUserAndExercises(ctx context.Context, tx *gorm.DB, userID string, exerciseIDs []uint) ([]*models.ExerciseResult, error) {
	var out []*models.ExerciseResult
	for _, id := range exerciseIDs {
		if result, ok := r.f.exerciseResults[userID][id]; ok {
			out = append(out, result)
		}
	}
	return out, nil
}

func (r *fakeExerciseResultRepo) CountCompleted(ctx context.Context, tx *gorm.DB, userID string, exerciseIDs []uint) (int64, error) {
	var count int64
	for _, id := range exerciseIDs {
		if result, ok := r.f.exerciseResults[userID][id]; ok && result.Completed {
			count++
		}
	}
	return count, nil
}

// ===== TestRepository =====

type fakeTestRepo struct{ f *fakeRepository }

func (r *fakeTestRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Test, error) {
	test, ok := r.f.tests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return test, nil
}

func (r *fakeTestRepo) GetByIDWithExercises(ctx context.Context, tx *gorm.DB, id uint) (*models.Test, error) {
	return r.GetByID(ctx, tx, id)
}

func (r *fakeTestRepo) ListByUnit(ctx context.Context, tx *gorm.DB, topicID uint) ([]*models.Test, error) {
	return r.ListByUnits(ctx, tx, []uint{topicID})
}

func (r *fakeTestRepo) ListByUnits(ctx context.Context, tx *gorm.DB, topicIDs []uint) ([]*models.Test, error) {
	wanted := make(map[uint]bool, len(topicIDs))
	for _, id := range topicIDs {
		wanted[id] = true
	}

	var out []*models.Test
	for _, test := range r.f.tests {
		for _, unit := range test.Units {
			if wanted[unit] {
				out = append(out, test)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ===== TestResultRepository =====

type fakeTestResultRepo struct{ f *fakeRepository }

func (r *fakeTestResultRepo) Create(ctx context.Context, tx *gorm.DB, result *models.TestResult) error {
	rows, ok := r.f.testResults[result.UserID]
	if !ok {
		rows = make(map[uint]*models.TestResult)
		r.f.testResults[result.UserID] = rows
	}
	result.ID = r.f.allocID()
	rows[result.TestID] = result
	return nil
}

func (r *fakeTestResultRepo) Update(ctx context.Context, tx *gorm.DB, result *models.TestResult) error {
	r.f.testResults[result.UserID][result.TestID] = result
	return nil
}

func (r *fakeTestResultRepo) GetByUserAndTest(ctx context.Context, tx *gorm.DB, userID string, testID uint) (*models.TestResult, error) {
	result, ok := r.f.testResults[userID][testID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return result, nil
}

func (r *fakeTestResultRepo) ListByTest(ctx context.Context, tx *gorm.DB, testID uint) ([]*models.TestResult, error) {
	var out []*models.TestResult
	for _, rows := range r.f.testResults {
		if result, ok := rows[testID]; ok {
			out = append(out, result)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalScore > out[j].TotalScore })
	return out, nil
}

func (r *fakeTestResultRepo) GetStats(ctx context.Context, tx *gorm.DB, testID uint) (*repositories.TestResultStats, error) {
	results, _ := r.ListByTest(ctx, tx, testID)
	stats := &repositories.TestResultStats{TotalSubmissions: len(results)}
	if len(results) == 0 {
		return stats, nil
	}

	sum := 0
	stats.LowestScore = results[0].TotalScore
	for _, result := range results {
		sum += result.TotalScore
		if result.TotalScore > stats.HighestScore {
			stats.HighestScore = result.TotalScore
		}
		if result.TotalScore < stats.LowestScore {
			stats.LowestScore = result.TotalScore
		}
	}
	stats.AverageScore = float64(sum) / float64(len(results))
	return stats, nil
}

// ===== EnrollmentRepository =====

type fakeEnrollmentRepo struct{ f *fakeRepository }

func (r *fakeEnrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	enrollment.ID = r.f.allocID()
	r.f.enrollments = append(r.f.enrollments, enrollment)
	return nil
}

func (r *fakeEnrollmentRepo) Update(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	for i, existing := range r.f.enrollments {
		if existing.ID == enrollment.ID {
			r.f.enrollments[i] = enrollment
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeEnrollmentRepo) GetByUserAndTopic(ctx context.Context, tx *gorm.DB, userID string, topicID uint) (*models.Enrollment, error) {
	for _, enrollment := range r.f.enrollments {
		if enrollment.UserID == userID && enrollment.TopicID == topicID {
			return enrollment, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEnrollmentRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	var out []*models.Enrollment
	for _, enrollment := range r.f.enrollments {
		if enrollment.UserID != userID {
			continue
		}
		if filters.Completed != nil && enrollment.Completed != *filters.Completed {
			continue
		}
		out = append(out, enrollment)
	}
	return out, int64(len(out)), nil
}

func (r *fakeEnrollmentRepo) TopicIDsByUser(ctx context.Context, tx *gorm.DB, userID string) ([]uint, error) {
	var out []uint
	for _, enrollment := range r.f.enrollments {
		if enrollment.UserID == userID {
			out = append(out, enrollment.TopicID)
		}
	}
	return out, nil
}

func (r *fakeEnrollmentRepo) CreateLessonProgress(ctx context.Context, tx *gorm.DB, rows []*models.LessonProgress) error {
	for _, row := range rows {
		r.f.seedLessonProgress(row.EnrollmentID, row.LessonID, row.Completed)
	}
	return nil
}

func (r *fakeEnrollmentRepo) GetLessonProgress(ctx context.Context, tx *gorm.DB, enrollmentID, lessonID uint) (*models.LessonProgress, error) {
	row, ok := r.f.lessonProgress[enrollmentID][lessonID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (r *fakeEnrollmentRepo) UpdateLessonProgress(ctx context.Context, tx *gorm.DB, row *models.LessonProgress) error {
	r.f.lessonProgress[row.EnrollmentID][row.LessonID] = row
	return nil
}

func (r *fakeEnrollmentRepo) CountLessons(ctx context.Context, tx *gorm.DB, enrollmentID uint) (int64, error) {
	return int64(len(r.f.lessonProgress[enrollmentID])), nil
}

func (r *fakeEnrollmentRepo) CountCompletedLessons(ctx context.Context, tx *gorm.DB, enrollmentID uint) (int64, error) {
	var count int64
	for _, row := range r.f.lessonProgress[enrollmentID] {
		if row.Completed {
			count++
		}
	}
	return count, nil
}

// ===== ContentRepository =====

type fakeContentRepo struct{ f *fakeRepository }

func (r *fakeContentRepo) GetTopicByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Topic, error) {
	topic, ok := r.f.topics[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return topic, nil
}

func (r *fakeContentRepo) GetLessonByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Lesson, error) {
	lesson, ok := r.f.lessons[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return lesson, nil
}

func (r *fakeContentRepo) ListLessonsByTopic(ctx context.Context, tx *gorm.DB, topicID uint) ([]*models.LessonTopic, error) {
	var out []*models.LessonTopic
	for _, lt := range r.f.lessonTopics {
		if lt.TopicID == topicID {
			out = append(out, lt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r *fakeContentRepo) LessonIDsByTopic(ctx context.Context, tx *gorm.DB, topicID uint) ([]uint, error) {
	rows, err := r.ListLessonsByTopic(ctx, tx, topicID)
	if err != nil {
		return nil, err
	}
	out := make([]uint, len(rows))
	for i, row := range rows {
		out[i] = row.LessonID
	}
	return out, nil
}

func (r *fakeContentRepo) TopicIDsByLesson(ctx context.Context, tx *gorm.DB, lessonID uint) ([]uint, error) {
	var out []uint
	for _, lt := range r.f.lessonTopics {
		if lt.LessonID == lessonID {
			out = append(out, lt.TopicID)
		}
	}
	return out, nil
}
