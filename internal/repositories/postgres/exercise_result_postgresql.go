package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LinguaViet-2025/progress-service/internal/cache"
	"github.com/LinguaViet-2025/progress-service/internal/models"
	"github.com/LinguaViet-2025/progress-service/internal/repositories"
)

type ExerciseResultPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewExerciseResultPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ExerciseResultRepository {
	return &ExerciseResultPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *ExerciseResultPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *ExerciseResultPostgreSQL) GetByUserAndExercise(ctx context.Context, tx *gorm.DB, userID string, exerciseID uint) (*models.ExerciseResult, error) {
	db := r.getDB(tx)
	var result models.ExerciseResult
	if err := db.WithContext(ctx).
		Where("user_id = ? AND exercise_id = ?", userID, exerciseID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// Upsert keeps the (user, exercise) row unique. On conflict only the mutable
// grading columns are overwritten.
func (r *ExerciseResultPostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, result *models.ExerciseResult) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "exercise_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "completed", "updated_at"}),
		}).
		Create(result).Error; err != nil {
		return fmt.Errorf("failed to upsert exercise result: %w", err)
	}
	return nil
}

func (r *ExerciseResultPostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID string, filters repositories.ResultFilters) ([]*models.ExerciseResult, int64, error) {
	db := r.getDB(tx)
	var results []*models.ExerciseResult
	var total int64

	// apply filter first
	query := db.WithContext(ctx).Model(&models.ExerciseResult{}).Where("user_id = ?", userID)
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	query = r.applyPaginationAndSort(query, filters)

	if err := query.Preload("Exercise").Find(&results).Error; err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

func (r *ExerciseResultPostgreSQL) ListByUserAndExercises(ctx context.Context, tx *gorm.DB, userID string, exerciseIDs []uint) ([]*models.ExerciseResult, error) {
	if len(exerciseIDs) == 0 {
		return nil, nil
	}

	db := r.getDB(tx)
	var results []*models.ExerciseResult
	if err := db.WithContext(ctx).
		Where("user_id = ? AND exercise_id IN ?", userID, exerciseIDs).
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to list exercise results: %w", err)
	}
	return results, nil
}

func (r *ExerciseResultPostgreSQL) CountCompleted(ctx context.Context, tx *gorm.DB, userID string, exerciseIDs []uint) (int64, error) {
	if len(exerciseIDs) == 0 {
		return 0, nil
	}

	db := r.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.ExerciseResult{}).
		Where("user_id = ? AND exercise_id IN ? AND completed = ?", userID, exerciseIDs, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ExerciseResultPostgreSQL) applyFilters(query *gorm.DB, filters repositories.ResultFilters) *gorm.DB {
	if len(filters.ExerciseIDs) > 0 {
		query = query.Where("exercise_id IN ?", filters.ExerciseIDs)
	}
	if filters.Completed != nil {
		query = query.Where("completed = ?", *filters.Completed)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}

func (r *ExerciseResultPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.ResultFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "score", "created_at", "updated_at":
	default:
		sortBy = "updated_at"
	}

	sortOrder := "DESC"
	if filters.SortOrder == "asc" {
		sortOrder = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
