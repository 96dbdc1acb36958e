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

type UserPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewUserPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.UserRepository {
	return &UserPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (u *UserPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return u.db
}

func (u *UserPostgreSQL) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := u.getDB(tx)
	return db.WithContext(ctx).Create(user).Error
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	db := u.getDB(tx)
	var user models.User
	if err := db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	db := u.getDB(tx)
	var user models.User
	if err := db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := u.getDB(tx)
	return db.WithContext(ctx).Save(user).Error
}

// LockForUpdate takes a row lock on the user. Only meaningful when called
// with a transaction handle; callers award points while holding the lock.
func (u *UserPostgreSQL) LockForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	db := u.getDB(tx)
	var user models.User
	if err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) AddPoints(ctx context.Context, tx *gorm.DB, id string, points int) error {
	if points == 0 {
		return nil
	}

	db := u.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("earn_points", gorm.Expr("earn_points + ?", points))
	if result.Error != nil {
		return fmt.Errorf("failed to add points: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	// Points changed, cached reads are stale now
	_ = u.cacheManager.InvalidateUserProgress(ctx, id)

	return nil
}

func (u *UserPostgreSQL) GetPoints(ctx context.Context, tx *gorm.DB, id string) (int, error) {
	db := u.getDB(tx)
	var points int
	err := u.cacheManager.User.CacheOrExecute(ctx, fmt.Sprintf("points:%s", id), &points, cache.FastCacheConfig.TTL, func() (interface{}, error) {
		var user models.User
		if err := db.WithContext(ctx).Select("earn_points").First(&user, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return user.EarnPoints, nil
	})
	if err != nil {
		return 0, err
	}
	return points, nil
}
