package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/LinguaViet-2025/progress-service/internal/models"
)

// UserRepository manages user records and the earned-points counter.
type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error

	// LockForUpdate reads the user row under SELECT FOR UPDATE. Inside a
	// transaction this serializes all point-awarding work for one user.
	LockForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)

	// AddPoints applies an atomic relative increment to earn_points.
	AddPoints(ctx context.Context, tx *gorm.DB, id string, points int) error

	GetPoints(ctx context.Context, tx *gorm.DB, id string) (int, error)
}
