package repository

import (
	"context"

	"sentiment-chat-demo/backend/internal/models"

	"gorm.io/gorm"
)

// UserRepository provides access to stored users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByNickname(ctx context.Context, nickname string) (*models.User, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a new user. The unique index on LOWER(nickname) makes the
// insert fail with gorm.ErrDuplicatedKey when a case-variant already exists;
// callers resolve that by re-reading.
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByNickname performs a case-insensitive exact match.
func (r *GormUserRepository) GetByNickname(ctx context.Context, nickname string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(nickname) = LOWER(?)", nickname).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
