package repository

import (
	"context"
	"time"

	"sentiment-chat-demo/backend/internal/models"

	"gorm.io/gorm"
)

// MessageRepository provides access to the append-only message log.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	UpdateSentiment(ctx context.Context, id uint, label string, score float64) error
	List(ctx context.Context, since *time.Time, limit int) ([]models.Message, error)
}

type GormMessageRepository struct {
	db *gorm.DB
}

func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *GormMessageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	err := r.db.WithContext(ctx).Preload("User").First(&message, id).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// UpdateSentiment sets both sentiment columns in a single UPDATE. A missing
// row affects zero rows and is not an error.
func (r *GormMessageRepository) UpdateSentiment(ctx context.Context, id uint, label string, score float64) error {
	return r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"sentiment":       label,
			"sentiment_score": score,
		}).Error
}

// List returns messages ordered by created_at then id, both ascending. A
// non-nil since filters to created_at strictly greater; a positive limit
// truncates after ordering and filtering, so the earliest qualifying
// messages come first.
func (r *GormMessageRepository) List(ctx context.Context, since *time.Time, limit int) ([]models.Message, error) {
	q := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at ASC, id ASC")
	if since != nil {
		q = q.Where("created_at > ?", *since)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var messages []models.Message
	err := q.Find(&messages).Error
	return messages, err
}
