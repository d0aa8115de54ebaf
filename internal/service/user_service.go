package service

import (
	"context"
	"errors"
	"fmt"

	"sentiment-chat-demo/backend/internal/models"
	"sentiment-chat-demo/backend/internal/repository"
	"sentiment-chat-demo/backend/pkg/cache"
	"sentiment-chat-demo/backend/pkg/logger"

	"gorm.io/gorm"
)

var (
	ErrInvalidNickname = errors.New("nickname must be 2..20 chars")
	ErrUserNotFound    = errors.New("user not found")
)

// UserService handles the user directory: nickname-keyed, case-insensitive,
// idempotent creation.
type UserService struct {
	repo  repository.UserRepository
	cache *cache.Cache
	log   *logger.Logger
}

// NewUserService creates a new user service. cache may be nil to disable
// by-ID lookup caching.
func NewUserService(repo repository.UserRepository, c *cache.Cache, log *logger.Logger) *UserService {
	return &UserService{repo: repo, cache: c, log: log}
}

// CreateUser returns the user registered under nickname, creating it first
// if necessary. Repeated calls with case-variants of the same nickname all
// return the same user. Two concurrent calls racing on a new nickname are
// resolved by the unique index on LOWER(nickname): the losing insert is
// retried as a lookup.
func (s *UserService) CreateUser(ctx context.Context, nickname string) (*models.User, error) {
	nn, ok := models.NormalizeNickname(nickname)
	if !ok {
		return nil, ErrInvalidNickname
	}

	existing, err := s.repo.GetByNickname(ctx, nn)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &models.User{Nickname: nn}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			s.log.Debug("lost nickname creation race, re-reading", "nickname", nn)
			return s.repo.GetByNickname(ctx, nn)
		}
		return nil, err
	}

	return user, nil
}

// GetByNickname looks a user up by case-insensitive exact nickname match.
func (s *UserService) GetByNickname(ctx context.Context, nickname string) (*models.User, error) {
	nn, ok := models.NormalizeNickname(nickname)
	if !ok {
		return nil, ErrInvalidNickname
	}

	user, err := s.repo.GetByNickname(ctx, nn)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetByID retrieves a user by id. Users are immutable, so hits are served
// from the in-process cache.
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	key := fmt.Sprintf("user:%d", id)
	if s.cache != nil {
		if cached, found := s.cache.Get(key); found {
			if user, ok := cached.(*models.User); ok {
				return user, nil
			}
		}
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(key, user)
	}
	return user, nil
}
