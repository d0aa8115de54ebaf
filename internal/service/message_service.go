package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"sentiment-chat-demo/backend/internal/models"
	"sentiment-chat-demo/backend/internal/repository"
	"sentiment-chat-demo/backend/pkg/logger"
	"sentiment-chat-demo/backend/sentiment"
)

var (
	ErrInvalidUserID = errors.New("invalid userId")
	ErrTextRequired  = errors.New("text required")
)

// Classifier is the enrichment dependency of the ingestion pipeline. The
// boolean reports whether a usable result was obtained; implementations
// never surface errors.
type Classifier interface {
	Classify(ctx context.Context, text string) (sentiment.Result, bool)
}

// MessageService orchestrates message ingestion: validate, persist with
// default sentiment, enrich best-effort, persist the enrichment, respond.
type MessageService struct {
	messages   repository.MessageRepository
	users      *UserService
	classifier Classifier
	log        *logger.Logger
}

// NewMessageService creates a new message service
func NewMessageService(
	messages repository.MessageRepository,
	users *UserService,
	classifier Classifier,
	log *logger.Logger,
) *MessageService {
	return &MessageService{
		messages:   messages,
		users:      users,
		classifier: classifier,
		log:        log,
	}
}

// Post validates and persists a new message, then attempts enrichment
// within the same call. The returned message reflects the final sentiment
// state for this request: enriched values when classification succeeded,
// defaults when it was skipped. Enrichment failure is never an error here;
// only validation and the mandatory persistence path can fail.
func (s *MessageService) Post(ctx context.Context, userID uint, text string) (*models.Message, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidUserID
		}
		return nil, err
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrTextRequired
	}

	msg := &models.Message{
		UserID:    userID,
		Text:      trimmed,
		Sentiment: models.SentimentNeutral,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	msg.User = user

	// The message is durable from here on. Whatever happens next, the
	// caller gets it back.
	if res, ok := s.classifier.Classify(ctx, trimmed); ok {
		if err := s.messages.UpdateSentiment(ctx, msg.ID, res.Label, res.Score); err != nil {
			s.log.LogError(err, "failed to persist sentiment", "message_id", msg.ID)
		} else {
			msg.Sentiment = res.Label
			msg.SentimentScore = res.Score
		}
	}

	return msg, nil
}

// List returns messages in watermark order: ascending created_at, ties
// broken by ascending id. A non-nil since excludes everything at or before
// the watermark; a positive limit keeps the earliest qualifying messages.
func (s *MessageService) List(ctx context.Context, since *time.Time, limit int) ([]models.MessageResponse, error) {
	messages, err := s.messages.List(ctx, since, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]models.MessageResponse, len(messages))
	for i := range messages {
		responses[i] = messages[i].ToResponse()
	}
	return responses, nil
}
