package di

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"gorm.io/gorm"

	"sentiment-chat-demo/backend/internal/repository"
	"sentiment-chat-demo/backend/internal/service"
	"sentiment-chat-demo/backend/pkg/cache"
	"sentiment-chat-demo/backend/pkg/config"
	"sentiment-chat-demo/backend/pkg/health"
	"sentiment-chat-demo/backend/pkg/logger"
	"sentiment-chat-demo/backend/sentiment"
	"sentiment-chat-demo/backend/shared/redis"
)

// Container holds all the dependencies for the application. Everything that
// handles a request receives its collaborators from here; nothing reaches
// for shared state on its own.
type Container struct {
	DB     *gorm.DB
	Logger *logger.Logger
	Cache  *cache.Cache
	Redis  *redis.Client
	Health *health.Checker

	UserRepository    repository.UserRepository
	MessageRepository repository.MessageRepository

	UserService     *service.UserService
	MessageService  *service.MessageService
	SentimentClient *sentiment.Client
}

// New creates a new dependency injection container
func New(db *gorm.DB, logConfig logger.Config) (*Container, error) {
	cfg := config.Get()
	log := logger.New(logConfig)

	userCache := cache.New(cfg.Cache.TTL, cfg.Cache.PurgeWindow, cfg.Cache.MaxSize)
	redisClient := redis.NewClient()

	userRepo := repository.NewGormUserRepository(db)
	messageRepo := repository.NewGormMessageRepository(db)

	sentimentClient := sentiment.New(sentiment.Options{
		Endpoint: cfg.Sentiment.URL,
		Timeout:  cfg.Sentiment.Timeout,
		CacheTTL: cfg.Sentiment.CacheTTL,
	}, log, redisClient)

	userService := service.NewUserService(userRepo, userCache, log)
	messageService := service.NewMessageService(messageRepo, userService, sentimentClient, log)

	checker := health.NewChecker(log, 30*time.Second)
	registerHealthChecks(checker, db, redisClient, cfg.Sentiment.URL)

	return &Container{
		DB:                db,
		Logger:            log,
		Cache:             userCache,
		Redis:             redisClient,
		Health:            checker,
		UserRepository:    userRepo,
		MessageRepository: messageRepo,
		UserService:       userService,
		MessageService:    messageService,
		SentimentClient:   sentimentClient,
	}, nil
}

func registerHealthChecks(checker *health.Checker, db *gorm.DB, redisClient *redis.Client, sentimentURL string) {
	checker.RegisterCheck("database", true, func() (health.Status, string, error) {
		if err := config.TestConnection(db); err != nil {
			return health.StatusDown, "Database connection failed", err
		}
		return health.StatusUp, "Database connection is established", nil
	})

	if redisClient != nil {
		checker.RegisterCheck("redis", false, func() (health.Status, string, error) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := redisClient.Ping(ctx); err != nil {
				return health.StatusDegraded, "Classification cache unavailable", err
			}
			return health.StatusUp, "Redis connection is established", nil
		})
	}

	// The classifier serves a liveness probe at its root. It going down only
	// degrades the system: messages still flow with default sentiment.
	checker.RegisterCheck("classifier", false, func() (health.Status, string, error) {
		base, err := url.Parse(sentimentURL)
		if err != nil {
			return health.StatusDown, "Classifier URL is malformed", err
		}
		base.Path = "/"

		client := &http.Client{Timeout: 5 * time.Second}
		resp, err := client.Get(base.String())
		if err != nil {
			return health.StatusDegraded, "Classifier unreachable", err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return health.StatusDegraded, "Classifier answered with non-200", nil
		}
		return health.StatusUp, "Classifier is reachable", nil
	})
}
