package sentiment

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"sentiment-chat-demo/backend/internal/models"
	"sentiment-chat-demo/backend/pkg/logger"
	"sentiment-chat-demo/backend/pkg/resilience"
	"sentiment-chat-demo/backend/shared/redis"
)

// maxClassifyLen caps the text sent to the classifier, in characters. The
// model truncates input at 512 characters anyway, so longer payloads are
// wasted bytes.
const maxClassifyLen = 512

// Options configures a classifier client.
type Options struct {
	// Endpoint is the classifier URL, e.g. http://localhost:8000/analyze
	Endpoint string
	// Timeout bounds each classification call
	Timeout time.Duration
	// CacheTTL is how long classification results stay cached in Redis
	CacheTTL time.Duration
}

// Client calls the external sentiment classifier. Classification is a
// best-effort side channel: every possible failure is absorbed here and
// reported as a skipped classification, never as an error.
type Client struct {
	endpoint   string
	timeout    time.Duration
	cacheTTL   time.Duration
	httpClient *http.Client
	breaker    *resilience.CircuitBreaker
	cache      *redis.Client
	log        *logger.Logger
}

// New creates a classifier client. cache may be nil, in which case results
// are not cached.
func New(opts Options, log *logger.Logger, cache *redis.Client) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		endpoint:   opts.Endpoint,
		timeout:    timeout,
		cacheTTL:   opts.CacheTTL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    resilience.New(resilience.DefaultConfig("sentiment-classifier"), log),
		cache:      cache,
		log:        log,
	}
}

// Classify sends text to the classifier and returns the normalized result.
// The second return value reports whether a usable result was obtained;
// false means the caller should keep the message's default sentiment. It is
// never accompanied by an error: classifier trouble is logged and absorbed.
func (c *Client) Classify(ctx context.Context, text string) (Result, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{}, false
	}
	if utf8.RuneCountInString(trimmed) > maxClassifyLen {
		trimmed = string([]rune(trimmed)[:maxClassifyLen])
	}

	key := cacheKey(trimmed)
	if cached, err := c.cache.Get(ctx, key); err == nil {
		var res Result
		if json.Unmarshal([]byte(cached), &res) == nil && models.ValidSentiment(res.Label) {
			return res, true
		}
	}

	var result Result
	err := c.breaker.Execute(func() error {
		r, callErr := c.doClassify(ctx, trimmed)
		if callErr != nil {
			return callErr
		}
		result = r
		return nil
	})
	if err != nil {
		c.log.Warn("sentiment classification skipped",
			"endpoint", c.endpoint,
			"error", err.Error(),
		)
		return Result{}, false
	}

	if payload, marshalErr := json.Marshal(result); marshalErr == nil {
		// Cache errors are irrelevant here, the result is already in hand.
		_ = c.cache.Set(ctx, key, payload, c.cacheTTL)
	}

	return result, true
}

func (c *Client) doClassify(ctx context.Context, text string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return Result{}, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("classifier call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("error reading classifier response: %w", err)
	}

	var payload classifyResponse
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return Result{}, fmt.Errorf("malformed classifier response: %w", err)
	}

	if payload.Error != "" {
		c.log.Warn("classifier reported internal error", "error", payload.Error)
	}

	label := strings.ToUpper(strings.TrimSpace(payload.Label))
	if !models.ValidSentiment(label) {
		return Result{}, fmt.Errorf("classifier returned unusable label %q", payload.Label)
	}

	return Result{Label: label, Score: payload.Score}, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "sentiment:" + hex.EncodeToString(sum[:])
}
