package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// User is the directory entry shape returned by the server.
type User struct {
	ID        uint      `json:"id"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserSummary is the owner shape embedded in messages.
type UserSummary struct {
	ID       uint   `json:"id"`
	Nickname string `json:"nickname"`
}

// Message is the wire shape of a stored message.
type Message struct {
	ID             uint        `json:"id"`
	Text           string      `json:"text"`
	Sentiment      string      `json:"sentiment"`
	SentimentScore float64     `json:"sentimentScore"`
	CreatedAt      time.Time   `json:"createdAt"`
	User           UserSummary `json:"user"`
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d [%s] %s", e.StatusCode, e.Code, e.Message)
}

// Client is a minimal HTTP client for the chat API, shared by the CLI
// client and the sync loop.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the API at baseURL, e.g. http://localhost:8080
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

// CreateUser registers (or re-fetches) the user for nickname.
func (c *Client) CreateUser(ctx context.Context, nickname string) (User, error) {
	var user User
	err := c.post(ctx, "/api/users", map[string]string{"nickname": nickname}, &user)
	return user, err
}

// PostMessage submits a message and returns the stored record with its
// final sentiment state.
func (c *Client) PostMessage(ctx context.Context, userID uint, text string) (Message, error) {
	var msg Message
	err := c.post(ctx, "/api/messages", map[string]interface{}{
		"userId": userID,
		"text":   text,
	}, &msg)
	return msg, err
}

// Messages retrieves messages with createdAt strictly after since (all
// messages when since is nil), at most limit of them when limit is positive.
func (c *Client) Messages(ctx context.Context, since *time.Time, limit int) ([]Message, error) {
	query := url.Values{}
	if since != nil {
		query.Set("since", since.Format(time.RFC3339Nano))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	endpoint := c.baseURL + "/api/messages"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var messages []Message
	if err := c.do(req, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &envelope) == nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}
