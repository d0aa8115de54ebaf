package models

import (
	"time"
)

// Sentiment labels a message can carry. A message starts out NEUTRAL with a
// zero score and is updated at most once by the enrichment step.
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
)

// ValidSentiment reports whether s is one of the three accepted labels.
func ValidSentiment(s string) bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// Message represents a chat message. Both sentiment fields are written
// together by the enrichment update and never independently.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"index;not null" json:"userId"`
	Text           string    `gorm:"not null" json:"text"`
	Sentiment      string    `gorm:"size:16;default:NEUTRAL" json:"sentiment"`
	SentimentScore float64   `gorm:"default:0" json:"sentimentScore"`
	CreatedAt      time.Time `json:"createdAt"`

	User *User `json:"-"`
}

// PostMessageRequest is the request structure for submitting a message
type PostMessageRequest struct {
	UserID uint   `json:"userId"`
	Text   string `json:"text"`
}

// MessageResponse is the wire shape for a stored message, embedding the
// owning user's summary.
type MessageResponse struct {
	ID             uint        `json:"id"`
	Text           string      `json:"text"`
	Sentiment      string      `json:"sentiment"`
	SentimentScore float64     `json:"sentimentScore"`
	CreatedAt      time.Time   `json:"createdAt"`
	User           UserSummary `json:"user"`
}

// ToResponse converts a Message model to a MessageResponse
func (m *Message) ToResponse() MessageResponse {
	resp := MessageResponse{
		ID:             m.ID,
		Text:           m.Text,
		Sentiment:      m.Sentiment,
		SentimentScore: m.SentimentScore,
		CreatedAt:      m.CreatedAt,
	}
	if m.User != nil {
		resp.User = m.User.ToSummary()
	}
	return resp
}
