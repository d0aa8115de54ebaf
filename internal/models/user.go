package models

import (
	"strings"
	"time"
)

// Nickname length bounds, enforced after trimming
const (
	NicknameMinLen = 2
	NicknameMaxLen = 20
)

// User represents a chat participant. Users are created once per distinct
// nickname (compared case-insensitively) and are never mutated afterwards.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nickname  string    `gorm:"size:20;not null" json:"nickname"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateUserRequest is the request structure for creating a new user
type CreateUserRequest struct {
	Nickname string `json:"nickname"`
}

// UserSummary is the minimal user shape embedded in message responses
type UserSummary struct {
	ID       uint   `json:"id"`
	Nickname string `json:"nickname"`
}

// ToSummary converts a User to the embedded response shape
func (u *User) ToSummary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Nickname: u.Nickname,
	}
}

// NormalizeNickname trims surrounding whitespace and reports whether the
// result is within the allowed length bounds.
func NormalizeNickname(nickname string) (string, bool) {
	nn := strings.TrimSpace(nickname)
	if len(nn) < NicknameMinLen || len(nn) > NicknameMaxLen {
		return nn, false
	}
	return nn, true
}
