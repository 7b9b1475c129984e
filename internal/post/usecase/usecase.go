package usecase

import (
	"errors"
	"fmt"
	"time"

	"jeetsocial/internal/post/domain"
)

var (
	// ErrEmptyMessage is returned when a post has no content after trimming.
	ErrEmptyMessage = errors.New("Message required")

	// ErrMessageTooLong is returned when a post exceeds the character limit.
	ErrMessageTooLong = errors.New("Message exceeds 280 character limit")

	// ErrPostNotFound is returned when a post id does not exist.
	ErrPostNotFound = errors.New("post not found")
)

// ModerationError reports a post rejected by the content filter.
type ModerationError struct {
	Reason string
	Match  string
}

func (e *ModerationError) Error() string {
	return fmt.Sprintf("Hateful content not allowed (detected by %s: %s)", e.Reason, e.Match)
}

// FeedPage is one page of the feed plus its paging metadata.
type FeedPage struct {
	Posts      []*domain.Post `json:"posts"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	HasMore    bool           `json:"has_more"`
}

// PostUsecase defines the interface for post business logic
type PostUsecase interface {
	// CreatePost validates and stores a new post with a generated username
	CreatePost(message string) (*domain.Post, error)

	// GetFeed returns one page of posts; view is "latest" or "top"
	GetFeed(page, limit int, view string, since *time.Time) (*FeedPage, error)

	// GetPost returns a single post by id
	GetPost(id uint) (*domain.Post, error)
}
