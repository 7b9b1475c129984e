package repository

import (
	"time"

	"jeetsocial/internal/post/domain"
)

// PostRepository defines the interface for post data access
type PostRepository interface {
	// Create creates a new post
	Create(post *domain.Post) error

	// FindByID finds a post by its ID, nil when absent
	FindByID(id uint) (*domain.Post, error)

	// FindPage returns one page of posts ordered newest first plus the
	// total post count
	FindPage(page, limit int, since *time.Time) ([]*domain.Post, int64, error)

	// FindTop returns posts created after cutoff ordered by kindness
	// points desc, then timestamp desc
	FindTop(limit int, cutoff time.Time) ([]*domain.Post, error)
}
