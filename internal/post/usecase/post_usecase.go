package usecase

import (
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"jeetsocial/internal/moderation"
	"jeetsocial/internal/post/domain"
	"jeetsocial/internal/post/repository"
	"jeetsocial/pkg/anonname"
)

// topWindow bounds the "top" view to recent posts.
const topWindow = 24 * time.Hour

// postUsecase implements PostUsecase interface
type postUsecase struct {
	postRepo repository.PostRepository
}

// NewPostUsecase creates a new instance of postUsecase
func NewPostUsecase(postRepo repository.PostRepository) PostUsecase {
	return &postUsecase{postRepo: postRepo}
}

func (u *postUsecase) CreatePost(message string) (*domain.Post, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(message) > domain.MaxMessageLength {
		return nil, ErrMessageTooLong
	}

	if blocked, reason, match := moderation.Check(message); blocked {
		log.Printf("[Post] Rejected by word list: %q", match)
		return nil, &ModerationError{Reason: reason, Match: match}
	}

	post := &domain.Post{
		Username:  anonname.Generate(),
		Message:   message,
		Timestamp: time.Now().UTC(),
	}

	if err := u.postRepo.Create(post); err != nil {
		return nil, err
	}

	return post, nil
}

func (u *postUsecase) GetFeed(page, limit int, view string, since *time.Time) (*FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	if view == "top" {
		posts, err := u.postRepo.FindTop(limit, time.Now().UTC().Add(-topWindow))
		if err != nil {
			return nil, err
		}
		if posts == nil {
			posts = []*domain.Post{}
		}
		return &FeedPage{
			Posts:      posts,
			TotalCount: int64(len(posts)),
			Page:       1,
			Limit:      limit,
			HasMore:    false,
		}, nil
	}

	posts, total, err := u.postRepo.FindPage(page, limit, since)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*domain.Post{}
	}

	return &FeedPage{
		Posts:      posts,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		HasMore:    int64(page*limit) < total,
	}, nil
}

func (u *postUsecase) GetPost(id uint) (*domain.Post, error) {
	post, err := u.postRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}
