package repository

import (
	"time"

	"gorm.io/gorm"

	"jeetsocial/internal/post/domain"
)

// gormPostRepository implements PostRepository using GORM
type gormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GORM-based PostRepository
func NewGormPostRepository(db *gorm.DB) PostRepository {
	return &gormPostRepository{db: db}
}

func (r *gormPostRepository) Create(post *domain.Post) error {
	if post.Timestamp.IsZero() {
		post.Timestamp = time.Now().UTC()
	}
	return r.db.Create(post).Error
}

func (r *gormPostRepository) FindByID(id uint) (*domain.Post, error) {
	var post domain.Post
	err := r.db.Where("id = ?", id).First(&post).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (r *gormPostRepository) FindPage(page, limit int, since *time.Time) ([]*domain.Post, int64, error) {
	var posts []*domain.Post
	var total int64

	query := r.db.Model(&domain.Post{})
	if since != nil {
		query = query.Where("timestamp >= ?", *since)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("timestamp DESC").
		Offset((page - 1) * limit).Limit(limit).Find(&posts).Error

	return posts, total, err
}

func (r *gormPostRepository) FindTop(limit int, cutoff time.Time) ([]*domain.Post, error) {
	var posts []*domain.Post
	err := r.db.Where("timestamp >= ?", cutoff).
		Order("kindness_points DESC, timestamp DESC").
		Limit(limit).Find(&posts).Error
	return posts, err
}
