package repository

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"jeetsocial/internal/kindness/domain"
	postdomain "jeetsocial/internal/post/domain"
)

// gormVoteRepository implements VoteRepository using GORM
type gormVoteRepository struct {
	db *gorm.DB
}

// NewGormVoteRepository creates a new GORM-based VoteRepository
func NewGormVoteRepository(db *gorm.DB) VoteRepository {
	return &gormVoteRepository{db: db}
}

func (r *gormVoteRepository) Redeem(postID uint, tokenHash string) (int, error) {
	var newPoints int

	err := r.db.Transaction(func(tx *gorm.DB) error {
		vote := &domain.Vote{
			PostID:    postID,
			TokenHash: tokenHash,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Create(vote).Error; err != nil {
			if isDuplicateErr(err) {
				return ErrDuplicateToken
			}
			return err
		}

		if err := tx.Model(&postdomain.Post{}).Where("id = ?", postID).
			UpdateColumn("kindness_points", gorm.Expr("kindness_points + 1")).Error; err != nil {
			return err
		}

		var post postdomain.Post
		if err := tx.Select("kindness_points").Where("id = ?", postID).First(&post).Error; err != nil {
			return err
		}
		newPoints = post.KindnessPoints
		return nil
	})
	if err != nil {
		return 0, err
	}

	return newPoints, nil
}

func (r *gormVoteRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res := r.db.Where("created_at < ?", cutoff).Delete(&domain.Vote{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// isDuplicateErr matches the unique-constraint violation across drivers.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate")
}
