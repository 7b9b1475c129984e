package domain

import "time"

// Vote records a redeemed kindness token. The unique token hash is the
// double-spend guard: a token can be redeemed at most once.
type Vote struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"index;not null"`
	TokenHash string    `json:"-" gorm:"size:64;uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Vote) TableName() string {
	return "kindness_votes"
}
