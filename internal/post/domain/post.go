package domain

import "time"

// MaxMessageLength is the post size limit in characters.
const MaxMessageLength = 280

// Post represents an anonymous social post.
type Post struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Username       string    `json:"username" gorm:"size:32;not null"`
	Message        string    `json:"message" gorm:"not null"`
	Timestamp      time.Time `json:"timestamp" gorm:"index"`
	KindnessPoints int       `json:"kindness_points" gorm:"not null;default:0"`
}
