package usecase

import "errors"

var (
	// ErrInvalidToken covers bad signatures, expired tokens and tokens
	// issued for a different post.
	ErrInvalidToken = errors.New("Invalid or expired token")

	// ErrTokenUsed is returned on a second redemption of the same token.
	ErrTokenUsed = errors.New("Token already used")

	// ErrPostNotFound is returned when the target post does not exist.
	ErrPostNotFound = errors.New("Post not found")
)

// KindnessUsecase defines the interface for kindness point business logic
type KindnessUsecase interface {
	// IssueToken mints a short-lived single-use token for the post and
	// returns it with its lifetime in seconds.
	IssueToken(postID uint) (token string, expiresIn int, err error)

	// Redeem verifies the token, burns it, and returns the post's new
	// authoritative kindness count.
	Redeem(postID uint, token string) (newPoints int, err error)
}
