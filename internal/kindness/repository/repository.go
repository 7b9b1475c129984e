package repository

import (
	"errors"
	"time"
)

// ErrDuplicateToken is returned when a token hash was already stored.
var ErrDuplicateToken = errors.New("token already redeemed")

// VoteRepository defines the interface for kindness vote data access
type VoteRepository interface {
	// Redeem stores the token hash and increments the post's kindness
	// counter in one transaction, returning the new count. A token hash
	// seen before yields ErrDuplicateToken and no increment.
	Redeem(postID uint, tokenHash string) (newPoints int, err error)

	// DeleteOlderThan removes vote rows created before cutoff and returns
	// how many were removed. Only safe for cutoffs beyond the token
	// lifetime: an expired token can never be redeemed, so its hash no
	// longer guards anything.
	DeleteOlderThan(cutoff time.Time) (int64, error)
}
