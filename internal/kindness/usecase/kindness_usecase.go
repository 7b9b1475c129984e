package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"jeetsocial/internal/kindness/repository"
	postrepo "jeetsocial/internal/post/repository"
)

// tokenClaims binds a kindness token to a single post.
type tokenClaims struct {
	PostID uint `json:"post_id"`
	jwt.RegisteredClaims
}

// kindnessUsecase implements KindnessUsecase interface
type kindnessUsecase struct {
	voteRepo repository.VoteRepository
	postRepo postrepo.PostRepository
	secret   []byte
	tokenTTL time.Duration
}

// NewKindnessUsecase creates a new instance of kindnessUsecase
func NewKindnessUsecase(voteRepo repository.VoteRepository, postRepo postrepo.PostRepository, secret string, tokenTTL time.Duration) KindnessUsecase {
	return &kindnessUsecase{
		voteRepo: voteRepo,
		postRepo: postRepo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

func (u *kindnessUsecase) IssueToken(postID uint) (string, int, error) {
	post, err := u.postRepo.FindByID(postID)
	if err != nil {
		return "", 0, err
	}
	if post == nil {
		return "", 0, ErrPostNotFound
	}

	claims := tokenClaims{
		PostID: postID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(u.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.secret)
	if err != nil {
		return "", 0, err
	}

	return token, int(u.tokenTTL.Seconds()), nil
}

func (u *kindnessUsecase) Redeem(postID uint, token string) (int, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return u.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, ErrInvalidToken
	}
	if claims.PostID != postID {
		return 0, ErrInvalidToken
	}

	post, err := u.postRepo.FindByID(postID)
	if err != nil {
		return 0, err
	}
	if post == nil {
		return 0, ErrPostNotFound
	}

	newPoints, err := u.voteRepo.Redeem(postID, hashToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateToken) {
			return 0, ErrTokenUsed
		}
		log.Printf("[Kindness] Redeem failed for post %d: %v", postID, err)
		return 0, err
	}

	return newPoints, nil
}

// hashToken returns the sha256 hex digest stored for uniqueness checks.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
