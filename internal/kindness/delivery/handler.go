package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jeetsocial/internal/kindness/usecase"
)

// KindnessHandler handles kindness token HTTP requests
type KindnessHandler struct {
	kindnessUsecase usecase.KindnessUsecase
	enabled         bool
}

// NewKindnessHandler creates a new KindnessHandler
func NewKindnessHandler(kindnessUsecase usecase.KindnessUsecase, enabled bool) *KindnessHandler {
	return &KindnessHandler{
		kindnessUsecase: kindnessUsecase,
		enabled:         enabled,
	}
}

// redeemRequest also serves token issuance, where only post_id is set.
// Clients may send the fields in the JSON body or the query string, and
// post_id arrives as either a number or a string.
type redeemRequest struct {
	PostID any    `json:"post_id"`
	Token  string `json:"token"`
}

// IssueToken issues a new kindness token for a specific post
// POST /api/kindness/token?post_id=1
func (h *KindnessHandler) IssueToken(c *gin.Context) {
	if !h.enabled {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feature disabled"})
		return
	}

	postID, _, ok := h.params(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing post_id"})
		return
	}

	token, expiresIn, err := h.kindnessUsecase.IssueToken(postID)
	if err != nil {
		if errors.Is(err, usecase.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "expires_in": expiresIn})
}

// RedeemToken redeems a token to award a kindness point
// POST /api/kindness/redeem?post_id=1&token=...
func (h *KindnessHandler) RedeemToken(c *gin.Context) {
	if !h.enabled {
		c.JSON(http.StatusNotFound, gin.H{"error": "Feature disabled"})
		return
	}

	postID, token, ok := h.params(c)
	if !ok || token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing post_id or token"})
		return
	}

	newPoints, err := h.kindnessUsecase.Redeem(postID, token)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidToken):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrTokenUsed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "new_points": newPoints})
}

// params reads post_id and token from the query string, falling back to a
// JSON body, matching the tolerant parsing older clients rely on.
func (h *KindnessHandler) params(c *gin.Context) (postID uint, token string, ok bool) {
	idStr := c.Query("post_id")
	token = c.Query("token")

	if idStr == "" || token == "" {
		var req redeemRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			if idStr == "" {
				switch v := req.PostID.(type) {
				case float64:
					idStr = strconv.FormatFloat(v, 'f', -1, 64)
				case string:
					idStr = v
				}
			}
			if token == "" {
				token = req.Token
			}
		}
	}

	if idStr == "" {
		return 0, "", false
	}
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, "", false
	}
	return uint(id), token, true
}
