package delivery

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"jeetsocial/internal/post/usecase"
	"jeetsocial/pkg/ratelimit"
)

// rateLimitMessage mirrors the long-standing copy shown to users who post
// too fast; tests depend on the exact text.
const rateLimitMessage = "You are posting too quickly. Please wait a minute before " +
	"posting again. This helps keep jeetSocial spam-free and fair for everyone."

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	postUsecase usecase.PostUsecase
	limiter     *ratelimit.Limiter
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postUsecase usecase.PostUsecase, limiter *ratelimit.Limiter) *PostHandler {
	return &PostHandler{
		postUsecase: postUsecase,
		limiter:     limiter,
	}
}

// CreatePostRequest represents the request body for creating a post.
// "content" is accepted as a legacy alias for "message".
type CreatePostRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
}

// GetFeed returns the feed. With any of page/limit/since present the
// response is the paginated object, otherwise a flat list of posts.
// GET /api/posts?page=1&limit=20&view=top|latest
func (h *PostHandler) GetFeed(c *gin.Context) {
	hasPaging := c.Query("page") != "" || c.Query("limit") != "" || c.Query("since") != ""

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	view := c.DefaultQuery("view", "latest")

	var since *time.Time
	if s := c.Query("since"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			since = &t
		} else if unix, err := strconv.ParseFloat(s, 64); err == nil {
			t := time.Unix(int64(unix), 0).UTC()
			since = &t
		}
	}

	feed, err := h.postUsecase.GetFeed(page, limit, view, since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !hasPaging {
		c.JSON(http.StatusOK, feed.Posts)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":       feed.Posts,
		"total_count": feed.TotalCount,
		"page":        feed.Page,
		"limit":       feed.Limit,
		"has_more":    feed.HasMore,
	})
}

// CreatePost creates a new anonymous post
// POST /api/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	ticket, ok := h.limiter.Acquire(c.ClientIP())
	if !ok {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": rateLimitMessage})
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ticket.Cancel()
		c.JSON(http.StatusBadRequest, gin.H{"error": usecase.ErrEmptyMessage.Error()})
		return
	}

	message := req.Message
	if message == "" {
		message = req.Content
	}

	post, err := h.postUsecase.CreatePost(message)
	if err != nil {
		ticket.Cancel()
		var modErr *usecase.ModerationError
		switch {
		case errors.As(err, &modErr):
			c.JSON(http.StatusForbidden, gin.H{"error": modErr.Error()})
		case errors.Is(err, usecase.ErrEmptyMessage), errors.Is(err, usecase.ErrMessageTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error. Please try again later."})
		}
		return
	}

	c.JSON(http.StatusCreated, post)
}

// GetPost returns a single post by id
// GET /api/posts/:id
func (h *PostHandler) GetPost(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	post, err := h.postUsecase.GetPost(uint(id))
	if err != nil {
		if errors.Is(err, usecase.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, post)
}

// GetPostKindness returns just the kindness counter for a post
// GET /api/posts/:id/kindness
func (h *PostHandler) GetPostKindness(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	post, err := h.postUsecase.GetPost(uint(id))
	if err != nil {
		if errors.Is(err, usecase.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"kindness_points": post.KindnessPoints})
}
