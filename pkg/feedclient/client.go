// Package feedclient implements the feed-viewing client: a typed API
// client for the jeetSocial backend and a feed controller that drives
// paging, live polling and post submission against a Renderer.
package feedclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// rateLimitMessage is shown when the server rate-limits a post and sends
// no error body of its own.
const rateLimitMessage = "You are posting too quickly. Please wait a minute before " +
	"posting again. This helps keep jeetSocial spam-free and fair for everyone."

// Points is a kindness counter as received over the wire. Anything that is
// not a non-negative number decodes to zero instead of failing the whole
// payload.
type Points int

func (p *Points) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		if n < 0 {
			n = 0
		}
		*p = Points(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
			*p = Points(f)
			return nil
		}
	}
	*p = 0
	return nil
}

// Post is the client-side read-only copy of a post.
type Post struct {
	ID             int    `json:"id"`
	Username       string `json:"username"`
	Message        string `json:"message"`
	Timestamp      string `json:"timestamp"`
	KindnessPoints Points `json:"kindness_points"`
}

// FeedResponse is one page of the feed as returned by GET /api/posts.
type FeedResponse struct {
	Posts      []Post `json:"posts"`
	TotalCount int64  `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	HasMore    bool   `json:"has_more"`
}

// ServerError is a non-2xx response with its human-readable message.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// ServerMessage returns the user-facing text for this failure.
func (e *ServerError) ServerMessage() string {
	return e.Message
}

// RateLimited reports whether the server throttled the request.
func (e *ServerError) RateLimited() bool {
	return e.Status == http.StatusTooManyRequests
}

// Client calls the jeetSocial HTTP API.
type Client struct {
	BaseURL string
	// View selects the feed ordering, "latest" (default) or "top".
	View string
	HTTP *http.Client
}

// NewClient creates a Client for the given server base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    http.DefaultClient,
	}
}

// FetchPosts fetches one page of the feed.
func (c *Client) FetchPosts(page, limit int) (*FeedResponse, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if c.View != "" && c.View != "latest" {
		q.Set("view", c.View)
	}

	resp, err := c.HTTP.Get(c.BaseURL + "/api/posts?" + q.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.serverError(resp, fmt.Sprintf("Error loading feed (status %d).", resp.StatusCode))
	}

	var feed FeedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return &feed, nil
}

// CreatePost submits a new message and returns the created post.
func (c *Client) CreatePost(message string) (*Post, error) {
	body, _ := json.Marshal(map[string]string{"message": message})
	resp, err := c.HTTP.Post(c.BaseURL+"/api/posts", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		fallback := fmt.Sprintf("Error posting (status %d).", resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests {
			fallback = rateLimitMessage
		}
		return nil, c.serverError(resp, fallback)
	}

	var post Post
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		return nil, fmt.Errorf("decode post: %w", err)
	}
	return &post, nil
}

// IssueToken requests a fresh kindness token scoped to postID.
func (c *Client) IssueToken(postID int) (token string, expiresIn int, err error) {
	u := fmt.Sprintf("%s/api/kindness/token?post_id=%d", c.BaseURL, postID)
	resp, err := c.HTTP.Post(u, "application/json", nil)
	if err != nil {
		return "", 0, fmt.Errorf("issue token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, c.serverError(resp, fmt.Sprintf("Token request failed (status %d).", resp.StatusCode))
	}

	var out struct {
		Token     string `json:"token"`
		ExpiresIn int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", 0, fmt.Errorf("decode token: %w", err)
	}
	return out.Token, out.ExpiresIn, nil
}

// Redeem spends a kindness token and returns the authoritative count.
func (c *Client) Redeem(postID int, token string) (newPoints int, err error) {
	u := fmt.Sprintf("%s/api/kindness/redeem?post_id=%d&token=%s", c.BaseURL, postID, url.QueryEscape(token))
	resp, err := c.HTTP.Post(u, "application/json", nil)
	if err != nil {
		return 0, fmt.Errorf("redeem token: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		Success   bool   `json:"success"`
		NewPoints Points `json:"new_points"`
		Error     string `json:"error"`
	}
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)

	if resp.StatusCode != http.StatusOK || decodeErr != nil || !out.Success {
		msg := out.Error
		if msg == "" {
			msg = "Failed to award kindness"
		}
		return 0, &ServerError{Status: resp.StatusCode, Message: msg}
	}
	return int(out.NewPoints), nil
}

// serverError drains an error body into a ServerError, falling back to the
// given message when the body carries none.
func (c *Client) serverError(resp *http.Response, fallback string) error {
	var body struct {
		Error string `json:"error"`
	}
	msg := fallback
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		msg = body.Error
	}
	return &ServerError{Status: resp.StatusCode, Message: msg}
}
