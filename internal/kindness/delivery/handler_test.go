package delivery_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"jeetsocial/internal/kindness/delivery"
	"jeetsocial/internal/kindness/domain"
	"jeetsocial/internal/kindness/repository"
	"jeetsocial/internal/kindness/usecase"
	postdomain "jeetsocial/internal/post/domain"
	postrepo "jeetsocial/internal/post/repository"
)

func setupKindness(t *testing.T, enabled bool) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&postdomain.Post{}, &domain.Vote{}))

	uc := usecase.NewKindnessUsecase(
		repository.NewGormVoteRepository(db),
		postrepo.NewGormPostRepository(db),
		"test-secret",
		5*time.Minute,
	)
	handler := delivery.NewKindnessHandler(uc, enabled)

	r := gin.New()
	r.POST("/api/kindness/token", handler.IssueToken)
	r.POST("/api/kindness/redeem", handler.RedeemToken)
	return r, db
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(http.MethodPost, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedPost(t *testing.T, db *gorm.DB) *postdomain.Post {
	t.Helper()
	p := &postdomain.Post{Username: "GoldenOtter17", Message: "you matter", Timestamp: time.Now().UTC()}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestFeatureDisabled(t *testing.T) {
	r, _ := setupKindness(t, false)

	for _, path := range []string{"/api/kindness/token?post_id=1", "/api/kindness/redeem?post_id=1&token=x"} {
		w := post(r, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Feature disabled")
	}
}

func TestIssueTokenViaQuery(t *testing.T) {
	r, db := setupKindness(t, true)
	seedPost(t, db)

	w := post(r, "/api/kindness/token?post_id=1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token     string `json:"token"`
		ExpiresIn int    `json:"expires_in"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, 300, resp.ExpiresIn)
}

func TestIssueTokenViaBody(t *testing.T) {
	r, db := setupKindness(t, true)
	seedPost(t, db)

	// post_id as a JSON number, the way older clients send it.
	w := post(r, "/api/kindness/token", `{"post_id": 1}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIssueTokenMissingPostID(t *testing.T) {
	r, _ := setupKindness(t, true)

	w := post(r, "/api/kindness/token", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing post_id")
}

func TestIssueTokenUnknownPost(t *testing.T) {
	r, _ := setupKindness(t, true)

	w := post(r, "/api/kindness/token?post_id=42", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Post not found")
}

func TestRedeemFlow(t *testing.T) {
	r, db := setupKindness(t, true)
	seedPost(t, db)

	w := post(r, "/api/kindness/token?post_id=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var issued struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &issued))

	redeemPath := "/api/kindness/redeem?post_id=1&token=" + url.QueryEscape(issued.Token)
	w = post(r, redeemPath, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success": true, "new_points": 1}`, w.Body.String())

	// A second redemption of the same token is a conflict.
	w = post(r, redeemPath, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Token already used")
}

func TestRedeemInvalidToken(t *testing.T) {
	r, db := setupKindness(t, true)
	seedPost(t, db)

	w := post(r, "/api/kindness/redeem?post_id=1&token=garbage", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired token")
}

func TestRedeemMissingParams(t *testing.T) {
	r, _ := setupKindness(t, true)

	w := post(r, "/api/kindness/redeem?post_id=1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing post_id or token")
}
