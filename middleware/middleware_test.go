package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/LovationAdmin/finance-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware(t *testing.T) {
	issuer := utils.NewTokenIssuer("secret", time.Hour)
	r := gin.New()
	r.Use(AuthMiddleware(issuer))
	r.GET("/me", func(c *gin.Context) {
		sess, ok := GetSession(c)
		require.True(t, ok)
		c.String(http.StatusOK, sess.UserID)
	})

	token, err := issuer.GenerateAccessToken("user-9", "u9@example.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "user-9", w.Body.String())
			}
		})
	}
}

func TestRateLimiterWindow(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	ok, _ := rl.allow("1.2.3.4")
	assert.True(t, ok)
	ok, _ = rl.allow("1.2.3.4")
	assert.True(t, ok)
	ok, retry := rl.allow("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retry)

	ok, _ = rl.allow("5.6.7.8")
	assert.True(t, ok)

	now = now.Add(time.Minute + time.Second)
	ok, _ = rl.allow("1.2.3.4")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	rl.cleanup()
	assert.Empty(t, rl.requests)
}

func TestRateLimiterMiddleware(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	r := gin.New()
	r.Use(RateLimiter(1, time.Minute, done))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimiterSweepsInline(t *testing.T) {
	rl := newRateLimiter(5, time.Minute)
	rl.sweepInline = true
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.allow("1.2.3.4")
	rl.allow("5.6.7.8")
	assert.Len(t, rl.requests, 2)

	now = now.Add(2 * time.Minute)
	ok, _ := rl.allow("9.9.9.9")
	assert.True(t, ok)
	assert.Len(t, rl.requests, 1)
	assert.Contains(t, rl.requests, "9.9.9.9")
}

func TestRateLimiterWithoutDoneChannel(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(1, time.Minute, nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
