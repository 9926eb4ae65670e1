package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"budget-tracker/internal/handlers"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedHandler(rl *RateLimiter) echo.HandlerFunc {
	return rl.Middleware()(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}

func hit(e *echo.Echo, h echo.HandlerFunc, remoteAddr string, userID uuid.UUID) int {
	req := httptest.NewRequest(http.MethodPost, "/api/user/generate-report", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != uuid.Nil {
		c.Set(handlers.UserIDContextKey, userID)
	}
	_ = h(c)
	return rec.Code
}

func TestRateLimiter_BurstThenLimited(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(2, 4)
	start := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return start }
	h := limitedHandler(rl)

	for i := 0; i < 4; i++ {
		assert.Equal(t, http.StatusOK, hit(e, h, "192.168.1.2:12345", uuid.Nil))
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(e, h, "192.168.1.2:12345", uuid.Nil))

	// one second later two tokens are back
	rl.now = func() time.Time { return start.Add(time.Second) }
	assert.Equal(t, http.StatusOK, hit(e, h, "192.168.1.2:12345", uuid.Nil))
	assert.Equal(t, http.StatusOK, hit(e, h, "192.168.1.2:12345", uuid.Nil))
	assert.Equal(t, http.StatusTooManyRequests, hit(e, h, "192.168.1.2:12345", uuid.Nil))
}

func TestRateLimiter_IndependentIPs(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(1, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }
	h := limitedHandler(rl)

	for _, ip := range []string{"192.168.1.1:1234", "192.168.1.2:1234", "192.168.1.3:1234"} {
		assert.Equal(t, http.StatusOK, hit(e, h, ip, uuid.Nil), ip)
		assert.Equal(t, http.StatusTooManyRequests, hit(e, h, ip, uuid.Nil), ip)
	}
	assert.Equal(t, 3, rl.size())
}

func TestRateLimiter_KeysByUserWhenAuthenticated(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(1, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }
	h := limitedHandler(rl)

	alice, bob := uuid.New(), uuid.New()

	// same IP, different users
	assert.Equal(t, http.StatusOK, hit(e, h, "10.0.0.1:1000", alice))
	assert.Equal(t, http.StatusOK, hit(e, h, "10.0.0.1:1000", bob))
	assert.Equal(t, http.StatusTooManyRequests, hit(e, h, "10.0.0.2:1000", alice))
}

func TestRateLimiter_ErrorEnvelope(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(1, 1)
	h := limitedHandler(rl)

	hit(e, h, "172.16.0.1:80", uuid.Nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "172.16.0.1:80"
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "SYSTEM_006")
}

func TestRateLimiter_Cleanup(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(5, 10)
	start := time.Now()
	rl.now = func() time.Time { return start }
	h := limitedHandler(rl)

	hit(e, h, "10.1.1.1:1", uuid.Nil)
	rl.now = func() time.Time { return start.Add(2 * time.Minute) }
	hit(e, h, "10.1.1.2:1", uuid.Nil)
	require.Equal(t, 2, rl.size())

	rl.now = func() time.Time { return start.Add(4 * time.Minute) }
	rl.cleanup()

	assert.Equal(t, 1, rl.size())
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	assert.Equal(t, 5, int(rl.rps))
	assert.Equal(t, 10, rl.burst)
}

func TestGetIP(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		remote   string
		expected string
	}{
		{"forwarded for", map[string]string{"X-Forwarded-For": "203.0.113.9"}, "10.0.0.1:80", "203.0.113.9"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.1:80", "198.51.100.4"},
		{"remote addr", nil, "10.0.0.1:80", "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			c := echo.New().NewContext(req, httptest.NewRecorder())
			assert.Equal(t, tt.expected, getIP(c))
		})
	}
}
