package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"budget-tracker/internal/config"
	"budget-tracker/internal/errors"
	"budget-tracker/internal/handlers"
	"budget-tracker/internal/models"
	"budget-tracker/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

const testCookieName = "access_token"

func TestAuthMiddleware(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareSuite))
}

type AuthMiddlewareSuite struct {
	suite.Suite
	jwtConfig    *config.JWTConfig
	tokenService services.TokenServiceInterface
	e            *echo.Echo
	user         *models.User
}

func (s *AuthMiddlewareSuite) SetupTest() {
	s.jwtConfig = &config.JWTConfig{
		Secret:              []byte("middleware-test-secret-0123456789"),
		Issuer:              "test-issuer",
		AccessTokenDuration: 24 * time.Hour,
	}
	s.tokenService = services.NewTokenService(s.jwtConfig)
	s.e = echo.New()
	s.user = &models.User{ID: uuid.New(), Email: "test@example.com"}
}

func (s *AuthMiddlewareSuite) token(ts services.TokenServiceInterface) string {
	token, _, err := ts.GenerateAccessToken(s.user)
	s.Require().NoError(err)
	return token
}

// serve runs the middleware in front of a handler that echoes the user id
func (s *AuthMiddlewareSuite) serve(req *http.Request) (*httptest.ResponseRecorder, bool) {
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)

	called := false
	handler := RequireAuth(s.tokenService, testCookieName)(func(c echo.Context) error {
		called = true
		userID, ok := c.Get(handlers.UserIDContextKey).(uuid.UUID)
		s.True(ok)
		s.Equal(s.user.ID, userID)
		s.Equal(s.user.Email, c.Get("user_email"))
		return c.NoContent(http.StatusOK)
	})

	s.Require().NoError(handler(c))
	return rec, called
}

func (s *AuthMiddlewareSuite) errorCode(rec *httptest.ResponseRecorder) string {
	var response errors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	return response.Error.Code
}

func (s *AuthMiddlewareSuite) TestRequireAuth_BearerToken() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token(s.tokenService))

	rec, called := s.serve(req)

	s.True(called)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *AuthMiddlewareSuite) TestRequireAuth_CookieToken() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: s.token(s.tokenService)})

	rec, called := s.serve(req)

	s.True(called)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *AuthMiddlewareSuite) TestRequireAuth_HeaderWinsOverCookie() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Token abc")
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: s.token(s.tokenService)})

	rec, called := s.serve(req)

	s.False(called)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(string(errors.AuthInvalidTokenFormat), s.errorCode(rec))
}

func (s *AuthMiddlewareSuite) TestRequireAuth_MissingToken() {
	rec, called := s.serve(httptest.NewRequest(http.MethodGet, "/", nil))

	s.False(called)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal(string(errors.AuthMissingToken), s.errorCode(rec))
}

func (s *AuthMiddlewareSuite) TestRequireAuth_ExpiredToken() {
	expired := *s.jwtConfig
	expired.AccessTokenDuration = -time.Minute
	token := s.token(services.NewTokenService(&expired))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)

	rec, called := s.serve(req)

	s.False(called)
	s.Equal(string(errors.AuthExpiredToken), s.errorCode(rec))
}

func (s *AuthMiddlewareSuite) TestRequireAuth_ForeignSecret() {
	other := *s.jwtConfig
	other.Secret = []byte("another-secret-entirely-9876543210")
	token := s.token(services.NewTokenService(&other))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)

	rec, called := s.serve(req)

	s.False(called)
	s.Equal(string(errors.AuthInvalidTokenFormat), s.errorCode(rec))
}

func (s *AuthMiddlewareSuite) TestRequireAuth_CookieIgnoredWhenDisabled() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: s.token(s.tokenService)})
	rec := httptest.NewRecorder()
	c := s.e.NewContext(req, rec)

	handler := RequireAuth(s.tokenService, "")(func(c echo.Context) error {
		s.Fail("handler must not run")
		return nil
	})

	s.Require().NoError(handler(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
}
