package services

import (
	"testing"
	"time"

	"budget-tracker/internal/config"
	"budget-tracker/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// TokenServiceTestSuite defines the test suite for TokenService
type TokenServiceTestSuite struct {
	suite.Suite
	secret         []byte
	service        TokenServiceInterface
	issuer         string
	accessDuration time.Duration
	user           *models.User
}

// SetupTest runs before each test
func (s *TokenServiceTestSuite) SetupTest() {
	var err error
	s.secret, err = config.GenerateSecret(32)
	s.Require().NoError(err)

	s.issuer = "test-issuer"
	s.accessDuration = 24 * time.Hour

	s.service = NewTokenService(&config.JWTConfig{
		Secret:              s.secret,
		Issuer:              s.issuer,
		AccessTokenDuration: s.accessDuration,
	})

	s.user = &models.User{
		ID:    uuid.New(),
		Email: "test@example.com",
	}
}

// TestTokenServiceSuite runs the test suite
func TestTokenServiceSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}

func (s *TokenServiceTestSuite) TestGenerateAccessToken() {
	token, expiresAt, err := s.service.GenerateAccessToken(s.user)
	s.NoError(err)
	s.NotEmpty(token)
	s.True(expiresAt.After(time.Now()))
	s.True(expiresAt.Before(time.Now().Add(25 * time.Hour)))
}

func (s *TokenServiceTestSuite) TestGenerateAccessToken_NilUser() {
	token, _, err := s.service.GenerateAccessToken(nil)
	s.Error(err)
	s.Empty(token)
}

func (s *TokenServiceTestSuite) TestGenerateAccessToken_MissingSecret() {
	service := NewTokenService(&config.JWTConfig{Issuer: s.issuer, AccessTokenDuration: time.Hour})

	_, _, err := service.GenerateAccessToken(s.user)
	s.ErrorIs(err, ErrMissingSecret)
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_Success() {
	token, _, err := s.service.GenerateAccessToken(s.user)
	s.Require().NoError(err)

	claims, err := s.service.ValidateAccessToken(token)
	s.NoError(err)
	s.NotNil(claims)
	s.Equal(s.user.ID.String(), claims.UserID)
	s.Equal(s.user.Email, claims.Email)
	s.Equal(s.issuer, claims.Issuer)
	s.Equal(s.user.ID.String(), claims.Subject)
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_EmptyToken() {
	claims, err := s.service.ValidateAccessToken("")
	s.ErrorIs(err, ErrEmptyToken)
	s.Nil(claims)
}

func (s *TokenServiceTestSuite) TestValidateAccessToken_InvalidFormat() {
	claims, err := s.service.ValidateAccessToken("invalid.token.format")
	s.ErrorIs(err, ErrInvalidToken)
	s.Nil(claims)
}

func (s *TokenServiceTestSuite) TestExpiredToken() {
	issued := time.Now().Add(-48 * time.Hour)
	past := &TokenService{
		JWTConfig: config.JWTConfig{Secret: s.secret, Issuer: s.issuer, AccessTokenDuration: time.Hour},
		now:       func() time.Time { return issued },
	}

	token, _, err := past.GenerateAccessToken(s.user)
	s.Require().NoError(err)

	claims, err := s.service.ValidateAccessToken(token)
	s.ErrorIs(err, ErrExpiredToken)
	s.Contains(err.Error(), "token is expired")
	s.Nil(claims)
}

func (s *TokenServiceTestSuite) TestWrongIssuer() {
	other := NewTokenService(&config.JWTConfig{
		Secret:              s.secret,
		Issuer:              "someone-else",
		AccessTokenDuration: time.Hour,
	})

	token, _, err := other.GenerateAccessToken(s.user)
	s.Require().NoError(err)

	claims, err := s.service.ValidateAccessToken(token)
	s.ErrorIs(err, ErrInvalidIssuer)
	s.Nil(claims)
}

func (s *TokenServiceTestSuite) TestDifferentSecrets() {
	otherSecret, err := config.GenerateSecret(32)
	s.Require().NoError(err)

	other := NewTokenService(&config.JWTConfig{
		Secret:              otherSecret,
		Issuer:              s.issuer,
		AccessTokenDuration: time.Hour,
	})

	token, _, err := other.GenerateAccessToken(s.user)
	s.Require().NoError(err)

	claims, err := s.service.ValidateAccessToken(token)
	s.ErrorIs(err, ErrInvalidToken)
	s.Nil(claims)
}

func (s *TokenServiceTestSuite) TestRejectsNonHMACAlgorithm() {
	claims := models.CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: s.user.ID.String(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	s.Require().NoError(err)

	parsed, err := s.service.ValidateAccessToken(token)
	s.ErrorIs(err, ErrInvalidToken)
	s.Nil(parsed)
}

func (s *TokenServiceTestSuite) TestRejectsMalformedUserID() {
	claims := models.CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: "not-a-uuid",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	s.Require().NoError(err)

	parsed, err := s.service.ValidateAccessToken(token)
	s.ErrorIs(err, ErrInvalidToken)
	s.Nil(parsed)
}

func (s *TokenServiceTestSuite) TestExtractTokenFromHeader_ValidBearer() {
	token, err := s.service.ExtractTokenFromHeader("Bearer abc.def.ghi")
	s.NoError(err)
	s.Equal("abc.def.ghi", token)
}

func (s *TokenServiceTestSuite) TestExtractTokenFromHeader_LowercaseBearer() {
	token, err := s.service.ExtractTokenFromHeader("bearer abc.def.ghi")
	s.NoError(err)
	s.Equal("abc.def.ghi", token)
}

func (s *TokenServiceTestSuite) TestExtractTokenFromHeader_NoBearer() {
	_, err := s.service.ExtractTokenFromHeader("abc.def.ghi")
	s.ErrorIs(err, ErrInvalidAuthHeader)
}

func (s *TokenServiceTestSuite) TestExtractTokenFromHeader_Empty() {
	_, err := s.service.ExtractTokenFromHeader("")
	s.ErrorIs(err, ErrInvalidAuthHeader)
}

func (s *TokenServiceTestSuite) TestExtractTokenFromHeader_BearerSpaceOnly() {
	_, err := s.service.ExtractTokenFromHeader("Bearer    ")
	s.ErrorIs(err, ErrInvalidAuthHeader)
}

func BenchmarkTokenService_ValidateAccessToken(b *testing.B) {
	secret, _ := config.GenerateSecret(32)
	service := NewTokenService(&config.JWTConfig{
		Secret:              secret,
		Issuer:              "bench",
		AccessTokenDuration: time.Hour,
	})
	token, _, _ := service.GenerateAccessToken(&models.User{ID: uuid.New(), Email: "bench@example.com"})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = service.ValidateAccessToken(token)
	}
}
