package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

// PasswordServiceTestSuite defines the test suite for PasswordService
type PasswordServiceTestSuite struct {
	suite.Suite
	service PasswordServiceInterface
}

// SetupTest runs before each test
func (s *PasswordServiceTestSuite) SetupTest() {
	s.service = NewPasswordService(bcrypt.MinCost)
}

// TestPasswordServiceSuite runs the test suite
func TestPasswordServiceSuite(t *testing.T) {
	suite.Run(t, new(PasswordServiceTestSuite))
}

func (s *PasswordServiceTestSuite) TestValidatePassword_ValidPassword() {
	s.NoError(s.service.ValidatePassword("budget2024"))
}

func (s *PasswordServiceTestSuite) TestValidatePassword_TooShort() {
	err := s.service.ValidatePassword("abc123")
	s.ErrorIs(err, ErrPasswordTooShort)
	s.Contains(err.Error(), "password must be at least 8 characters")
}

func (s *PasswordServiceTestSuite) TestValidatePassword_TooLong() {
	err := s.service.ValidatePassword(strings.Repeat("a1", 37))
	s.ErrorIs(err, ErrPasswordTooLong)
}

func (s *PasswordServiceTestSuite) TestValidatePassword_MissingLetter() {
	s.ErrorIs(s.service.ValidatePassword("1234567890"), ErrPasswordNoLetter)
}

func (s *PasswordServiceTestSuite) TestValidatePassword_MissingNumber() {
	s.ErrorIs(s.service.ValidatePassword("onlyletters"), ErrPasswordNoNumber)
}

func (s *PasswordServiceTestSuite) TestValidatePassword_Empty() {
	s.ErrorIs(s.service.ValidatePassword(""), ErrPasswordEmpty)
}

func (s *PasswordServiceTestSuite) TestValidatePassword_MinimumValid() {
	s.NoError(s.service.ValidatePassword("abcdefg1"))
}

func (s *PasswordServiceTestSuite) TestHashPassword_ValidPassword() {
	hash, err := s.service.HashPassword("budget2024")
	s.NoError(err)
	s.NotEmpty(hash)
	s.NotEqual("budget2024", hash)
	s.True(strings.HasPrefix(hash, "$2a$"))
}

func (s *PasswordServiceTestSuite) TestHashPassword_InvalidPassword() {
	hash, err := s.service.HashPassword("short")
	s.Error(err)
	s.Empty(hash)
	s.Contains(err.Error(), "password validation failed")
}

func (s *PasswordServiceTestSuite) TestComparePassword_CorrectPassword() {
	hash, err := s.service.HashPassword("budget2024")
	s.Require().NoError(err)
	s.True(s.service.ComparePassword("budget2024", hash))
}

func (s *PasswordServiceTestSuite) TestComparePassword_IncorrectPassword() {
	hash, err := s.service.HashPassword("budget2024")
	s.Require().NoError(err)
	s.False(s.service.ComparePassword("budget2025", hash))
}

func (s *PasswordServiceTestSuite) TestComparePassword_InvalidHash() {
	s.False(s.service.ComparePassword("budget2024", "not-a-hash"))
	s.False(s.service.ComparePassword("budget2024", ""))
}

func (s *PasswordServiceTestSuite) TestComparePassword_CaseSensitive() {
	hash, err := s.service.HashPassword("Budget2024")
	s.Require().NoError(err)
	s.False(s.service.ComparePassword("budget2024", hash))
}

func (s *PasswordServiceTestSuite) TestHashUniqueness() {
	hash1, err := s.service.HashPassword("budget2024")
	s.Require().NoError(err)
	hash2, err := s.service.HashPassword("budget2024")
	s.Require().NoError(err)

	s.NotEqual(hash1, hash2)
	s.True(s.service.ComparePassword("budget2024", hash1))
	s.True(s.service.ComparePassword("budget2024", hash2))
}

func TestNewPasswordService_OutOfRangeCostUsesDefault(t *testing.T) {
	ps := NewPasswordService(100).(*PasswordService)
	if ps.cost != DefaultBCryptCost {
		t.Fatalf("expected cost %d, got %d", DefaultBCryptCost, ps.cost)
	}
}
