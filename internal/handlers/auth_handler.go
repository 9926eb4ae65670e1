package handlers

import (
	stderrors "errors"
	"net/http"
	"time"

	"budget-tracker/internal/config"
	"budget-tracker/internal/dto"
	"budget-tracker/internal/errors"
	"budget-tracker/internal/models"
	"budget-tracker/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService  services.AuthServiceInterface
	cookieName   string
	allowCookie  bool
	secureCookie bool
}

// NewAuthHandler creates a new authentication handler. When the JWT config
// allows it, login also sets the access token as an HttpOnly cookie.
func NewAuthHandler(authService services.AuthServiceInterface, jwtConfig config.JWTConfig, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieName:   jwtConfig.CookieName,
		allowCookie:  jwtConfig.AllowCookie && jwtConfig.CookieName != "",
		secureCookie: secureCookie,
	}
}

// Register handles user sign-up
// @Summary Register a new user
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration details"
// @Success 201 {object} SuccessResponse{data=dto.UserProfileResponse} "User created successfully"
// @Failure 400 {object} errors.ErrorResponse "Email address already taken - USER_002"
// @Failure 403 {object} errors.ErrorResponse "Missing fields - USER_003"
// @Failure 500 {object} errors.ErrorResponse "System error - SYSTEM_001"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest

	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		if hasMissingField(err) {
			return SendError(c, errors.UserRegistrationInvalid)
		}
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), &req)
	if err != nil {
		if stderrors.Is(err, services.ErrUserAlreadyExists) {
			return SendError(c, errors.UserAlreadyExists)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    toProfile(user),
		Message: "User registered successfully",
	})
}

// Login handles user authentication
// @Summary Login user
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse "Login successful"
// @Failure 401 {object} errors.ErrorResponse "Invalid credentials - AUTH_001"
// @Failure 500 {object} errors.ErrorResponse "System error - SYSTEM_001"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest

	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	user, token, err := h.authService.Login(c.Request().Context(), &req)
	if err != nil {
		if stderrors.Is(err, services.ErrInvalidCredentials) {
			return SendError(c, errors.AuthInvalidCredentials)
		}
		return SendSystemError(c, err)
	}

	if h.allowCookie {
		c.SetCookie(h.cookie(token.AccessToken, token.ExpiresAt))
	}

	return c.JSON(http.StatusOK, dto.LoginResponse{
		UserProfileResponse: toProfile(user),
		Token:               *token,
	})
}

// Logout clears the access token cookie. Bearer tokens simply expire.
// @Summary Logout user
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse{message=string} "Logout successful"
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if h.allowCookie {
		expired := h.cookie("", time.Unix(0, 0))
		expired.MaxAge = -1
		c.SetCookie(expired)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Logout successful",
	})
}

// Me returns the authenticated user's profile
// @Summary Current user
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UserProfileResponse
// @Failure 401 {object} errors.ErrorResponse "Unauthorized - AUTH_002"
// @Failure 404 {object} errors.ErrorResponse "User not found - USER_001"
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	user, err := h.authService.GetProfile(c.Request().Context(), userID)
	if err != nil {
		if stderrors.Is(err, services.ErrUserNotFound) {
			return SendError(c, errors.UserNotFound)
		}
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, toProfile(user))
}

func (h *AuthHandler) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func toProfile(user *models.User) dto.UserProfileResponse {
	return dto.UserProfileResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CreatedAt: user.CreatedAt,
	}
}

// hasMissingField reports whether validation failed because a field was absent or blank
func hasMissingField(err error) bool {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return false
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" || fe.Tag() == "not_blank" {
			return true
		}
	}
	return false
}
