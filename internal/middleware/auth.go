package middleware

import (
	stderrors "errors"

	"budget-tracker/internal/errors"
	"budget-tracker/internal/handlers"
	"budget-tracker/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequireAuth creates a middleware that requires a valid JWT token. The token
// is read from the Authorization header and, when cookieName is set, from
// that cookie as a fallback.
func RequireAuth(tokenService services.TokenServiceInterface, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, code, ok := extractToken(c, tokenService, cookieName)
			if !ok {
				return handlers.SendError(c, code)
			}

			claims, err := tokenService.ValidateAccessToken(token)
			if err != nil {
				if stderrors.Is(err, services.ErrExpiredToken) {
					return handlers.SendError(c, errors.AuthExpiredToken)
				}
				return handlers.SendError(c, errors.AuthInvalidTokenFormat)
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return handlers.SendError(c, errors.AuthInvalidTokenFormat, errors.WithDetails("Invalid user ID in token"))
			}

			c.Set(handlers.UserIDContextKey, userID)
			c.Set("user_email", claims.Email)

			return next(c)
		}
	}
}

func extractToken(c echo.Context, tokenService services.TokenServiceInterface, cookieName string) (string, errors.ErrorCode, bool) {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		token, err := tokenService.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return "", errors.AuthInvalidTokenFormat, false
		}
		return token, "", true
	}

	if cookieName != "" {
		if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
			return cookie.Value, "", true
		}
	}

	return "", errors.AuthMissingToken, false
}
