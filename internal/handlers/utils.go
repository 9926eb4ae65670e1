package handlers

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ErrUnauthorized is returned when user context is invalid
var ErrUnauthorized = fmt.Errorf("unauthorized")

// UserIDContextKey is where RequireAuth stores the authenticated user's ID
const UserIDContextKey = "user_id"

// Helper function to extract user ID from context
// Returns ErrUnauthorized if user ID is missing or invalid
func getUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	userIDValue := c.Get(UserIDContextKey)
	if userIDValue == nil {
		return uuid.UUID{}, ErrUnauthorized
	}

	userID, ok := userIDValue.(uuid.UUID)
	if !ok {
		return uuid.UUID{}, ErrUnauthorized
	}

	return userID, nil
}

// parseIDParam reads a UUID path parameter
func parseIDParam(c echo.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.UUID{}, false
	}
	return id, true
}

func getBoolParam(c echo.Context, name string, defaultValue bool) bool {
	param := c.QueryParam(name)
	if param == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(param)
	if err != nil {
		return defaultValue
	}

	return value
}
