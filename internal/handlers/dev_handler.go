package handlers

import (
	"net/http"
	"time"

	"budget-tracker/internal/dto"
	"budget-tracker/internal/errors"
	"budget-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// DevHandler handles development-only endpoints
// These endpoints should only be available in development environments
type DevHandler struct {
	seeder        services.DataSeederInterface
	budgetService services.BudgetServiceInterface
	now           func() time.Time
}

// NewDevHandler creates a new development handler
func NewDevHandler(seeder services.DataSeederInterface, budgetService services.BudgetServiceInterface) *DevHandler {
	return &DevHandler{
		seeder:        seeder,
		budgetService: budgetService,
		now:           time.Now,
	}
}

// SeedData fills the caller's current year with demo budgets and expenses
//
// Method: POST /api/dev/seed
// Authentication: Required
// Environment: Development only
//
// Success Response: 201 Created
//   - message: Success message
//   - data: number of budgets and expenses created
//
// Error Responses:
//   - 401: Unauthorized
//   - 500: Internal server error (partial counts are still logged)
func (h *DevHandler) SeedData(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	result, err := h.seeder.SeedUser(c.Request().Context(), userID, h.now())
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:    result,
		Message: "Demo data generated successfully",
	})
}

// Reconcile lists budgets whose amount_spent disagrees with their expenses
//
// Method: GET /api/dev/reconcile
// Authentication: Required
// Environment: Development only
//
// Query parameters:
//   - fix: when true, reset each drifted amount_spent to the expense sum (default: false)
func (h *DevHandler) Reconcile(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	fix := getBoolParam(c, "fix", false)

	drift, err := h.budgetService.ReconcileSpend(c.Request().Context(), userID, fix)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ReconcileResponse{
		Drift: drift,
		Fixed: fix && len(drift) > 0,
	})
}
