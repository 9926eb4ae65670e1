package handlers

import (
	stderrors "errors"
	"net/http"
	"strings"

	"budget-tracker/internal/dto"
	"budget-tracker/internal/errors"
	"budget-tracker/internal/repositories"
	"budget-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// BudgetHandler handles budget CRUD endpoints
type BudgetHandler struct {
	budgetService  services.BudgetServiceInterface
	expenseService services.ExpenseServiceInterface
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(budgetService services.BudgetServiceInterface, expenseService services.ExpenseServiceInterface) *BudgetHandler {
	return &BudgetHandler{
		budgetService:  budgetService,
		expenseService: expenseService,
	}
}

// CreateBudget creates a budget for the caller
// @Summary Create budget
// @Tags Budgets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateBudgetRequest true "Budget"
// @Success 201 {object} dto.BudgetResponse
// @Failure 400 {object} errors.ErrorResponse "Validation error - VALIDATION_001"
// @Router /api/budget/create [post]
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	budget, err := h.budgetService.CreateBudget(c.Request().Context(), userID, &req)
	if err != nil {
		return h.budgetError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.BudgetResponse{
		Budget:  budget,
		Message: "Budget created successfully",
	})
}

// ListBudgets returns every budget of the caller
// @Summary List budgets
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.BudgetListResponse
// @Router /api/budget/all [get]
func (h *BudgetHandler) ListBudgets(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgets, err := h.budgetService.ListBudgets(c.Request().Context(), userID)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.BudgetListResponse{
		Budgets: budgets,
		Total:   len(budgets),
	})
}

// GetBudget returns one budget
// @Summary Get budget
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} dto.BudgetResponse
// @Failure 404 {object} errors.ErrorResponse "Budget not found - BUDGET_001"
// @Router /api/budget/{id} [get]
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgetID, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, errors.BudgetInvalidID)
	}

	budget, err := h.budgetService.GetBudget(c.Request().Context(), userID, budgetID)
	if err != nil {
		return h.budgetError(c, err)
	}

	return c.JSON(http.StatusOK, dto.BudgetResponse{Budget: budget})
}

// ListBudgetExpenses returns the expenses logged against one budget
// @Summary List budget expenses
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} dto.ExpenseListResponse
// @Router /api/budget/{id}/expenses [get]
func (h *BudgetHandler) ListBudgetExpenses(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgetID, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, errors.BudgetInvalidID)
	}

	expenses, err := h.expenseService.ListBudgetExpenses(c.Request().Context(), userID, budgetID)
	if err != nil {
		return h.budgetError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ExpenseListResponse{
		Expenses: expenses,
		Total:    len(expenses),
	})
}

// UpdateBudget renames a budget or changes its limit
// @Summary Update budget
// @Tags Budgets
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param request body dto.UpdateBudgetRequest true "Changes"
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} errors.ErrorResponse "Nothing to update - BUDGET_004"
// @Failure 404 {object} errors.ErrorResponse "Budget not found - BUDGET_001"
// @Router /api/budget/update/{id} [put]
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgetID, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, errors.BudgetInvalidID)
	}

	var req dto.UpdateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	update := repositories.BudgetUpdate{BudgetLimit: req.BudgetLimit}
	if req.BudgetCategory != nil {
		category := strings.TrimSpace(*req.BudgetCategory)
		update.BudgetCategory = &category
	}

	budget, err := h.budgetService.UpdateBudget(c.Request().Context(), userID, budgetID, update)
	if err != nil {
		return h.budgetError(c, err)
	}

	return c.JSON(http.StatusOK, dto.BudgetResponse{
		Budget:  budget,
		Message: "Budget updated successfully",
	})
}

// DeleteBudget removes a budget together with its expenses
// @Summary Delete budget
// @Tags Budgets
// @Security BearerAuth
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} SuccessResponse{message=string}
// @Failure 404 {object} errors.ErrorResponse "Budget not found - BUDGET_001"
// @Router /api/budget/delete/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	budgetID, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, errors.BudgetInvalidID)
	}

	if err := h.budgetService.DeleteBudget(c.Request().Context(), userID, budgetID); err != nil {
		return h.budgetError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Budget deleted successfully",
	})
}

func (h *BudgetHandler) budgetError(c echo.Context, err error) error {
	switch {
	case stderrors.Is(err, services.ErrBudgetNotFound):
		return SendError(c, errors.BudgetNotFound)
	case stderrors.Is(err, services.ErrNothingToUpdate):
		return SendError(c, errors.BudgetNoChanges)
	case stderrors.Is(err, services.ErrInvalidBudget):
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	default:
		return SendSystemError(c, err)
	}
}
