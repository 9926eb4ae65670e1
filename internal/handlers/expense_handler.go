package handlers

import (
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"budget-tracker/internal/dto"
	"budget-tracker/internal/errors"
	"budget-tracker/internal/repositories"
	"budget-tracker/internal/services"
	"budget-tracker/internal/timewindow"

	"github.com/labstack/echo/v4"
)

// ExpenseHandler handles expense endpoints and the monthly budgets feed
type ExpenseHandler struct {
	expenseService services.ExpenseServiceInterface
	reportService  services.ReportServiceInterface
	now            func() time.Time
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService services.ExpenseServiceInterface, reportService services.ReportServiceInterface) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		reportService:  reportService,
		now:            time.Now,
	}
}

// CreateExpense logs a spend against a budget
// @Summary Create expense
// @Tags Expenses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateExpenseRequest true "Expense"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} errors.ErrorResponse "Validation error - VALIDATION_001"
// @Failure 404 {object} errors.ErrorResponse "Budget not found - BUDGET_001"
// @Router /api/expense/create [post]
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	expense, err := h.expenseService.CreateExpense(c.Request().Context(), userID, &req)
	if err != nil {
		return h.expenseError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.ExpenseResponse{
		Expense: expense,
		Message: "Expense created successfully",
	})
}

// GetExpense returns one expense
// @Summary Get expense
// @Tags Expenses
// @Security BearerAuth
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} errors.ErrorResponse "Expense not found - EXPENSE_001"
// @Router /api/expense/{id} [get]
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	expenseID, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, errors.ExpenseInvalidID)
	}

	expense, err := h.expenseService.GetExpense(c.Request().Context(), userID, expenseID)
	if err != nil {
		return h.expenseError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ExpenseResponse{Expense: expense})
}

// UpdateExpense edits the name or amount of an expense
// @Summary Update expense
// @Tags Expenses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param request body dto.UpdateExpenseRequest true "Changes"
// @Success 200 {object} dto.ExpenseResponse
// @Router /api/expense/update/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	expenseID, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, errors.ExpenseInvalidID)
	}

	var req dto.UpdateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	update := repositories.ExpenseUpdate{Amount: req.Amount}
	if req.ExpenseName != nil {
		name := strings.TrimSpace(*req.ExpenseName)
		update.ExpenseName = &name
	}

	expense, err := h.expenseService.UpdateExpense(c.Request().Context(), userID, expenseID, update)
	if err != nil {
		return h.expenseError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ExpenseResponse{
		Expense: expense,
		Message: "Expense updated successfully",
	})
}

// DeleteExpense removes an expense and gives its amount back to the budget
// @Summary Delete expense
// @Tags Expenses
// @Security BearerAuth
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} SuccessResponse{message=string}
// @Router /api/expense/delete/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	expenseID, ok := parseIDParam(c, "id")
	if !ok {
		return SendError(c, errors.ExpenseInvalidID)
	}

	if err := h.expenseService.DeleteExpense(c.Request().Context(), userID, expenseID); err != nil {
		return h.expenseError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "Expense deleted successfully",
	})
}

// MonthlyBudgets is the dashboard feed: this month's spend per category
// joined with the matching budget.
// @Summary Monthly budgets
// @Tags Expenses
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.MonthlyBudgetsResponse
// @Router /api/expense/monthly [get]
func (h *ExpenseHandler) MonthlyBudgets(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	now := h.now()
	report, err := h.reportService.GetMonthlyReport(c.Request().Context(), userID, now)
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, dto.MonthlyBudgetsResponse{
		Month:   timewindow.MonthLabel(now),
		Budgets: report.Budgets,
	})
}

func (h *ExpenseHandler) expenseError(c echo.Context, err error) error {
	switch {
	case stderrors.Is(err, services.ErrExpenseNotFound):
		return SendError(c, errors.ExpenseNotFound)
	case stderrors.Is(err, services.ErrBudgetNotFound):
		return SendError(c, errors.BudgetNotFound)
	case stderrors.Is(err, services.ErrNothingToUpdate):
		return SendError(c, errors.ExpenseNoChanges)
	case stderrors.Is(err, services.ErrInvalidExpense):
		return SendError(c, errors.ValidationGeneral, errors.WithDetails(err.Error()))
	default:
		return SendSystemError(c, err)
	}
}
