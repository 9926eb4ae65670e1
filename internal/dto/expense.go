package dto

import "budget-tracker/internal/models"

// Expense Request DTOs

// CreateExpenseRequest logs a spend against a budget. Amount is in minor units.
type CreateExpenseRequest struct {
	BudgetID    string `json:"budgetId" validate:"required,uuid"`
	ExpenseName string `json:"expenseName" validate:"required,not_blank,max=255"`
	Amount      int64  `json:"amount" validate:"required,positive_amount"`
}

type UpdateExpenseRequest struct {
	ExpenseName *string `json:"expenseName" validate:"omitempty,not_blank,max=255"`
	Amount      *int64  `json:"amount" validate:"omitempty,gt=0"`
}

// Expense Response DTOs

type ExpenseResponse struct {
	Expense *models.Expense `json:"expense"`
	Message string          `json:"message,omitempty"`
}

type ExpenseListResponse struct {
	Expenses []models.Expense `json:"expenses"`
	Total    int              `json:"total"`
}
